// Package metrics exposes Prometheus collectors for tool dispatch, the
// connection manager and the weather client.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "customers_mcp"

// Recorder holds every collector. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
	poolOpens       *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
	weatherRequests *prometheus.CounterVec
}

// New creates a Recorder registered on its own registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Tool invocation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		poolOpens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_opens_total",
			Help:      "Per-operation connection pools opened, by outcome.",
		}, []string{"outcome"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Store errors collapsed at the repository boundary, by operation and kind.",
		}, []string{"op", "kind"}),
		weatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_requests_total",
			Help:      "Weather API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
	}

	r.registry.MustRegister(
		r.toolCalls,
		r.toolDuration,
		r.poolOpens,
		r.storeErrors,
		r.weatherRequests,
		collectors.NewGoCollector(),
	)

	return r
}

// ObserveTool records one tool invocation
func (r *Recorder) ObserveTool(tool, result string, elapsed time.Duration) {
	if r == nil {
		return
	}

	r.toolCalls.WithLabelValues(tool, result).Inc()
	r.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// PoolOpened records a pool acquisition attempt
func (r *Recorder) PoolOpened(ok bool) {
	if r == nil {
		return
	}

	r.poolOpens.WithLabelValues(outcome(ok)).Inc()
}

// StoreError records a store failure that was collapsed to an empty result
func (r *Recorder) StoreError(op, kind string) {
	if r == nil {
		return
	}

	r.storeErrors.WithLabelValues(op, kind).Inc()
}

// WeatherRequest records one call against the weather API
func (r *Recorder) WeatherRequest(endpoint string, ok bool) {
	if r == nil {
		return
	}

	r.weatherRequests.WithLabelValues(endpoint, outcome(ok)).Inc()
}

// Handler returns the HTTP handler serving the registry
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}

	return nil
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}

	return "error"
}
