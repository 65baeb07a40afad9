// Package weather is a client for the US National Weather Service API.
package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/theapemachine/mcp-server-customers/pkg/config"
	"github.com/theapemachine/mcp-server-customers/pkg/metrics"
	"github.com/tidwall/gjson"
)

var (
	// ErrRequest marks a transport failure or a non-2xx response
	ErrRequest = errors.New("weather request failed")
	// ErrNoData marks a response that lacks the expected payload
	ErrNoData = errors.New("weather response has no data")
	// ErrLocation marks a failed lookup of the forecast office for a point
	ErrLocation = errors.New("no forecast for location")
)

// Alert is one active weather alert
type Alert struct {
	Event       string
	Area        string
	Severity    string
	Description string
	Instruction string
}

// Period is one forecast period, e.g. "Tonight"
type Period struct {
	Name             string
	Temperature      string
	TemperatureUnit  string
	WindSpeed        string
	WindDirection    string
	DetailedForecast string
}

// Client fetches alerts and forecasts
type Client struct {
	http    *resty.Client
	logger  *log.Logger
	metrics *metrics.Recorder
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the logger for request diagnostics
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the recorder for request outcomes
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = recorder
	}
}

// NewClient creates a client for the API at cfg.BaseURL
func NewClient(cfg config.Weather, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout).
			SetHeader("User-Agent", cfg.UserAgent).
			SetHeader("Accept", "application/geo+json").
			SetRetryCount(cfg.Retries).
			SetRetryWaitTime(250 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second),
		logger: log.Default(),
	}

	c.http.AddRetryCondition(func(resp *resty.Response, err error) bool {
		return err != nil || resp.StatusCode() >= http.StatusInternalServerError
	})

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With("component", "weather")

	return c
}

// Alerts returns the active alerts for a two-letter US state code
func (c *Client) Alerts(ctx context.Context, state string) ([]Alert, error) {
	state = strings.ToUpper(strings.TrimSpace(state))

	data, err := c.get(ctx, "alerts", "/alerts/active/area/"+url.PathEscape(state))
	if err != nil {
		return nil, err
	}

	features := data.Get("features")
	if !features.IsArray() {
		return nil, fmt.Errorf("%w: alerts for %s", ErrNoData, state)
	}

	alerts := make([]Alert, 0, len(features.Array()))

	features.ForEach(func(_, feature gjson.Result) bool {
		props := feature.Get("properties")
		alerts = append(alerts, Alert{
			Event:       props.Get("event").String(),
			Area:        props.Get("areaDesc").String(),
			Severity:    props.Get("severity").String(),
			Description: props.Get("description").String(),
			Instruction: props.Get("instruction").String(),
		})
		return true
	})

	return alerts, nil
}

// Forecast resolves the forecast office for a point and returns its periods.
// Failures of the point lookup wrap ErrLocation.
func (c *Client) Forecast(ctx context.Context, latitude, longitude float64) ([]Period, error) {
	point := fmt.Sprintf("/points/%s,%s", coordinate(latitude), coordinate(longitude))

	data, err := c.get(ctx, "points", point)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLocation, err)
	}

	forecastURL := data.Get("properties.forecast").String()
	if forecastURL == "" {
		return nil, fmt.Errorf("%w: %w: %s lacks a forecast URL", ErrLocation, ErrNoData, point)
	}

	data, err = c.get(ctx, "forecast", forecastURL)
	if err != nil {
		return nil, err
	}

	raw := data.Get("properties.periods")
	if !raw.IsArray() {
		return nil, fmt.Errorf("%w: forecast periods for %s", ErrNoData, point)
	}

	periods := make([]Period, 0, len(raw.Array()))

	raw.ForEach(func(_, p gjson.Result) bool {
		periods = append(periods, Period{
			Name:             p.Get("name").String(),
			Temperature:      p.Get("temperature").String(),
			TemperatureUnit:  p.Get("temperatureUnit").String(),
			WindSpeed:        p.Get("windSpeed").String(),
			WindDirection:    p.Get("windDirection").String(),
			DetailedForecast: p.Get("detailedForecast").String(),
		})
		return true
	})

	return periods, nil
}

// get fetches path, which may also be an absolute URL, and parses the body
func (c *Client) get(ctx context.Context, endpoint, path string) (gjson.Result, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)

	ok := err == nil && !resp.IsError()
	c.metrics.WeatherRequest(endpoint, ok)

	if err != nil {
		c.logger.Warn("Weather request failed", "endpoint", endpoint, "path", path, "err", err)
		return gjson.Result{}, fmt.Errorf("%w: %s: %w", ErrRequest, endpoint, err)
	}

	if resp.IsError() {
		c.logger.Warn("Weather request rejected", "endpoint", endpoint, "path", path, "status", resp.StatusCode())
		return gjson.Result{}, fmt.Errorf("%w: %s returned %s", ErrRequest, endpoint, resp.Status())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: %s returned invalid JSON", ErrNoData, endpoint)
	}

	return gjson.ParseBytes(body), nil
}

func coordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
