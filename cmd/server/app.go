package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/theapemachine/mcp-server-customers/core/middleware"
	"github.com/theapemachine/mcp-server-customers/pkg/config"
	"github.com/theapemachine/mcp-server-customers/pkg/customer"
	"github.com/theapemachine/mcp-server-customers/pkg/logging"
	"github.com/theapemachine/mcp-server-customers/pkg/metrics"
	"github.com/theapemachine/mcp-server-customers/pkg/store"
	"github.com/theapemachine/mcp-server-customers/pkg/tools"
	"github.com/theapemachine/mcp-server-customers/pkg/tools/customers"
	weathertools "github.com/theapemachine/mcp-server-customers/pkg/tools/weather"
	"github.com/theapemachine/mcp-server-customers/pkg/weather"
)

// app holds the components shared by every subcommand
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	metrics *metrics.Recorder
	manager *store.Manager
}

func loadApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	return newApp(cfg), nil
}

func newApp(cfg *config.Config) *app {
	logger := logging.New(cfg.Log)

	if err := cfg.Validate(); err != nil {
		logger.Warn("Configuration warning", "err", err)
	}

	logging.RedirectStandardLog(logger)

	recorder := metrics.New()

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: recorder,
		manager: store.NewManager(
			cfg.Database,
			store.WithLogger(logger.With("component", "store")),
			store.WithMetrics(recorder),
		),
	}
}

// registerTools publishes every tool on mcpServer, which may be nil for in-process use
func (a *app) registerTools(mcpServer *server.MCPServer) (*tools.Registry, error) {
	registry := tools.NewRegistry(mcpServer, middleware.Invocation(a.logger, a.metrics))

	repository := customer.NewRepository(a.manager, a.logger, a.metrics)
	client := weather.NewClient(
		a.cfg.Weather,
		weather.WithLogger(a.logger),
		weather.WithMetrics(a.metrics),
	)

	all := append(weathertools.Tools(client), customers.Tools(repository)...)

	if err := registry.RegisterAll(all...); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	return registry, nil
}

// initDatabase creates the database and the customers table when absent
func (a *app) initDatabase(ctx context.Context) error {
	if err := a.manager.EnsureDatabase(ctx); err != nil {
		return err
	}

	return store.EnsureSchema(ctx, a.manager)
}
