package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools over stdio",
		RunE:  runServe,
	}

	addServeFlags(cmd)

	return cmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("init-db", false, "Create the database and customers table before serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	ctx, stop := withSignals(cmd.Context())
	defer stop()

	if addr := a.cfg.Metrics.Addr; addr != "" {
		go func() {
			a.logger.Info("Serving metrics", "addr", addr)

			if err := a.metrics.Serve(ctx, addr); err != nil {
				a.logger.Error("Metrics server stopped", "err", err)
			}
		}()
	}

	if initDB, _ := cmd.Flags().GetBool("init-db"); initDB {
		if err := a.initDatabase(ctx); err != nil {
			a.logger.Error("Database initialization failed", "err", err)
			return err
		}
	}

	mcpServer := server.NewMCPServer(
		a.cfg.Server.Name,
		a.cfg.Server.Version,
		server.WithLogging(),
	)

	registry, err := a.registerTools(mcpServer)
	if err != nil {
		return err
	}

	a.logger.Info("Server started, waiting for requests...", "tools", registry.Names())

	if err := server.ServeStdio(mcpServer); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	a.logger.Info("Server shutdown complete")

	return nil
}

func withSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
