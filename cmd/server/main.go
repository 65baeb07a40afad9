// Command server runs the customers MCP server over stdio.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "customers-mcp",
		Short:        "MCP server for weather lookups and customer records",
		Long:         "Serves weather and customer tools to MCP clients over stdio. Running without a subcommand is the same as 'serve'.",
		Version:      version,
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.PersistentFlags().String("config", "", "Path to a YAML, TOML or JSON config file")
	addServeFlags(root)

	root.AddCommand(newServeCmd())
	root.AddCommand(newInitDBCmd())

	return root
}
