// Package core holds the contract every MCP tool in this server satisfies.
package core

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is an MCP tool: its protocol definition and the handler that serves it
type Tool interface {
	Handle() mcp.Tool
	Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// HandlerFunc is the signature mcp-go dispatches tool calls to
type HandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
