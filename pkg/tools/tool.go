// Package tools provides the shared building blocks for MCP tools and the
// registry that binds them to the server.
package tools

import (
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
)

// Standard errors for consistent error handling
var (
	ErrInvalidParams  = errors.New("invalid parameters")
	ErrToolNotFound   = errors.New("tool not found")
	ErrDuplicateTool  = errors.New("tool already registered")
	ErrExternalAPI    = errors.New("external API error")
	ErrInternalError  = errors.New("internal server error")
	ErrNotImplemented = errors.New("operation not implemented")
)

// BaseTool provides common functionality for all tools
type BaseTool struct {
	handle mcp.Tool
}

// NewBaseTool creates a new BaseTool around the given MCP tool definition
func NewBaseTool(handle mcp.Tool) *BaseTool {
	return &BaseTool{
		handle: handle,
	}
}

// Handle returns the MCP Tool definition
func (b *BaseTool) Handle() mcp.Tool {
	return b.handle
}

// Name returns the name of the tool
func (b *BaseTool) Name() string {
	return b.handle.Name
}

// NewErrorResult creates a standard error result
func NewErrorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

// NewTextResult creates a standard text result
func NewTextResult(text string) *mcp.CallToolResult {
	return mcp.NewToolResultText(text)
}

// ResultText concatenates the text content of a result
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var text string

	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			text += c.Text
		case *mcp.TextContent:
			text += c.Text
		}
	}

	return text
}
