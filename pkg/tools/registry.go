package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/theapemachine/mcp-server-customers/core"
	"github.com/theapemachine/mcp-server-customers/core/middleware"
)

type binding struct {
	tool    core.Tool
	handler core.HandlerFunc
}

// Registry manages tool registration and dispatch
type Registry struct {
	mu         sync.RWMutex
	server     *server.MCPServer
	tools      map[string]binding
	middleware []middleware.Middleware
}

// NewRegistry creates a registry that publishes tools on mcpServer. A nil
// server keeps the registry in-process only.
func NewRegistry(mcpServer *server.MCPServer, mws ...middleware.Middleware) *Registry {
	return &Registry{
		server:     mcpServer,
		tools:      make(map[string]binding),
		middleware: mws,
	}
}

// Register binds tool under its handle name and adds it to the server
func (r *Registry) Register(tool core.Tool) error {
	handle := tool.Handle()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[handle.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, handle.Name)
	}

	handler := middleware.Chain(handle.Name, tool.Handler, r.middleware...)
	r.tools[handle.Name] = binding{tool: tool, handler: handler}

	if r.server != nil {
		r.server.AddTool(handle, server.ToolHandlerFunc(handler))
	}

	return nil
}

// RegisterAll registers every tool, stopping at the first failure
func (r *Registry) RegisterAll(tools ...core.Tool) error {
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return err
		}
	}

	return nil
}

// Names returns the registered tool names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Get returns the tool registered under name
func (r *Registry) Get(name string) (core.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.tools[name]

	return b.tool, ok
}

// Call dispatches a request to the named tool through the middleware chain
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	r.mu.RLock()
	b, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	return b.handler(ctx, NewRequest(name, args))
}

// NewRequest builds a tool call request for name with args
func NewRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	return request
}
