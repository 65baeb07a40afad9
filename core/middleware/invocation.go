// Package middleware wraps tool handlers with cross-cutting behavior.
package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-customers/core"
	"github.com/theapemachine/mcp-server-customers/pkg/metrics"
)

// Middleware decorates the handler registered under name
type Middleware func(name string, next core.HandlerFunc) core.HandlerFunc

type invocationKey struct{}

// InvocationID returns the id assigned to the current tool call, if any
func InvocationID(ctx context.Context) string {
	id, _ := ctx.Value(invocationKey{}).(string)
	return id
}

// Chain applies mws so the first one is outermost
func Chain(name string, handler core.HandlerFunc, mws ...Middleware) core.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](name, handler)
	}

	return handler
}

/*
Invocation tags each call with an id, logs its start and finish, and records
its outcome. A returned Go error, a nil result or a panic in the wrapped
handler all come back as an MCP error result, so the dispatcher never sees a
failure.
*/
func Invocation(logger *log.Logger, recorder *metrics.Recorder) Middleware {
	if logger == nil {
		logger = log.Default()
	}

	return func(name string, next core.HandlerFunc) core.HandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
			id := uuid.NewString()
			ctx = context.WithValue(ctx, invocationKey{}, id)
			l := logger.With("tool", name, "invocation", id)
			started := time.Now()

			l.Debug("Tool call started", "args", len(request.Params.Arguments))

			defer func() {
				if r := recover(); r != nil {
					l.Error("Tool handler panicked", "panic", r)
					result = mcp.NewToolResultError(fmt.Sprintf("Internal error while running %s", name))
				}

				err = nil
				outcome := "ok"

				if result.IsError {
					outcome = "error"
				}

				elapsed := time.Since(started)
				recorder.ObserveTool(name, outcome, elapsed)
				l.Info("Tool call finished", "outcome", outcome, "duration", elapsed)
			}()

			result, err = next(ctx, request)

			if err != nil {
				l.Error("Tool handler failed", "err", err)
				result = mcp.NewToolResultError(fmt.Sprintf("Error: %v", err))
			}

			if result == nil {
				result = mcp.NewToolResultError(fmt.Sprintf("Internal error while running %s", name))
			}

			return result, nil
		}
	}
}
