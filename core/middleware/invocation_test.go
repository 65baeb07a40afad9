package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/mcp-server-customers/core"
	"github.com/theapemachine/mcp-server-customers/pkg/metrics"
)

func text(result *mcp.CallToolResult) string {
	var b strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func scrape(recorder *metrics.Recorder) string {
	rec := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestInvocation(t *testing.T) {
	Convey("Given a logger, a recorder and the invocation middleware", t, func() {
		var buf bytes.Buffer
		logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
		recorder := metrics.New()
		mw := Invocation(logger, recorder)

		Convey("A successful handler passes its result through", func() {
			var seen string
			handler := mw("Get-Customer", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				seen = InvocationID(ctx)
				return mcp.NewToolResultText("Customer Details:\n"), nil
			})

			result, err := handler(context.Background(), mcp.CallToolRequest{})

			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)
			So(text(result), ShouldEqual, "Customer Details:\n")
			So(seen, ShouldHaveLength, 36)
			So(buf.String(), ShouldContainSubstring, "Tool call finished")
			So(buf.String(), ShouldContainSubstring, seen)
			So(scrape(recorder), ShouldContainSubstring, `customers_mcp_tool_calls_total{outcome="ok",tool="Get-Customer"} 1`)
		})

		Convey("A returned error becomes an error result", func() {
			handler := mw("Get-Forecast", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return nil, errors.New("upstream unavailable")
			})

			result, err := handler(context.Background(), mcp.CallToolRequest{})

			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(text(result), ShouldEqual, "Error: upstream unavailable")
			So(scrape(recorder), ShouldContainSubstring, `customers_mcp_tool_calls_total{outcome="error",tool="Get-Forecast"} 1`)
		})

		Convey("A panic is recovered into an error result", func() {
			handler := mw("Delete-Customer", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				panic("boom")
			})

			result, err := handler(context.Background(), mcp.CallToolRequest{})

			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(text(result), ShouldEqual, "Internal error while running Delete-Customer")
			So(buf.String(), ShouldContainSubstring, "Tool handler panicked")
		})

		Convey("A nil result is replaced", func() {
			handler := mw("List-Customers", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return nil, nil
			})

			result, err := handler(context.Background(), mcp.CallToolRequest{})

			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
		})

		Convey("A nil recorder is tolerated", func() {
			handler := Invocation(nil, nil)("List-Customers", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText("ok"), nil
			})

			result, err := handler(context.Background(), mcp.CallToolRequest{})

			So(err, ShouldBeNil)
			So(text(result), ShouldEqual, "ok")
		})
	})
}

func TestChain(t *testing.T) {
	Convey("Given two middleware", t, func() {
		var order []string

		tag := func(label string) Middleware {
			return func(name string, next core.HandlerFunc) core.HandlerFunc {
				return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					order = append(order, label)
					return next(ctx, req)
				}
			}
		}

		handler := Chain("tool", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			order = append(order, "handler")
			return mcp.NewToolResultText(""), nil
		}, tag("outer"), tag("inner"))

		_, _ = handler(context.Background(), mcp.CallToolRequest{})

		Convey("The first one runs outermost", func() {
			So(order, ShouldResemble, []string{"outer", "inner", "handler"})
		})
	})
}
