// Package weather exposes National Weather Service lookups as MCP tools.
package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-customers/core"
	"github.com/theapemachine/mcp-server-customers/pkg/tools"
	"github.com/theapemachine/mcp-server-customers/pkg/tools/utils"
	"github.com/theapemachine/mcp-server-customers/pkg/weather"
)

const (
	AlertsName   = "Get-Weather-Alerts"
	ForecastName = "Get-Forecast"

	forecastPeriods = 5
	separator       = "\n---\n"
)

// Source is the subset of the weather client the tools depend on
type Source interface {
	Alerts(ctx context.Context, state string) ([]weather.Alert, error)
	Forecast(ctx context.Context, latitude, longitude float64) ([]weather.Period, error)
}

// Tools returns both weather tools bound to source
func Tools(source Source) []core.Tool {
	return []core.Tool{
		NewAlertsTool(source),
		NewForecastTool(source),
	}
}

type AlertsTool struct {
	*tools.BaseTool
	source Source
}

func NewAlertsTool(source Source) *AlertsTool {
	return &AlertsTool{
		BaseTool: tools.NewBaseTool(mcp.NewTool(
			AlertsName,
			mcp.WithDescription("Get weather alerts for a US state"),
			mcp.WithString(
				"state",
				mcp.Required(),
				mcp.Description("Two-letter US state code (e.g. CA, NY)"),
			),
		)),
		source: source,
	}
}

func (tool *AlertsTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := utils.GetRequiredStringParam(request, "state")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	alerts, err := tool.source.Alerts(ctx, state)
	if err != nil {
		return tools.NewTextResult("Unable to fetch alerts or no alerts found."), nil
	}

	if len(alerts) == 0 {
		return tools.NewTextResult("No active alerts for this state."), nil
	}

	blocks := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		blocks = append(blocks, formatAlert(alert))
	}

	return tools.NewTextResult(strings.Join(blocks, separator)), nil
}

type ForecastTool struct {
	*tools.BaseTool
	source Source
}

func NewForecastTool(source Source) *ForecastTool {
	return &ForecastTool{
		BaseTool: tools.NewBaseTool(mcp.NewTool(
			ForecastName,
			mcp.WithDescription("Get weather forecast for a location by coordinates"),
			mcp.WithNumber(
				"latitude",
				mcp.Required(),
				mcp.Description("Latitude of the location"),
			),
			mcp.WithNumber(
				"longitude",
				mcp.Required(),
				mcp.Description("Longitude of the location"),
			),
		)),
		source: source,
	}
}

func (tool *ForecastTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	latitude, err := utils.GetRequiredFloat64Param(request, "latitude")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	longitude, err := utils.GetRequiredFloat64Param(request, "longitude")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	periods, err := tool.source.Forecast(ctx, latitude, longitude)

	switch {
	case errors.Is(err, weather.ErrLocation):
		return tools.NewTextResult("Unable to fetch forecast data for this location."), nil
	case err != nil:
		return tools.NewTextResult("Unable to fetch detailed forecast."), nil
	}

	if len(periods) > forecastPeriods {
		periods = periods[:forecastPeriods]
	}

	blocks := make([]string, 0, len(periods))
	for _, period := range periods {
		blocks = append(blocks, formatPeriod(period))
	}

	return tools.NewTextResult(strings.Join(blocks, separator)), nil
}

func or(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

func formatAlert(alert weather.Alert) string {
	return fmt.Sprintf(
		"Event: %s\nArea: %s\nSeverity: %s\nDescription: %s\nInstructions: %s",
		or(alert.Event, "Unknown"),
		or(alert.Area, "Unknown"),
		or(alert.Severity, "Unknown"),
		or(alert.Description, "No description available"),
		or(alert.Instruction, "No specific instructions provided"),
	)
}

func formatPeriod(period weather.Period) string {
	return fmt.Sprintf(
		"%s:\nTemperature: %s°%s\nWind: %s %s\nForecast: %s",
		period.Name,
		period.Temperature,
		period.TemperatureUnit,
		period.WindSpeed,
		period.WindDirection,
		period.DetailedForecast,
	)
}
