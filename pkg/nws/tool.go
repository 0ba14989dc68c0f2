package nws

import (
	"context"
	"encoding/json"
	"strings"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	client "github.com/mutablelogic/go-client"
	"github.com/weatherlab/go-weather-mcp/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// AlertsRequest defines the input for the alerts tool
type AlertsRequest struct {
	State string `json:"state" jsonschema:"Two-letter US state code (e.g. CA, NY)"`
}

// ForecastRequest defines the input for the forecast tool
type ForecastRequest struct {
	Latitude  float64 `json:"latitude" jsonschema:"Latitude of the location"`
	Longitude float64 `json:"longitude" jsonschema:"Longitude of the location"`
}

type getAlerts struct {
	client *Client
}

type getForecast struct {
	client  *Client
	periods int
}

var _ tool.Tool = (*getAlerts)(nil)
var _ tool.Tool = (*getForecast)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// DefaultForecastPeriods is the number of upcoming forecast periods
	// returned when not configured otherwise
	DefaultForecastPeriods = 5

	// blockSeparator joins formatted alert and forecast blocks
	blockSeparator = "\n---\n"
)

// Failure sentinels. The tool result channel is text-only, so every
// upstream failure resolves to one of these rather than an error.
const (
	msgUnableAlerts       = "Unable to fetch alerts or no alerts found."
	msgNoActiveAlerts     = "No active alerts for this state."
	msgUnableForecastGrid = "Unable to fetch forecast data for this location."
	msgUnableForecast     = "Unable to fetch detailed forecast."
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTools returns the weather tools with default settings
func NewTools(opts ...client.ClientOpt) ([]tool.Tool, error) {
	// Create a client
	client, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return []tool.Tool{
		NewAlertsTool(client),
		NewForecastTool(client, DefaultForecastPeriods),
	}, nil
}

// NewAlertsTool returns the alerts tool backed by the given client
func NewAlertsTool(client *Client) tool.Tool {
	return &getAlerts{client: client}
}

// NewForecastTool returns the forecast tool backed by the given client,
// formatting at most the given number of upcoming periods
func NewForecastTool(client *Client, periods int) tool.Tool {
	if periods < 1 {
		periods = DefaultForecastPeriods
	}
	return &getForecast{client: client, periods: periods}
}

///////////////////////////////////////////////////////////////////////////////
// ALERTS

func (*getAlerts) Name() string {
	return "get_alerts"
}

func (*getAlerts) Description() string {
	return "Get weather alerts for a US state."
}

// Return the JSON schema for the tool input
func (*getAlerts) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[AlertsRequest](nil)
}

// Run the tool with the given input
func (a *getAlerts) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var req AlertsRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return msgUnableAlerts, nil
		}
	}

	// A malformed state code still yields text, never a fault
	state := strings.ToUpper(strings.TrimSpace(req.State))
	if !isStateCode(state) {
		return msgUnableAlerts, nil
	}

	alerts, err := a.client.Alerts(ctx, state)
	if err != nil {
		return msgUnableAlerts, nil
	}
	if len(alerts.Features) == 0 {
		return msgNoActiveAlerts, nil
	}

	// Format each alert into a readable block, in the order received
	blocks := make([]string, 0, len(alerts.Features))
	for _, feature := range alerts.Features {
		blocks = append(blocks, feature.Properties.Text())
	}
	return strings.Join(blocks, blockSeparator), nil
}

///////////////////////////////////////////////////////////////////////////////
// FORECAST

func (*getForecast) Name() string {
	return "get_forecast"
}

func (*getForecast) Description() string {
	return "Get weather forecast for a location."
}

// Return the JSON schema for the tool input
func (*getForecast) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[ForecastRequest](nil)
}

// Run the tool with the given input
func (f *getForecast) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var req ForecastRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return msgUnableForecastGrid, nil
		}
	}

	// First resolve the coordinate to its gridpoint forecast URL
	points, err := f.client.Points(ctx, req.Latitude, req.Longitude)
	if err != nil || points.Properties.Forecast == "" {
		return msgUnableForecastGrid, nil
	}

	// Then fetch the forecast itself
	forecast, err := f.client.Forecast(ctx, points.Properties.Forecast)
	if err != nil {
		return msgUnableForecast, nil
	}

	// Format the upcoming periods, in upstream order
	periods := forecast.Properties.Periods
	if len(periods) > f.periods {
		periods = periods[:f.periods]
	}
	blocks := make([]string, 0, len(periods))
	for _, period := range periods {
		blocks = append(blocks, period.Text())
	}
	return strings.Join(blocks, blockSeparator), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// isStateCode reports whether s is two ASCII letters, which keeps the
// upstream URL path well-formed. Upstream decides whether the code is real.
func isStateCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
