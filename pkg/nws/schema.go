package nws

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// RESPONSE TYPES

// Alerts is the feature collection returned by the active alerts endpoint
type Alerts struct {
	Features []AlertFeature `json:"features"`
}

type AlertFeature struct {
	Properties AlertProperties `json:"properties"`
}

type AlertProperties struct {
	Event       string `json:"event"`
	AreaDesc    string `json:"areaDesc"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Instruction string `json:"instruction"`
}

// Points is the forecast grid metadata for a coordinate pair
type Points struct {
	Properties PointsProperties `json:"properties"`
}

type PointsProperties struct {
	Forecast       string `json:"forecast"`
	ForecastHourly string `json:"forecastHourly,omitempty"`
}

// Forecast is a gridpoint forecast resource
type Forecast struct {
	Properties ForecastProperties `json:"properties"`
}

type ForecastProperties struct {
	Periods []Period `json:"periods"`
}

type Period struct {
	Name             string `json:"name"`
	Temperature      int    `json:"temperature"`
	TemperatureUnit  string `json:"temperatureUnit"`
	WindSpeed        string `json:"windSpeed"`
	WindDirection    string `json:"windDirection"`
	ShortForecast    string `json:"shortForecast"`
	DetailedForecast string `json:"detailedForecast"`
}

///////////////////////////////////////////////////////////////////////////////
// UNMARSHALER

// The API serves application/geo+json, which go-client does not decode
// natively, so each response type decodes its own body
var _ client.Unmarshaler = (*Alerts)(nil)
var _ client.Unmarshaler = (*Points)(nil)
var _ client.Unmarshaler = (*Forecast)(nil)

func (a *Alerts) Unmarshal(_ http.Header, body io.Reader) error {
	return json.NewDecoder(body).Decode(a)
}

func (p *Points) Unmarshal(_ http.Header, body io.Reader) error {
	return json.NewDecoder(body).Decode(p)
}

func (f *Forecast) Unmarshal(_ http.Header, body io.Reader) error {
	return json.NewDecoder(body).Decode(f)
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

// Text formats an alert into a readable block
func (p AlertProperties) Text() string {
	return fmt.Sprintf("\nEvent: %s\nArea: %s\nSeverity: %s\nDescription: %s\nInstructions: %s\n",
		orDefault(p.Event, "Unknown"),
		orDefault(p.AreaDesc, "Unknown"),
		orDefault(p.Severity, "Unknown"),
		orDefault(p.Description, "No description available"),
		orDefault(p.Instruction, "No specific instructions provided"),
	)
}

// Text formats a forecast period into a readable block
func (p Period) Text() string {
	return fmt.Sprintf("\n%s:\nTemperature: %d°%s\nWind: %s %s\nForecast: %s\n",
		p.Name, p.Temperature, p.TemperatureUnit, p.WindSpeed, p.WindDirection, p.DetailedForecast,
	)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
