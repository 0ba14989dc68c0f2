package nws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	opts "github.com/mutablelogic/go-client"
	assert "github.com/stretchr/testify/assert"
	nws "github.com/weatherlab/go-weather-mcp/pkg/nws"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

// upstream returns a mock NWS API and a client pointed at it
func upstream(t *testing.T, handler http.Handler) (*httptest.Server, *nws.Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := nws.New(opts.OptEndpoint(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	return srv, client
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/geo+json")
	json.NewEncoder(w).Encode(v)
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_client_001(t *testing.T) {
	assert := assert.New(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/alerts/active/area/CA", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, nws.Alerts{
			Features: []nws.AlertFeature{
				{Properties: nws.AlertProperties{
					Event:       "Flood Warning",
					AreaDesc:    "Sacramento County",
					Severity:    "Severe",
					Description: "Heavy rain",
					Instruction: "Move to higher ground",
				}},
			},
		})
	})
	_, client := upstream(t, mux)

	alerts, err := client.Alerts(t.Context(), "CA")
	assert.NoError(err)
	if assert.Len(alerts.Features, 1) {
		assert.Equal("Flood Warning", alerts.Features[0].Properties.Event)
	}
}

func Test_client_002(t *testing.T) {
	assert := assert.New(t)

	// Non-2xx responses surface as errors
	_, client := upstream(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.Alerts(t.Context(), "CA")
	assert.Error(err)
}

func Test_client_003(t *testing.T) {
	assert := assert.New(t)

	// Malformed bodies surface as errors
	_, client := upstream(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write([]byte("this is not json"))
	}))

	_, err := client.Alerts(t.Context(), "CA")
	assert.Error(err)
}

func Test_client_004(t *testing.T) {
	assert := assert.New(t)

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/points/37.7749,-122.4194", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"properties": map[string]any{
				"forecast": srv.URL + "/gridpoints/MTR/85,105/forecast",
			},
		})
	})
	mux.HandleFunc("/gridpoints/MTR/85,105/forecast", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, nws.Forecast{
			Properties: nws.ForecastProperties{
				Periods: []nws.Period{
					{Name: "Tonight", Temperature: 55, TemperatureUnit: "F", WindSpeed: "10 mph", WindDirection: "W", DetailedForecast: "Partly cloudy"},
				},
			},
		})
	})
	srv, client := upstream(t, mux)

	points, err := client.Points(t.Context(), 37.7749, -122.4194)
	assert.NoError(err)
	assert.Equal(srv.URL+"/gridpoints/MTR/85,105/forecast", points.Properties.Forecast)

	forecast, err := client.Forecast(t.Context(), points.Properties.Forecast)
	assert.NoError(err)
	if assert.Len(forecast.Properties.Periods, 1) {
		assert.Equal("Tonight", forecast.Properties.Periods[0].Name)
		assert.Equal(55, forecast.Properties.Periods[0].Temperature)
	}
}

func Test_client_005(t *testing.T) {
	assert := assert.New(t)

	// Bodies decode regardless of the geo+json content type and its parameters
	_, client := upstream(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json; charset=utf-8")
		json.NewEncoder(w).Encode(nws.Alerts{
			Features: []nws.AlertFeature{
				{Properties: nws.AlertProperties{Event: "Red Flag Warning"}},
			},
		})
	}))

	alerts, err := client.Alerts(t.Context(), "CA")
	assert.NoError(err)
	if assert.Len(alerts.Features, 1) {
		assert.Equal("Red Flag Warning", alerts.Features[0].Properties.Event)
	}
}
