/*
nws implements an API client for the National Weather Service API
https://www.weather.gov/documentation/services-web-api
*/
package nws

import (
	"context"
	"strconv"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint       = "https://api.weather.gov"
	userAgent      = "weather-app/1.0"
	acceptGeoJSON  = "application/geo+json"
	defaultTimeout = 30 * time.Second
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Create a new client. The API requires an identifying user agent and a
// geo+json accept header on every request.
func New(opts ...client.ClientOpt) (*Client, error) {
	defaults := []client.ClientOpt{
		client.OptEndpoint(endPoint),
		client.OptUserAgent(userAgent),
		client.OptHeader("Accept", acceptGeoJSON),
		client.OptTimeout(defaultTimeout),
	}
	client, err := client.New(append(defaults, opts...)...)
	if err != nil {
		return nil, err
	}

	// Return the client
	return &Client{
		Client: client,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Alerts returns the active alerts for a US state
func (c *Client) Alerts(ctx context.Context, state string) (Alerts, error) {
	var response Alerts

	// Request -> Response
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("alerts", "active", "area", state)); err != nil {
		return Alerts{}, err
	}

	return response, nil
}

// Points resolves a coordinate pair to its forecast grid metadata,
// including the URL of the gridpoint forecast resource
func (c *Client) Points(ctx context.Context, latitude, longitude float64) (Points, error) {
	var response Points

	point := strconv.FormatFloat(latitude, 'f', -1, 64) + "," + strconv.FormatFloat(longitude, 'f', -1, 64)

	// Request -> Response
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("points", point)); err != nil {
		return Points{}, err
	}

	return response, nil
}

// Forecast fetches a gridpoint forecast resource by the URL obtained
// from a Points call
func (c *Client) Forecast(ctx context.Context, url string) (Forecast, error) {
	var response Forecast

	// Request -> Response
	if err := c.DoWithContext(ctx, nil, &response, client.OptReqEndpoint(url)); err != nil {
		return Forecast{}, err
	}

	return response, nil
}
