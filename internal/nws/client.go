// Package nws talks to the National Weather Service API: the points endpoint
// that maps coordinates to a forecast source, and the hourly forecast feed
// that source points at.
package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"tomorrowcast/internal/forecast"
	"tomorrowcast/internal/upstream"
)

var (
	// ErrMissingForecastURL means the points response lacked the hourly
	// forecast locator.
	ErrMissingForecastURL = errors.New("points response missing hourly forecast url")

	// ErrMissingTimeZone means the points response lacked the station timezone.
	ErrMissingTimeZone = errors.New("points response missing time zone")
)

// Client resolves coordinates to a forecast source and fetches its hourly
// period series.
type Client struct {
	baseURL         string
	client          *http.Client
	pointsCircuit   *gobreaker.CircuitBreaker
	forecastCircuit *gobreaker.CircuitBreaker
}

func NewClient(client *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.weather.gov"
	}
	return &Client{
		baseURL:         baseURL,
		client:          client,
		pointsCircuit:   upstream.NewBreaker("nws-points"),
		forecastCircuit: upstream.NewBreaker("nws-forecast"),
	}
}

// ResolvePoint returns the station metadata for a coordinate pair.
func (c *Client) ResolvePoint(ctx context.Context, coords forecast.Coordinates) (forecast.StationInfo, error) {
	// The points endpoint rejects coordinates with more than four decimals.
	u := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, coords.Latitude, coords.Longitude)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return forecast.StationInfo{}, err
	}

	resp, err := upstream.Do(ctx, c.client, c.pointsCircuit, req)
	if err != nil {
		return forecast.StationInfo{}, fmt.Errorf("points request: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			ForecastHourly string `json:"forecastHourly"`
			TimeZone       string `json:"timeZone"`
		} `json:"properties"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return forecast.StationInfo{}, fmt.Errorf("decode points response: %w", err)
	}

	if payload.Properties.ForecastHourly == "" {
		return forecast.StationInfo{}, ErrMissingForecastURL
	}
	if payload.Properties.TimeZone == "" {
		return forecast.StationInfo{}, ErrMissingTimeZone
	}

	return forecast.StationInfo{
		HourlyForecastURL: payload.Properties.ForecastHourly,
		TimeZone:          payload.Properties.TimeZone,
	}, nil
}

// FetchHourly retrieves the time-ordered hourly period series from a forecast
// source locator.
func (c *Client) FetchHourly(ctx context.Context, locator string) ([]forecast.Period, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, err
	}

	resp, err := upstream.Do(ctx, c.client, c.forecastCircuit, req)
	if err != nil {
		return nil, fmt.Errorf("hourly forecast request: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			Periods []forecast.Period `json:"periods"`
		} `json:"properties"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode hourly forecast response: %w", err)
	}

	return payload.Properties.Periods, nil
}
