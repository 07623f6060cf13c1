package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"tomorrowcast/internal/forecast"
	"tomorrowcast/internal/upstream"
)

// Fixed parameters for the Census one-line-address endpoint.
const (
	censusBenchmark = "2020"
	censusFormat    = "json"
)

// ErrNoAddressMatch means the geocoder answered but found no match for the
// input. Callers must not assume addressMatches[0] exists.
var ErrNoAddressMatch = errors.New("no address matches for input")

// Client geocodes a free-form address string into coordinates.
type Client interface {
	Geocode(ctx context.Context, address string) (forecast.Coordinates, error)
}

// CensusClient implements Client against the US Census one-line-address
// geocoder.
type CensusClient struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewCensusClient(client *http.Client, baseURL string) *CensusClient {
	if baseURL == "" {
		baseURL = "https://geocoding.geo.census.gov"
	}
	return &CensusClient{
		baseURL: baseURL,
		client:  client,
		circuit: upstream.NewBreaker("census"),
	}
}

var _ Client = (*CensusClient)(nil)

func (c *CensusClient) Geocode(ctx context.Context, address string) (forecast.Coordinates, error) {
	values := url.Values{}
	values.Set("benchmark", censusBenchmark)
	values.Set("address", address)
	values.Set("format", censusFormat)

	u := fmt.Sprintf("%s/geocoder/locations/onelineaddress?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return forecast.Coordinates{}, err
	}

	resp, err := upstream.Do(ctx, c.client, c.circuit, req)
	if err != nil {
		return forecast.Coordinates{}, fmt.Errorf("census geocoder request: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Result struct {
			AddressMatches []struct {
				Coordinates struct {
					X float64 `json:"x"`
					Y float64 `json:"y"`
				} `json:"coordinates"`
			} `json:"addressMatches"`
		} `json:"result"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return forecast.Coordinates{}, fmt.Errorf("decode census response: %w", err)
	}

	if len(payload.Result.AddressMatches) == 0 {
		return forecast.Coordinates{}, ErrNoAddressMatch
	}

	// Census coordinates are x=longitude, y=latitude.
	match := payload.Result.AddressMatches[0].Coordinates
	return forecast.Coordinates{
		Latitude:  match.Y,
		Longitude: match.X,
	}, nil
}
