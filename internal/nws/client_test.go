package nws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tomorrowcast/internal/forecast"
)

func newTestClient() *http.Client {
	return &http.Client{Timeout: 2 * time.Second}
}

func TestResolvePoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/points/37.7700,-77.4000" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"properties":{"forecastHourly":"https://api.weather.gov/gridpoints/AKQ/44,83/forecast/hourly","timeZone":"America/New_York"}}`)
	}))
	defer srv.Close()

	c := NewClient(newTestClient(), srv.URL)

	station, err := c.ResolvePoint(context.Background(), forecast.Coordinates{Latitude: 37.77, Longitude: -77.40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if station.HourlyForecastURL != "https://api.weather.gov/gridpoints/AKQ/44,83/forecast/hourly" {
		t.Errorf("unexpected forecast url: %s", station.HourlyForecastURL)
	}
	if station.TimeZone != "America/New_York" {
		t.Errorf("unexpected timezone: %s", station.TimeZone)
	}
}

func TestResolvePointMissingFields(t *testing.T) {
	testCases := []struct {
		desc string
		body string
		want error
	}{
		{
			desc: "missing hourly forecast url",
			body: `{"properties":{"timeZone":"America/New_York"}}`,
			want: ErrMissingForecastURL,
		},
		{
			desc: "missing timezone",
			body: `{"properties":{"forecastHourly":"https://example.com/hourly"}}`,
			want: ErrMissingTimeZone,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tC.body)
			}))
			defer srv.Close()

			c := NewClient(newTestClient(), srv.URL)

			_, err := c.ResolvePoint(context.Background(), forecast.Coordinates{Latitude: 37.77, Longitude: -77.40})
			if !errors.Is(err, tC.want) {
				t.Fatalf("expected %v, got %v", tC.want, err)
			}
		})
	}
}

func TestFetchHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gridpoints/AKQ/44,83/forecast/hourly" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"properties":{"periods":[
			{"number":1,"startTime":"2024-01-10T08:00:00-05:00","isDaytime":true,"temperature":38,"temperatureUnit":"F","windSpeed":"10 mph","windDirection":"NW","shortForecast":"Sunny","icon":"https://api.weather.gov/icons/land/day/few"},
			{"number":2,"startTime":"2024-01-10T09:00:00-05:00","isDaytime":true,"temperature":41,"temperatureUnit":"F","windSpeed":"10 mph","windDirection":"NW","shortForecast":"Sunny","icon":"https://api.weather.gov/icons/land/day/few"}
		]}}`)
	}))
	defer srv.Close()

	c := NewClient(newTestClient(), srv.URL)

	periods, err := c.FetchHourly(context.Background(), srv.URL+"/gridpoints/AKQ/44,83/forecast/hourly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}

	first := periods[0]
	if first.Number != 1 {
		t.Errorf("expected number 1, got %d", first.Number)
	}
	want := time.Date(2024, 1, 10, 8, 0, 0, 0, time.FixedZone("EST", -5*3600))
	if !first.StartTime.Equal(want) {
		t.Errorf("expected start time %v, got %v", want, first.StartTime)
	}
	if first.Temperature != 38 {
		t.Errorf("expected temperature 38, got %v", first.Temperature)
	}
	if first.WindSpeed != "10 mph" || first.WindDirection != "NW" {
		t.Errorf("unexpected wind: %s %s", first.WindSpeed, first.WindDirection)
	}
	if !first.IsDaytime {
		t.Error("expected daytime period")
	}
}

func TestFetchHourlyUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(newTestClient(), srv.URL)

	_, err := c.FetchHourly(context.Background(), srv.URL+"/forecast/hourly")
	if err == nil {
		t.Fatal("expected error on 502 response")
	}
}
