// Package pipeline drives the address-to-forecast orchestration: geocode,
// station resolution, hourly fetch, and window selection, with process-local
// session state for a single address.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tomorrowcast/internal/forecast"
	"tomorrowcast/internal/geocode"
)

var (
	// ErrEmptyAddress is returned before any network call when the submitted
	// address is empty.
	ErrEmptyAddress = errors.New("address must not be empty")

	// ErrSuperseded means a newer submission started while this run was in
	// flight; the stale run's results were discarded.
	ErrSuperseded = errors.New("pipeline run superseded by a newer submission")
)

// WeatherClient is the subset of the NWS API the pipeline needs.
type WeatherClient interface {
	ResolvePoint(ctx context.Context, coords forecast.Coordinates) (forecast.StationInfo, error)
	FetchHourly(ctx context.Context, locator string) ([]forecast.Period, error)
}

// State is the session state for the single tracked address. It is populated
// progressively as pipeline stages complete and read by the HTTP layer.
type State struct {
	Coordinates *forecast.Coordinates `json:"coordinates,omitempty"`
	Station     *forecast.StationInfo `json:"station,omitempty"`
	Periods     []forecast.Period     `json:"-"`
	Window      []forecast.Period     `json:"window"`
	Loading     bool                  `json:"loading"`
	Err         string                `json:"error,omitempty"`
}

// Session owns the state and runs pipeline stages against it. Concurrent
// submissions each run to completion; a monotonic generation counter decides
// which run's completions are allowed to write, so a stale response can never
// overwrite newer state.
type Session struct {
	geocoder geocode.Client
	weather  WeatherClient
	now      func() time.Time

	mu    sync.Mutex
	gen   int64
	state State
}

func NewSession(geocoder geocode.Client, weather WeatherClient) *Session {
	return &Session{
		geocoder: geocoder,
		weather:  weather,
		now:      time.Now,
	}
}

// Submit runs the full pipeline for an address. It returns the resulting
// state snapshot, or an error if any stage failed or a newer submission won
// the race. Stage failures halt the run; there are no retries.
func (s *Session) Submit(ctx context.Context, address string) (State, error) {
	if address == "" {
		return s.Snapshot(), ErrEmptyAddress
	}

	log := slog.With("run_id", uuid.NewString())

	s.mu.Lock()
	s.gen++
	gen := s.gen
	// A new submission resets everything except the resolved station, whose
	// previous locator feeds the unchanged-locator short circuit below.
	s.state = State{Station: s.state.Station, Loading: true}
	s.mu.Unlock()

	log.Info("pipeline run started", "address", address)

	coords, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.fail(gen, log, err)
		return s.Snapshot(), fmt.Errorf("geocode address: %w", err)
	}
	if !s.advance(gen, func(st *State) { st.Coordinates = &coords }) {
		return s.Snapshot(), ErrSuperseded
	}

	station, err := s.weather.ResolvePoint(ctx, coords)
	if err != nil {
		s.fail(gen, log, err)
		return s.Snapshot(), fmt.Errorf("resolve station: %w", err)
	}

	// When the resolved locator matches the stored one the station is the
	// same and StationInfo is left untouched; the run proceeds straight to
	// the refetch. Writing an identical value would be a silent no-op that
	// never re-triggers the fetch.
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return s.Snapshot(), ErrSuperseded
	}
	if s.state.Station == nil || s.state.Station.HourlyForecastURL != station.HourlyForecastURL {
		s.state.Station = &station
	}
	locator := s.state.Station.HourlyForecastURL
	timeZone := s.state.Station.TimeZone
	s.mu.Unlock()

	periods, err := s.weather.FetchHourly(ctx, locator)
	if err != nil {
		s.fail(gen, log, err)
		return s.Snapshot(), fmt.Errorf("fetch hourly forecast: %w", err)
	}

	window, err := forecast.SelectWindow(s.now(), timeZone, periods)
	if err != nil {
		s.fail(gen, log, err)
		return s.Snapshot(), fmt.Errorf("select forecast window: %w", err)
	}

	if !s.advance(gen, func(st *State) {
		st.Periods = periods
		st.Window = window
		st.Loading = false
		st.Err = ""
	}) {
		return s.Snapshot(), ErrSuperseded
	}

	log.Info("pipeline run ready", "periods", len(periods), "window", len(window))
	return s.Snapshot(), nil
}

// Refresh re-fetches the hourly series for the known station and recomputes
// the window. With no station resolved yet it is a no-op. A refresh failure
// leaves the previous window and loading flag untouched.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	station := s.state.Station
	s.mu.Unlock()

	if station == nil {
		slog.Debug("refresh skipped: no station resolved yet")
		return nil
	}

	periods, err := s.weather.FetchHourly(ctx, station.HourlyForecastURL)
	if err != nil {
		return fmt.Errorf("refresh hourly forecast: %w", err)
	}

	window, err := forecast.SelectWindow(s.now(), station.TimeZone, periods)
	if err != nil {
		return fmt.Errorf("select forecast window: %w", err)
	}

	// A submission that started after this refresh wins; discard quietly.
	s.advance(gen, func(st *State) {
		st.Periods = periods
		st.Window = window
	})
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// advance applies a state mutation if the run's generation is still current.
func (s *Session) advance(gen int64, apply func(*State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	apply(&s.state)
	return true
}

// fail records a stage failure and clears the loading flag so the session
// never sits in a loading state no further step will resolve.
func (s *Session) fail(gen int64, log *slog.Logger, err error) {
	log.Warn("pipeline run failed", "error", err.Error())
	s.advance(gen, func(st *State) {
		st.Loading = false
		st.Err = err.Error()
	})
}
