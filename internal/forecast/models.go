package forecast

import "time"

// Coordinates is a geocoded latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StationInfo identifies the forecast source covering a coordinate pair:
// the hourly forecast feed URL and the IANA timezone of the station.
// Two resolutions for nearby addresses often yield the same StationInfo.
type StationInfo struct {
	HourlyForecastURL string `json:"forecastHourly"`
	TimeZone          string `json:"timeZone"`
}

// Period is a single hourly forecast entry. A fetch replaces the whole
// sequence; periods are never patched individually.
type Period struct {
	Number          int       `json:"number"`
	StartTime       time.Time `json:"startTime"`
	IsDaytime       bool      `json:"isDaytime"`
	Temperature     float64   `json:"temperature"`
	TemperatureUnit string    `json:"temperatureUnit"`
	WindSpeed       string    `json:"windSpeed"`
	WindDirection   string    `json:"windDirection"`
	ShortForecast   string    `json:"shortForecast"`
	Icon            string    `json:"icon"`
}
