package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Upstream base URLs, overridable for testing against fakes.
	CensusBaseURL string
	NWSBaseURL    string

	// RefreshInterval controls how often the hourly forecast is re-fetched.
	RefreshInterval time.Duration

	// HTTPTimeout applies to every outbound collaborator call.
	HTTPTimeout time.Duration

	// StartupAddress, when set, is submitted once at boot.
	StartupAddress string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.CensusBaseURL = getenvDefault("CENSUS_GEOCODER_URL", "https://geocoding.geo.census.gov")
	cfg.NWSBaseURL = getenvDefault("NWS_API_URL", "https://api.weather.gov")
	cfg.StartupAddress = os.Getenv("STARTUP_ADDRESS")

	intervalStr := getenvDefault("REFRESH_INTERVAL", "10m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "3001")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
