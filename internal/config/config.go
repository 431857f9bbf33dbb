package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when the oracle credential is not configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

type AppConfig struct {
	GeminiAPIKey  string
	GeminiModel   string
	OracleBaseURL string

	// HTTPTimeout bounds oracle calls; zero means no timeout.
	HTTPTimeout time.Duration

	// Device position: fixed coordinates win over a geocoded address.
	DeviceLat      *float64
	DeviceLng      *float64
	DeviceAddress  string
	GeocoderAPIKey string

	// AutoRefresh re-fetches the current location periodically; zero disables it.
	AutoRefresh time.Duration

	// Snapshot history retention.
	StoreMaxHistory int           // max number of snapshots kept (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.GeminiModel = os.Getenv("GEMINI_MODEL")
	cfg.OracleBaseURL = os.Getenv("ORACLE_BASE_URL")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0s"); err != nil {
		return nil, err
	}
	if cfg.AutoRefresh, err = getenvDuration("AUTO_REFRESH", "0s"); err != nil {
		return nil, err
	}

	if cfg.DeviceLat, cfg.DeviceLng, err = loadDevicePosition(); err != nil {
		return nil, err
	}
	cfg.DeviceAddress = os.Getenv("DEVICE_ADDRESS")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 24)
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func loadDevicePosition() (*float64, *float64, error) {
	latStr, lngStr := os.Getenv("DEVICE_LAT"), os.Getenv("DEVICE_LNG")
	if latStr == "" && lngStr == "" {
		return nil, nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, nil, fmt.Errorf("DEVICE_LAT and DEVICE_LNG must be set together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, nil, fmt.Errorf("invalid DEVICE_LAT %q", latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, nil, fmt.Errorf("invalid DEVICE_LNG %q", lngStr)
	}
	return &lat, &lng, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
