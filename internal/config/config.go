// Package config loads all service settings from environment variables into
// a single immutable struct, constructed once at process start and passed
// explicitly to the components that need it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// OneMap geocoding configuration.
	OneMapBaseURL    string
	OneMapTimeout    time.Duration
	GeocodeCacheSize int

	// ThrottleDelay is the cooperative pause inserted after each live
	// geocoding call. Tunable because OneMap publishes no hard rate limit.
	ThrottleDelay time.Duration

	// Emission model constants.
	EmissionFactorKgPerKm float64
	CircuityFactor        float64

	MaxUploadBytes int64
}

// Load reads configuration from environment variables, applying defaults
// where unset and validating every value.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second, false)
	if err != nil {
		return nil, err
	}

	onemapTimeout, err := parseDuration("ONEMAP_TIMEOUT", 10*time.Second, false)
	if err != nil {
		return nil, err
	}

	throttleDelay, err := parseDuration("THROTTLE_DELAY", 100*time.Millisecond, true)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	emissionFactor, err := parseFloat("EMISSION_FACTOR", 0.2)
	if err != nil {
		return nil, err
	}

	circuity, err := parseFloat("CIRCUITY_FACTOR", 1.3)
	if err != nil {
		return nil, err
	}
	if circuity < 1 {
		return nil, fmt.Errorf("CIRCUITY_FACTOR must be >= 1, got %g", circuity)
	}

	maxUpload, err := parseInt("MAX_UPLOAD_BYTES", 16<<20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OneMapBaseURL:    envOrDefault("ONEMAP_BASE_URL", "https://developers.onemap.sg"),
		OneMapTimeout:    onemapTimeout,
		GeocodeCacheSize: cacheSize,
		ThrottleDelay:    throttleDelay,

		EmissionFactorKgPerKm: emissionFactor,
		CircuityFactor:        circuity,

		MaxUploadBytes: int64(maxUpload),
	}

	if cfg.OneMapBaseURL == "" {
		return nil, fmt.Errorf("ONEMAP_BASE_URL is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration, allowZero bool) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive number", key)
	}
	return f, nil
}
