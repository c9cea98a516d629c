// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the public Twelve Data endpoint.
	DefaultBaseURL = "https://api.twelvedata.com"
	// MaxOutputSize is the most bars time_series returns per request.
	MaxOutputSize = 5000
)

// Config holds configuration for the Twelve Data price-history client.
type Config struct {
	TwelveDataAPIKey string        // API key for authentication
	BaseURL          string        // Base URL for the API (e.g., "https://api.twelvedata.com")
	Timeout          time.Duration // HTTP request timeout
	OutputSize       int           // Bars requested per series; 0 means MaxOutputSize
}

// LoadConfig loads Twelve Data configuration from environment variables.
// An unusable TWELVE_DATA_OUTPUT_SIZE falls back to MaxOutputSize.
func LoadConfig() Config {
	base := os.Getenv("TWELVE_DATA_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}

	size := MaxOutputSize
	if v := os.Getenv("TWELVE_DATA_OUTPUT_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			slog.Warn("ignoring TWELVE_DATA_OUTPUT_SIZE", "value", v)
		} else {
			size = n
		}
	}

	return Config{
		TwelveDataAPIKey: os.Getenv("TWELVE_DATA_API_KEY"),
		BaseURL:          base,
		Timeout:          10 * time.Second,
		OutputSize:       size,
	}
}

// outputSize returns the bar count to request, clamped to [1, MaxOutputSize].
func (c Config) outputSize() int {
	if c.OutputSize <= 0 || c.OutputSize > MaxOutputSize {
		return MaxOutputSize
	}
	return c.OutputSize
}
