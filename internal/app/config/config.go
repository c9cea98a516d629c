// Package config loads the server's process-level settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	HistoryProviderYahoo      = "yahoo"
	HistoryProviderTwelveData = "twelvedata"
)

// Config holds server settings. Adapter-specific settings (database, Redis,
// Twelve Data) are loaded by their own packages.
type Config struct {
	Port             string
	LogLevel         string
	QuoteConcurrency int
	HistoryProvider  string
	// UniverseCacheTTL overrides the universe cache expiry; zero means
	// until the next 08:00 New York refresh.
	UniverseCacheTTL time.Duration
	UniverseCSVURL   string
	YahooMaxRPM      int
}

// Default returns the settings used when no environment variables are set.
func Default() Config {
	return Config{
		Port:             "8080",
		LogLevel:         "info",
		QuoteConcurrency: 4,
		HistoryProvider:  HistoryProviderYahoo,
		YahooMaxRPM:      120,
	}
}

// LoadConfig は環境変数から設定を読み込みます。不正な値はエラーになります。
func LoadConfig() (Config, error) {
	cfg := Default()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("UNIVERSE_CSV_URL"); v != "" {
		cfg.UniverseCSVURL = v
	}

	if v := os.Getenv("QUOTE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("QUOTE_CONCURRENCY must be a positive integer, got %q", v)
		}
		cfg.QuoteConcurrency = n
	}

	if v := os.Getenv("YAHOO_MAX_RPM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("YAHOO_MAX_RPM must be a non-negative integer, got %q", v)
		}
		cfg.YahooMaxRPM = n
	}

	if v := os.Getenv("UNIVERSE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("UNIVERSE_CACHE_TTL must be a non-negative duration, got %q", v)
		}
		cfg.UniverseCacheTTL = d
	}

	if v := os.Getenv("HISTORY_PROVIDER"); v != "" {
		p := strings.ToLower(strings.TrimSpace(v))
		if p != HistoryProviderYahoo && p != HistoryProviderTwelveData {
			return Config{}, fmt.Errorf("HISTORY_PROVIDER must be %q or %q, got %q", HistoryProviderYahoo, HistoryProviderTwelveData, v)
		}
		cfg.HistoryProvider = p
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
