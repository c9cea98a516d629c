// Command syncsymbols re-syncs the symbol universe from the constituents CSV.
// It is meant to run from a scheduler ahead of the daily cache refresh.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"dividend_screener/internal/app/config"
	"dividend_screener/internal/app/di"
	infradb "dividend_screener/internal/platform/db"
	"dividend_screener/internal/platform/logger"
	infraredis "dividend_screener/internal/platform/redis"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)

	dbCfg := infradb.LoadConfigFromEnv()
	dbCfg.RunMigrations = true
	db, err := infradb.OpenDB(dbCfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// With Redis, the shared universe cache is invalidated on write.
	var rdb *redisv9.Client
	if rcfg := infraredis.LoadConfig(); rcfg.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, rcfg); err != nil {
			slog.Warn("Redis unavailable. Server caches will expire on their own schedule.")
		} else {
			rdb = tmp
			defer func() { _ = rdb.Close() }()
		}
	}

	policy := di.NewExpiryPolicy(cfg.UniverseCacheTTL)
	uc := di.NewSymbolUsecase(di.NewSymbolRepository(rdb, db, policy), cfg.UniverseCSVURL, policy)

	n, err := uc.Refresh(ctx)
	if err != nil {
		slog.Error("symbol sync failed", "error", err)
		os.Exit(1)
	}
	slog.Info("symbol sync ok", "active", n)
}
