package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"dividend_screener/internal/app/config"
	"dividend_screener/internal/app/router"
	historyhandler "dividend_screener/internal/feature/history/transport/handler"
	historyusecase "dividend_screener/internal/feature/history/usecase"
	quotehandler "dividend_screener/internal/feature/quotes/transport/handler"
	quoteusecase "dividend_screener/internal/feature/quotes/usecase"
	rankinghandler "dividend_screener/internal/feature/ranking/transport/handler"
	rankingusecase "dividend_screener/internal/feature/ranking/usecase"
	symbollisthandler "dividend_screener/internal/feature/symbollist/transport/handler"
	platformhandler "dividend_screener/internal/platform/http/handler"
)

const readinessTimeout = 2 * time.Second

// NewHandlers builds every usecase and handler the router serves.
// rdb may be nil when Redis is not configured.
func NewHandlers(cfg config.Config, db *gorm.DB, rdb *redis.Client) (router.Handlers, error) {
	limiter := NewYahooLimiter(cfg.YahooMaxRPM)

	history, err := NewHistoryRepository(cfg.HistoryProvider, limiter)
	if err != nil {
		return router.Handlers{}, err
	}

	// Usecase
	policy := NewExpiryPolicy(cfg.UniverseCacheTTL)
	symbolUC := NewSymbolUsecase(NewSymbolRepository(rdb, db, policy), cfg.UniverseCSVURL, policy)
	quoteUC := quoteusecase.NewQuoteUsecase(NewQuoteSource(limiter), quoteusecase.WithConcurrency(cfg.QuoteConcurrency))
	rankingUC := rankingusecase.NewRankingUsecase(quoteUC, symbolUC)
	historyUC := historyusecase.NewHistoryUsecase(history, cfg.QuoteConcurrency, nil)

	// Handler
	return router.Handlers{
		Symbol:    symbollisthandler.NewSymbolHandler(symbolUC),
		Quote:     quotehandler.NewQuoteHandler(quoteUC),
		Ranking:   rankinghandler.NewRankingHandler(rankingUC),
		History:   historyhandler.NewHistoryHandler(historyUC),
		Readiness: platformhandler.Readiness(readinessTimeout, readinessChecks(db, rdb)...),
	}, nil
}

func readinessChecks(db *gorm.DB, rdb *redis.Client) []platformhandler.Check {
	checks := []platformhandler.Check{{
		Name: "db",
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if rdb != nil {
		checks = append(checks, platformhandler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	return checks
}
