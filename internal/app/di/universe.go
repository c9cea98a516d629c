package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"dividend_screener/internal/feature/symbollist/adapters"
	"dividend_screener/internal/feature/symbollist/adapters/constituents"
	"dividend_screener/internal/feature/symbollist/adapters/search"
	"dividend_screener/internal/feature/symbollist/usecase"
	"dividend_screener/internal/platform/cache"
	infrahttp "dividend_screener/internal/platform/http"
)

const constituentsTimeout = 30 * time.Second

// NewExpiryPolicy returns a fixed TTL when ttl is positive, otherwise the
// daily 08:00 New York refresh.
func NewExpiryPolicy(ttl time.Duration) cache.ExpiryPolicy {
	if ttl > 0 {
		return cache.FixedTTL(ttl)
	}
	return cache.UntilNext8AM
}

// NewSymbolRepository creates the cached symbol repository.
// If Redis is available, it returns a Redis-backed cache.
// Otherwise, it falls back to an in-process cache.
func NewSymbolRepository(rdb *redis.Client, db *gorm.DB, policy cache.ExpiryPolicy) usecase.SymbolRepository {
	store := adapters.NewSymbolRepository(db)
	if rdb != nil {
		return cache.NewCachingSymbolRepository(rdb, policy, store, "symbols")
	}
	return cache.NewMemorySymbolRepository(store, policy, nil)
}

// NewSymbolUsecase wires the universe usecase with the CSV constituents
// source and the bleve search index.
func NewSymbolUsecase(repo usecase.SymbolRepository, csvURL string, policy cache.ExpiryPolicy) *usecase.SymbolUsecase {
	fetcher := constituents.NewCSVFetcher(csvURL, infrahttp.NewHTTPClient(constituentsTimeout))
	index := cache.NewTTL[usecase.SymbolIndex](policy, nil)
	return usecase.NewSymbolUsecase(repo, fetcher, search.Build, index)
}
