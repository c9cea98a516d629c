// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"dividend_screener/internal/feature/symbollist/domain/entity"
)

// SymbolStore is the repository surface the symbol caches decorate.
type SymbolStore interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	UpsertBatch(ctx context.Context, symbols []entity.Symbol) error
	DeactivateMissing(ctx context.Context, keep []string) (int64, error)
}

// CachingSymbolRepository decorates a SymbolStore with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository.
type CachingSymbolRepository struct {
	inner     SymbolStore
	rdb       *redis.Client
	policy    ExpiryPolicy
	now       func() time.Time
	namespace string
}

var _ SymbolStore = (*CachingSymbolRepository)(nil)

// NewCachingSymbolRepository decorates a SymbolStore with Redis caching.
// If policy is nil, entries live until the next 08:00 New York refresh.
// If namespace is empty, it uses "symbols".
func NewCachingSymbolRepository(rdb *redis.Client, policy ExpiryPolicy, inner SymbolStore, namespace string) *CachingSymbolRepository {
	if policy == nil {
		policy = UntilNext8AM
	}
	if namespace == "" {
		namespace = "symbols"
	}
	return &CachingSymbolRepository{
		inner:     inner,
		rdb:       rdb,
		policy:    policy,
		now:       time.Now,
		namespace: safe(namespace),
	}
}

// ListActive retrieves active symbols, checking cache first then falling back to the database.
func (c *CachingSymbolRepository) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	return cachedRead(ctx, c, c.namespace+":active", c.inner.ListActive)
}

// ListActiveCodes retrieves active codes, checking cache first then falling back to the database.
func (c *CachingSymbolRepository) ListActiveCodes(ctx context.Context) ([]string, error) {
	return cachedRead(ctx, c, c.namespace+":codes", c.inner.ListActiveCodes)
}

// UpsertBatch inserts or updates symbols and invalidates the cached lists.
func (c *CachingSymbolRepository) UpsertBatch(ctx context.Context, symbols []entity.Symbol) error {
	// First upsert to the underlying repository
	if err := c.inner.UpsertBatch(ctx, symbols); err != nil {
		return err
	}
	// Exit early if Redis is not configured or nothing changed
	if c.rdb == nil || len(symbols) == 0 {
		return nil
	}
	_ = c.deleteByPattern(ctx, c.namespace+":*") // Best effort: don't fail if cache deletion fails
	return nil
}

// DeactivateMissing deactivates symbols outside keep and invalidates the cached lists.
func (c *CachingSymbolRepository) DeactivateMissing(ctx context.Context, keep []string) (int64, error) {
	n, err := c.inner.DeactivateMissing(ctx, keep)
	if err != nil {
		return 0, err
	}
	if c.rdb == nil || n == 0 {
		return n, nil
	}
	_ = c.deleteByPattern(ctx, c.namespace+":*")
	return n, nil
}

// cachedRead serves key from Redis, falling back to load on a miss.
func cachedRead[T any](ctx context.Context, c *CachingSymbolRepository, key string, load func(context.Context) (T, error)) (T, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load(ctx)
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	// 3) Store in cache (best effort)
	if ttl := c.policy(c.now()); ttl > 0 {
		if b, err := json.Marshal(out); err == nil {
			_ = c.rdb.Set(ctx, key, b, ttl).Err()
		}
	}

	return out, nil
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSymbolRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	// Simple escaping of characters that are problematic for Redis keys
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
