package cache

import (
	"context"
	"slices"
	"time"

	"dividend_screener/internal/feature/symbollist/domain/entity"
)

// MemorySymbolRepository decorates a SymbolStore with an in-process TTL
// cache. It is used when Redis is not reachable.
type MemorySymbolRepository struct {
	inner  SymbolStore
	active *TTL[[]entity.Symbol]
	codes  *TTL[[]string]
}

var _ SymbolStore = (*MemorySymbolRepository)(nil)

// NewMemorySymbolRepository decorates inner with in-process caching.
// A nil policy uses UntilNext8AM and a nil now uses time.Now.
func NewMemorySymbolRepository(inner SymbolStore, policy ExpiryPolicy, now func() time.Time) *MemorySymbolRepository {
	if policy == nil {
		policy = UntilNext8AM
	}
	return &MemorySymbolRepository{
		inner:  inner,
		active: NewTTL[[]entity.Symbol](policy, now),
		codes:  NewTTL[[]string](policy, now),
	}
}

// ListActive returns the cached active symbols, loading them on a miss.
// Callers receive a copy and may modify it.
func (m *MemorySymbolRepository) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	v, err := m.active.GetOrLoad(ctx, m.inner.ListActive)
	return slices.Clone(v), err
}

// ListActiveCodes returns the cached active codes, loading them on a miss.
func (m *MemorySymbolRepository) ListActiveCodes(ctx context.Context) ([]string, error) {
	v, err := m.codes.GetOrLoad(ctx, m.inner.ListActiveCodes)
	return slices.Clone(v), err
}

// UpsertBatch writes through and invalidates both cached lists.
func (m *MemorySymbolRepository) UpsertBatch(ctx context.Context, symbols []entity.Symbol) error {
	if err := m.inner.UpsertBatch(ctx, symbols); err != nil {
		return err
	}
	m.Invalidate()
	return nil
}

// DeactivateMissing writes through and invalidates both cached lists.
func (m *MemorySymbolRepository) DeactivateMissing(ctx context.Context, keep []string) (int64, error) {
	n, err := m.inner.DeactivateMissing(ctx, keep)
	if err != nil {
		return 0, err
	}
	m.Invalidate()
	return n, nil
}

// Invalidate drops every cached list.
func (m *MemorySymbolRepository) Invalidate() {
	m.active.Invalidate()
	m.codes.Invalidate()
}
