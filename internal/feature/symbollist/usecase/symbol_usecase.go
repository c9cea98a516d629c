// Package usecase implements the business logic for the symbol universe.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dividend_screener/internal/feature/quotes/domain"
	"dividend_screener/internal/feature/symbollist/domain/entity"
	"dividend_screener/internal/platform/cache"
)

const (
	// DefaultSearchLimit is used when a search does not ask for a limit.
	DefaultSearchLimit = 20
	// MaxSearchLimit caps the number of search hits returned.
	MaxSearchLimit = 100
)

// SymbolRepository abstracts the persistence layer for the symbol universe.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	UpsertBatch(ctx context.Context, symbols []entity.Symbol) error
	DeactivateMissing(ctx context.Context, keep []string) (int64, error)
}

// ConstituentsFetcher loads the current index constituents from upstream.
type ConstituentsFetcher interface {
	Fetch(ctx context.Context) ([]entity.Symbol, error)
}

// ErrIndexClosed is returned by a SymbolIndex searched after Close.
var ErrIndexClosed = errors.New("symbol index closed")

// SymbolIndex answers free-text queries with matching symbol codes, best first.
type SymbolIndex interface {
	Search(query string, limit int) ([]string, error)
	Close() error
}

// IndexBuilder builds a SymbolIndex over symbols.
type IndexBuilder func(symbols []entity.Symbol) (SymbolIndex, error)

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo    SymbolRepository
	fetcher ConstituentsFetcher
	build   IndexBuilder
	index   *cache.TTL[SymbolIndex]
}

// NewSymbolUsecase creates a new SymbolUsecase. fetcher may be nil when the
// universe is managed out of band; build may be nil to disable search.
// index holds the built search index between requests; indexes it lets go
// of are closed.
func NewSymbolUsecase(r SymbolRepository, fetcher ConstituentsFetcher, build IndexBuilder, index *cache.TTL[SymbolIndex]) *SymbolUsecase {
	if index == nil {
		index = cache.NewTTL[SymbolIndex](cache.UntilNext8AM, nil)
	}
	index.OnEvict(closeIndex)
	return &SymbolUsecase{repo: r, fetcher: fetcher, build: build, index: index}
}

func closeIndex(idx SymbolIndex) {
	if idx == nil {
		return
	}
	if err := idx.Close(); err != nil {
		slog.Warn("failed to close symbol search index", "error", err)
	}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	symbols, err := u.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUniverseUnavailable, err)
	}
	return symbols, nil
}

// ListActiveCodes returns the codes of all active symbols.
func (u *SymbolUsecase) ListActiveCodes(ctx context.Context) ([]string, error) {
	codes, err := u.repo.ListActiveCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUniverseUnavailable, err)
	}
	return codes, nil
}

// Search returns the active symbols matching query, best match first.
// limit is clamped to [1, MaxSearchLimit]; zero selects DefaultSearchLimit.
func (u *SymbolUsecase) Search(ctx context.Context, query string, limit int) ([]entity.Symbol, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is blank", domain.ErrInvalidArgument)
	}
	if u.build == nil {
		return nil, fmt.Errorf("%w: search is not configured", domain.ErrUniverseUnavailable)
	}
	switch {
	case limit <= 0:
		limit = DefaultSearchLimit
	case limit > MaxSearchLimit:
		limit = MaxSearchLimit
	}

	var symbols []entity.Symbol
	load := func(ctx context.Context) (SymbolIndex, error) {
		var err error
		symbols, err = u.repo.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		slog.Info("building symbol search index", "symbols", len(symbols))
		return u.build(symbols)
	}

	var codes []string
	// an index replaced by a concurrent refresh is closed under us; retry once
	for attempt := 0; ; attempt++ {
		idx, err := u.index.GetOrLoad(ctx, load)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUniverseUnavailable, err)
		}
		codes, err = idx.Search(query, limit)
		if errors.Is(err, ErrIndexClosed) && attempt == 0 {
			symbols = nil
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: search %q: %w", domain.ErrUniverseUnavailable, query, err)
		}
		break
	}
	if len(codes) == 0 {
		return []entity.Symbol{}, nil
	}

	if symbols == nil {
		var err error
		if symbols, err = u.ListActiveSymbols(ctx); err != nil {
			return nil, err
		}
	}
	byCode := make(map[string]entity.Symbol, len(symbols))
	for _, s := range symbols {
		byCode[s.Code] = s
	}
	out := make([]entity.Symbol, 0, len(codes))
	for _, c := range codes {
		if s, ok := byCode[c]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Refresh re-syncs the universe from the constituents source. Symbols no
// longer listed are deactivated, not deleted. It returns the number of
// active symbols stored.
func (u *SymbolUsecase) Refresh(ctx context.Context) (int, error) {
	if u.fetcher == nil {
		return 0, fmt.Errorf("%w: no constituents source configured", domain.ErrUniverseUnavailable)
	}

	symbols, err := u.fetcher.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch constituents: %w", err)
	}
	if len(symbols) == 0 {
		// an empty feed would deactivate the whole universe
		return 0, fmt.Errorf("fetch constituents: feed is empty")
	}

	codes := make([]string, 0, len(symbols))
	for i := range symbols {
		symbols[i].IsActive = true
		symbols[i].SortKey = i + 1
		codes = append(codes, symbols[i].Code)
	}

	if err := u.repo.UpsertBatch(ctx, symbols); err != nil {
		return 0, fmt.Errorf("%w: upsert: %w", domain.ErrUniverseUnavailable, err)
	}
	deactivated, err := u.repo.DeactivateMissing(ctx, codes)
	if err != nil {
		return 0, fmt.Errorf("%w: deactivate: %w", domain.ErrUniverseUnavailable, err)
	}
	u.index.Invalidate()

	slog.Info("symbol universe refreshed", "active", len(symbols), "deactivated", deactivated)
	return len(symbols), nil
}
