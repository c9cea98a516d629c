package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"dividend_screener/internal/feature/quotes/domain"
	quote "dividend_screener/internal/feature/quotes/domain/entity"
	"dividend_screener/internal/feature/ranking/domain/entity"
)

// QuoteFetcher returns one normalized quote per symbol in input order.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider.
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, symbols []string) ([]quote.SymbolQuote, error)
}

// UniverseLister lists the codes of every active symbol in the universe.
type UniverseLister interface {
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// ScreenRequest holds the selection parameters supplied by presentation.
type ScreenRequest struct {
	// Symbols to screen. Empty means the whole active universe.
	Symbols []string
	// TopN limits the rows returned. Zero means every symbol with a yield.
	TopN int
	// Budget enables the affordable-shares column when valid.
	Budget decimal.NullDecimal
}

// RankingUsecase runs the fetch, rank and decorate pipeline.
type RankingUsecase struct {
	quotes   QuoteFetcher
	universe UniverseLister
}

// NewRankingUsecase creates a RankingUsecase. universe may be nil, in which
// case requests must name their symbols.
func NewRankingUsecase(quotes QuoteFetcher, universe UniverseLister) *RankingUsecase {
	return &RankingUsecase{quotes: quotes, universe: universe}
}

// Screen fetches quotes for the requested symbols and returns the ranked rows.
func (u *RankingUsecase) Screen(ctx context.Context, req ScreenRequest) (entity.ScreenResult, error) {
	if req.TopN < 0 {
		return entity.ScreenResult{}, fmt.Errorf("%w: top must not be negative, got %d", domain.ErrInvalidArgument, req.TopN)
	}
	if req.Budget.Valid && req.Budget.Decimal.IsNegative() {
		return entity.ScreenResult{}, fmt.Errorf("%w: budget must not be negative, got %s", domain.ErrInvalidArgument, req.Budget.Decimal)
	}

	symbols, err := u.resolveSymbols(ctx, req.Symbols)
	if err != nil {
		return entity.ScreenResult{}, err
	}

	quotes, err := u.quotes.FetchQuotes(ctx, symbols)
	if err != nil {
		return entity.ScreenResult{}, err
	}

	withYield := CountWithYield(quotes)
	topN := req.TopN
	if topN == 0 {
		topN = withYield
	}
	topN = ClampTopN(topN, withYield)

	table, err := Rank(quotes, topN)
	if err != nil {
		return entity.ScreenResult{}, err
	}

	rows := make([]entity.RankedRow, 0, len(table))
	for i, q := range table {
		row := entity.RankedRow{Rank: i + 1, Quote: q}
		if req.Budget.Valid {
			row.AffordableShares = AffordableShares(q.Price, req.Budget.Decimal)
		}
		rows = append(rows, row)
	}

	slog.Debug("screen completed", "requested", len(quotes), "with_yield", withYield, "rows", len(rows))
	return entity.ScreenResult{
		Rows:      rows,
		Requested: len(quotes),
		WithYield: withYield,
		TopN:      topN,
	}, nil
}

// resolveSymbols falls back to the active universe when none were requested.
func (u *RankingUsecase) resolveSymbols(ctx context.Context, symbols []string) ([]string, error) {
	if len(symbols) > 0 {
		return symbols, nil
	}
	if u.universe == nil {
		return nil, fmt.Errorf("%w: no symbols requested and no universe configured", domain.ErrInvalidArgument)
	}
	codes, err := u.universe.ListActiveCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUniverseUnavailable, err)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: no symbols requested and the universe is empty", domain.ErrInvalidArgument)
	}
	return codes, nil
}
