// Package usecase implements the quote aggregation business logic.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"dividend_screener/internal/feature/quotes/domain"
	"dividend_screener/internal/feature/quotes/domain/entity"
)

// DefaultConcurrency is the default number of in-flight symbol lookups.
const DefaultConcurrency = 4

// QuoteSource looks up the raw quote fields for one symbol.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
//
//go:generate mockgen -package=usecase_test -destination=mock_quote_source_test.go -source=aggregator.go QuoteSource
type QuoteSource interface {
	Lookup(ctx context.Context, symbol string) (entity.Fields, error)
}

// QuoteUsecase aggregates per-symbol lookups into normalized quote records.
type QuoteUsecase struct {
	source      QuoteSource
	concurrency int
	now         func() time.Time
}

// Option configures a QuoteUsecase.
type Option func(*QuoteUsecase)

// WithConcurrency bounds the number of concurrent lookups. Values below one
// fall back to sequential lookups.
func WithConcurrency(n int) Option {
	return func(u *QuoteUsecase) {
		if n < 1 {
			n = 1
		}
		u.concurrency = n
	}
}

// WithClock overrides the clock used for derived date fields.
func WithClock(now func() time.Time) Option {
	return func(u *QuoteUsecase) {
		u.now = now
	}
}

// NewQuoteUsecase creates a QuoteUsecase reading from source.
func NewQuoteUsecase(source QuoteSource, opts ...Option) *QuoteUsecase {
	u := &QuoteUsecase{
		source:      source,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// FetchQuotes returns one record per input symbol, in input order.
// A symbol whose lookup fails yields a record with every optional field
// missing; only invalid input or context cancellation fail the batch.
func (u *QuoteUsecase) FetchQuotes(ctx context.Context, symbols []string) ([]entity.SymbolQuote, error) {
	trimmed, err := TrimSymbols(symbols)
	if err != nil {
		return nil, err
	}

	now := u.now()
	out := make([]entity.SymbolQuote, len(trimmed))

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, s := range trimmed {
		i, s := i, s
		g.Go(func() error {
			out[i] = u.fetchOne(ctx, s, now)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// fetchOne performs a single best-effort lookup for symbol.
func (u *QuoteUsecase) fetchOne(ctx context.Context, symbol string, now time.Time) entity.SymbolQuote {
	if ctx.Err() != nil {
		return entity.MissingQuote(symbol)
	}
	fields, err := u.source.Lookup(ctx, symbol)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", domain.ErrLookupFailed, symbol, err)
		slog.Warn("quote lookup failed", "symbol", symbol, "error", err)
		return entity.MissingQuote(symbol)
	}
	return NormalizeQuote(symbol, fields, now)
}

// TrimSymbols trims surrounding whitespace from every symbol. An empty list
// or a symbol that is blank after trimming is an invalid argument.
func TrimSymbols(symbols []string) ([]string, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: symbol list is empty", domain.ErrInvalidArgument)
	}
	out := make([]string, len(symbols))
	for i, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("%w: symbol at index %d is blank", domain.ErrInvalidArgument, i)
		}
		out[i] = s
	}
	return out, nil
}
