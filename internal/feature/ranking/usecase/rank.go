// Package usecase implements the ranking and selection pipeline.
package usecase

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"

	"dividend_screener/internal/feature/quotes/domain"
	quote "dividend_screener/internal/feature/quotes/domain/entity"
	"dividend_screener/internal/feature/ranking/domain/entity"
)

// Rank keeps the quotes with a present, non-zero dividend yield, orders them
// by yield descending and returns at most topN of them. Ties keep their
// batch order. An empty result is not an error.
func Rank(quotes []quote.SymbolQuote, topN int) (entity.RankedTable, error) {
	if topN < 1 {
		return nil, fmt.Errorf("%w: top must be at least 1, got %d", domain.ErrInvalidArgument, topN)
	}

	table := make(entity.RankedTable, 0, len(quotes))
	for _, q := range quotes {
		if q.HasDividendYield() {
			table = append(table, q)
		}
	}
	if len(table) == 0 {
		slog.Info("ranking is empty", "error", domain.ErrEmptyUniverse, "quotes", len(quotes))
		return table, nil
	}

	slices.SortStableFunc(table, func(a, b quote.SymbolQuote) int {
		return cmp.Compare(b.DividendYield.Float64, a.DividendYield.Float64)
	})
	if len(table) > topN {
		table = table[:topN]
	}
	return table, nil
}

// CountWithYield returns how many quotes would survive Rank's filter.
func CountWithYield(quotes []quote.SymbolQuote) int {
	n := 0
	for _, q := range quotes {
		if q.HasDividendYield() {
			n++
		}
	}
	return n
}

// ClampTopN clamps n into [1, max(count, 1)].
func ClampTopN(n, count int) int {
	return min(max(n, 1), max(count, 1))
}

// AffordableShares returns how many whole shares budget buys at price.
// It is missing when price is missing or not positive, budget is negative,
// or the share count does not fit in an int64.
func AffordableShares(price null.Float, budget decimal.Decimal) null.Int {
	if !price.Valid || price.Float64 <= 0 || budget.IsNegative() {
		return null.Int{}
	}
	p := decimal.NewFromFloat(price.Float64)
	shares := budget.Div(p).Floor()
	if !shares.BigInt().IsInt64() {
		return null.Int{}
	}
	return null.IntFrom(shares.IntPart())
}
