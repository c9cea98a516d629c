// Package entity defines the domain models for the ranking feature.
package entity

import (
	"github.com/guregu/null/v5"

	quote "dividend_screener/internal/feature/quotes/domain/entity"
)

// RankedTable is a filtered, yield-descending, truncated view of a quote
// batch. It is built per request and never persisted.
type RankedTable []quote.SymbolQuote

// RankedRow is one presentation-ready row of a screening result.
type RankedRow struct {
	Rank             int // 1-based
	Quote            quote.SymbolQuote
	AffordableShares null.Int
}

// ScreenResult is the outcome of one screening request.
type ScreenResult struct {
	Rows      []RankedRow
	Requested int // symbols looked up
	WithYield int // symbols that survived the dividend filter
	TopN      int // effective row limit after clamping
}
