// Package entity defines the domain models for the quotes feature.
package entity

import "github.com/guregu/null/v5"

// Fields is the loosely-typed field mapping returned by a market-data source
// for a single symbol. Keys are provider field names (e.g. "regularMarketPrice").
type Fields map[string]any

// SymbolQuote is the normalized quote snapshot for one requested symbol.
// Every optional attribute uses an invalid null value as its single
// missing-value marker, so numeric sort and filter never see placeholders.
type SymbolQuote struct {
	Symbol               string
	Price                null.Float
	DividendYield        null.Float // fraction: 0.03 means 3%
	DividendPerShare     null.Float
	MarketCap            null.Float
	PERatio              null.Float
	Week52High           null.Float
	Week52Low            null.Float
	YearsPayingDividends null.Int
}

// MissingQuote returns a record for symbol with every optional field missing.
func MissingQuote(symbol string) SymbolQuote {
	return SymbolQuote{Symbol: symbol}
}

// HasDividendYield reports whether the quote carries a present, non-zero yield.
func (q SymbolQuote) HasDividendYield() bool {
	return q.DividendYield.Valid && q.DividendYield.Float64 != 0
}
