// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

import "dividend_screener/internal/feature/symbollist/domain/entity"

// SymbolItem represents a symbol in the API response.
// It contains only the public-facing fields needed by clients.
type SymbolItem struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// NewSymbolItems converts domain symbols to response items, never returning nil.
func NewSymbolItems(symbols []entity.Symbol) []SymbolItem {
	out := make([]SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, SymbolItem{Code: s.Code, Name: s.Name, Sector: s.Sector})
	}
	return out
}
