// Package dto defines data transfer objects for the quotes HTTP API.
package dto

import (
	"github.com/guregu/null/v5"

	"dividend_screener/internal/feature/quotes/domain/entity"
)

// QuoteItem はクォート1件分のレスポンスDTOです。欠損値はJSONのnullになります。
type QuoteItem struct {
	Symbol               string     `json:"symbol"`
	Price                null.Float `json:"price"`
	DividendYield        null.Float `json:"dividend_yield"` // 0.03 = 3%
	DividendPerShare     null.Float `json:"dividend_per_share"`
	MarketCap            null.Float `json:"market_cap"`
	PERatio              null.Float `json:"pe_ratio"`
	Week52High           null.Float `json:"week52_high"`
	Week52Low            null.Float `json:"week52_low"`
	YearsPayingDividends null.Int   `json:"years_paying_dividends"`
}

// NewQuoteItem converts a domain quote into its response shape.
func NewQuoteItem(q entity.SymbolQuote) QuoteItem {
	return QuoteItem{
		Symbol:               q.Symbol,
		Price:                q.Price,
		DividendYield:        q.DividendYield,
		DividendPerShare:     q.DividendPerShare,
		MarketCap:            q.MarketCap,
		PERatio:              q.PERatio,
		Week52High:           q.Week52High,
		Week52Low:            q.Week52Low,
		YearsPayingDividends: q.YearsPayingDividends,
	}
}
