// Package dto defines data transfer objects for the rankings HTTP API.
package dto

import (
	"github.com/guregu/null/v5"

	quotedto "dividend_screener/internal/feature/quotes/transport/http/dto"
	"dividend_screener/internal/feature/ranking/domain/entity"
)

// RankedItem is one ranked quote row.
type RankedItem struct {
	Rank int `json:"rank"`
	quotedto.QuoteItem
	AffordableShares null.Int `json:"affordable_shares"`
}

// RankingResponse はスクリーニング結果のレスポンスDTOです。
type RankingResponse struct {
	Rows      []RankedItem `json:"rows"`
	Requested int          `json:"requested"`  // 照会した銘柄数
	WithYield int          `json:"with_yield"` // 配当利回りを持つ銘柄数
	Top       int          `json:"top"`        // 適用された表示件数
}

// NewRankingResponse converts a screening result into its response shape.
func NewRankingResponse(res entity.ScreenResult) RankingResponse {
	rows := make([]RankedItem, 0, len(res.Rows))
	for _, r := range res.Rows {
		rows = append(rows, RankedItem{
			Rank:             r.Rank,
			QuoteItem:        quotedto.NewQuoteItem(r.Quote),
			AffordableShares: r.AffordableShares,
		})
	}
	return RankingResponse{
		Rows:      rows,
		Requested: res.Requested,
		WithYield: res.WithYield,
		Top:       res.TopN,
	}
}
