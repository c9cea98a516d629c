// Package dto defines data transfer objects for the history HTTP API.
package dto

import "dividend_screener/internal/feature/history/domain/entity"

// PointItem は終値1件のレスポンスDTOです。
type PointItem struct {
	Time  string  `json:"time"`  // 日付 (YYYY-MM-DD)
	Close float64 `json:"close"` // 終値
}

// SeriesItem は1銘柄分の履歴レスポンスDTOです。pointsが空の場合は履歴が取得できなかったことを示します。
type SeriesItem struct {
	Symbol string      `json:"symbol"`
	Window string      `json:"window"`
	Points []PointItem `json:"points"`
}

// NewSeriesItem converts a domain series into its response shape.
func NewSeriesItem(s entity.Series) SeriesItem {
	points := make([]PointItem, 0, len(s.Points))
	for _, p := range s.Points {
		points = append(points, PointItem{
			Time:  p.Time.UTC().Format("2006-01-02"),
			Close: p.Close.InexactFloat64(),
		})
	}
	return SeriesItem{Symbol: s.Symbol, Window: string(s.Window), Points: points}
}
