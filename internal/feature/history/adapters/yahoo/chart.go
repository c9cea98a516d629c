// Package yahoo adapts Yahoo Finance chart bars (via piquette/finance-go) to
// the history usecase's MarketRepository.
package yahoo

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"dividend_screener/internal/feature/history/domain/entity"
	"dividend_screener/internal/feature/history/usecase"
	"dividend_screener/internal/shared/ratelimiter"
)

// earliest stands in for an unbounded start; Yahoo rejects a missing period1.
var earliest = time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)

// BarIter iterates over chart bars. *chart.Iter satisfies it.
type BarIter interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

// ChartGetter starts a chart query.
type ChartGetter func(params *chart.Params) BarIter

// ChartRepository fetches close-price history from Yahoo Finance.
type ChartRepository struct {
	get     ChartGetter
	limiter ratelimiter.Limiter
}

var _ usecase.MarketRepository = (*ChartRepository)(nil)

// NewChartRepository creates a ChartRepository. A nil getter uses chart.Get.
func NewChartRepository(get ChartGetter, limiter ratelimiter.Limiter) *ChartRepository {
	if get == nil {
		get = func(p *chart.Params) BarIter { return chart.Get(p) }
	}
	return &ChartRepository{get: get, limiter: limiter}
}

// History returns the closing prices for symbol over r.
func (c *ChartRepository) History(ctx context.Context, symbol string, r entity.Range) ([]entity.PricePoint, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start, end := r.Start, r.End
	if start.IsZero() {
		start = earliest
	}
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: toInterval(r.Interval),
	}

	iter := c.get(params)
	var points []entity.PricePoint
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := iter.Bar()
		if b == nil || b.Close.IsZero() {
			continue
		}
		points = append(points, entity.PricePoint{
			Time:  time.Unix(int64(b.Timestamp), 0).UTC(),
			Close: b.Close,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	return points, nil
}

func toInterval(i entity.Interval) datetime.Interval {
	switch i {
	case entity.IntervalWeekly:
		return datetime.Interval("1wk")
	case entity.IntervalMonthly:
		return datetime.OneMonth
	default:
		return datetime.OneDay
	}
}
