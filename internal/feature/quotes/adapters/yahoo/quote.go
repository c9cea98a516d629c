// Package yahoo adapts Yahoo Finance quotes (via piquette/finance-go) to the
// quote usecase's QuoteSource.
package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"dividend_screener/internal/feature/quotes/domain/entity"
	"dividend_screener/internal/feature/quotes/usecase"
	"dividend_screener/internal/shared/ratelimiter"
)

// ErrUnknownSymbol is returned when Yahoo has no quote for a symbol.
var ErrUnknownSymbol = errors.New("yahoo: unknown symbol")

// EquityGetter fetches one equity quote. equity.Get satisfies it.
type EquityGetter func(symbol string) (*finance.Equity, error)

// ChartMetaGetter runs a chart query and returns its metadata.
type ChartMetaGetter func(params *chart.Params) (finance.ChartMeta, error)

// firstTradeField carries the chart's first trade date in the field map.
const firstTradeField = "firstTradeDateEpochUtc"

// QuoteSource looks up equity quotes on Yahoo Finance.
type QuoteSource struct {
	get     EquityGetter
	meta    ChartMetaGetter
	limiter ratelimiter.Limiter
	now     func() time.Time
}

var _ usecase.QuoteSource = (*QuoteSource)(nil)

// Option configures a QuoteSource.
type Option func(*QuoteSource)

// WithFirstTradeDate enables a chart metadata lookup after each quote so
// the first trade date reaches the field map. The v7 quote endpoint does
// not report it. A nil getter uses chart.Get.
func WithFirstTradeDate(get ChartMetaGetter) Option {
	return func(s *QuoteSource) {
		if get == nil {
			get = chartMeta
		}
		s.meta = get
	}
}

// NewQuoteSource creates a QuoteSource. A nil getter uses equity.Get and a
// nil limiter disables throttling.
func NewQuoteSource(get EquityGetter, limiter ratelimiter.Limiter, opts ...Option) *QuoteSource {
	if get == nil {
		get = equity.Get
	}
	s := &QuoteSource{get: get, limiter: limiter, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// chartMeta reads the metadata of a chart query. Meta panics on a failed
// iterator, so the error is checked first.
func chartMeta(params *chart.Params) (finance.ChartMeta, error) {
	it := chart.Get(params)
	if err := it.Err(); err != nil {
		return finance.ChartMeta{}, err
	}
	return it.Meta(), nil
}

// Lookup returns the quote fields Yahoo reports for symbol, keyed by Yahoo's
// JSON field names.
func (s *QuoteSource) Lookup(ctx context.Context, symbol string) (entity.Fields, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eq, err := s.get(symbol)
	if err != nil {
		return nil, fmt.Errorf("yahoo equity %s: %w", symbol, err)
	}
	if eq == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	fields, err := toFields(eq)
	if err != nil {
		return nil, err
	}

	if s.meta != nil {
		ts, err := s.firstTrade(ctx, symbol)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Debug("first trade date unavailable", "symbol", symbol, "error", err)
		} else if ts > 0 {
			fields[firstTradeField] = json.Number(strconv.FormatInt(ts, 10))
		}
	}
	return fields, nil
}

// firstTrade returns the epoch seconds of symbol's first trade from a short
// daily chart query. Zero means Yahoo did not report one.
func (s *QuoteSource) firstTrade(ctx context.Context, symbol string) (int64, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return 0, err
		}
	}
	end := s.now().UTC()
	start := end.AddDate(0, 0, -7)
	meta, err := s.meta(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
		Params:   finance.Params{Context: &ctx},
	})
	if err != nil {
		return 0, fmt.Errorf("yahoo chart meta %s: %w", symbol, err)
	}
	return int64(meta.FirstTradeDate), nil
}

// toFields flattens an equity quote into a field map. finance-go zero-fills
// fields Yahoo omitted, so numeric zeros are dropped and read as missing.
func toFields(eq *finance.Equity) (entity.Fields, error) {
	b, err := json.Marshal(eq)
	if err != nil {
		return nil, fmt.Errorf("encode equity: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode equity: %w", err)
	}

	fields := make(entity.Fields, len(raw))
	for k, v := range raw {
		if n, ok := v.(json.Number); ok {
			if f, err := n.Float64(); err == nil && f == 0 {
				continue
			}
		}
		fields[k] = v
	}
	return fields, nil
}
