package usecase

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v5"

	"dividend_screener/internal/feature/quotes/domain/entity"
)

// unit describes how a provider field expresses its value.
type unit int

const (
	unitPlain unit = iota
	unitPercent
)

// sourceField is one provider field name that can feed a canonical attribute.
type sourceField struct {
	name string
	unit unit
}

// Provider field names per canonical attribute, most preferred first.
var (
	priceFields = []sourceField{
		{name: "currentPrice"},
		{name: "regularMarketPrice"},
	}
	dividendYieldFields = []sourceField{
		{name: "dividendYield", unit: unitPercent},
		{name: "trailingAnnualDividendYield"},
	}
	dividendPerShareFields = []sourceField{
		{name: "dividendRate"},
		{name: "trailingAnnualDividendRate"},
	}
	marketCapFields  = []sourceField{{name: "marketCap"}}
	peRatioFields    = []sourceField{{name: "trailingPE"}, {name: "forwardPE"}}
	week52HighFields = []sourceField{{name: "fiftyTwoWeekHigh"}}
	week52LowFields  = []sourceField{{name: "fiftyTwoWeekLow"}}
	firstTradeFields = []sourceField{
		{name: "firstTradeDateEpochUtc"},
		{name: "firstTradeDateMilliseconds"},
	}
)

// NormalizeQuote maps a provider field set onto a SymbolQuote.
// Unresolvable fields stay missing; now anchors years_paying_dividends.
func NormalizeQuote(symbol string, fields entity.Fields, now time.Time) entity.SymbolQuote {
	q := entity.MissingQuote(symbol)
	if len(fields) == 0 {
		return q
	}

	q.Price = pick(fields, priceFields)
	q.DividendPerShare = pick(fields, dividendPerShareFields)
	q.MarketCap = pick(fields, marketCapFields)
	q.PERatio = pick(fields, peRatioFields)
	q.Week52High = pick(fields, week52HighFields)
	q.Week52Low = pick(fields, week52LowFields)

	if y := pick(fields, dividendYieldFields); y.Valid && y.Float64 >= 0 && y.Float64 < 1 {
		q.DividendYield = y
	}

	if ts := pick(fields, firstTradeFields); ts.Valid {
		q.YearsPayingDividends = yearsSince(epochMaybeMillis(int64(ts.Float64)), now)
	}
	return q
}

// pick returns the first candidate field that resolves to a finite number.
func pick(fields entity.Fields, candidates []sourceField) null.Float {
	for _, c := range candidates {
		raw, ok := fields[c.name]
		if !ok {
			continue
		}
		v, ok := toFloat(raw)
		if !ok {
			continue
		}
		if c.unit == unitPercent {
			v /= 100
		}
		return null.FloatFrom(v)
	}
	return null.Float{}
}

// toFloat coerces a loosely-typed provider value to a finite float64.
// Placeholder strings like "N/A", NaN and infinities do not resolve.
func toFloat(raw any) (float64, bool) {
	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int32:
		v = float64(x)
	case int64:
		v = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// epochMaybeMillis converts an epoch in seconds or milliseconds to a time.
func epochMaybeMillis(v int64) time.Time {
	if v > 1_000_000_000_000 {
		return time.UnixMilli(v).UTC()
	}
	return time.Unix(v, 0).UTC()
}

// yearsSince returns the whole years elapsed from start to now.
func yearsSince(start, now time.Time) null.Int {
	if start.After(now) {
		return null.Int{}
	}
	years := now.Year() - start.Year()
	if start.AddDate(years, 0, 0).After(now) {
		years--
	}
	if years < 0 {
		return null.Int{}
	}
	return null.IntFrom(int64(years))
}
