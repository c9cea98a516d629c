package usecase_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"

	"dividend_screener/internal/feature/quotes/domain/entity"
	"dividend_screener/internal/feature/quotes/usecase"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// TestNormalizeQuote_FieldPreference は複数のソースフィールドから正しい優先順位で値が選ばれることを検証します。
func TestNormalizeQuote_FieldPreference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields entity.Fields
		check  func(t *testing.T, q entity.SymbolQuote)
	}{
		{
			name: "currentPrice wins over regularMarketPrice",
			fields: entity.Fields{
				"currentPrice":       101.5,
				"regularMarketPrice": 99.0,
			},
			check: func(t *testing.T, q entity.SymbolQuote) {
				assert.Equal(t, null.FloatFrom(101.5), q.Price)
			},
		},
		{
			name:   "regularMarketPrice used when currentPrice absent",
			fields: entity.Fields{"regularMarketPrice": 99.0},
			check: func(t *testing.T, q entity.SymbolQuote) {
				assert.Equal(t, null.FloatFrom(99.0), q.Price)
			},
		},
		{
			name: "percent dividendYield is converted to a fraction",
			fields: entity.Fields{
				"dividendYield":               3.1,
				"trailingAnnualDividendYield": 0.02,
			},
			check: func(t *testing.T, q entity.SymbolQuote) {
				assert.InDelta(t, 0.031, q.DividendYield.Float64, 1e-12)
			},
		},
		{
			name:   "trailing yield is already a fraction",
			fields: entity.Fields{"trailingAnnualDividendYield": 0.025},
			check: func(t *testing.T, q entity.SymbolQuote) {
				assert.Equal(t, null.FloatFrom(0.025), q.DividendYield)
			},
		},
		{
			name: "unusable preferred field falls through to the next alias",
			fields: entity.Fields{
				"dividendRate":               "N/A",
				"trailingAnnualDividendRate": 1.84,
				"trailingPE":                 math.NaN(),
				"forwardPE":                  json.Number("22.4"),
			},
			check: func(t *testing.T, q entity.SymbolQuote) {
				assert.Equal(t, null.FloatFrom(1.84), q.DividendPerShare)
				assert.Equal(t, null.FloatFrom(22.4), q.PERatio)
			},
		},
		{
			name: "numeric strings and integers are coerced",
			fields: entity.Fields{
				"marketCap":        int64(2_500_000_000),
				"fiftyTwoWeekHigh": " 45.10 ",
				"fiftyTwoWeekLow":  30,
			},
			check: func(t *testing.T, q entity.SymbolQuote) {
				assert.Equal(t, null.FloatFrom(2_500_000_000), q.MarketCap)
				assert.Equal(t, null.FloatFrom(45.10), q.Week52High)
				assert.Equal(t, null.FloatFrom(30), q.Week52Low)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := usecase.NormalizeQuote("KO", tt.fields, fixedNow)
			assert.Equal(t, "KO", q.Symbol)
			tt.check(t, q)
		})
	}
}

// TestNormalizeQuote_MissingValues はプレースホルダや不正な値がすべて単一の欠損表現になることを検証します。
func TestNormalizeQuote_MissingValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields entity.Fields
	}{
		{name: "nil fields", fields: nil},
		{name: "empty fields", fields: entity.Fields{}},
		{
			name: "placeholders",
			fields: entity.Fields{
				"currentPrice":                "N/A",
				"regularMarketPrice":          "",
				"dividendYield":               math.Inf(1),
				"trailingAnnualDividendYield": "abc",
				"marketCap":                   nil,
				"trailingPE":                  []any{1, 2},
				"fiftyTwoWeekHigh":            math.NaN(),
				"fiftyTwoWeekLow":             map[string]any{"raw": 1},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, entity.MissingQuote("XXXX"), usecase.NormalizeQuote("XXXX", tt.fields, fixedNow))
		})
	}
}

// TestNormalizeQuote_YieldRange は[0,1)の範囲外の配当利回りが欠損として扱われることを検証します。
func TestNormalizeQuote_YieldRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field string
		value any
		want  null.Float
	}{
		{name: "zero is kept", field: "trailingAnnualDividendYield", value: 0.0, want: null.FloatFrom(0)},
		{name: "negative yield", field: "trailingAnnualDividendYield", value: -0.01, want: null.Float{}},
		{name: "fraction of one", field: "trailingAnnualDividendYield", value: 1.0, want: null.Float{}},
		{name: "percent over 100", field: "dividendYield", value: 150.0, want: null.Float{}},
		{name: "percent in range", field: "dividendYield", value: 4.0, want: null.FloatFrom(0.04)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := usecase.NormalizeQuote("T", entity.Fields{tt.field: tt.value}, fixedNow)
			assert.Equal(t, tt.want.Valid, q.DividendYield.Valid)
			if tt.want.Valid {
				assert.InDelta(t, tt.want.Float64, q.DividendYield.Float64, 1e-12)
			}
		})
	}

	// zero yield is present but does not count as paying a dividend
	q := usecase.NormalizeQuote("T", entity.Fields{"trailingAnnualDividendYield": 0.0}, fixedNow)
	assert.False(t, q.HasDividendYield())
}

// TestNormalizeQuote_YearsPayingDividends は初回取引日時から経過年数が導出されることを検証します。
func TestNormalizeQuote_YearsPayingDividends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  null.Int
	}{
		{
			name:  "epoch seconds",
			value: float64(time.Date(2005, 1, 3, 0, 0, 0, 0, time.UTC).Unix()),
			want:  null.IntFrom(20),
		},
		{
			name:  "epoch milliseconds",
			value: float64(time.Date(2005, 1, 3, 0, 0, 0, 0, time.UTC).UnixMilli()),
			want:  null.IntFrom(20),
		},
		{
			name:  "anniversary not yet reached",
			value: float64(time.Date(2015, 7, 1, 0, 0, 0, 0, time.UTC).Unix()),
			want:  null.IntFrom(9),
		},
		{
			name:  "anniversary today",
			value: float64(time.Date(2015, 6, 15, 0, 0, 0, 0, time.UTC).Unix()),
			want:  null.IntFrom(10),
		},
		{
			name:  "future first trade",
			value: float64(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix()),
			want:  null.Int{},
		},
		{
			name:  "unparseable",
			value: "yesterday",
			want:  null.Int{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := usecase.NormalizeQuote("MMM", entity.Fields{"firstTradeDateEpochUtc": tt.value}, fixedNow)
			assert.Equal(t, tt.want, q.YearsPayingDividends)
		})
	}
}
