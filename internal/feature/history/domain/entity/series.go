// Package entity defines the domain models for the price history feature.
package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"dividend_screener/internal/feature/quotes/domain"
)

// Window is a named look-back period for a price history request.
type Window string

const (
	Window1Mo Window = "1mo"
	Window3Mo Window = "3mo"
	Window6Mo Window = "6mo"
	Window1Y  Window = "1y"
	Window5Y  Window = "5y"
	WindowMax Window = "max"
)

// DefaultWindow is used when a request does not name a window.
const DefaultWindow = Window1Y

// Interval is the spacing between consecutive price points.
type Interval string

const (
	IntervalDaily   Interval = "1d"
	IntervalWeekly  Interval = "1wk"
	IntervalMonthly Interval = "1mo"
)

// ParseWindow validates s as a Window. An empty string selects DefaultWindow.
func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case "":
		return DefaultWindow, nil
	case Window1Mo, Window3Mo, Window6Mo, Window1Y, Window5Y, WindowMax:
		return w, nil
	default:
		return "", fmt.Errorf("%w: unknown window %q", domain.ErrInvalidArgument, s)
	}
}

// Range resolves w against now. WindowMax has a zero Start, meaning the
// full available history.
func (w Window) Range(now time.Time) Range {
	r := Range{Window: w, End: now, Interval: IntervalDaily}
	switch w {
	case Window1Mo:
		r.Start = now.AddDate(0, -1, 0)
	case Window3Mo:
		r.Start = now.AddDate(0, -3, 0)
	case Window6Mo:
		r.Start = now.AddDate(0, -6, 0)
	case Window1Y:
		r.Start = now.AddDate(-1, 0, 0)
	case Window5Y:
		r.Start = now.AddDate(-5, 0, 0)
		r.Interval = IntervalWeekly
	case WindowMax:
		r.Interval = IntervalMonthly
	}
	return r
}

// Range is a concrete time span and bar interval for one provider call.
type Range struct {
	Window   Window
	Start    time.Time // zero means unbounded
	End      time.Time
	Interval Interval
}

// PricePoint is one closing price.
type PricePoint struct {
	Time  time.Time
	Close decimal.Decimal
}

// Series is the close-price history of one symbol, oldest first.
// Empty Points means no history was available.
type Series struct {
	Symbol string
	Window Window
	Points []PricePoint
}
