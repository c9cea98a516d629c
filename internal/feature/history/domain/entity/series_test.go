package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dividend_screener/internal/feature/quotes/domain"
)

func TestParseWindow(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"1mo", "3mo", "6mo", "1y", "5y", "max"} {
		w, err := ParseWindow(s)
		require.NoError(t, err)
		assert.Equal(t, Window(s), w)
	}

	w, err := ParseWindow("")
	require.NoError(t, err)
	assert.Equal(t, Window1Y, w)

	for _, s := range []string{"2y", "1Y", "ytd", " 1mo"} {
		_, err := ParseWindow(s)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, s)
	}
}

func TestWindow_Range(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 31, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		window       Window
		wantStart    time.Time
		wantInterval Interval
	}{
		{Window1Mo, time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC), IntervalDaily}, // Feb 31 normalizes to Mar 3
		{Window3Mo, time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC), IntervalDaily},
		{Window6Mo, time.Date(2024, 10, 1, 15, 0, 0, 0, time.UTC), IntervalDaily},
		{Window1Y, time.Date(2024, 3, 31, 15, 0, 0, 0, time.UTC), IntervalDaily},
		{Window5Y, time.Date(2020, 3, 31, 15, 0, 0, 0, time.UTC), IntervalWeekly},
		{WindowMax, time.Time{}, IntervalMonthly},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.window), func(t *testing.T) {
			t.Parallel()

			r := tt.window.Range(now)
			assert.Equal(t, tt.window, r.Window)
			assert.Equal(t, tt.wantStart, r.Start)
			assert.Equal(t, now, r.End)
			assert.Equal(t, tt.wantInterval, r.Interval)
		})
	}
}
