package cache

import (
	"time"
	_ "time/tzdata"
)

// ExpiryPolicy returns how long an entry stored at now stays fresh.
// A non-positive duration disables caching.
type ExpiryPolicy func(now time.Time) time.Duration

// FixedTTL expires entries d after they are stored.
func FixedTTL(d time.Duration) ExpiryPolicy {
	return func(time.Time) time.Duration { return d }
}

// UntilNext8AM expires entries at the next 08:00 New York time, after the
// overnight constituents refresh.
func UntilNext8AM(now time.Time) time.Duration {
	return TimeUntilNext(now, newYork, 8)
}

var newYork = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// TimeUntilNext は now から loc における次の hour 時ちょうどまでの期間を返します。
func TimeUntilNext(now time.Time, loc *time.Location, hour int) time.Duration {
	now = now.In(loc)

	// 次の指定時刻を計算
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)

	// 今日の指定時刻が既に過ぎている場合は翌日を使用（夏時間の切り替えを考慮してAddDateを使う）
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}
