package reports

import (
	"time"

	"github.com/hayyerp/pos-backend/pkg/enums"
)

// Window geometry for trend series.
const (
	dailyBuckets   = 8
	dailyWidth     = 3 * time.Hour
	weeklyBuckets  = 7
	weeklyWidth    = 24 * time.Hour
	monthlyBuckets = 4
	monthlyWidth   = 7 * 24 * time.Hour
)

// WindowShape returns the bucket count and width for a trend window.
func WindowShape(window enums.TrendWindow) (buckets int, width time.Duration) {
	switch window {
	case enums.TrendWindowWeekly:
		return weeklyBuckets, weeklyWidth
	case enums.TrendWindowMonthly:
		return monthlyBuckets, monthlyWidth
	default:
		return dailyBuckets, dailyWidth
	}
}

// BucketOf places an event at a bucket index relative to now: index 0 holds
// the most recent events, higher indexes older ones. Events in the future
// or older than the window report ok=false and are excluded.
func BucketOf(window enums.TrendWindow, now, at time.Time) (index int, ok bool) {
	buckets, width := WindowShape(window)
	age := now.Sub(at)
	if age < 0 {
		return 0, false
	}
	index = int(age / width)
	if index >= buckets {
		return 0, false
	}
	return index, true
}
