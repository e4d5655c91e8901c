package analytics

import (
	"math"
	"time"
)

const (
	dateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// civilDay returns the local calendar date of t as midnight UTC, so that day
// arithmetic is exact regardless of DST transitions in loc.
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days between two civil days. It avoids time.Duration,
// which saturates after about 292 years.
func daysBetween(later, earlier time.Time) int {
	return int((later.Unix() - earlier.Unix()) / secondsPerDay)
}

func formatDay(day time.Time) string {
	return day.Format(dateLayout)
}

// roundPct returns round(100*num/den) with halves rounded up, or 0 when den is not positive.
func roundPct(num, den int) int {
	if den <= 0 {
		return 0
	}
	return roundHalfUp(100 * float64(num) / float64(den))
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
