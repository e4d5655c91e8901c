package analytics

import (
	"time"

	"github.com/verte-zerg/studyflow/internal/model"
)

// Time-of-day bucket labels in output order.
const (
	Morning   = "Morning"
	Afternoon = "Afternoon"
	Evening   = "Evening"
	Night     = "Night"
)

var bucketRanges = [...]struct {
	label      string
	start, end int
}{
	{Morning, 6, 12},
	{Afternoon, 12, 18},
	{Evening, 18, 24},
	{Night, 0, 6},
}

type calendarAccumulator struct {
	loc    *time.Location
	first  time.Time
	counts []int
}

func newCalendarAccumulator(now time.Time, cfg Config) *calendarAccumulator {
	loc := cfg.location()
	days := cfg.WindowDays
	if days < 0 {
		days = 0
	}
	return &calendarAccumulator{
		loc:    loc,
		first:  civilDay(now, loc).AddDate(0, 0, -(days - 1)),
		counts: make([]int, days),
	}
}

func (a *calendarAccumulator) add(rec model.PracticeRecord) {
	if !rec.Dated() {
		return
	}
	idx := daysBetween(civilDay(rec.OccurredAt, a.loc), a.first)
	if idx < 0 || idx >= len(a.counts) {
		return
	}
	a.counts[idx] += rec.TotalQuestions
}

func (a *calendarAccumulator) result() []DailyActivity {
	out := make([]DailyActivity, len(a.counts))
	for i, n := range a.counts {
		out[i] = DailyActivity{
			Date:              formatDay(a.first.AddDate(0, 0, i)),
			QuestionsAnswered: n,
		}
	}
	return out
}

// ActivityCalendar returns questions answered per local day for the trailing
// cfg.WindowDays days ending today, oldest first, zero-filled.
func ActivityCalendar(records []model.PracticeRecord, now time.Time, cfg Config) []DailyActivity {
	acc := newCalendarAccumulator(now, cfg)
	for _, rec := range records {
		acc.add(rec)
	}
	return acc.result()
}

type timeOfDayAccumulator struct {
	loc     *time.Location
	buckets [len(bucketRanges)]TimeOfDayBucket
}

func newTimeOfDayAccumulator(cfg Config) *timeOfDayAccumulator {
	a := &timeOfDayAccumulator{loc: cfg.location()}
	for i, r := range bucketRanges {
		a.buckets[i] = TimeOfDayBucket{Label: r.label, StartHour: r.start, EndHour: r.end}
	}
	return a
}

func (a *timeOfDayAccumulator) add(rec model.PracticeRecord) {
	if !rec.Dated() {
		return
	}
	b := &a.buckets[bucketIndex(rec.OccurredAt.In(a.loc).Hour())]
	b.Sessions++
	b.TotalScore += rec.Score
	b.TotalQuestions += rec.TotalQuestions
}

func (a *timeOfDayAccumulator) result() []TimeOfDayBucket {
	out := make([]TimeOfDayBucket, len(a.buckets))
	for i, b := range a.buckets {
		b.AverageScorePct = roundPct(b.TotalScore, b.TotalQuestions)
		out[i] = b
	}
	return out
}

func bucketIndex(hour int) int {
	for i, r := range bucketRanges {
		if hour >= r.start && hour < r.end {
			return i
		}
	}
	return len(bucketRanges) - 1
}

// TimeOfDay groups dated records into the Morning, Afternoon, Evening and Night buckets.
func TimeOfDay(records []model.PracticeRecord, cfg Config) []TimeOfDayBucket {
	acc := newTimeOfDayAccumulator(cfg)
	for _, rec := range records {
		acc.add(rec)
	}
	return acc.result()
}
