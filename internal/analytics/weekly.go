package analytics

import (
	"time"

	"github.com/verte-zerg/studyflow/internal/model"
)

type weeklyAccumulator struct {
	start, end time.Time
	target     int
	sessions   int
}

func newWeeklyAccumulator(now time.Time, cfg Config) *weeklyAccumulator {
	start, end := weekBounds(now, cfg.WeekStart, cfg.location())
	return &weeklyAccumulator{start: start, end: end, target: cfg.WeeklyGoal}
}

// weekBounds returns [start, end) of the local week containing now.
func weekBounds(now time.Time, weekStart time.Weekday, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	offset := (int(local.Weekday()) - int(weekStart) + 7) % 7
	y, m, d := local.Date()
	start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d-offset+7, 0, 0, 0, 0, loc)
	return start, end
}

func (a *weeklyAccumulator) add(rec model.PracticeRecord) {
	if !rec.Dated() {
		return
	}
	if rec.OccurredAt.Before(a.start) || !rec.OccurredAt.Before(a.end) {
		return
	}
	a.sessions++
}

func (a *weeklyAccumulator) result() WeeklyProgress {
	progress := roundPct(a.sessions, a.target)
	if progress > 100 {
		progress = 100
	}
	return WeeklyProgress{
		SessionsThisWeek: a.sessions,
		Target:           a.target,
		ProgressPct:      progress,
		Met:              a.target > 0 && a.sessions >= a.target,
		WeekStart:        a.start.Format(dateLayout),
		WeekEnd:          a.end.Format(dateLayout),
	}
}

// Weekly counts records in the local week containing now against cfg.WeeklyGoal.
func Weekly(records []model.PracticeRecord, now time.Time, cfg Config) WeeklyProgress {
	acc := newWeeklyAccumulator(now, cfg)
	for _, rec := range records {
		acc.add(rec)
	}
	return acc.result()
}
