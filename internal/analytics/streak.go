package analytics

import (
	"sort"
	"time"

	"github.com/verte-zerg/studyflow/internal/model"
)

const recentDayCount = 7

type streakAccumulator struct {
	loc   *time.Location
	today time.Time
	days  map[time.Time]struct{}
}

func newStreakAccumulator(now time.Time, cfg Config) *streakAccumulator {
	loc := cfg.location()
	return &streakAccumulator{
		loc:   loc,
		today: civilDay(now, loc),
		days:  map[time.Time]struct{}{},
	}
}

func (a *streakAccumulator) add(rec model.PracticeRecord) {
	if !rec.Dated() {
		return
	}
	a.days[civilDay(rec.OccurredAt, a.loc)] = struct{}{}
}

func (a *streakAccumulator) result() StreakState {
	state := StreakState{RecentDays: make([]DayFlag, 0, recentDayCount)}
	for i := recentDayCount - 1; i >= 0; i-- {
		day := a.today.AddDate(0, 0, -i)
		_, active := a.days[day]
		state.RecentDays = append(state.RecentDays, DayFlag{Date: formatDay(day), Active: active})
	}
	if len(a.days) == 0 {
		return state
	}

	dates := make([]time.Time, 0, len(a.days))
	for day := range a.days {
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	// The streak only survives if the latest practice day is today or yesterday.
	if anchor := daysBetween(a.today, dates[0]); anchor != 0 && anchor != 1 {
		return state
	}
	streak := 1
	for i := 0; i+1 < len(dates); i++ {
		if daysBetween(dates[i], dates[i+1]) != 1 {
			break
		}
		streak++
	}
	state.CurrentStreak = streak
	return state
}

// CurrentStreak computes the consecutive-day practice streak ending today or
// yesterday in cfg.Location. Multiple records on one day count once.
func CurrentStreak(records []model.PracticeRecord, now time.Time, cfg Config) StreakState {
	acc := newStreakAccumulator(now, cfg)
	for _, rec := range records {
		acc.add(rec)
	}
	return acc.result()
}
