// Package analytics derives progress statistics from practice records.
//
// Every function is pure: results depend only on the records, the supplied
// instant and the Config, never on the process clock.
package analytics

import (
	"time"

	"github.com/verte-zerg/studyflow/internal/model"
)

// Compute ingests raw records and folds them into a snapshot in a single pass.
func Compute(raw []model.PracticeRecord, now time.Time, cfg Config) (AnalyticsSnapshot, error) {
	if err := cfg.Validate(); err != nil {
		return AnalyticsSnapshot{}, err
	}
	in := Ingest(raw)

	streak := newStreakAccumulator(now, cfg)
	subjects := newSubjectAccumulator()
	calendar := newCalendarAccumulator(now, cfg)
	hours := newTimeOfDayAccumulator(cfg)
	weekly := newWeeklyAccumulator(now, cfg)

	var (
		totalQuestions int
		pctSum         float64
		last           *model.PracticeRecord
	)
	for i := range in.Records {
		rec := in.Records[i]
		streak.add(rec)
		subjects.add(rec)
		calendar.add(rec)
		hours.add(rec)
		weekly.add(rec)

		totalQuestions += rec.TotalQuestions
		pctSum += 100 * float64(rec.Score) / float64(rec.TotalQuestions)
		if rec.Dated() && (last == nil || rec.OccurredAt.After(last.OccurredAt)) {
			last = &in.Records[i]
		}
	}

	summaries := subjects.result()
	best, worst := BestWorst(summaries)
	snap := AnalyticsSnapshot{
		AsOf:                   formatDay(civilDay(now, cfg.Location)),
		TotalSessions:          len(in.Records),
		UniqueSubjects:         len(summaries),
		TotalQuestionsAnswered: totalQuestions,
		BestSubject:            best,
		WorstSubject:           worst,
		Subjects:               summaries,
		DailyActivity:          calendar.result(),
		TimeOfDay:              hours.result(),
		Streak:                 streak.result(),
		Weekly:                 weekly.result(),
		Mastery:                Mastery(summaries, cfg),
		LastSession:            sessionRef(last, cfg.Location),
		Ingest:                 in.Stats,
	}
	if n := len(in.Records); n > 0 {
		snap.OverallAverageScorePct = roundHalfUp(pctSum / float64(n))
	}
	return snap, nil
}

func sessionRef(rec *model.PracticeRecord, loc *time.Location) SessionRef {
	if rec == nil {
		return SessionRef{Topic: NoData}
	}
	return SessionRef{
		Topic:          rec.Topic,
		Score:          rec.Score,
		TotalQuestions: rec.TotalQuestions,
		ScorePct:       roundPct(rec.Score, rec.TotalQuestions),
		OccurredAt:     rec.OccurredAt.In(loc).Format(time.RFC3339),
	}
}
