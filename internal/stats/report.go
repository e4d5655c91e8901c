// Package stats loads practice data and renders analytics as text.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/studyflow/internal/analytics"
	"github.com/verte-zerg/studyflow/internal/model"
	"github.com/verte-zerg/studyflow/internal/store"
)

// ReportConfig selects records and engine settings for a report.
type ReportConfig struct {
	Analytics analytics.Config
	// Topic limits the report to one subject when set.
	Topic string
}

// Report bundles a snapshot with the data it was computed from.
type Report struct {
	Snapshot analytics.AnalyticsSnapshot
	Records  []model.PracticeRecord
	Goals    []model.CustomGoal
	CacheHit bool
}

// BuildReport loads records and goals and computes the snapshot.
// A nil cache computes directly.
func BuildReport(ctx context.Context, st *store.Store, cache *analytics.Cache, cfg ReportConfig, now time.Time) (Report, error) {
	records, err := st.ListRecords(ctx, model.RecordFilter{Topic: cfg.Topic})
	if err != nil {
		return Report{}, err
	}
	goals, err := st.ListGoals(ctx)
	if err != nil {
		return Report{}, err
	}

	var (
		snapshot analytics.AnalyticsSnapshot
		hit      bool
	)
	if cache != nil {
		snapshot, hit, err = cache.Compute(records, now, cfg.Analytics)
	} else {
		snapshot, err = analytics.Compute(records, now, cfg.Analytics)
	}
	if err != nil {
		return Report{}, fmt.Errorf("failed to compute analytics: %w", err)
	}

	return Report{
		Snapshot: snapshot,
		Records:  records,
		Goals:    goals,
		CacheHit: hit,
	}, nil
}
