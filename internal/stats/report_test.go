package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/studyflow/internal/analytics"
	"github.com/verte-zerg/studyflow/internal/model"
	"github.com/verte-zerg/studyflow/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "studyflow.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func reportConfig() analytics.Config {
	cfg := analytics.DefaultConfig()
	cfg.Location = time.UTC
	return cfg
}

func TestBuildReport(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	records := []model.PracticeRecord{
		{Topic: "Algebra", Score: 9, TotalQuestions: 10, OccurredAt: now.Add(-2 * time.Hour)},
		{Topic: "History", Score: 3, TotalQuestions: 5, OccurredAt: now.Add(-26 * time.Hour)},
		{Topic: "Algebra", Score: 7, TotalQuestions: 10, OccurredAt: now.Add(-50 * time.Hour)},
	}
	if _, err := st.InsertRecords(ctx, records); err != nil {
		t.Fatalf("insert records: %v", err)
	}
	if _, err := st.InsertGoal(ctx, "Finish unit 3", now); err != nil {
		t.Fatalf("insert goal: %v", err)
	}

	cache, err := analytics.NewCache(4)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	cfg := ReportConfig{Analytics: reportConfig()}

	report, err := BuildReport(ctx, st, cache, cfg, now)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.CacheHit {
		t.Fatalf("expected first build to miss the cache")
	}
	if len(report.Records) != 3 || len(report.Goals) != 1 {
		t.Fatalf("unexpected data: %d records, %d goals", len(report.Records), len(report.Goals))
	}
	snap := report.Snapshot
	if snap.TotalSessions != 3 || snap.UniqueSubjects != 2 {
		t.Fatalf("unexpected totals: %+v", snap)
	}
	if snap.Streak.CurrentStreak != 3 {
		t.Fatalf("expected streak 3, got %d", snap.Streak.CurrentStreak)
	}
	if snap.BestSubject.Topic != "Algebra" || snap.WorstSubject.Topic != "History" {
		t.Fatalf("unexpected best/worst: %+v %+v", snap.BestSubject, snap.WorstSubject)
	}

	again, err := BuildReport(ctx, st, cache, cfg, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("build report again: %v", err)
	}
	if !again.CacheHit {
		t.Fatalf("expected cache hit for unchanged data on the same day")
	}
}

func TestBuildReportTopicFilter(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	if _, err := st.InsertRecords(ctx, []model.PracticeRecord{
		{Topic: "Algebra", Score: 9, TotalQuestions: 10, OccurredAt: now},
		{Topic: "History", Score: 3, TotalQuestions: 5, OccurredAt: now},
	}); err != nil {
		t.Fatalf("insert records: %v", err)
	}

	report, err := BuildReport(ctx, st, nil, ReportConfig{Analytics: reportConfig(), Topic: "History"}, now)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Snapshot.TotalSessions != 1 || report.Snapshot.Subjects[0].Topic != "History" {
		t.Fatalf("expected only History, got %+v", report.Snapshot.Subjects)
	}
}

func TestBuildReportInvalidConfig(t *testing.T) {
	st := openTestStore(t)
	cfg := reportConfig()
	cfg.WindowDays = 0
	if _, err := BuildReport(context.Background(), st, nil, ReportConfig{Analytics: cfg}, time.Now()); err == nil {
		t.Fatalf("expected config error")
	}
}
