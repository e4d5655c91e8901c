package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/studyflow/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "studyflow.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestRecordsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))

	recs := []model.PracticeRecord{
		{Topic: "Math", Score: 9, TotalQuestions: 10, OccurredAt: base},
		{Topic: "History", Score: 5, TotalQuestions: 10, OccurredAt: base.Add(36 * time.Hour)},
		{Topic: "Math", Score: 7, TotalQuestions: 10},
	}
	n, err := st.InsertRecords(ctx, recs)
	if err != nil {
		t.Fatalf("insert records: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 inserted records, got %d", n)
	}

	got, err := st.ListRecords(ctx, model.RecordFilter{})
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].Topic != "Math" || got[1].Topic != "History" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if !got[0].OccurredAt.Equal(base) {
		t.Fatalf("expected %v, got %v", base, got[0].OccurredAt)
	}
	if got[2].Dated() {
		t.Fatalf("expected undated record, got %v", got[2].OccurredAt)
	}
}

func TestListRecordsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	for i, topic := range []string{"Math", "History", "Math"} {
		rec := model.PracticeRecord{Topic: topic, Score: 1, TotalQuestions: 2, OccurredAt: base.AddDate(0, 0, i)}
		if _, err := st.InsertRecord(ctx, rec); err != nil {
			t.Fatalf("insert record: %v", err)
		}
	}

	math, err := st.ListRecords(ctx, model.RecordFilter{Topic: "Math"})
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(math) != 2 {
		t.Fatalf("expected 2 math records, got %d", len(math))
	}

	since := base.AddDate(0, 0, 1).Add(500 * time.Millisecond)
	recent, err := st.ListRecords(ctx, model.RecordFilter{Since: &since})
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(recent) != 1 || recent[0].OccurredAt.Day() != 3 {
		t.Fatalf("unexpected since result: %+v", recent)
	}
}

func TestUnparseableTimestampLoadsAsUndated(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.db.ExecContext(ctx,
		`INSERT INTO practice_records (topic, score, total_questions, occurred_at) VALUES ('Art', 1, 2, 'yesterday-ish')`); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	got, err := st.ListRecords(ctx, model.RecordFilter{})
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(got) != 1 || got[0].Dated() {
		t.Fatalf("expected one undated record, got %+v", got)
	}
}

func TestGoalsLifecycle(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	first, err := st.InsertGoal(ctx, "  Finish algebra  ", now)
	if err != nil {
		t.Fatalf("insert goal: %v", err)
	}
	if _, err := st.InsertGoal(ctx, "Read a chapter", now.Add(time.Minute)); err != nil {
		t.Fatalf("insert goal: %v", err)
	}
	if _, err := st.InsertGoal(ctx, "   ", now); err == nil {
		t.Fatalf("expected empty goal to be rejected")
	}

	if err := st.SetGoalCompleted(ctx, first, true); err != nil {
		t.Fatalf("complete goal: %v", err)
	}
	goals, err := st.ListGoals(ctx)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}
	if goals[0].Text != "Finish algebra" || !goals[0].Completed {
		t.Fatalf("unexpected first goal: %+v", goals[0])
	}
	if goals[1].Completed {
		t.Fatalf("expected second goal to be open")
	}

	if err := st.DeleteGoal(ctx, first); err != nil {
		t.Fatalf("delete goal: %v", err)
	}
	if err := st.DeleteGoal(ctx, first); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.SetGoalCompleted(ctx, 999, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
