package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/studyflow/internal/model"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Location = time.UTC
	return cfg
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.UTC)
	require.NoError(t, err)
	return ts
}

func rec(t *testing.T, topic string, score, total int, occurredAt string) model.PracticeRecord {
	t.Helper()
	r := model.PracticeRecord{Topic: topic, Score: score, TotalQuestions: total}
	if occurredAt != "" {
		r.OccurredAt = at(t, occurredAt)
	}
	return r
}

func TestComputeEndToEnd(t *testing.T) {
	now := at(t, "2024-01-02T23:00:00")
	records := []model.PracticeRecord{
		rec(t, "Math", 9, 10, "2024-01-01T08:00:00"),
		rec(t, "Math", 7, 10, "2024-01-02T08:00:00"),
		rec(t, "History", 5, 10, "2024-01-02T20:00:00"),
	}

	snap, err := Compute(records, now, testConfig())
	require.NoError(t, err)

	require.Equal(t, []SubjectSummary{
		{Topic: "Math", SessionCount: 2, TotalScore: 16, TotalQuestions: 20, AverageScorePct: 80},
		{Topic: "History", SessionCount: 1, TotalScore: 5, TotalQuestions: 10, AverageScorePct: 50},
	}, snap.Subjects)
	require.Equal(t, 30, snap.TotalQuestionsAnswered)
	require.Equal(t, 2, snap.Streak.CurrentStreak)
	require.Equal(t, SubjectRef{Topic: "Math", AverageScorePct: 80}, snap.BestSubject)
	require.Equal(t, SubjectRef{Topic: "History", AverageScorePct: 50}, snap.WorstSubject)
	require.Equal(t, 70, snap.OverallAverageScorePct)
	require.Equal(t, 3, snap.TotalSessions)
	require.Equal(t, 2, snap.UniqueSubjects)
	require.Equal(t, "2024-01-02", snap.AsOf)
	require.Equal(t, 3, snap.Weekly.SessionsThisWeek)
	require.Equal(t, 0, snap.Mastery.SubjectsMastered)
	require.Equal(t, "History", snap.LastSession.Topic)
	require.Equal(t, "2024-01-02T20:00:00Z", snap.LastSession.OccurredAt)

	require.Len(t, snap.DailyActivity, DefaultWindowDays)
	require.Equal(t, "2023-12-04", snap.DailyActivity[0].Date)
	require.Equal(t, DailyActivity{Date: "2024-01-01", QuestionsAnswered: 10}, snap.DailyActivity[28])
	require.Equal(t, DailyActivity{Date: "2024-01-02", QuestionsAnswered: 20}, snap.DailyActivity[29])
}

func TestComputeOverallIsPerSessionSubjectIsPerQuestion(t *testing.T) {
	now := at(t, "2024-01-02T12:00:00")
	records := []model.PracticeRecord{
		rec(t, "Math", 1, 2, "2024-01-01T08:00:00"),
		rec(t, "Math", 10, 10, "2024-01-02T08:00:00"),
	}

	snap, err := Compute(records, now, testConfig())
	require.NoError(t, err)
	require.Equal(t, 75, snap.OverallAverageScorePct)
	require.Len(t, snap.Subjects, 1)
	require.Equal(t, 92, snap.Subjects[0].AverageScorePct)
	require.Equal(t, SubjectRef{Topic: "Math", AverageScorePct: 92}, snap.BestSubject)
}

func TestComputeEmptyInput(t *testing.T) {
	snap, err := Compute(nil, at(t, "2024-01-02T12:00:00"), testConfig())
	require.NoError(t, err)

	require.Zero(t, snap.TotalSessions)
	require.Zero(t, snap.TotalQuestionsAnswered)
	require.Zero(t, snap.OverallAverageScorePct)
	require.Zero(t, snap.Streak.CurrentStreak)
	require.Zero(t, snap.Weekly.SessionsThisWeek)
	require.Zero(t, snap.Mastery.SubjectsMastered)
	require.Equal(t, SubjectRef{Topic: NoData}, snap.BestSubject)
	require.Equal(t, SubjectRef{Topic: NoData}, snap.WorstSubject)
	require.Equal(t, SessionRef{Topic: NoData}, snap.LastSession)
	require.NotNil(t, snap.Subjects)
	require.Empty(t, snap.Subjects)
	require.Len(t, snap.DailyActivity, DefaultWindowDays)
	require.Len(t, snap.TimeOfDay, 4)
	require.Len(t, snap.Streak.RecentDays, 7)

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.Contains(t, string(data), `"subjects":[]`)
	require.NotContains(t, string(data), "null")
}

func TestComputeIsIdempotent(t *testing.T) {
	now := at(t, "2024-03-10T09:00:00")
	records := []model.PracticeRecord{
		rec(t, "Physics", 3, 8, "2024-03-09T07:15:00"),
		rec(t, "Math", 10, 10, "2024-03-10T06:00:00"),
		rec(t, "Physics", 6, 8, ""),
	}

	first, err := Compute(records, now, testConfig())
	require.NoError(t, err)
	second, err := Compute(records, now, testConfig())
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestComputeIsOrderIndependent(t *testing.T) {
	now := at(t, "2024-03-10T21:00:00")
	records := []model.PracticeRecord{
		rec(t, "Math", 9, 10, "2024-03-08T07:00:00"),
		rec(t, "Biology", 4, 5, "2024-03-09T13:00:00"),
		rec(t, "Math", 5, 10, "2024-03-10T19:30:00"),
		rec(t, "Chemistry", 12, 20, "2024-03-01T02:00:00"),
		rec(t, "Biology", 2, 5, "2024-03-10T08:00:00"),
	}
	reversed := make([]model.PracticeRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}

	a, err := Compute(records, now, testConfig())
	require.NoError(t, err)
	b, err := Compute(reversed, now, testConfig())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	records := []model.PracticeRecord{
		rec(t, "B", 1, 2, "2024-03-10T10:00:00"),
		rec(t, "A", 1, 2, "2024-03-01T10:00:00"),
	}
	before := append([]model.PracticeRecord(nil), records...)
	_, err := Compute(records, at(t, "2024-03-10T12:00:00"), testConfig())
	require.NoError(t, err)
	require.Equal(t, before, records)
}

func TestComputeRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.WindowDays = 0
	_, err := Compute(nil, time.Now(), cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestIngestRejectsAndFlags(t *testing.T) {
	raw := []model.PracticeRecord{
		rec(t, "Math", 0, 0, "2024-01-01T10:00:00"),
		rec(t, "Math", 11, 10, "2024-01-01T10:00:00"),
		rec(t, "Math", -1, 10, "2024-01-01T10:00:00"),
		rec(t, "Math", 6, 10, ""),
		rec(t, "Math", 8, 10, "2024-01-02T10:00:00"),
		rec(t, "Art", 2, 4, "2024-01-01T10:00:00"),
	}

	in := Ingest(raw)
	require.Equal(t, IngestStats{Received: 6, Accepted: 3, Rejected: 3, Undated: 1}, in.Stats)
	require.Equal(t, "Art", in.Records[0].Topic)
	require.Equal(t, 8, in.Records[1].Score)
	require.False(t, in.Records[2].Dated())
}

func TestUndatedRecordsOnlyFeedScoreTotals(t *testing.T) {
	now := at(t, "2024-01-02T12:00:00")
	records := []model.PracticeRecord{
		rec(t, "Math", 10, 10, ""),
		rec(t, "Math", 0, 10, "2024-01-02T09:00:00"),
	}

	snap, err := Compute(records, now, testConfig())
	require.NoError(t, err)
	require.Equal(t, 50, snap.Subjects[0].AverageScorePct)
	require.Equal(t, 20, snap.TotalQuestionsAnswered)
	require.Equal(t, 1, snap.Weekly.SessionsThisWeek)
	require.Equal(t, 10, snap.DailyActivity[len(snap.DailyActivity)-1].QuestionsAnswered)
	require.Equal(t, 1, snap.TimeOfDay[0].Sessions)
	require.Equal(t, "2024-01-02T09:00:00Z", snap.LastSession.OccurredAt)
	require.Equal(t, 1, snap.Ingest.Undated)
}

func TestLastSessionTieKeepsInputOrder(t *testing.T) {
	records := []model.PracticeRecord{
		rec(t, "First", 1, 2, "2024-01-02T09:00:00"),
		rec(t, "Second", 2, 2, "2024-01-02T09:00:00"),
	}
	snap, err := Compute(records, at(t, "2024-01-02T12:00:00"), testConfig())
	require.NoError(t, err)
	require.Equal(t, "First", snap.LastSession.Topic)
	require.Equal(t, 50, snap.LastSession.ScorePct)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold above 100", func(c *Config) { c.MasteryThreshold = 101 }},
		{"negative threshold", func(c *Config) { c.MasteryThreshold = -1 }},
		{"negative mastery goal", func(c *Config) { c.MasteryGoal = -1 }},
		{"zero weekly goal", func(c *Config) { c.WeeklyGoal = 0 }},
		{"negative window", func(c *Config) { c.WindowDays = -3 }},
		{"window too long", func(c *Config) { c.WindowDays = MaxWindowDays + 1 }},
		{"bad weekday", func(c *Config) { c.WeekStart = time.Weekday(9) }},
		{"nil location", func(c *Config) { c.Location = nil }},
	}
	require.NoError(t, testConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestParseWeekday(t *testing.T) {
	for input, want := range map[string]time.Weekday{
		"monday": time.Monday,
		"Mon":    time.Monday,
		" SUN ":  time.Sunday,
		"thurs":  time.Thursday,
	} {
		got, err := ParseWeekday(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}
	for _, input := range []string{"", "mo", "mondays", "funday"} {
		_, err := ParseWeekday(input)
		require.ErrorIs(t, err, ErrInvalidConfig, input)
	}
}
