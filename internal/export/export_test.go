package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/studyflow/internal/analytics"
	"github.com/verte-zerg/studyflow/internal/model"
)

func TestFileNameUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)

	require.Equal(t, "studyflow-report_2024-03-10_01-30.json", FileName(now, loc))
	require.Equal(t, "studyflow-report_2024-03-09_23-30.json", FileName(now, time.UTC))
}

func TestNewBundleFormatsHistory(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []model.PracticeRecord{
		{Topic: "Algebra", Score: 8, TotalQuestions: 10, OccurredAt: time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)},
		{Topic: "History", Score: 3, TotalQuestions: 5},
	}
	goals := []model.CustomGoal{
		{ID: 1, Text: "Finish chapter 4", Completed: true, CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	snapshot, err := analytics.Compute(records, now, analytics.Config{
		MasteryThreshold: analytics.DefaultMasteryThreshold,
		MasteryGoal:      analytics.DefaultMasteryGoal,
		WeeklyGoal:       analytics.DefaultWeeklyGoal,
		WindowDays:       analytics.DefaultWindowDays,
		WeekStart:        analytics.DefaultWeekStart,
		Location:         time.UTC,
	})
	require.NoError(t, err)

	bundle := NewBundle(snapshot, goals, records, now, time.UTC)

	require.Equal(t, "2024-03-10T12:00:00Z", bundle.GeneratedAt)
	require.Len(t, bundle.DetailedHistory, 2)
	require.Equal(t, "2024-03-09T08:00:00Z", bundle.DetailedHistory[0].OccurredAt)
	require.Empty(t, bundle.DetailedHistory[1].OccurredAt)
	require.Equal(t, []Goal{{ID: 1, Text: "Finish chapter 4", Completed: true, CreatedAt: "2024-03-01T09:00:00Z"}}, bundle.CustomGoals)
	require.Equal(t, 2, bundle.Summary.TotalSessions)
}

func TestNewBundleEmptySlicesSerializeAsArrays(t *testing.T) {
	bundle := NewBundle(analytics.AnalyticsSnapshot{}, nil, nil, time.Unix(0, 0), time.UTC)

	data, err := json.Marshal(bundle)
	require.NoError(t, err)
	require.Contains(t, string(data), `"customGoals":[]`)
	require.Contains(t, string(data), `"detailedHistory":[]`)
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	now := time.Date(2024, 3, 10, 12, 5, 0, 0, time.UTC)
	records := []model.PracticeRecord{
		{Topic: "Algebra", Score: 8, TotalQuestions: 10, OccurredAt: time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)},
	}
	bundle := NewBundle(analytics.AnalyticsSnapshot{AsOf: "2024-03-10"}, nil, records, now, time.UTC)

	path, err := WriteFile(dir, bundle, now, time.UTC)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "studyflow-report_2024-03-10_12-05.json"), path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file should be renamed away")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := DecodeRecords(f, time.UTC)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	require.Equal(t, "Algebra", decoded[0].Topic)
	require.True(t, decoded[0].OccurredAt.Equal(records[0].OccurredAt))
}

func TestDecodeRecordsLenientTimes(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	input := `[
		{"topic": " Algebra ", "score": 8, "totalQuestions": 10, "occurredAt": "2024-03-09T08:00:00Z"},
		{"topic": "Biology", "score": 4, "totalQuestions": 5, "occurredAt": "2024-03-09T08:00:00.123456789+01:00"},
		{"topic": "Chemistry", "score": 2, "totalQuestions": 4, "occurredAt": "2024-03-09T08:00:00"},
		{"topic": "Drawing", "score": 1, "totalQuestions": 2, "occurredAt": "2024-03-09T08:00"},
		{"topic": "English", "score": 1, "totalQuestions": 1, "occurredAt": "2024-03-09"},
		{"topic": "French", "score": 1, "totalQuestions": 3, "occurredAt": "last tuesday"},
		{"topic": "German", "score": 1, "totalQuestions": 3}
	]`

	records, err := DecodeRecords(strings.NewReader(input), loc)
	require.NoError(t, err)
	require.Len(t, records, 7)

	require.Equal(t, "Algebra", records[0].Topic)
	require.True(t, records[0].OccurredAt.Equal(time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)))
	require.Equal(t, 123456789, records[1].OccurredAt.Nanosecond())
	require.True(t, records[2].OccurredAt.Equal(time.Date(2024, 3, 9, 8, 0, 0, 0, loc)))
	require.True(t, records[3].OccurredAt.Equal(time.Date(2024, 3, 9, 8, 0, 0, 0, loc)))
	require.True(t, records[4].OccurredAt.Equal(time.Date(2024, 3, 9, 0, 0, 0, 0, loc)))
	require.True(t, records[5].OccurredAt.IsZero())
	require.True(t, records[6].OccurredAt.IsZero())
}

func TestDecodeRecordsRejectsMalformedInput(t *testing.T) {
	_, err := DecodeRecords(strings.NewReader(`"nope"`), time.UTC)
	require.Error(t, err)

	_, err = DecodeRecords(strings.NewReader(`[{"topic": "A", "score": "x"}]`), time.UTC)
	require.Error(t, err)

	_, err = DecodeRecords(strings.NewReader("   "), time.UTC)
	require.Error(t, err)
}
