// Package export writes report bundles and reads practice records from JSON.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/studyflow/internal/analytics"
	"github.com/verte-zerg/studyflow/internal/model"
)

const fileNameLayout = "2006-01-02_15-04"

// Bundle is the document written by the export command.
type Bundle struct {
	GeneratedAt     string                      `json:"generatedAt"`
	Summary         analytics.AnalyticsSnapshot `json:"summary"`
	CustomGoals     []Goal                      `json:"customGoals"`
	DetailedHistory []HistoryEntry              `json:"detailedHistory"`
}

// Goal is the exported form of a custom goal.
type Goal struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// HistoryEntry is one stored practice record. Undated records carry an empty occurredAt.
type HistoryEntry struct {
	Topic          string `json:"topic"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	OccurredAt     string `json:"occurredAt"`
}

// NewBundle assembles an export bundle. Times are rendered in loc.
func NewBundle(snapshot analytics.AnalyticsSnapshot, goals []model.CustomGoal, records []model.PracticeRecord, now time.Time, loc *time.Location) Bundle {
	if loc == nil {
		loc = time.Local
	}
	bundle := Bundle{
		GeneratedAt:     now.In(loc).Format(time.RFC3339),
		Summary:         snapshot,
		CustomGoals:     make([]Goal, 0, len(goals)),
		DetailedHistory: make([]HistoryEntry, 0, len(records)),
	}
	for _, goal := range goals {
		bundle.CustomGoals = append(bundle.CustomGoals, Goal{
			ID:        goal.ID,
			Text:      goal.Text,
			Completed: goal.Completed,
			CreatedAt: formatTime(goal.CreatedAt, loc),
		})
	}
	for _, rec := range records {
		bundle.DetailedHistory = append(bundle.DetailedHistory, HistoryEntry{
			Topic:          rec.Topic,
			Score:          rec.Score,
			TotalQuestions: rec.TotalQuestions,
			OccurredAt:     formatTime(rec.OccurredAt, loc),
		})
	}
	return bundle
}

// FileName returns the export file name for the given time.
func FileName(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return "studyflow-report_" + now.In(loc).Format(fileNameLayout) + ".json"
}

// WriteFile writes the bundle into dir and returns the file path.
func WriteFile(dir string, bundle Bundle, now time.Time, loc *time.Location) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, FileName(now, loc))
	tmpFile, err := os.CreateTemp(dir, "studyflow-export-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}
