// Package model defines shared data structures.
package model

import "time"

// PracticeRecord captures one completed quiz attempt.
// A zero OccurredAt means the timestamp was missing or unparseable.
type PracticeRecord struct {
	ID             int64
	Topic          string
	Score          int
	TotalQuestions int
	OccurredAt     time.Time
}

// Dated reports whether the record carries a usable timestamp.
func (r PracticeRecord) Dated() bool {
	return !r.OccurredAt.IsZero()
}

// CustomGoal is a free-form goal the user tracks by hand.
type CustomGoal struct {
	ID        int64
	Text      string
	Completed bool
	CreatedAt time.Time
}

// RecordFilter narrows which records are loaded from the store.
type RecordFilter struct {
	Topic string
	Since *time.Time
}
