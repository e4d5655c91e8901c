// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/studyflow/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so stored UTC timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a goal id does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps SQLite access for practice records and goals.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS practice_records (
			id INTEGER PRIMARY KEY,
			topic TEXT NOT NULL,
			score INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			occurred_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS custom_goals (
			id INTEGER PRIMARY KEY,
			text TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_practice_records_occurred_at ON practice_records(occurred_at);`,
		`CREATE INDEX IF NOT EXISTS idx_practice_records_topic ON practice_records(topic);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRecord stores one practice record and returns its id.
func (s *Store) InsertRecord(ctx context.Context, rec model.PracticeRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO practice_records (topic, score, total_questions, occurred_at) VALUES (?, ?, ?, ?)`,
		rec.Topic, rec.Score, rec.TotalQuestions, formatTime(rec.OccurredAt))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertRecords stores records in a single transaction, preserving their order.
func (s *Store) InsertRecords(ctx context.Context, recs []model.PracticeRecord) (n int, err error) {
	if len(recs) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO practice_records (topic, score, total_questions, occurred_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, rec := range recs {
		if _, err = stmt.ExecContext(ctx, rec.Topic, rec.Score, rec.TotalQuestions, formatTime(rec.OccurredAt)); err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// ListRecords returns records in insertion order. Records whose stored
// timestamp is missing or unparseable come back with a zero OccurredAt.
// A Since filter excludes undated records.
func (s *Store) ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.PracticeRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Topic != "" {
		clauses = append(clauses, "topic = ?")
		args = append(args, filter.Topic)
	}
	if filter.Since != nil {
		clauses = append(clauses, "occurred_at >= ?")
		args = append(args, formatTime(*filter.Since))
	}
	query := fmt.Sprintf(`SELECT id, topic, score, total_questions, occurred_at
		FROM practice_records
		WHERE %s
		ORDER BY id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	records := []model.PracticeRecord{}
	for rows.Next() {
		var rec model.PracticeRecord
		var occurredAt sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Topic, &rec.Score, &rec.TotalQuestions, &occurredAt); err != nil {
			return nil, err
		}
		rec.OccurredAt = parseTime(occurredAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// InsertGoal stores a new, incomplete custom goal.
func (s *Store) InsertGoal(ctx context.Context, text string, createdAt time.Time) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("goal text must not be empty")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO custom_goals (text, completed, created_at) VALUES (?, 0, ?)`,
		text, formatTime(createdAt))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListGoals returns custom goals ordered by creation.
func (s *Store) ListGoals(ctx context.Context) ([]model.CustomGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, completed, created_at FROM custom_goals ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	goals := []model.CustomGoal{}
	for rows.Next() {
		var goal model.CustomGoal
		var createdAt sql.NullString
		if err := rows.Scan(&goal.ID, &goal.Text, &goal.Completed, &createdAt); err != nil {
			return nil, err
		}
		goal.CreatedAt = parseTime(createdAt)
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}

// SetGoalCompleted marks a goal as completed or not.
func (s *Store) SetGoalCompleted(ctx context.Context, id int64, completed bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE custom_goals SET completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return err
	}
	return expectAffected(res, id)
}

// DeleteGoal removes a goal.
func (s *Store) DeleteGoal(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM custom_goals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(res, id)
}

func expectAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	return nil
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(value sql.NullString) time.Time {
	if !value.Valid {
		return time.Time{}
	}
	for _, layout := range []string{timeLayout, time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, value.String); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
