package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/studyflow/internal/analytics"
	"github.com/verte-zerg/studyflow/internal/export"
	"github.com/verte-zerg/studyflow/internal/model"
)

var (
	recordTopic string
	recordScore int
	recordTotal int
	recordAt    string
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Store one completed quiz attempt",
		Args:  cobra.NoArgs,
		RunE:  runRecordCmd,
	}
	cmd.Flags().StringVar(&recordTopic, "topic", "", "subject of the quiz")
	cmd.Flags().IntVar(&recordScore, "score", 0, "correct answers")
	cmd.Flags().IntVar(&recordTotal, "total", 0, "questions in the quiz")
	cmd.Flags().StringVar(&recordAt, "at", "", "completion time (default: now)")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func runRecordCmd(cmd *cobra.Command, _ []string) error {
	rec := model.PracticeRecord{
		Topic:          strings.TrimSpace(recordTopic),
		Score:          recordScore,
		TotalQuestions: recordTotal,
	}
	if err := validateRecord(rec); err != nil {
		return err
	}

	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rec.OccurredAt = a.now()
	if recordAt != "" {
		rec.OccurredAt = export.ParseTime(recordAt, a.cfg.Location)
		if rec.OccurredAt.IsZero() {
			return fmt.Errorf("invalid --at value %q", recordAt)
		}
	}

	id, err := a.store.InsertRecord(context.Background(), rec)
	if err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	a.log.Debug("recorded attempt", zap.Int64("id", id), zap.String("topic", rec.Topic))
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Recorded #%d: %s %d/%d\n", id, rec.Topic, rec.Score, rec.TotalQuestions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func validateRecord(rec model.PracticeRecord) error {
	if rec.Topic == "" {
		return fmt.Errorf("--topic must not be empty")
	}
	if rec.TotalQuestions <= 0 {
		return fmt.Errorf("--total must be > 0")
	}
	if rec.Score < 0 || rec.Score > rec.TotalQuestions {
		return fmt.Errorf("--score must be between 0 and --total")
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Store practice records from a JSON file (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer func() {
			// Best-effort close for a read-only file.
			_ = f.Close()
		}()
		in = f
	}

	records, err := export.DecodeRecords(in, a.cfg.Location)
	if err != nil {
		return err
	}
	ingest := analytics.Ingest(records).Stats
	if ingest.Rejected > 0 || ingest.Undated > 0 {
		a.log.Warn("imported records will be partly ignored by analytics",
			zap.Int("invalid", ingest.Rejected),
			zap.Int("undated", ingest.Undated),
		)
	}

	n, err := a.store.InsertRecords(context.Background(), records)
	if err != nil {
		return fmt.Errorf("failed to store records: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records\n", n); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
