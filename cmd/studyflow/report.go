package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/studyflow/internal/export"
	"github.com/verte-zerg/studyflow/internal/stats"
)

var (
	reportJSON bool
	exportDir  string
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the analytics report",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().BoolVar(&reportJSON, "json", false, "print the snapshot as JSON")
	cmd.Flags().StringVar(&flagTopic, "topic", "", "limit the report to one subject")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := stats.BuildReport(context.Background(), a.store, nil, stats.ReportConfig{Analytics: a.cfg, Topic: flagTopic}, a.now())
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	a.logIngest(report)

	out := cmd.OutOrStdout()
	if reportJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report.Snapshot); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := stats.RenderReport(out, report, stats.RenderOptions{}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report, goals, and history to a JSON file",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&flagTopic, "topic", "", "limit the export to one subject")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	now := a.now()
	report, err := stats.BuildReport(context.Background(), a.store, nil, stats.ReportConfig{Analytics: a.cfg, Topic: flagTopic}, now)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	a.logIngest(report)

	bundle := export.NewBundle(report.Snapshot, report.Goals, report.Records, now, a.cfg.Location)
	path, err := export.WriteFile(exportDir, bundle, now, a.cfg.Location)
	if err != nil {
		return err
	}
	a.log.Info("export written", zap.String("path", path), zap.Int("records", len(bundle.DetailedHistory)))
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
