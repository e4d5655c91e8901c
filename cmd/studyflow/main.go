// Package main provides the CLI entrypoint for studyflow.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/studyflow/internal/analytics"
	"github.com/verte-zerg/studyflow/internal/config"
	"github.com/verte-zerg/studyflow/internal/export"
	"github.com/verte-zerg/studyflow/internal/logger"
	"github.com/verte-zerg/studyflow/internal/stats"
	"github.com/verte-zerg/studyflow/internal/statsui"
	"github.com/verte-zerg/studyflow/internal/store"
)

const defaultWeekStart = "monday"

var (
	flagNow              string
	flagTimezone         string
	flagWindow           int
	flagWeeklyGoal       int
	flagMasteryThreshold int
	flagMasteryGoal      int
	flagWeekStart        string
	flagDB               string
	flagVerbose          bool
	flagTopic            string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studyflow",
		Short:         "Practice analytics and goal tracking",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagNow, "now", "", "evaluate analytics as of this time (default: current time)")
	flags.StringVar(&flagTimezone, "tz", "", "IANA timezone for day boundaries (default: local)")
	flags.IntVar(&flagWindow, "window", analytics.DefaultWindowDays, "days in the activity calendar")
	flags.IntVar(&flagWeeklyGoal, "weekly-goal", analytics.DefaultWeeklyGoal, "target sessions per week")
	flags.IntVar(&flagMasteryThreshold, "mastery-threshold", analytics.DefaultMasteryThreshold, "average percent a subject must exceed to count as mastered")
	flags.IntVar(&flagMasteryGoal, "mastery-goal", analytics.DefaultMasteryGoal, "target number of mastered subjects")
	flags.StringVar(&flagWeekStart, "week-start", defaultWeekStart, "first day of the week")
	flags.StringVar(&flagDB, "db", "", "database path (default: $XDG_DATA_HOME/studyflow/studyflow.db)")
	flags.BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	rootCmd.Flags().StringVar(&flagTopic, "topic", "", "limit the dashboard to one subject")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newGoalCmd())

	return rootCmd
}

// app holds the resources shared by all commands.
type app struct {
	log   *zap.Logger
	store *store.Store
	cfg   analytics.Config
	now   func() time.Time
}

func setupApp(cmd *cobra.Command) (*app, error) {
	if err := config.LoadEnv(".env"); err != nil {
		return nil, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := ""
	logFormat := ""
	if fileCfg.Log.Level != nil {
		logLevel = *fileCfg.Log.Level
	}
	if fileCfg.Log.Format != nil {
		logFormat = *fileCfg.Log.Format
	}
	if v := os.Getenv(config.EnvLogLevel); v != "" {
		logLevel = v
	}
	if flagVerbose {
		logLevel = "debug"
	}
	log, err := logger.New(logger.Options{Level: logLevel, Format: logFormat})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	analyticsCfg := fileCfg.Analytics
	applyIntConfig(cmd, "window", &flagWindow, analyticsCfg.WindowDays)
	applyIntConfig(cmd, "weekly-goal", &flagWeeklyGoal, analyticsCfg.WeeklyGoal)
	applyIntConfig(cmd, "mastery-threshold", &flagMasteryThreshold, analyticsCfg.MasteryThreshold)
	applyIntConfig(cmd, "mastery-goal", &flagMasteryGoal, analyticsCfg.MasteryGoal)
	applyStringConfig(cmd, "week-start", &flagWeekStart, analyticsCfg.WeekStart)
	applyStringConfig(cmd, "tz", &flagTimezone, analyticsCfg.Timezone)
	applyEnv(cmd, "tz", &flagTimezone, config.EnvTimezone)

	loc, err := loadLocation(flagTimezone)
	if err != nil {
		return nil, err
	}
	weekStart, err := analytics.ParseWeekday(flagWeekStart)
	if err != nil {
		return nil, fmt.Errorf("invalid --week-start value: %w", err)
	}
	cfg := analytics.Config{
		MasteryThreshold: flagMasteryThreshold,
		MasteryGoal:      flagMasteryGoal,
		WeeklyGoal:       flagWeeklyGoal,
		WindowDays:       flagWindow,
		WeekStart:        weekStart,
		Location:         loc,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := time.Now
	if flagNow != "" {
		fixed := export.ParseTime(flagNow, loc)
		if fixed.IsZero() {
			return nil, fmt.Errorf("invalid --now value %q", flagNow)
		}
		now = func() time.Time { return fixed }
	}

	storePath := flagDB
	if storePath == "" {
		storePath = config.DefaultDBPath()
	}
	st, err := store.Open(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	log.Debug("opened store", zap.String("path", storePath), zap.String("tz", loc.String()))

	return &app{log: log, store: st, cfg: cfg, now: now}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	// Best-effort flush of buffered log entries.
	_ = a.log.Sync()
}

func (a *app) logIngest(report stats.Report) {
	ingest := report.Snapshot.Ingest
	fields := []zap.Field{
		zap.Int("received", ingest.Received),
		zap.Int("accepted", ingest.Accepted),
		zap.Int("rejected", ingest.Rejected),
		zap.Int("undated", ingest.Undated),
		zap.Bool("cacheHit", report.CacheHit),
	}
	if ingest.Rejected > 0 {
		a.log.Warn("skipped invalid practice records", fields...)
		return
	}
	a.log.Debug("computed analytics", fields...)
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	cache, err := analytics.NewCache(analytics.DefaultCacheSize)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	ui := statsui.NewModel(statsui.Options{
		Store:  a.store,
		Cache:  cache,
		Config: stats.ReportConfig{Analytics: a.cfg, Topic: flagTopic},
		Now:    a.now,
	})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	a.log.Debug("dashboard closed", zap.Int("cachedSnapshots", cache.Len()))
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyEnv overrides target from the environment unless the flag was set.
func applyEnv(cmd *cobra.Command, name string, target *string, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	applyStringConfig(cmd, name, target, &v)
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# studyflow configuration
# Uncomment a value to enable it. CLI flags override config values.

[analytics]
# mastery-threshold = %d  # Average percent a subject must exceed to be mastered
# mastery-goal = %d        # Target number of mastered subjects
# weekly-goal = %d         # Target sessions per week
# window-days = %d        # Days shown in the activity calendar
# week-start = %q   # First day of the week
# timezone = "Europe/Berlin" # Day boundaries (default: system local time)

[log]
# level = "warn"          # debug, info, warn, error
# format = "console"      # console or json
`,
		analytics.DefaultMasteryThreshold,
		analytics.DefaultMasteryGoal,
		analytics.DefaultWeeklyGoal,
		analytics.DefaultWindowDays,
		defaultWeekStart,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
