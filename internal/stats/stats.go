package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/studyflow/internal/analytics"
	"github.com/verte-zerg/studyflow/internal/model"
)

const (
	sparkChars       = " .:-=+*#%@"
	trendWindow      = 7
	weakSubjectLimit = 3
)

// RenderOptions controls layout of the text report.
type RenderOptions struct {
	// Width is the total terminal width. Zero uses the detected width.
	Width int
	Color bool
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline scaled from zero to the maximum.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	maxVal := 0.0
	for _, v := range values {
		maxVal = math.Max(maxVal, v)
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if maxVal > 0 {
			idx = int(math.Round(v / maxVal * float64(len(sparkChars)-1)))
		}
		idx = max(0, min(len(sparkChars)-1, idx))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderReport prints every report section in order.
func RenderReport(w io.Writer, report Report, opts RenderOptions) error {
	snap := report.Snapshot
	if err := RenderSummary(w, snap); err != nil {
		return err
	}
	if err := RenderSubjectTable(w, snap.Subjects, snap.Mastery.Threshold); err != nil {
		return err
	}
	if err := RenderTimeOfDay(w, snap.TimeOfDay); err != nil {
		return err
	}
	if err := RenderActivity(w, snap.DailyActivity, opts); err != nil {
		return err
	}
	return RenderGoals(w, report.Goals)
}

// RenderSummary prints the headline numbers of a snapshot.
func RenderSummary(w io.Writer, snap analytics.AnalyticsSnapshot) error {
	if _, err := fmt.Fprintf(w, "Summary (as of %s)\n", snap.AsOf); err != nil {
		return err
	}
	if snap.TotalSessions == 0 {
		_, err := fmt.Fprint(w, "No practice sessions found.\n\n")
		return err
	}

	rows := [][]string{
		{"Sessions:", fmt.Sprintf("%d", snap.TotalSessions)},
		{"Subjects:", fmt.Sprintf("%d", snap.UniqueSubjects)},
		{"Questions answered:", fmt.Sprintf("%d", snap.TotalQuestionsAnswered)},
		{"Average score:", fmt.Sprintf("%d%%", snap.OverallAverageScorePct)},
		{"Best subject:", formatSubjectRef(snap.BestSubject)},
		{"Worst subject:", formatSubjectRef(snap.WorstSubject)},
		{"Streak:", formatStreak(snap.Streak)},
		{"This week:", formatWeekly(snap.Weekly)},
		{"Mastery:", fmt.Sprintf("%d/%d subjects above %d%%", snap.Mastery.SubjectsMastered, snap.Mastery.MasteryGoal, snap.Mastery.Threshold)},
		{"Last session:", formatSession(snap.LastSession)},
		{fmt.Sprintf("Activity (%dd):", len(snap.DailyActivity)), activitySparkline(snap.DailyActivity)},
	}
	if weak := WeakestSubjects(snap.Subjects, snap.Mastery.Threshold, weakSubjectLimit); len(weak) > 0 {
		names := make([]string, len(weak))
		for i, s := range weak {
			names[i] = s.Topic
		}
		rows = append(rows, []string{"Needs work:", strings.Join(names, ", ")})
	}
	for _, line := range formatTable(nil, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if note := ingestNote(snap.Ingest); note != "" {
		if _, err := fmt.Fprintln(w, note); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSubjectTable prints per-subject totals in snapshot order.
func RenderSubjectTable(w io.Writer, subjects []analytics.SubjectSummary, threshold int) error {
	if len(subjects) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Subjects"); err != nil {
		return err
	}
	headers := []string{"Subject", "Sessions", "Correct", "Questions", "Average", "Mastered"}
	rows := make([][]string, 0, len(subjects))
	for _, s := range subjects {
		mastered := ""
		if s.AverageScorePct > threshold {
			mastered = "yes"
		}
		rows = append(rows, []string{
			s.Topic,
			fmt.Sprintf("%d", s.SessionCount),
			fmt.Sprintf("%d", s.TotalScore),
			fmt.Sprintf("%d", s.TotalQuestions),
			fmt.Sprintf("%d%%", s.AverageScorePct),
			mastered,
		})
	}
	return writeTable(w, headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
}

// RenderTimeOfDay prints the four time-of-day buckets.
func RenderTimeOfDay(w io.Writer, buckets []analytics.TimeOfDayBucket) error {
	if len(buckets) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Time of Day"); err != nil {
		return err
	}
	headers := []string{"Period", "Hours", "Sessions", "Average"}
	rows := make([][]string, 0, len(buckets))
	for _, bucket := range buckets {
		avg := "-"
		if bucket.Sessions > 0 {
			avg = fmt.Sprintf("%d%%", bucket.AverageScorePct)
		}
		rows = append(rows, []string{
			bucket.Label,
			fmt.Sprintf("%02d-%02d", bucket.StartHour, bucket.EndHour),
			fmt.Sprintf("%d", bucket.Sessions),
			avg,
		})
	}
	return writeTable(w, headers, rows, map[int]bool{2: true, 3: true})
}

// RenderActivity plots questions answered per day with a trailing weekly average.
func RenderActivity(w io.Writer, activity []analytics.DailyActivity, opts RenderOptions) error {
	if len(activity) == 0 {
		return nil
	}
	daily := make([]float64, len(activity))
	for i, day := range activity {
		daily[i] = float64(day.QuestionsAnswered)
	}
	width := 0
	if opts.Width > 0 {
		width = PlotWidthFor(opts.Width)
	}
	return PlotSeries(w, PlotOptions{
		Title: "Questions per Day",
		Width: width,
		From:  activity[0].Date,
		To:    activity[len(activity)-1].Date,
		Color: opts.Color,
	},
		Series{Name: "Questions", Values: daily},
		Series{Name: fmt.Sprintf("%d-day avg", trendWindow), Values: MovingAverage(daily, trendWindow)},
	)
}

// RenderGoals prints custom goals as a checklist.
func RenderGoals(w io.Writer, goals []model.CustomGoal) error {
	if _, err := fmt.Fprintln(w, "Goals"); err != nil {
		return err
	}
	if len(goals) == 0 {
		_, err := fmt.Fprintln(w, "No custom goals.")
		return err
	}
	for _, goal := range goals {
		if _, err := fmt.Fprintln(w, FormatGoal(goal)); err != nil {
			return err
		}
	}
	return nil
}

// FormatGoal renders a goal as a single checklist line.
func FormatGoal(goal model.CustomGoal) string {
	mark := " "
	if goal.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] #%d %s", mark, goal.ID, goal.Text)
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func formatSubjectRef(ref analytics.SubjectRef) string {
	if ref.Topic == analytics.NoData {
		return analytics.NoData
	}
	return fmt.Sprintf("%s (%d%%)", ref.Topic, ref.AverageScorePct)
}

func formatStreak(streak analytics.StreakState) string {
	var days strings.Builder
	for _, day := range streak.RecentDays {
		if day.Active {
			days.WriteByte('#')
		} else {
			days.WriteByte('-')
		}
	}
	unit := "days"
	if streak.CurrentStreak == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%d %s  [%s]", streak.CurrentStreak, unit, days.String())
}

func formatWeekly(weekly analytics.WeeklyProgress) string {
	out := fmt.Sprintf("%d/%d sessions (%d%%)", weekly.SessionsThisWeek, weekly.Target, weekly.ProgressPct)
	if weekly.Met {
		out += " goal met"
	}
	return out
}

func formatSession(ref analytics.SessionRef) string {
	if ref.Topic == analytics.NoData {
		return analytics.NoData
	}
	return fmt.Sprintf("%s %d/%d (%d%%) at %s", ref.Topic, ref.Score, ref.TotalQuestions, ref.ScorePct, ref.OccurredAt)
}

func activitySparkline(activity []analytics.DailyActivity) string {
	values := make([]float64, len(activity))
	total := 0
	for i, day := range activity {
		values[i] = float64(day.QuestionsAnswered)
		total += day.QuestionsAnswered
	}
	if total == 0 {
		return "no activity"
	}
	return Sparkline(values)
}

func ingestNote(stats analytics.IngestStats) string {
	var parts []string
	if stats.Rejected > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid records skipped", stats.Rejected))
	}
	if stats.Undated > 0 {
		parts = append(parts, fmt.Sprintf("%d undated records excluded from day-based views", stats.Undated))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Note: " + strings.Join(parts, "; ") + "."
}
