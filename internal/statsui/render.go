package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/studyflow/internal/analytics"
	"github.com/verte-zerg/studyflow/internal/model"
	"github.com/verte-zerg/studyflow/internal/stats"
)

const progressBarWidth = 30

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A8FC8"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	activeDayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	barFillStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A8FC8"))
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Strikethrough(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A8FC8")).
			Padding(1, 2)
)

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	topic := m.cfg.Topic
	if topic == "" {
		topic = "all"
	}
	settings := fmt.Sprintf("As of %s  window=%dd  weekly goal=%d  topic=%s",
		m.report.Snapshot.AsOf, m.cfg.Analytics.WindowDays, m.cfg.Analytics.WeeklyGoal, topic)
	return tabs + "\n" + mutedStyle.Render(truncateLine(settings, m.width))
}

func (m *Model) renderFooter() string {
	if m.settingsMode {
		return mutedStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := "Nav: left/right  Scroll: up/down  Refresh: r  Settings: /  Quit: q"
	if m.activeTab == tabGoals {
		help = "Nav: left/right  Select: up/down  Toggle: space  Add: a  Delete: d  Quit: q"
	}
	help = mutedStyle.Render(truncateLine(help, m.width))
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return help
}

func (m *Model) renderBody() string {
	if m.settingsMode {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, input := range m.settingsInputs {
			lines = append(lines, input.View())
		}
		if m.settingsError != "" {
			lines = append(lines, errorStyle.Render(m.settingsError))
		}
		return strings.Join(lines, "\n")
	}
	switch m.activeTab {
	case tabSubjects:
		if len(m.report.Snapshot.Subjects) == 0 {
			return "No subjects yet."
		}
		return m.subjectTable.View()
	case tabGoals:
		return renderGoals(m.report.Goals, m.goalCursor)
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderGoalModal() string {
	body := []string{
		cardValueStyle.Render("New Goal"),
		m.goalInput.View(),
		mutedStyle.Render("Enter to save / Esc to cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderOverview(snap analytics.AnalyticsSnapshot, width int) string {
	if snap.TotalSessions == 0 {
		return "No practice sessions yet. Add one with `studyflow record`."
	}
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", snap.TotalSessions)),
		metricCard("Avg Score", fmt.Sprintf("%d%%", snap.OverallAverageScorePct)),
		metricCard("Streak", fmt.Sprintf("%dd", snap.Streak.CurrentStreak)),
		metricCard("This Week", fmt.Sprintf("%d/%d", snap.Weekly.SessionsThisWeek, snap.Weekly.Target)),
		metricCard("Mastered", fmt.Sprintf("%d/%d", snap.Mastery.SubjectsMastered, snap.Mastery.MasteryGoal)),
		metricCard("Questions", fmt.Sprintf("%d", snap.TotalQuestionsAnswered)),
	}
	var grid string
	if width < 80 {
		grid = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
		grid = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	lines := []string{
		grid,
		"",
		"Weekly goal  " + progressBar(snap.Weekly.ProgressPct) + fmt.Sprintf(" %d%%", snap.Weekly.ProgressPct),
		"Last 7 days  " + recentDays(snap.Streak.RecentDays),
		"",
		fmt.Sprintf("Best subject:  %s", subjectLabel(snap.BestSubject)),
		fmt.Sprintf("Worst subject: %s", subjectLabel(snap.WorstSubject)),
	}
	if last := snap.LastSession; last.Topic != analytics.NoData {
		lines = append(lines, fmt.Sprintf("Last session:  %s %d/%d (%d%%)", last.Topic, last.Score, last.TotalQuestions, last.ScorePct))
	}
	if top := stats.TopSubjectsBySessions(snap.Subjects, 3); len(top) > 0 {
		names := make([]string, len(top))
		for i, s := range top {
			names[i] = fmt.Sprintf("%s (%d)", s.Topic, s.SessionCount)
		}
		lines = append(lines, "Most practiced: "+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}

func renderActivity(snap analytics.AnalyticsSnapshot, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderActivity(&buf, snap.DailyActivity, stats.RenderOptions{Width: width, Color: true}); err != nil {
		return fmt.Sprintf("Failed to render activity: %v", err)
	}
	if err := stats.RenderTimeOfDay(&buf, snap.TimeOfDay); err != nil {
		return fmt.Sprintf("Failed to render time of day: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderGoals(goals []model.CustomGoal, cursor int) string {
	if len(goals) == 0 {
		return "No custom goals. Press a to add one."
	}
	done := 0
	lines := make([]string, 0, len(goals)+2)
	for i, goal := range goals {
		line := stats.FormatGoal(goal)
		if goal.Completed {
			done++
			line = doneStyle.Render(line)
		}
		if i == cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("%d of %d completed", done, len(goals))))
	return strings.Join(lines, "\n")
}

func newSubjectTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Subject", Width: 20},
			{Title: "Sessions", Width: 8},
			{Title: "Correct", Width: 8},
			{Title: "Questions", Width: 9},
			{Title: "Average", Width: 7},
			{Title: "Mastered", Width: 8},
		}),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	return t
}

func subjectRows(snap analytics.AnalyticsSnapshot) []table.Row {
	rows := make([]table.Row, 0, len(snap.Subjects))
	for _, s := range snap.Subjects {
		mastered := ""
		if s.AverageScorePct > snap.Mastery.Threshold {
			mastered = "yes"
		}
		rows = append(rows, table.Row{
			truncateLine(s.Topic, 20),
			fmt.Sprintf("%d", s.SessionCount),
			fmt.Sprintf("%d", s.TotalScore),
			fmt.Sprintf("%d", s.TotalQuestions),
			fmt.Sprintf("%d%%", s.AverageScorePct),
			mastered,
		})
	}
	return rows
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func progressBar(pct int) string {
	filled := min(progressBarWidth, max(0, pct*progressBarWidth/100))
	return barFillStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", progressBarWidth-filled))
}

func recentDays(days []analytics.DayFlag) string {
	cells := make([]string, len(days))
	for i, day := range days {
		if day.Active {
			cells[i] = activeDayStyle.Render("■")
		} else {
			cells[i] = mutedStyle.Render("□")
		}
	}
	return strings.Join(cells, " ")
}

func subjectLabel(ref analytics.SubjectRef) string {
	if ref.Topic == analytics.NoData {
		return analytics.NoData
	}
	return fmt.Sprintf("%s (%d%%)", ref.Topic, ref.AverageScorePct)
}
