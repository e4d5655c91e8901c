// Package statsui provides the Bubble Tea analytics dashboard.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/studyflow/internal/analytics"
	"github.com/verte-zerg/studyflow/internal/stats"
	"github.com/verte-zerg/studyflow/internal/store"
)

const (
	tabOverview = iota
	tabSubjects
	tabActivity
	tabGoals
)

const (
	settingWindow = iota
	settingWeekly
	settingTopic
)

// Options configures the dashboard.
type Options struct {
	Store  *store.Store
	Cache  *analytics.Cache
	Config stats.ReportConfig
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	store *store.Store
	cache *analytics.Cache
	cfg   stats.ReportConfig
	now   func() time.Time

	report stats.Report
	errMsg string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	subjectTable table.Model
	goalCursor   int

	width  int
	height int

	settingsMode   bool
	settingsInputs []textinput.Model
	settingsIndex  int
	settingsError  string

	goalInputMode bool
	goalInput     textinput.Model
}

// NewModel constructs the dashboard and loads the first report.
func NewModel(opts Options) *Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := &Model{
		store: opts.Store,
		cache: opts.Cache,
		cfg:   opts.Config,
		now:   now,
		tabs:  []string{"Overview", "Subjects", "Activity", "Goals"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.settingsInputs = []textinput.Model{
		newInput("Window days: "),
		newInput("Weekly goal: "),
		newInput("Topic (empty for all): "),
	}
	m.goalInput = newInput("Goal: ")
	m.goalInput.Placeholder = "Finish chapter 5 review"
	m.subjectTable = newSubjectTable()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.settingsMode {
			return m.updateSettings(msg)
		}
		if m.goalInputMode {
			return m.updateGoalInput(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			return m, nil
		case "/":
			return m.startSettings()
		}
		switch m.activeTab {
		case tabSubjects:
			var cmd tea.Cmd
			m.subjectTable, cmd = m.subjectTable.Update(msg)
			return m, cmd
		case tabGoals:
			return m.updateGoals(msg)
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.goalInputMode {
		return fitLines(m.renderGoalModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X"))) + 1
	footerHeight = 1
	if m.errMsg != "" && !m.settingsMode {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.subjectTable.SetWidth(m.width)
	m.subjectTable.SetHeight(max(1, bodyHeight-1))
	for i := range m.settingsInputs {
		m.settingsInputs[i].Width = max(10, m.width-lipgloss.Width(m.settingsInputs[i].Prompt)-2)
	}
	m.goalInput.Width = max(10, modalInnerWidth(m.width)-lipgloss.Width(m.goalInput.Prompt))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabSubjects {
		m.subjectTable.Focus()
	} else {
		m.subjectTable.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cache, m.cfg, m.now())
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load analytics.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.subjectTable.SetRows(subjectRows(report.Snapshot))
	m.goalCursor = min(m.goalCursor, max(0, len(report.Goals)-1))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Snapshot, width))
	m.viewports[tabActivity].SetContent(renderActivity(m.report.Snapshot, width))
}

func (m *Model) updateGoals(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	goals := m.report.Goals
	switch msg.String() {
	case "up", "k":
		m.goalCursor = max(0, m.goalCursor-1)
	case "down", "j":
		m.goalCursor = min(max(0, len(goals)-1), m.goalCursor+1)
	case "a":
		m.goalInputMode = true
		m.goalInput.SetValue("")
		return m, m.goalInput.Focus()
	case " ", "x", "enter":
		if len(goals) == 0 {
			return m, nil
		}
		goal := goals[m.goalCursor]
		if err := m.store.SetGoalCompleted(context.Background(), goal.ID, !goal.Completed); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.refreshReport()
	case "d", "delete":
		if len(goals) == 0 {
			return m, nil
		}
		if err := m.store.DeleteGoal(context.Background(), goals[m.goalCursor].ID); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.refreshReport()
	}
	return m, nil
}

func (m *Model) updateGoalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.goalInputMode = false
		m.goalInput.Blur()
		return m, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.goalInput.Value())
		m.goalInputMode = false
		m.goalInput.Blur()
		if text == "" {
			return m, nil
		}
		if _, err := m.store.InsertGoal(context.Background(), text, m.now()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.refreshReport()
		m.goalCursor = max(0, len(m.report.Goals)-1)
		return m, nil
	}
	var cmd tea.Cmd
	m.goalInput, cmd = m.goalInput.Update(msg)
	return m, cmd
}

func (m *Model) startSettings() (tea.Model, tea.Cmd) {
	m.settingsMode = true
	m.settingsError = ""
	m.settingsInputs[settingWindow].SetValue(strconv.Itoa(m.cfg.Analytics.WindowDays))
	m.settingsInputs[settingWeekly].SetValue(strconv.Itoa(m.cfg.Analytics.WeeklyGoal))
	m.settingsInputs[settingTopic].SetValue(m.cfg.Topic)
	return m, m.setSettingsIndex(0)
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.settingsMode = false
		m.settingsError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applySettings(); err != nil {
			m.settingsError = err.Error()
			return m, nil
		}
		m.settingsMode = false
		m.settingsError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setSettingsIndex(m.settingsIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setSettingsIndex(m.settingsIndex - 1)
	}
	var cmd tea.Cmd
	m.settingsInputs[m.settingsIndex], cmd = m.settingsInputs[m.settingsIndex].Update(msg)
	return m, cmd
}

func (m *Model) setSettingsIndex(idx int) tea.Cmd {
	count := len(m.settingsInputs)
	m.settingsIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.settingsInputs {
		if i == m.settingsIndex {
			cmd = m.settingsInputs[i].Focus()
		} else {
			m.settingsInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applySettings() error {
	window, err := parsePositive(m.settingsInputs[settingWindow].Value())
	if err != nil {
		return fmt.Errorf("invalid window days: %w", err)
	}
	weekly, err := parsePositive(m.settingsInputs[settingWeekly].Value())
	if err != nil {
		return fmt.Errorf("invalid weekly goal: %w", err)
	}
	next := m.cfg.Analytics
	next.WindowDays = window
	next.WeeklyGoal = weekly
	if err := next.Validate(); err != nil {
		return err
	}
	m.cfg.Analytics = next
	m.cfg.Topic = strings.TrimSpace(m.settingsInputs[settingTopic].Value())
	return nil
}

func parsePositive(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("use an integer >= 1")
	}
	return n, nil
}
