// Package ui implements the terminal dashboard and report rendering.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/punch/internal/duration"
	"github.com/dori/punch/internal/model"
	"github.com/dori/punch/internal/notify"
	"github.com/dori/punch/internal/tracker"
	"github.com/dori/punch/internal/ui/theme"
)

// TaskSource is the subset of tracker.TaskService the dashboard drives
type TaskSource interface {
	ListAll(ctx context.Context, userID string) ([]model.Task, error)
	Start(ctx context.Context, userID, id string) (*tracker.TimerResult, error)
	Stop(ctx context.Context, userID, id string) (*tracker.TimerResult, error)
}

// ProjectSource lists the user's projects
type ProjectSource interface {
	List(ctx context.Context, userID string) ([]model.Project, error)
}

// Sources wires the dashboard to the services
type Sources struct {
	Tasks    TaskSource
	Projects ProjectSource
	Reports  ReportSource
	Notifier *notify.Notifier
	Clock    tracker.Clock
}

// Dashboard lists the user's tasks and starts or stops their timers
type Dashboard struct {
	ctx    context.Context
	userID string
	label  string
	src    Sources

	keys   KeyMap
	help   help.Model
	table  table.Model
	width  int
	height int

	tasks    []model.Task
	projects map[string]string
	now      time.Time

	showReport bool
	report     *Report

	statusMsg string
	errorMsg  string
}

// NewDashboard creates the dashboard for userID; label is shown in the header
func NewDashboard(ctx context.Context, userID, label string, src Sources) Dashboard {
	if src.Clock == nil {
		src.Clock = tracker.SystemClock
	}

	tbl := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	tbl.SetStyles(tableStyles())

	return Dashboard{
		ctx:      ctx,
		userID:   userID,
		label:    label,
		src:      src,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		table:    tbl,
		projects: map[string]string{},
		now:      src.Clock.Now(),
	}
}

func columns(width int) []table.Column {
	title := width - 2 - 20 - 12 - 10 - 12
	if title < 16 {
		title = 16
	}
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Task", Width: title},
		{Title: "Project", Width: 20},
		{Title: "Status", Width: 12},
		{Title: "Time", Width: 10},
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = theme.Current.Styles.TableHeader
	s.Selected = theme.Current.Styles.TableSelected
	return s
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init loads tasks and starts the clock
func (m Dashboard) Init() tea.Cmd {
	return tea.Batch(m.load(), tick())
}

func (m Dashboard) load() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.src.Tasks.ListAll(m.ctx, m.userID)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		projects, err := m.src.Projects.List(m.ctx, m.userID)
		if err != nil {
			return ErrorMsg{Err: err}
		}

		names := make(map[string]string, len(projects))
		for _, p := range projects {
			names[p.ID] = p.Name
		}
		return tasksLoadedMsg{tasks: tasks, projects: names}
	}
}

func (m Dashboard) loadReport() tea.Cmd {
	return func() tea.Msg {
		r, err := LoadReport(m.ctx, m.src.Reports, m.userID, "", "")
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return reportLoadedMsg{report: r}
	}
}

func (m Dashboard) selected() (model.Task, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[i], true
}

func (m Dashboard) startSelected() tea.Cmd {
	task, ok := m.selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		res, err := m.src.Tasks.Start(m.ctx, m.userID, task.ID)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return timerMsg{result: res, started: true}
	}
}

func (m Dashboard) stopSelected() tea.Cmd {
	task, ok := m.selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		res, err := m.src.Tasks.Stop(m.ctx, m.userID, task.ID)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		if res.Changed {
			// Best effort.
			m.src.Notifier.Send(notify.TimerStopped(
				res.Task.Title,
				duration.Format(res.Elapsed),
				duration.Format(res.Task.Duration),
			))
		}
		return timerMsg{result: res}
	}
}

// rows renders the task table, adding live elapsed time to running timers
func (m Dashboard) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.tasks))
	for _, t := range m.tasks {
		marker := ""
		spent := t.Duration
		if t.Running() {
			marker = "●"
			spent += duration.Elapsed(*t.StartTime, m.now)
		}

		project, ok := m.projects[t.ProjectID]
		if !ok {
			project = tracker.UnknownProject
		}
		rows = append(rows, table.Row{marker, t.Title, project, string(t.Status), duration.Format(spent)})
	}
	return rows
}

func (m Dashboard) anyRunning() bool {
	for _, t := range m.tasks {
		if t.Running() {
			return true
		}
	}
	return false
}

// Update handles messages
func (m Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		if m.anyRunning() {
			m.table.SetRows(m.rows())
		}
		return m, tick()

	case tasksLoadedMsg:
		m.tasks = msg.tasks
		m.projects = msg.projects
		m.now = m.src.Clock.Now()
		m.table.SetRows(m.rows())
		return m, nil

	case reportLoadedMsg:
		m.report = msg.report
		return m, nil

	case timerMsg:
		m.statusMsg = timerStatus(msg)
		cmds := []tea.Cmd{m.load()}
		if m.showReport {
			cmds = append(cmds, m.loadReport())
		}
		return m, tea.Batch(cmds...)

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		m.errorMsg = ""

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Start):
			return m, m.startSelected()
		case key.Matches(msg, m.keys.Stop):
			return m, m.stopSelected()
		case key.Matches(msg, m.keys.Refresh):
			if m.showReport {
				return m, tea.Batch(m.load(), m.loadReport())
			}
			return m, m.load()
		case key.Matches(msg, m.keys.Report):
			m.showReport = !m.showReport
			m.table.SetHeight(m.tableHeight())
			if m.showReport {
				return m, m.loadReport()
			}
			return m, nil
		case key.Matches(msg, m.keys.ThemeCycle):
			theme.SetTheme(theme.Next(theme.Current.Theme.Name))
			m.table.SetStyles(tableStyles())
			m.statusMsg = fmt.Sprintf("Theme: %s", theme.Current.Theme.Name)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.table.SetHeight(m.tableHeight())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func timerStatus(msg timerMsg) string {
	title := msg.result.Task.Title
	switch {
	case msg.started && msg.result.Changed:
		return fmt.Sprintf("Timer started: %s", title)
	case msg.started:
		return fmt.Sprintf("Timer already running: %s", title)
	case msg.result.Changed:
		return fmt.Sprintf("Timer stopped: %s (+%s)", title, duration.Format(msg.result.Elapsed))
	default:
		return fmt.Sprintf("Timer not running: %s", title)
	}
}

// tableHeight reserves room for the header, footer and the report pane
func (m Dashboard) tableHeight() int {
	h := m.height - 6
	if m.help.ShowAll {
		h -= 4
	}
	if m.showReport {
		h /= 2
	}
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the UI
func (m Dashboard) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	styles := theme.Current.Styles
	sections := []string{m.renderHeader(), styles.Panel.Render(m.table.View())}

	if m.showReport {
		if m.report != nil {
			sections = append(sections, RenderReport(m.report))
		} else {
			sections = append(sections, styles.Label.Render("Loading report..."))
		}
	}

	sections = append(sections, m.renderFooter())
	return strings.Join(sections, "\n")
}

func (m Dashboard) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	sub := lipgloss.NewStyle().Foreground(t.Subtle).Padding(0, 1)
	left := lipgloss.JoinHorizontal(lipgloss.Center, styles.Header.Render("punch"), sub.Render(m.label))

	running := 0
	for _, task := range m.tasks {
		if task.Running() {
			running++
		}
	}
	right := sub.Render(fmt.Sprintf("theme: %s", t.Name))
	if running > 0 {
		right = styles.Running.Render(fmt.Sprintf("● %d running", running)) + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Dashboard) renderFooter() string {
	styles := theme.Current.Styles

	var lines []string
	if m.errorMsg != "" {
		lines = append(lines, styles.StatusError.Render(m.errorMsg))
	} else if m.statusMsg != "" {
		lines = append(lines, styles.StatusOK.Render(m.statusMsg))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}
