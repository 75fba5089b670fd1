// Package tui is a bubbletea screen that plans a directory, shows the moves
// and applies them on request.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mydehq/plexify"
	"github.com/mydehq/plexify/internal/ui"
)

type state int

const (
	stateInitial state = iota
	statePlanning
	stateConfirmation
	stateApplying
	stateFinished
)

var (
	titleStyle    = ui.StyleCommand
	subTitleStyle = ui.StyleDim

	infoStyle    = ui.StyleCommand
	successStyle = ui.StyleHeader
	warningStyle = ui.StyleTitle
	errorStyle   = ui.StyleError

	actionBarMsgStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "229", Dark: "229"}).
				Background(lipgloss.AdaptiveColor{Light: "57", Dark: "57"}).
				Padding(0, 1)

	actionBarKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "57", Dark: "57"}).
				Background(lipgloss.AdaptiveColor{Light: "229", Dark: "229"}).
				Padding(0, 1).
				Bold(true)
)

type planDoneMsg struct {
	plan *plexify.Plan
	err  error
}

// eventMsg carries one event and the stream it came from, so the listener
// re-arms on the same run.
type eventMsg struct {
	plexify.Event
	events <-chan plexify.Event
}

// eventsClosedMsg ends a run's event stream.
type eventsClosedMsg struct{}

type applyDoneMsg struct {
	report *plexify.Report
	err    error
}

type Model struct {
	state    state
	path     string
	opts     []plexify.Option
	err      error
	quitting bool

	table  table.Model
	plan   *plexify.Plan
	report *plexify.Report

	events []string

	width  int
	height int
}

// NewModel returns a model for path. opts are passed to every plan and apply;
// planning is always silent.
func NewModel(path string, opts ...plexify.Option) Model {
	absPath, _ := filepath.Abs(path)

	columns := []table.Column{
		{Title: "Source File", Width: 40},
		{Title: "Target", Width: 40},
		{Title: "Status", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("86"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return Model{
		state: stateInitial,
		path:  absPath,
		opts:  opts,
		table: t,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "q":
			if m.state == stateInitial || m.state == stateConfirmation || m.state == stateFinished {
				m.quitting = true
				return m, tea.Quit
			}

		case "enter":
			switch {
			case m.state == stateInitial || m.state == stateFinished:
				m.state = statePlanning
				m.err = nil
				m.plan = nil
				m.report = nil
				m.events = nil
				m.updateTable()
				events := make(chan plexify.Event, 64)
				cmds = append(cmds, m.runPlan(events), listenForEvents(events))
			case m.state == stateConfirmation && m.plan != nil && m.plan.Len() > 0:
				m.state = stateApplying
				m.err = nil
				m.events = nil
				m.resizeTable()
				events := make(chan plexify.Event, 64)
				cmds = append(cmds, m.runApply(events), listenForEvents(events))
			}

		case "backspace":
			if m.state == stateConfirmation {
				m.state = stateInitial
				return m, nil
			}
		}

	case planDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateInitial
			return m, nil
		}
		m.plan = msg.plan
		m.state = stateConfirmation
		m.updateTable()

	case eventMsg:
		var styledMsg string
		switch msg.Type {
		case plexify.EventSuccess:
			styledMsg = successStyle.Render(msg.Message)
		case plexify.EventWarning:
			styledMsg = warningStyle.Render(msg.Message)
		case plexify.EventError:
			styledMsg = errorStyle.Render(msg.Message)
		default:
			styledMsg = infoStyle.Render(msg.Message)
		}

		m.events = append(m.events, fmt.Sprintf("[%s] %s", msg.Type, styledMsg))
		if len(m.events) > 100 {
			m.events = m.events[len(m.events)-100:]
		}
		return m, listenForEvents(msg.events)

	case eventsClosedMsg:
		return m, nil

	case applyDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateInitial
			return m, nil
		}
		m.report = msg.report
		m.state = stateFinished
		m.updateTable()
		m.resizeTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTable()

	case error:
		m.err = msg
		return m, nil
	}

	switch m.state {
	case stateConfirmation, stateFinished, stateApplying:
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// rows builds the table content from the plan and, once applied, the report.
func (m Model) rows() []table.Row {
	if m.plan == nil {
		return nil
	}
	outcomes := map[string]plexify.Outcome{}
	if m.report != nil {
		for _, o := range m.report.Entries {
			outcomes[o.Change.Source] = o
		}
	}

	var rows []table.Row
	for _, c := range m.plan.Changes {
		status := "Pending"
		if o, ok := outcomes[c.Source]; ok {
			switch o.Status {
			case plexify.StatusApplied:
				status = successStyle.Render("Renamed")
			case plexify.StatusSkipped:
				status = warningStyle.Render("Skipped")
			case plexify.StatusFailed:
				status = errorStyle.Render("Failed")
			}
		}
		rows = append(rows, table.Row{m.relPath(c.Source), m.relPath(c.Target), status})
	}
	for _, c := range m.plan.Conflicts {
		for _, src := range c.Sources[1:] {
			rows = append(rows, table.Row{m.relPath(src), m.relPath(c.Target), errorStyle.Render("Conflict")})
		}
	}
	for _, u := range m.plan.Unresolved {
		rows = append(rows, table.Row{m.relPath(u.Path), "-", warningStyle.Render("Unresolved")})
	}
	return rows
}

func (m *Model) updateTable() {
	m.table.SetRows(m.rows())
}

func (m Model) relPath(p string) string {
	if r, err := filepath.Rel(m.path, p); err == nil {
		return r
	}
	return p
}

func (m *Model) resizeTable() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	totalW := m.width - 4
	statusW := 12
	flexW := (totalW - statusW) / 2
	if flexW < 10 {
		flexW = 10
	}

	m.table.SetColumns([]table.Column{
		{Title: "Source File", Width: flexW},
		{Title: "Target", Width: flexW},
		{Title: "Status", Width: statusW},
	})

	headerH := 4
	footerH := 2
	contentH := m.height - headerH - footerH

	switch m.state {
	case stateApplying:
		// table and logs share the screen
		contentH = contentH / 2
	case stateFinished:
		contentH -= 7
	}
	if contentH < 5 {
		contentH = 5
	}

	m.table.SetHeight(contentH - 2)
}

func (m Model) withEvents(events chan<- plexify.Event) []plexify.Option {
	handler := func(e plexify.Event) {
		events <- e
	}
	opts := append([]plexify.Option{}, m.opts...)
	return append(opts, plexify.WithEvents(handler))
}

// runPlan plans in the background and closes events when it returns.
func (m Model) runPlan(events chan plexify.Event) tea.Cmd {
	opts := append(m.withEvents(events), plexify.WithSilent())
	path := m.path
	return func() tea.Msg {
		defer close(events)
		plan, err := plexify.PlanChanges(context.Background(), path, opts...)
		return planDoneMsg{plan: plan, err: err}
	}
}

// listenForEvents waits for the next event of one run. It returns
// eventsClosedMsg once the run has closed the channel and is not re-armed.
func listenForEvents(events <-chan plexify.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{Event: e, events: events}
	}
}

// runApply applies the current plan and closes events when it returns.
func (m Model) runApply(events chan plexify.Event) tea.Cmd {
	plan := m.plan
	opts := m.withEvents(events)
	return func() tea.Msg {
		defer close(events)
		report, err := plexify.Apply(context.Background(), plan, opts...)
		return applyDoneMsg{report: report, err: err}
	}
}

func (m Model) renderActionBar(actions []string) string {
	var rendered []string
	for _, a := range actions {
		parts := strings.SplitN(a, " ", 2)
		if len(parts) == 2 {
			rendered = append(rendered, actionBarKeyStyle.Render(parts[0])+actionBarMsgStyle.Render(parts[1]))
		}
	}
	bar := strings.Join(rendered, lipgloss.NewStyle().Background(lipgloss.Color("57")).Render("  "))

	padW := m.width - lipgloss.Width(bar)
	if padW < 0 {
		padW = 0
	}
	padding := lipgloss.NewStyle().Background(lipgloss.Color("57")).Render(strings.Repeat(" ", padW))

	return bar + padding
}

func (m Model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	if m.width <= 0 || m.height <= 0 {
		return "Starting..."
	}

	var s strings.Builder

	header := fmt.Sprintf("%s  %s", titleStyle.Render("PLEXIFY"), subTitleStyle.Render("DIR: "+m.path))
	s.WriteString(lipgloss.NewStyle().Padding(1, 2).Render(header))
	s.WriteString("\n")

	var contentView string
	var actionBarView string
	center := func(body string) string {
		return lipgloss.Place(m.width, m.height-6, lipgloss.Center, lipgloss.Center, body)
	}

	switch m.state {
	case stateInitial:
		if m.err != nil {
			contentView = center(errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress Enter to try again.", m.err)))
		} else {
			contentView = center("Press Enter to Scan Directory")
		}
		actionBarView = m.renderActionBar([]string{"Enter Scan", "q Quit"})

	case statePlanning:
		msg := "Looking up movies..."
		if n := len(m.events); n > 0 {
			msg = m.events[n-1]
		}
		contentView = center(infoStyle.Render(msg))
		actionBarView = m.renderActionBar([]string{"ctrl+c Abort"})

	case stateConfirmation:
		if m.plan.Len() == 0 {
			body := "No files need renaming."
			if n := len(m.plan.Unresolved); n > 0 {
				body += "\n" + warningStyle.Render(fmt.Sprintf("%d file(s) could not be matched.", n))
			}
			contentView = center(body)
			actionBarView = m.renderActionBar([]string{"Enter Rescan", "q Quit"})
		} else {
			statStr := subTitleStyle.Render(fmt.Sprintf("%d moves planned, %d conflicts, %d unresolved.",
				m.plan.Len(), len(m.plan.Conflicts), len(m.plan.Unresolved)))
			contentView = lipgloss.NewStyle().Padding(0, 2).Render(statStr + "\n\n" + m.table.View())
			actionBarView = m.renderActionBar([]string{"Enter Apply", "Backspace Rescan", "↑/↓ Scroll", "q Quit"})
		}

	case stateApplying:
		statStr := infoStyle.Render("Renaming in progress...")
		tableView := lipgloss.NewStyle().Padding(0, 2).Render(statStr + "\n\n" + m.table.View())

		logH := (m.height - 6) / 2
		if logH < 5 {
			logH = 5
		}
		maxLogs := logH - 2
		if maxLogs < 0 {
			maxLogs = 0
		}

		startIdx := 0
		if len(m.events) > maxLogs {
			startIdx = len(m.events) - maxLogs
		}
		logBody := subTitleStyle.Render("Waiting for events...")
		if lines := m.events[startIdx:]; len(lines) > 0 {
			logBody = strings.Join(lines, "\n")
		}

		logBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(m.width - 6).
			Height(maxLogs + 1).
			Render(titleStyle.Render("Event Logs") + "\n" + logBody)

		logView := lipgloss.NewStyle().Padding(1, 2).Render(logBox)

		contentView = lipgloss.JoinVertical(lipgloss.Left, tableView, logView)
		actionBarView = m.renderActionBar([]string{"ctrl+c Abort Operation"})

	case stateFinished:
		summary := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).BorderForeground(lipgloss.Color("34")).Render(
			fmt.Sprintf("%s\n%d renamed, %d skipped, %d failed.",
				successStyle.Bold(true).Render("COMPLETED"),
				m.report.Count(plexify.StatusApplied),
				m.report.Count(plexify.StatusSkipped),
				m.report.Count(plexify.StatusFailed),
			),
		)
		contentView = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Padding(0, 2).Render(m.table.View()),
			lipgloss.NewStyle().Padding(1, 2).Render(summary),
		)
		actionBarView = m.renderActionBar([]string{"Enter Rescan", "↑/↓ Scroll", "q Quit"})
	}

	s.WriteString(contentView)

	// pin the action bar to the bottom
	currentLines := strings.Count(s.String(), "\n")
	neededNewLines := (m.height - 2) - currentLines
	if neededNewLines > 0 {
		s.WriteString(strings.Repeat("\n", neededNewLines))
	} else {
		s.WriteString("\n")
	}
	s.WriteString(actionBarView)

	return s.String()
}
