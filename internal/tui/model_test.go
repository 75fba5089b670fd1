package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mydehq/plexify"
	"github.com/mydehq/plexify/internal/types"
)

func samplePlan(root string) *plexify.Plan {
	plan := types.NewPlan(root)
	plan.Add(types.PathChange{Source: root + "/dl/inception.mkv", Target: root + "/Inception (2010)/Inception (2010) (tt1375666).mkv"})
	plan.Add(types.PathChange{Source: root + "/dl/heat.mp4", Target: root + "/Heat (1995)/Heat (1995) (tt0113277).mp4"})
	plan.Unresolved = append(plan.Unresolved, types.Unresolved{Path: root + "/dl/zzz.avi", Title: "Zzz", Reason: "not found"})
	return plan
}

func TestUpdate_PlanDone(t *testing.T) {
	m := NewModel("/movies")
	next, _ := m.Update(planDoneMsg{plan: samplePlan(m.path)})
	got := next.(Model)

	if got.state != stateConfirmation {
		t.Fatalf("state = %v, want confirmation", got.state)
	}
	rows := got.rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if !strings.Contains(rows[0][2], "Pending") {
		t.Errorf("row 0 status = %q", rows[0][2])
	}
	if !strings.Contains(rows[2][2], "Unresolved") || rows[2][1] != "-" {
		t.Errorf("unresolved row = %v", rows[2])
	}
}

func TestUpdate_PlanError(t *testing.T) {
	m := NewModel("/movies")
	next, _ := m.Update(planDoneMsg{err: errors.New("boom")})
	got := next.(Model)
	if got.state != stateInitial || got.err == nil {
		t.Errorf("state = %v err = %v", got.state, got.err)
	}
}

func TestUpdate_ApplyDone(t *testing.T) {
	m := NewModel("/movies")
	plan := samplePlan(m.path)
	next, _ := m.Update(planDoneMsg{plan: plan})

	report := &plexify.Report{Entries: []plexify.Outcome{
		{Change: plan.Changes[0], Status: plexify.StatusApplied},
		{Change: plan.Changes[1], Status: plexify.StatusSkipped, Err: types.ErrAlreadyExists{Path: plan.Changes[1].Target}},
	}}
	next, _ = next.(Model).Update(applyDoneMsg{report: report})
	got := next.(Model)

	if got.state != stateFinished {
		t.Fatalf("state = %v, want finished", got.state)
	}
	rows := got.rows()
	if !strings.Contains(rows[0][2], "Renamed") || !strings.Contains(rows[1][2], "Skipped") {
		t.Errorf("rows = %v", rows)
	}
}

func TestUpdate_Quit(t *testing.T) {
	m := NewModel("/movies")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !next.(Model).quitting || cmd == nil {
		t.Error("q should quit from the initial screen")
	}
}

func TestView_Sizes(t *testing.T) {
	m := NewModel("/movies")
	if v := m.View(); v != "Starting..." {
		t.Errorf("View before size = %q", v)
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	next, _ = next.(Model).Update(planDoneMsg{plan: samplePlan(m.path)})
	if v := next.(Model).View(); !strings.Contains(v, "2 moves planned") {
		t.Errorf("confirmation view missing summary:\n%s", v)
	}
}

func TestEvents_StopAfterClose(t *testing.T) {
	events := make(chan plexify.Event, 1)
	events <- plexify.Event{Type: plexify.EventInfo, Message: "Planned: a → b"}
	close(events)

	m := NewModel("/movies")
	msg := listenForEvents(events)()
	if _, ok := msg.(eventMsg); !ok {
		t.Fatalf("first message = %T, want eventMsg", msg)
	}
	next, cmd := m.Update(msg)
	if len(next.(Model).events) != 1 {
		t.Errorf("events = %v, want one entry", next.(Model).events)
	}
	if cmd == nil {
		t.Fatal("eventMsg did not re-arm the listener")
	}

	msg = cmd()
	if _, ok := msg.(eventsClosedMsg); !ok {
		t.Fatalf("message after close = %T, want eventsClosedMsg", msg)
	}
	if _, cmd = next.Update(msg); cmd != nil {
		t.Error("listener re-armed after the stream closed")
	}
}

func TestRunPlan_ClosesEvents(t *testing.T) {
	m := NewModel(t.TempDir() + "/missing")
	events := make(chan plexify.Event, 1)

	if _, ok := m.runPlan(events)().(planDoneMsg); !ok {
		t.Fatal("runPlan did not return planDoneMsg")
	}
	if _, open := <-events; open {
		t.Error("runPlan left the event channel open")
	}
}
