// Package executor applies rename plans to the filesystem.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mydehq/plexify/internal/types"
)

// AfterMoveFunc runs after an entry was moved. Its error is reported as a
// warning; the entry stays applied.
type AfterMoveFunc func(ctx context.Context, c types.PathChange) error

// Executor moves files as described by a plan. It never mutates the plan.
type Executor struct {
	events    types.EventHandler
	prune     bool
	afterMove AfterMoveFunc
}

// New returns an executor with default behaviour.
func New() *Executor {
	return &Executor{}
}

// WithEvents sets the progress event handler.
func (e *Executor) WithEvents(h types.EventHandler) *Executor {
	e.events = h
	return e
}

// WithPrune removes a source folder once a move leaves it empty.
func (e *Executor) WithPrune() *Executor {
	e.prune = true
	return e
}

// WithAfterMove registers a hook run after each successful move.
func (e *Executor) WithAfterMove(fn AfterMoveFunc) *Executor {
	e.afterMove = fn
	return e
}

// Apply executes every change in plan order. Existing targets are skipped,
// failures are recorded and do not stop later entries.
func (e *Executor) Apply(ctx context.Context, plan *types.Plan) *types.Report {
	report := &types.Report{Entries: make([]types.Outcome, 0, plan.Len())}
	for _, c := range plan.Changes {
		out := e.applyOne(c)
		report.Entries = append(report.Entries, out)

		switch out.Status {
		case types.StatusApplied:
			e.events.Emit(types.EventSuccess, fmt.Sprintf("Renamed: %s → %s", rel(plan.Root, c.Source), rel(plan.Root, c.Target)))
			if e.prune {
				e.pruneDir(plan.Root, filepath.Dir(c.Source))
			}
			if e.afterMove != nil {
				if err := e.afterMove(ctx, c); err != nil {
					e.events.Emit(types.EventWarning, fmt.Sprintf("Post-move step failed for %s: %v", rel(plan.Root, c.Target), err))
				}
			}
		case types.StatusSkipped:
			e.events.Emit(types.EventWarning, fmt.Sprintf("Skipped: %s (target exists)", rel(plan.Root, c.Target)))
		case types.StatusFailed:
			e.events.Emit(types.EventError, fmt.Sprintf("Failed: %s: %v", rel(plan.Root, c.Source), out.Err))
		}
	}
	return report
}

func (e *Executor) applyOne(c types.PathChange) types.Outcome {
	out := types.Outcome{Change: c}

	if err := os.MkdirAll(filepath.Dir(c.Target), 0o755); err != nil {
		out.Status = types.StatusFailed
		out.Err = fmt.Errorf("failed to create directory: %w", err)
		return out
	}

	found, err := exists(c.Target)
	if err != nil {
		out.Status = types.StatusFailed
		out.Err = err
		return out
	}
	if found {
		out.Status = types.StatusSkipped
		out.Err = types.ErrAlreadyExists{Path: c.Target}
		return out
	}

	if err := rename(c.Source, c.Target); err != nil {
		out.Status = types.StatusFailed
		out.Err = err
		return out
	}
	out.Status = types.StatusApplied
	return out
}

// pruneDir removes dir if it is empty and lies strictly inside root.
func (e *Executor) pruneDir(root, dir string) {
	if root == "" || dir == root {
		return
	}
	r, err := filepath.Rel(root, dir)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := os.Remove(dir); err == nil {
		e.events.Emit(types.EventInfo, fmt.Sprintf("Removed empty folder: %s", rel(root, dir)))
	}
}

func rel(root, path string) string {
	if root == "" {
		return path
	}
	if r, err := filepath.Rel(root, path); err == nil {
		return r
	}
	return path
}
