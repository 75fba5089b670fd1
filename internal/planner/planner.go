// Package planner computes source→target moves for a movie directory tree.
// It reads directory listings and queries the metadata provider; it never
// modifies the filesystem.
package planner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mydehq/plexify/internal/disambiguator"
	"github.com/mydehq/plexify/internal/formatter"
	"github.com/mydehq/plexify/internal/normalizer"
	"github.com/mydehq/plexify/internal/scan"
	"github.com/mydehq/plexify/internal/types"
)

// Planner builds rename plans.
type Planner struct {
	provider   types.Provider
	resolver   *disambiguator.Resolver
	exclusions disambiguator.Excluder
	formats    []string

	targetOS types.TargetOS
	silent   bool
	confirm  types.ConfirmFunc
	events   types.EventHandler
}

// New returns a planner using p for lookups and r for the fallback guess.
// A nil resolver disables disambiguation.
func New(p types.Provider, r *disambiguator.Resolver, formats []string) *Planner {
	if len(formats) == 0 {
		formats = scan.DefaultFormats
	}
	return &Planner{
		provider: p,
		resolver: r,
		formats:  formats,
		targetOS: types.TargetWindows,
	}
}

// WithSilent makes the fallback guess auto-accepted without prompting.
func (pl *Planner) WithSilent() *Planner {
	pl.silent = true
	return pl
}

// WithConfirm sets the confirmation used for fallback guesses when not silent.
func (pl *Planner) WithConfirm(fn types.ConfirmFunc) *Planner {
	pl.confirm = fn
	return pl
}

// WithEvents sets the progress event handler.
func (pl *Planner) WithEvents(h types.EventHandler) *Planner {
	pl.events = h
	return pl
}

// WithExclusions strips ex from every filename stem before the primary lookup.
func (pl *Planner) WithExclusions(ex disambiguator.Excluder) *Planner {
	pl.exclusions = ex
	return pl
}

// WithTargetOS selects the sanitizing rules for new names.
func (pl *Planner) WithTargetOS(t types.TargetOS) *Planner {
	pl.targetOS = t
	return pl
}

// Plan scans root and returns the moves needed to bring every resolvable movie
// file to "{dir}/{Title (Year)}/{Title (Year) (id)}{ext}". Files that cannot
// be matched are listed in Plan.Unresolved; sources that collide on a target
// keep the first entry and are listed in Plan.Conflicts.
func (pl *Planner) Plan(ctx context.Context, root string, recursive bool) (*types.Plan, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, types.ErrInvalidInput{Path: root, Reason: err.Error()}
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, types.ErrInvalidInput{Path: root, Reason: "path does not exist"}
		}
		return nil, types.ErrInvalidInput{Path: root, Reason: err.Error()}
	}
	if !info.IsDir() {
		return nil, types.ErrInvalidInput{Path: root, Reason: "not a directory"}
	}

	result, err := scan.Scan(abs, pl.formats, recursive)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", abs, err)
	}

	for _, dir := range result.Skipped {
		pl.events.Emit(types.EventWarning, fmt.Sprintf("Skipped unreadable folder: %s", pl.rel(abs, dir)))
	}

	plan := types.NewPlan(abs)
	for _, f := range result.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := pl.resolve(ctx, f)
		if err != nil {
			plan.Unresolved = append(plan.Unresolved, types.Unresolved{
				Path:   f.Path,
				Title:  pl.Candidate(f).Title,
				Reason: err.Error(),
			})
			pl.events.Emit(types.EventWarning, fmt.Sprintf("Unresolved: %s (%v)", pl.rel(abs, f.Path), err))
			continue
		}

		target := pl.TargetPath(f, rec)
		if target == f.Path {
			pl.events.Emit(types.EventInfo, fmt.Sprintf("Already named: %s", pl.rel(abs, f.Path)))
			continue
		}

		if err := plan.Add(types.PathChange{Source: f.Path, Target: target, Record: rec}); err != nil {
			var conflict types.ErrPlanConflict
			if !errors.As(err, &conflict) {
				return nil, err
			}
			plan.Conflicts = append(plan.Conflicts, conflict)
			pl.events.Emit(types.EventError, fmt.Sprintf("Conflict: %s → %s", pl.rel(abs, f.Path), pl.rel(abs, conflict.Target)))
			continue
		}
		pl.events.Emit(types.EventInfo, fmt.Sprintf("Planned: %s → %s", pl.rel(abs, f.Path), pl.rel(abs, target)))
	}

	return plan, nil
}

// resolve runs lookup with the single disambiguation fallback.
func (pl *Planner) resolve(ctx context.Context, f scan.File) (types.MovieRecord, error) {
	cand := pl.Candidate(f)

	var rec types.MovieRecord
	var err error
	if cand.Empty() {
		err = types.ErrNotFound{Title: f.Name, Reason: "no usable title"}
	} else {
		rec, err = pl.provider.Lookup(ctx, cand.Title, cand.Year)
	}
	if err == nil || !types.IsNotFound(err) || pl.resolver == nil {
		return rec, err
	}

	confirm := pl.confirm
	if pl.silent || confirm == nil {
		confirm = types.AutoAccept
	}
	return pl.resolver.Resolve(ctx, f.Name, cand.Title, confirm)
}

// Candidate normalizes the filename of f after removing exclusions from its stem.
func (pl *Planner) Candidate(f scan.File) types.Candidate {
	if pl.exclusions == nil {
		return normalizer.Normalize(f.Name)
	}
	stem := strings.TrimSuffix(f.Name, f.Ext)
	return normalizer.Normalize(pl.exclusions.Apply(stem) + f.Ext)
}

// TargetPath composes "{parentOfParent}/{dirStem}/{fileStem}{ext}" for f: the
// movie folder takes the place of the folder holding the file. For files
// directly in root that folder is root itself.
func (pl *Planner) TargetPath(f scan.File, rec types.MovieRecord) string {
	base := filepath.Dir(filepath.Dir(f.Path))
	dirStem := formatter.Sanitize(formatter.DirStem(rec), pl.targetOS)
	fileStem := formatter.Sanitize(formatter.FileStem(rec), pl.targetOS)
	return filepath.Join(base, dirStem, fileStem+f.Ext)
}

func (pl *Planner) rel(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil {
		return r
	}
	return path
}
