// Package plexify renames movie files into Plex-style "Title (Year)" folders
// using metadata looked up from OMDb.
package plexify

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mydehq/plexify/internal/config"
	"github.com/mydehq/plexify/internal/disambiguator"
	"github.com/mydehq/plexify/internal/exclusion"
	"github.com/mydehq/plexify/internal/executor"
	"github.com/mydehq/plexify/internal/planner"
	"github.com/mydehq/plexify/internal/provider"
	_ "github.com/mydehq/plexify/internal/provider/omdb"
	"github.com/mydehq/plexify/internal/scan"
	"github.com/mydehq/plexify/internal/tagger"
	"github.com/mydehq/plexify/internal/types"
)

type (
	Event        = types.Event
	EventType    = types.EventType
	EventHandler = types.EventHandler
	ConfirmFunc  = types.ConfirmFunc
	TargetOS     = types.TargetOS

	MovieRecord = types.MovieRecord
	Plan        = types.Plan
	PathChange  = types.PathChange
	Report      = types.Report
	Outcome     = types.Outcome
)

const (
	EventInfo    = types.EventInfo
	EventSuccess = types.EventSuccess
	EventWarning = types.EventWarning
	EventError   = types.EventError

	StatusApplied = types.StatusApplied
	StatusSkipped = types.StatusSkipped
	StatusFailed  = types.StatusFailed
)

// GuessResult describes how a single file would be queried.
type GuessResult struct {
	Path      string
	Title     string
	Year      string
	Alternate string
}

// PlanChanges scans path and returns the moves that would normalize it.
// Nothing on disk is modified.
func PlanChanges(ctx context.Context, path string, opts ...Option) (*Plan, error) {
	o := buildOptions(opts)

	root, err := checkRoot(path)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}

	p := o.Provider
	if p == nil {
		p, err = provider.New(cfg.Provider, cfg.API, o.HTTPClient)
		if err != nil {
			return nil, err
		}
	}

	formats := formatsFor(o, cfg)
	ex := exclusionsFor(o, cfg)
	r := disambiguator.New(p, ex)
	r.Extensions = formats

	pl := planner.New(p, r, formats).
		WithExclusions(ex).
		WithTargetOS(targetFor(o, cfg)).
		WithEvents(o.Events)
	if o.Silent {
		pl = pl.WithSilent()
	}
	if o.Confirm != nil {
		pl = pl.WithConfirm(o.Confirm)
	}
	return pl.Plan(ctx, root, o.Recursive)
}

// Apply executes plan and reports each entry's outcome.
func Apply(ctx context.Context, plan *Plan, opts ...Option) (*Report, error) {
	o := buildOptions(opts)
	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}

	ex := executor.New().WithEvents(o.Events)
	if o.Prune || cfg.PruneEmptyDirs {
		ex = ex.WithPrune()
	}
	if o.Tag || cfg.TagMKV {
		ex = ex.WithAfterMove(tagger.Hook())
	}
	return ex.Apply(ctx, plan), nil
}

// Rename plans path and applies the result. With WithDryRun the report is nil.
func Rename(ctx context.Context, path string, opts ...Option) (*Plan, *Report, error) {
	plan, err := PlanChanges(ctx, path, opts...)
	if err != nil {
		return nil, nil, err
	}
	if buildOptions(opts).DryRun {
		return plan, nil, nil
	}
	report, err := Apply(ctx, plan, opts...)
	return plan, report, err
}

// Guess lists the query each supported file in path would produce, plus the
// alternate title used when the lookup misses. No network access is made.
func Guess(path string, opts ...Option) ([]GuessResult, error) {
	o := buildOptions(opts)

	root, err := checkRoot(path)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}

	formats := formatsFor(o, cfg)
	res, err := scan.Scan(root, formats, o.Recursive)
	if err != nil {
		return nil, err
	}
	ex := exclusionsFor(o, cfg)
	r := disambiguator.New(nil, ex)
	r.Extensions = formats
	pl := planner.New(nil, r, formats).WithExclusions(ex)

	out := make([]GuessResult, 0, len(res.Files))
	for _, f := range res.Files {
		c := pl.Candidate(f)
		out = append(out, GuessResult{
			Path:      f.Path,
			Title:     c.Title,
			Year:      c.Year,
			Alternate: r.Guess(f.Name),
		})
	}
	return out, nil
}

func checkRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", types.ErrInvalidInput{Path: path, Reason: err.Error()}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", types.ErrInvalidInput{Path: path, Reason: "does not exist"}
	}
	if !info.IsDir() {
		return "", types.ErrInvalidInput{Path: path, Reason: "not a directory"}
	}
	return abs, nil
}

func loadConfig(o *Options) (*types.GlobalConfig, error) {
	if o.Config != nil {
		return o.Config, nil
	}
	return config.LoadGlobal()
}

func exclusionsFor(o *Options, cfg *types.GlobalConfig) disambiguator.Excluder {
	if o.Exclusions != nil {
		return o.Exclusions
	}
	return exclusion.NewStore(cfg.Exclusions.File)
}

func formatsFor(o *Options, cfg *types.GlobalConfig) []string {
	if len(o.Formats) > 0 {
		return o.Formats
	}
	return cfg.Formats
}

func targetFor(o *Options, cfg *types.GlobalConfig) TargetOS {
	if o.TargetOS != "" {
		return o.TargetOS
	}
	if cfg.TargetOS != "" {
		return cfg.TargetOS
	}
	return types.TargetWindows
}
