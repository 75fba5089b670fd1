package plexify

import (
	"net/http"

	"github.com/mydehq/plexify/internal/types"
)

// Excluder strips unwanted substrings from a filename before guessing.
type Excluder interface {
	Apply(text string) string
}

// Options configures PlanChanges, Apply, Rename and Guess.
type Options struct {
	Recursive bool
	Silent    bool
	DryRun    bool
	Prune     bool
	Tag       bool

	Confirm    ConfirmFunc
	Events     EventHandler
	Provider   types.Provider
	Exclusions Excluder
	TargetOS   TargetOS
	Formats    []string
	Config     *types.GlobalConfig
	HTTPClient *http.Client
}

// Option is a functional option.
type Option func(*Options)

// WithRecursive plans every file below the root instead of only its direct children.
func WithRecursive() Option {
	return func(o *Options) {
		o.Recursive = true
	}
}

// WithSilent accepts fallback guesses without asking.
func WithSilent() Option {
	return func(o *Options) {
		o.Silent = true
	}
}

// WithDryRun makes Rename stop after planning.
func WithDryRun() Option {
	return func(o *Options) {
		o.DryRun = true
	}
}

// WithPrune removes source folders emptied by a move.
func WithPrune() Option {
	return func(o *Options) {
		o.Prune = true
	}
}

// WithTagging writes Matroska title tags after each move.
func WithTagging() Option {
	return func(o *Options) {
		o.Tag = true
	}
}

// WithConfirm sets the interactive confirmation for fallback guesses.
func WithConfirm(fn ConfirmFunc) Option {
	return func(o *Options) {
		o.Confirm = fn
	}
}

// WithEvents sets the progress event handler.
func WithEvents(h EventHandler) Option {
	return func(o *Options) {
		o.Events = h
	}
}

// WithProvider overrides the metadata provider built from the config.
func WithProvider(p types.Provider) Option {
	return func(o *Options) {
		o.Provider = p
	}
}

// WithExclusions overrides the persisted exclusion list.
func WithExclusions(ex Excluder) Option {
	return func(o *Options) {
		o.Exclusions = ex
	}
}

// WithTargetOS selects the character rules for new names.
func WithTargetOS(t TargetOS) Option {
	return func(o *Options) {
		o.TargetOS = t
	}
}

// WithFormats overrides the supported extensions.
func WithFormats(formats ...string) Option {
	return func(o *Options) {
		o.Formats = formats
	}
}

// WithConfig uses cfg instead of loading the global config file.
func WithConfig(cfg *types.GlobalConfig) Option {
	return func(o *Options) {
		o.Config = cfg
	}
}

// WithHTTPClient sets the client used by the metadata provider.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = c
	}
}

func buildOptions(opts []Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
