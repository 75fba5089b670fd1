// Package disambiguator proposes an alternate search title when a lookup misses.
package disambiguator

import (
	"context"
	"strings"

	"github.com/mydehq/plexify/internal/normalizer"
	"github.com/mydehq/plexify/internal/types"
)

// Delimiters are tried in order when splitting a filename into words.
var Delimiters = []string{".", "-", "_", " "}

// DefaultExtensions are the suffixes stripped before guessing.
var DefaultExtensions = []string{"avi", "mp4", "mkv", "mov"}

// Excluder strips user-defined substrings from a title.
type Excluder interface {
	Apply(text string) string
}

// Resolver runs the single bounded retry.
type Resolver struct {
	Provider   types.Provider
	Exclusions Excluder // optional
	Extensions []string // without dots; DefaultExtensions when empty
}

// New returns a Resolver backed by p.
func New(p types.Provider, ex Excluder) *Resolver {
	return &Resolver{Provider: p, Exclusions: ex}
}

// Guess derives the alternate title for a raw filename.
//
// A known extension is stripped, exclusions removed and leftover delimiters
// trimmed from both ends. For the first
// delimiter that splits the rest into more than two segments, the last two
// segments are rejoined with it; otherwise the whole string is used. The
// result is title-cased.
func (r *Resolver) Guess(original string) string {
	s := stripExtension(original, r.extensions())
	if r.Exclusions != nil {
		s = r.Exclusions.Apply(s)
	}
	s = strings.Trim(s, strings.Join(Delimiters, ""))
	for _, d := range Delimiters {
		if words := strings.Split(s, d); len(words) > 2 {
			s = strings.Join(words[len(words)-2:], d)
			break
		}
	}
	return strings.TrimSpace(normalizer.TitleCase(s))
}

// Resolve is called after the lookup for candidate failed. It asks confirm
// whether to search for the guessed title instead and performs at most one
// further lookup. A nil confirm accepts, as in silent mode.
func (r *Resolver) Resolve(ctx context.Context, original, candidate string, confirm types.ConfirmFunc) (types.MovieRecord, error) {
	guess := r.Guess(original)
	if guess == "" || guess == candidate {
		return types.MovieRecord{}, types.ErrNotFound{Title: candidate, Reason: "no alternate title"}
	}

	if confirm == nil {
		confirm = types.AutoAccept
	}
	if !confirm(guess) {
		return types.MovieRecord{}, types.ErrNotFound{Title: guess, Reason: "alternate title declined"}
	}

	return r.Provider.Lookup(ctx, guess, "")
}

func (r *Resolver) extensions() []string {
	if len(r.Extensions) == 0 {
		return DefaultExtensions
	}
	return r.Extensions
}

func stripExtension(name string, exts []string) string {
	lower := strings.ToLower(name)
	for _, e := range exts {
		suffix := "." + strings.TrimPrefix(strings.ToLower(e), ".")
		if strings.HasSuffix(lower, suffix) {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}
