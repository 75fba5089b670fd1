package types

import "context"

// MovieRecord is a successful metadata lookup result.
type MovieRecord struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	ExternalID string `json:"imdbID,omitempty"`
}

// Candidate is the search query derived from one filename.
type Candidate struct {
	Title string
	Year  string // four-digit year hint, empty when the filename had none
}

// Empty reports whether the filename yielded no usable title.
func (c Candidate) Empty() bool {
	return c.Title == ""
}

// Provider looks up movie records by title and optional year.
// Every failure is returned as ErrNotFound.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, title, year string) (MovieRecord, error)
}

// ConfirmFunc asks whether to retry the lookup with an alternate title.
type ConfirmFunc func(guess string) bool

// AutoAccept is the silent-mode confirmation.
func AutoAccept(string) bool { return true }
