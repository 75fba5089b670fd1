package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is returned when no metadata API key is configured.
var ErrMissingAPIKey = errors.New("no OMDb API key configured (set api.omdb_key or OMDB_API_KEY)")

// ErrInvalidInput reports an unusable root path. It aborts a run before any mutation.
type ErrInvalidInput struct {
	Path   string
	Reason string
}

func (e ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Path, e.Reason)
}

// ErrNotFound is the single lookup failure kind: no match, transport failure and
// non-success status all classify as not found.
type ErrNotFound struct {
	Title  string
	Year   string
	Reason string
}

func (e ErrNotFound) Error() string {
	q := e.Title
	if e.Year != "" {
		q += " (" + e.Year + ")"
	}
	if e.Reason == "" {
		return fmt.Sprintf("no match for %q", q)
	}
	return fmt.Sprintf("no match for %q: %s", q, e.Reason)
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// ErrPlanConflict is raised when distinct sources resolve to the same target.
type ErrPlanConflict struct {
	Target  string
	Sources []string
}

func (e ErrPlanConflict) Error() string {
	return fmt.Sprintf("plan conflict: %s claimed by %s", e.Target, strings.Join(e.Sources, ", "))
}

// ErrAlreadyExists is recorded when a move target is already present on disk.
type ErrAlreadyExists struct {
	Path string
}

func (e ErrAlreadyExists) Error() string {
	return fmt.Sprintf("target already exists: %s", e.Path)
}

// ErrAPIError represents an unexpected response from a metadata service
type ErrAPIError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e ErrAPIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Service, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Service, e.StatusCode, e.Message)
}

// ErrProviderNotFound is returned when no registered provider has the requested name
type ErrProviderNotFound struct {
	Name string
}

func (e ErrProviderNotFound) Error() string {
	return fmt.Sprintf("no provider registered as %q", e.Name)
}
