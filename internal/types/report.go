package types

// OutcomeStatus is the result of executing one plan entry.
type OutcomeStatus int

const (
	StatusApplied OutcomeStatus = iota
	StatusSkipped
	StatusFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome records what happened to a single PathChange.
type Outcome struct {
	Change PathChange
	Status OutcomeStatus
	Err    error // ErrAlreadyExists for skips, the filesystem error for failures
}

// Report enumerates every entry's outcome in plan order.
type Report struct {
	Entries []Outcome
}

// Count returns how many entries ended with status s.
func (r *Report) Count(s OutcomeStatus) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}
