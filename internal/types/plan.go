package types

import "path/filepath"

// PathChange is one planned move.
type PathChange struct {
	Source string
	Target string
	Record MovieRecord
}

// Unresolved is a supported file the planner could not match.
type Unresolved struct {
	Path   string
	Title  string
	Reason string
}

// Plan maps source paths to target paths in insertion order. It is pure data.
type Plan struct {
	Root       string
	Changes    []PathChange
	Conflicts  []ErrPlanConflict
	Unresolved []Unresolved

	bySource map[string]int
	byTarget map[string]int
}

// NewPlan returns an empty plan rooted at root.
func NewPlan(root string) *Plan {
	return &Plan{
		Root:     root,
		bySource: make(map[string]int),
		byTarget: make(map[string]int),
	}
}

// Add appends a change. A source may appear once, and no two sources may share
// a target; violations return ErrPlanConflict and leave the plan unchanged.
func (p *Plan) Add(c PathChange) error {
	if p.bySource == nil {
		p.bySource = make(map[string]int)
		p.byTarget = make(map[string]int)
	}
	src := filepath.Clean(c.Source)
	dst := filepath.Clean(c.Target)
	if i, ok := p.bySource[src]; ok {
		return ErrPlanConflict{Target: p.Changes[i].Target, Sources: []string{src}}
	}
	if i, ok := p.byTarget[dst]; ok {
		return ErrPlanConflict{Target: dst, Sources: []string{p.Changes[i].Source, src}}
	}
	c.Source, c.Target = src, dst
	p.bySource[src] = len(p.Changes)
	p.byTarget[dst] = len(p.Changes)
	p.Changes = append(p.Changes, c)
	return nil
}

// Lookup returns the target planned for source.
func (p *Plan) Lookup(source string) (string, bool) {
	i, ok := p.bySource[filepath.Clean(source)]
	if !ok {
		return "", false
	}
	return p.Changes[i].Target, true
}

// Len returns the number of planned changes.
func (p *Plan) Len() int {
	return len(p.Changes)
}

// Mapping returns the plan as a plain source→target map.
func (p *Plan) Mapping() map[string]string {
	m := make(map[string]string, len(p.Changes))
	for _, c := range p.Changes {
		m[c.Source] = c.Target
	}
	return m
}
