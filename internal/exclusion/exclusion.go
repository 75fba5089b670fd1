// Package exclusion manages the user's list of substrings stripped from titles.
package exclusion

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Set is an ordered collection of unique substrings.
type Set []string

// Apply removes every entry from text, in order. Later removals see the result
// of earlier ones. Matching is literal substring matching.
func (s Set) Apply(text string) string {
	for _, e := range s {
		if e == "" {
			continue
		}
		text = strings.ReplaceAll(text, e, "")
	}
	return text
}

// Contains reports whether entry is in the set.
func (s Set) Contains(entry string) bool {
	return slices.Contains(s, entry)
}

// Add returns the set with entry appended, unless it is empty or already present.
func (s Set) Add(entry string) (Set, bool) {
	if entry == "" || s.Contains(entry) {
		return s, false
	}
	return append(s, entry), true
}

// Remove returns the set without entry.
func (s Set) Remove(entry string) (Set, bool) {
	i := slices.Index(s, entry)
	if i < 0 {
		return s, false
	}
	return slices.Delete(slices.Clone(s), i, i+1), true
}

// Load reads one entry per line from path. A missing file is an empty set.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("failed to read exclusion list: %w", err)
	}

	set := Set{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		set, _ = set.Add(strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse exclusion list: %w", err)
	}
	return set, nil
}

// Save overwrites path with one entry per line.
func Save(path string, s Set) error {
	var buf bytes.Buffer
	for _, e := range s {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create exclusion dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to save exclusion list: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save exclusion list: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save exclusion list: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save exclusion list: %w", err)
	}
	return nil
}

// Store is a lazily loaded exclusion list backed by a file. It is loaded on the
// first call that needs it and written back only by Save.
type Store struct {
	path string

	once    sync.Once
	mu      sync.Mutex
	set     Set
	loadErr error
}

// NewStore returns a store for path without touching the filesystem.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() {
	s.once.Do(func() {
		if s.path == "" {
			s.set = Set{}
			return
		}
		s.set, s.loadErr = Load(s.path)
	})
}

// Set returns a snapshot of the current entries.
func (s *Store) Set() (Set, error) {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return slices.Clone(s.set), nil
}

// Apply strips the stored entries from text. A store that failed to load
// applies nothing.
func (s *Store) Apply(text string) string {
	set, err := s.Set()
	if err != nil {
		return text
	}
	return set.Apply(text)
}

// Add appends entry in memory. Call Save to persist it.
func (s *Store) Add(entry string) (bool, error) {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return false, s.loadErr
	}
	var added bool
	s.set, added = s.set.Add(entry)
	return added, nil
}

// Remove drops entry in memory. Call Save to persist it.
func (s *Store) Remove(entry string) (bool, error) {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return false, s.loadErr
	}
	var removed bool
	s.set, removed = s.set.Remove(entry)
	return removed, nil
}

// Save writes the current entries to the backing file.
func (s *Store) Save() error {
	if s.path == "" {
		return errors.New("exclusion list has no backing file")
	}
	set, err := s.Set()
	if err != nil {
		return err
	}
	return Save(s.path, set)
}
