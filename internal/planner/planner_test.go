package planner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mydehq/plexify/internal/disambiguator"
	"github.com/mydehq/plexify/internal/exclusion"
	"github.com/mydehq/plexify/internal/planner"
	"github.com/mydehq/plexify/internal/types"
)

// mockProvider satisfies types.Provider from a fixed table
type mockProvider struct {
	records map[string]types.MovieRecord
	queries []string
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Lookup(ctx context.Context, title, year string) (types.MovieRecord, error) {
	m.queries = append(m.queries, title)
	if rec, ok := m.records[title]; ok {
		return rec, nil
	}
	return types.MovieRecord{}, types.ErrNotFound{Title: title, Year: year}
}

func newMock() *mockProvider {
	return &mockProvider{records: map[string]types.MovieRecord{
		"Avengers Endgame": {Title: "Avengers: Endgame", Year: "2019", ExternalID: "tt4154796"},
		"Inception":        {Title: "Inception", Year: "2010", ExternalID: "tt1375666"},
		"Interstellar":     {Title: "Interstellar", Year: "2014", ExternalID: "tt0816692"},
		"Toy_story":        {Title: "Toy Story", Year: "1995", ExternalID: "tt0114709"},
	}}
}

func newPlanner(p types.Provider) *planner.Planner {
	return planner.New(p, disambiguator.New(p, nil), nil).WithSilent()
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPlan_Simple(t *testing.T) {
	movies := filepath.Join(t.TempDir(), "movies")
	touch(t, filepath.Join(movies, "Avengers", "avengers.endgame.mov"))

	plan, err := newPlanner(newMock()).Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	want := map[string]string{
		filepath.Join(movies, "Avengers", "avengers.endgame.mov"): filepath.Join(movies, "Avengers Endgame (2019)", "Avengers Endgame (2019) (tt4154796).mov"),
	}
	if got := plan.Mapping(); !reflect.DeepEqual(got, want) {
		t.Errorf("Plan() = %v; want %v", got, want)
	}
}

func TestPlan_Large(t *testing.T) {
	movies := filepath.Join(t.TempDir(), "movies")
	for _, f := range []string{
		"Avengers/avengers.endgame.mov",
		"Avengers/poster.jpeg",
		"Avengers/avengers.endgame.srt",
		"Inception/inception.mkv",
		"Inception/poster.jpeg",
		"Inception/inception.srt",
		"Interstellar/interstellar.mkv",
		"Interstellar/poster.jpeg",
		"Interstellar/interstellar.srt",
		"Toy_Story/toy_story.mp4",
		"Toy_Story/poster.jpeg",
		"Toy_Story/toy_story.srt",
	} {
		touch(t, filepath.Join(movies, filepath.FromSlash(f)))
	}

	plan, err := newPlanner(newMock()).Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	j := func(parts ...string) string { return filepath.Join(append([]string{movies}, parts...)...) }
	want := map[string]string{
		j("Avengers", "avengers.endgame.mov"): j("Avengers Endgame (2019)", "Avengers Endgame (2019) (tt4154796).mov"),
		j("Inception", "inception.mkv"):       j("Inception (2010)", "Inception (2010) (tt1375666).mkv"),
		j("Interstellar", "interstellar.mkv"): j("Interstellar (2014)", "Interstellar (2014) (tt0816692).mkv"),
		j("Toy_Story", "toy_story.mp4"):       j("Toy Story (1995)", "Toy Story (1995) (tt0114709).mp4"),
	}
	if got := plan.Mapping(); !reflect.DeepEqual(got, want) {
		t.Errorf("Plan() mismatch\nGot:  %v\nWant: %v", got, want)
	}
	if len(plan.Unresolved) != 0 || len(plan.Conflicts) != 0 {
		t.Errorf("Plan() unresolved=%v conflicts=%v; want none", plan.Unresolved, plan.Conflicts)
	}
}

func TestPlan_Deterministic(t *testing.T) {
	movies := t.TempDir()
	touch(t, filepath.Join(movies, "Inception", "inception.mkv"))
	touch(t, filepath.Join(movies, "Interstellar", "interstellar.mkv"))
	touch(t, filepath.Join(movies, "Avengers", "avengers.endgame.mov"))

	pl := newPlanner(newMock())
	first, err := pl.Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatal(err)
	}
	second, err := pl.Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Changes, second.Changes) {
		t.Errorf("Plan() not deterministic:\n%v\n%v", first.Changes, second.Changes)
	}

	// Planning must not touch the tree
	if _, err := os.Stat(filepath.Join(movies, "Inception", "inception.mkv")); err != nil {
		t.Errorf("Plan() modified the filesystem: %v", err)
	}
	if _, err := os.Stat(filepath.Join(movies, "Inception (2010)")); !os.IsNotExist(err) {
		t.Errorf("Plan() created a directory")
	}
}

func TestPlan_UnsupportedExtension(t *testing.T) {
	movies := t.TempDir()
	touch(t, filepath.Join(movies, "Inception", "inception.jpeg"))
	touch(t, filepath.Join(movies, "Inception", "Inception.2010.jpeg"))

	mock := newMock()
	plan, err := newPlanner(mock).Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Len() != 0 {
		t.Errorf("Plan() included unsupported files: %v", plan.Mapping())
	}
	if len(mock.queries) != 0 {
		t.Errorf("unsupported files were looked up: %v", mock.queries)
	}
}

func TestPlan_SilentUnresolved(t *testing.T) {
	movies := t.TempDir()
	touch(t, filepath.Join(movies, "Unknown", "some.obscure.film.mkv"))
	touch(t, filepath.Join(movies, "Inception", "inception.mkv"))

	prompted := false
	pl := newPlanner(newMock()).WithConfirm(func(string) bool {
		prompted = true
		return false
	})

	plan, err := pl.Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatal(err)
	}
	if prompted {
		t.Error("silent mode prompted for confirmation")
	}
	if plan.Len() != 1 {
		t.Errorf("Plan() has %d changes; want 1", plan.Len())
	}
	if len(plan.Unresolved) != 1 || filepath.Base(plan.Unresolved[0].Path) != "some.obscure.film.mkv" {
		t.Errorf("Plan() unresolved = %v", plan.Unresolved)
	}
}

func TestPlan_InteractiveDecline(t *testing.T) {
	movies := t.TempDir()
	touch(t, filepath.Join(movies, "Toy_Story", "toy_story.mp4"))

	var asked []string
	mock := newMock()
	pl := planner.New(mock, disambiguator.New(mock, nil), nil).WithConfirm(func(g string) bool {
		asked = append(asked, g)
		return false
	})

	plan, err := pl.Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(asked) != 1 || asked[0] != "Toy_story" {
		t.Errorf("confirm asked %v; want [Toy_story]", asked)
	}
	if plan.Len() != 0 || len(plan.Unresolved) != 1 {
		t.Errorf("declined guess: changes=%d unresolved=%d; want 0 and 1", plan.Len(), len(plan.Unresolved))
	}
}

func TestPlan_Conflict(t *testing.T) {
	movies := t.TempDir()
	touch(t, filepath.Join(movies, "A", "inception.mkv"))
	touch(t, filepath.Join(movies, "B", "Inception.2010.mkv"))

	plan, err := newPlanner(newMock()).Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Len() != 1 {
		t.Fatalf("Plan() has %d changes; want 1", plan.Len())
	}
	if len(plan.Conflicts) != 1 {
		t.Fatalf("Plan() has %d conflicts; want 1", len(plan.Conflicts))
	}
	c := plan.Conflicts[0]
	if len(c.Sources) != 2 || c.Sources[0] == c.Sources[1] {
		t.Errorf("conflict sources = %v; want two distinct", c.Sources)
	}
	if c.Target != plan.Changes[0].Target {
		t.Errorf("conflict target = %q; want %q", c.Target, plan.Changes[0].Target)
	}
}

func TestPlan_AlreadyNamed(t *testing.T) {
	movies := t.TempDir()
	touch(t, filepath.Join(movies, "Inception (2010)", "Inception (2010) (tt1375666).mkv"))

	mock := &mockProvider{records: map[string]types.MovieRecord{
		"Inception2010tt1375666": {Title: "Inception", Year: "2010", ExternalID: "tt1375666"},
	}}
	plan, err := newPlanner(mock).Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Len() != 0 {
		t.Errorf("Plan() = %v; want no changes for an already named file", plan.Mapping())
	}
}

func TestPlan_NonRecursive(t *testing.T) {
	movies := filepath.Join(t.TempDir(), "movies")
	touch(t, filepath.Join(movies, "inception.mkv"))
	touch(t, filepath.Join(movies, "Interstellar", "interstellar.mkv"))

	plan, err := newPlanner(newMock()).Plan(context.Background(), movies, false)
	if err != nil {
		t.Fatal(err)
	}
	// The folder holding the file is root, so the movie folder takes its place.
	want := map[string]string{
		filepath.Join(movies, "inception.mkv"): filepath.Join(filepath.Dir(movies), "Inception (2010)", "Inception (2010) (tt1375666).mkv"),
	}
	if got := plan.Mapping(); !reflect.DeepEqual(got, want) {
		t.Errorf("Plan() = %v; want %v", got, want)
	}
}

func TestPlan_NonRecursiveMovieFolder(t *testing.T) {
	movies := filepath.Join(t.TempDir(), "movies")
	root := filepath.Join(movies, "Avengers")
	touch(t, filepath.Join(root, "avengers.endgame.mov"))

	plan, err := newPlanner(newMock()).Plan(context.Background(), root, false)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		filepath.Join(root, "avengers.endgame.mov"): filepath.Join(movies, "Avengers Endgame (2019)", "Avengers Endgame (2019) (tt4154796).mov"),
	}
	if got := plan.Mapping(); !reflect.DeepEqual(got, want) {
		t.Errorf("Plan() = %v; want %v", got, want)
	}
}

func TestPlan_ExclusionsCleanPrimaryQuery(t *testing.T) {
	movies := filepath.Join(t.TempDir(), "movies")
	touch(t, filepath.Join(movies, "dl", "The.Matrix.1080p.mkv"))

	mock := &mockProvider{records: map[string]types.MovieRecord{
		"The Matrix": {Title: "The Matrix", Year: "1999", ExternalID: "tt0133093"},
	}}
	ex := exclusion.Set{"1080p"}
	plan, err := planner.New(mock, disambiguator.New(mock, ex), nil).
		WithExclusions(ex).
		WithSilent().
		Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatal(err)
	}

	if want := []string{"The Matrix"}; !reflect.DeepEqual(mock.queries, want) {
		t.Errorf("queries = %q; want %q", mock.queries, want)
	}
	want := map[string]string{
		filepath.Join(movies, "dl", "The.Matrix.1080p.mkv"): filepath.Join(movies, "The Matrix (1999)", "The Matrix (1999) (tt0133093).mkv"),
	}
	if got := plan.Mapping(); !reflect.DeepEqual(got, want) {
		t.Errorf("Plan() = %v; want %v", got, want)
	}
}

func TestPlan_POSIXTarget(t *testing.T) {
	movies := t.TempDir()
	touch(t, filepath.Join(movies, "Avengers", "avengers.endgame.mov"))

	plan, err := newPlanner(newMock()).WithTargetOS(types.TargetPOSIX).Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(movies, "Avengers: Endgame (2019)", "Avengers: Endgame (2019) (tt4154796).mov")
	if plan.Len() != 1 || plan.Changes[0].Target != want {
		t.Errorf("Plan() = %v; want target %q", plan.Mapping(), want)
	}
}

func TestPlan_InvalidRoot(t *testing.T) {
	_, err := newPlanner(newMock()).Plan(context.Background(), filepath.Join(t.TempDir(), "missing"), true)
	var invalid types.ErrInvalidInput
	if !errors.As(err, &invalid) {
		t.Errorf("Plan() error = %v; want ErrInvalidInput", err)
	}

	file := filepath.Join(t.TempDir(), "file.mkv")
	touch(t, file)
	if _, err := newPlanner(newMock()).Plan(context.Background(), file, true); !errors.As(err, &invalid) {
		t.Errorf("Plan(file) error = %v; want ErrInvalidInput", err)
	}
}

func TestPlan_Events(t *testing.T) {
	movies := t.TempDir()
	touch(t, filepath.Join(movies, "Inception", "inception.mkv"))
	touch(t, filepath.Join(movies, "X", "nothing.here.at.all.mkv"))

	var events []types.Event
	_, err := newPlanner(newMock()).WithEvents(func(e types.Event) { events = append(events, e) }).
		Plan(context.Background(), movies, true)
	if err != nil {
		t.Fatal(err)
	}

	var planned, unresolved int
	for _, e := range events {
		switch e.Type {
		case types.EventInfo:
			planned++
		case types.EventWarning:
			unresolved++
		}
	}
	if planned != 1 || unresolved != 1 {
		t.Errorf("events planned=%d unresolved=%d; want 1 and 1 (%v)", planned, unresolved, events)
	}
}
