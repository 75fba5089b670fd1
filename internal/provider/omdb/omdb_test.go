package omdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mydehq/plexify/internal/provider"
	"github.com/mydehq/plexify/internal/provider/omdb"
	"github.com/mydehq/plexify/internal/types"
)

func newServer(t *testing.T, h http.HandlerFunc) *omdb.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := omdb.New("test-key", omdb.WithBaseURL(srv.URL), omdb.WithClient(srv.Client()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestLookup_Success(t *testing.T) {
	var gotQuery map[string]string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{"apikey": q.Get("apikey"), "t": q.Get("t"), "y": q.Get("y")}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Title":"Avengers: Endgame","Year":"2019","imdbID":"tt4154796","Response":"True"}`))
	})

	rec, err := c.Lookup(context.Background(), "Avengers Endgame", "2019")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	want := types.MovieRecord{Title: "Avengers: Endgame", Year: "2019", ExternalID: "tt4154796"}
	if rec != want {
		t.Errorf("Lookup() = %+v; want %+v", rec, want)
	}
	if gotQuery["apikey"] != "test-key" || gotQuery["t"] != "Avengers Endgame" || gotQuery["y"] != "2019" {
		t.Errorf("unexpected query: %v", gotQuery)
	}
}

func TestLookup_NoYearParam(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("y") {
			t.Errorf("year parameter sent without a year hint")
		}
		w.Write([]byte(`{"Title":"Heat","Year":"1995","Response":"True"}`))
	})

	rec, err := c.Lookup(context.Background(), "Heat", "")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if rec.ExternalID != "" {
		t.Errorf("Lookup() ExternalID = %q; want empty", rec.ExternalID)
	}
}

func TestLookup_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Explicit no match",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
			},
		},
		{
			name: "Non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "invalid key", http.StatusUnauthorized)
			},
		},
		{
			name: "Server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "Malformed JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Title":`))
			},
		},
		{
			name: "Missing year",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Title":"Heat","Response":"True"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, tt.handler)
			_, err := c.Lookup(context.Background(), "Heat", "")
			if !types.IsNotFound(err) {
				t.Errorf("Lookup() error = %v; want ErrNotFound", err)
			}
		})
	}
}

func TestLookup_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := omdb.New("secret", omdb.WithBaseURL(url))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Lookup(context.Background(), "Heat", "")
	var nf types.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("Lookup() error = %v; want ErrNotFound", err)
	}
}

func TestLookup_NoCaching(t *testing.T) {
	var hits atomic.Int32
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"Title":"Heat","Year":"1995","imdbID":"tt0113277","Response":"True"}`))
	})

	for i := 0; i < 2; i++ {
		if _, err := c.Lookup(context.Background(), "Heat", ""); err != nil {
			t.Fatal(err)
		}
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times; want 2", hits.Load())
	}
}

func TestLookup_YearRange(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Title":"Dune","Year":"2021–2024","imdbID":"N/A","Response":"True"}`))
	})
	rec, err := c.Lookup(context.Background(), "Dune", "")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Year != "2021" || rec.ExternalID != "" {
		t.Errorf("Lookup() = %+v; want year 2021 and no id", rec)
	}
}

func TestNew_MissingKey(t *testing.T) {
	if _, err := omdb.New(" "); !errors.Is(err, types.ErrMissingAPIKey) {
		t.Errorf("New() error = %v; want ErrMissingAPIKey", err)
	}
}

func TestRegistry(t *testing.T) {
	p, err := provider.New(omdb.Name, types.APIConfig{OMDbKey: "k"}, nil)
	if err != nil {
		t.Fatalf("provider.New() error = %v", err)
	}
	if p.Name() != omdb.Name {
		t.Errorf("Name() = %q; want %q", p.Name(), omdb.Name)
	}

	var pnf types.ErrProviderNotFound
	if _, err := provider.New("tmdb", types.APIConfig{}, nil); !errors.As(err, &pnf) {
		t.Errorf("provider.New(tmdb) error = %v; want ErrProviderNotFound", err)
	}
}
