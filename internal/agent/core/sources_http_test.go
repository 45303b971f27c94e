package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/satirist/config"
)

func TestGNewsFetchFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "gk" || r.URL.Query().Get("country") != "in" || r.URL.Query().Get("lang") != "en" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"articles":[
			{"title":"Monsoon arrives early in Kerala this year","content":"<p>Heavy <b>rain</b> expected.</p>"},
			{"title":"Too short","content":"ignored"},
			{"title":"Stock markets close higher on Friday","content":""}
		]}`))
	}))
	defer srv.Close()

	g := &GNewsClient{cfg: config.GNewsConfig{APIKey: "gk", Endpoint: srv.URL}, max: 10, http: NewHTTPClient(time.Second)}
	got, err := g.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Monsoon arrives early in Kerala this year" || got[0].Content != "Heavy rain expected." {
		t.Fatalf("unexpected candidates %+v", got)
	}
}

func TestNewsAPIFetchFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") != "nk" || r.URL.Query().Get("country") != "us" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"title":"[Removed]","content":"gone"},
			{"title":"Senate votes on the new farm bill","content":null,"description":"A close vote is expected."},
			{"title":"City council approves new bike lanes","content":"The council voted 7-2 on Tuesday… [+2381 chars]"},
			{"title":"Local team wins","content":"four words only"}
		]}`))
	}))
	defer srv.Close()

	n := &NewsAPIClient{cfg: config.NewsAPIConfig{APIKey: "nk", Endpoint: srv.URL}, max: 10, http: NewHTTPClient(time.Second)}
	got, err := n.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", got)
	}
	if got[0].Content != "A close vote is expected." {
		t.Fatalf("expected description fallback, got %q", got[0].Content)
	}
	if got[1].Content != "The council voted 7-2 on Tuesday" {
		t.Fatalf("expected truncation marker stripped, got %q", got[1].Content)
	}
}

func TestNewsAPIRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
	}))
	defer srv.Close()

	n := &NewsAPIClient{cfg: config.NewsAPIConfig{APIKey: "bad", Endpoint: srv.URL}, max: 10, http: NewHTTPClient(time.Second)}
	if _, err := n.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for non-ok status")
	}
}

func TestFetchCapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"articles":[
			{"title":"one two three four","content":"a"},
			{"title":"five six seven eight","content":"b"},
			{"title":"nine ten eleven twelve","content":"c"}
		]}`))
	}))
	defer srv.Close()

	g := &GNewsClient{cfg: config.GNewsConfig{APIKey: "k", Endpoint: srv.URL}, max: 2, http: NewHTTPClient(time.Second)}
	got, _ := g.Fetch(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(got))
	}
}

func TestNewSourceProvidersSkipsMissingKeys(t *testing.T) {
	if got := NewSourceProviders(config.SourcesConfig{}); len(got) != 0 {
		t.Fatalf("expected no providers without keys, got %d", len(got))
	}
	got := NewSourceProviders(config.SourcesConfig{NewsAPI: config.NewsAPIConfig{APIKey: "k"}})
	if len(got) != 1 || got[0].Name() != "newsapi" {
		t.Fatalf("expected only newsapi, got %+v", got)
	}
}

type fakeSource struct {
	name  string
	items []Candidate
	err   error
}

func (f fakeSource) Name() string { return f.name }

func (f fakeSource) Fetch(context.Context) ([]Candidate, error) { return f.items, f.err }

func TestTrendSpotterToleratesPartialFailure(t *testing.T) {
	var slept []time.Duration
	ts := NewTrendSpotter([]SourceProvider{
		fakeSource{name: "down", err: errors.New("503")},
		fakeSource{name: "up", items: []Candidate{{Title: "a b c d"}, {Title: "e f g h"}}},
	}, time.Second, zap.NewNop(), nil)
	ts.Sleep = func(d time.Duration) { slept = append(slept, d) }

	got := ts.Fetch(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected records from the healthy source, got %+v", got)
	}
	if len(slept) != 2 || slept[0] != time.Second {
		t.Fatalf("expected a polite delay before each query, got %v", slept)
	}
}

func TestTrendSpotterFallback(t *testing.T) {
	ts := NewTrendSpotter([]SourceProvider{
		fakeSource{name: "down", err: errors.New("timeout")},
		fakeSource{name: "empty"},
	}, 0, nil, nil)
	got := ts.Fetch(context.Background())
	if len(got) != 2 || got[0].Title != "Cricket match results announced" || got[1].Title != "New smartphone released" {
		t.Fatalf("expected fallback trends, got %+v", got)
	}
	got[0].Title = "mutated"
	if FallbackTrends[0].Title != "Cricket match results announced" {
		t.Fatalf("fallback list must not be shared")
	}
}
