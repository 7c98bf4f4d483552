package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/meltforce/wodparse/internal/models"
	"github.com/meltforce/wodparse/internal/parser"
	"github.com/meltforce/wodparse/internal/server"
	"github.com/meltforce/wodparse/internal/vocabulary"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestHTTPClientParse verifies the parse request carries the API key and body
// fields, and the response decodes into ParseOutput.
func TestHTTPClientParse(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/parse": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if got := r.Header.Get("X-API-Key"); got != "secret" {
				t.Errorf("X-API-Key = %q, want secret", got)
			}
			var body struct {
				Text   string `json:"text"`
				Save   bool   `json:"save"`
				Source string `json:"source"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Text != "10 Burpees" || !body.Save || body.Source != "mcp" {
				t.Errorf("body = %+v", body)
			}
			writeTestJSON(t, w, ParseOutput{Result: &parser.Result{Title: "Burpees", ConfidenceScore: 52}, ID: &id})
		},
	})
	defer ts.Close()

	out, err := NewHTTPClient(ts.URL+"/", "secret").Parse(context.Background(), "10 Burpees", true, "mcp")
	if err != nil {
		t.Fatal(err)
	}
	if out.Result == nil || out.Title != "Burpees" || out.ConfidenceScore != 52 {
		t.Errorf("result = %+v", out.Result)
	}
	if out.ID == nil || *out.ID != id {
		t.Errorf("id = %v, want %s", out.ID, id)
	}
}

// TestHTTPClientQueries verifies the GET endpoints send their query params.
func TestHTTPClientQueries(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/movements": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("q"); got != "row" {
				t.Errorf("q = %q, want row", got)
			}
			writeTestJSON(t, w, []parser.Movement{{ID: "row", CanonicalName: "row", DisplayName: "Row"}})
		},
		"/api/v1/workouts": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("limit"); got != "5" {
				t.Errorf("limit = %q, want 5", got)
			}
			writeTestJSON(t, w, []models.ParsedWorkoutRow{{Title: "Cindy"}})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	movements, err := client.SearchMovements(context.Background(), "row")
	if err != nil {
		t.Fatal(err)
	}
	if len(movements) != 1 || movements[0].ID != "row" {
		t.Errorf("movements = %+v", movements)
	}

	rows, err := client.ListParsedWorkouts(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Title != "Cindy" {
		t.Errorf("rows = %+v", rows)
	}
}

// TestHTTPClientErrorStatus verifies non-200 responses become errors carrying the body.
func TestHTTPClientErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/workouts": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"persistence is not configured"}`))
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "").ListParsedWorkouts(context.Background(), 0)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "persistence") {
		t.Errorf("error = %q", err)
	}
}

// TestHTTPClientAgainstServer runs the remote data source against the real REST
// handlers to check both sides agree on the wire format.
func TestHTTPClientAgainstServer(t *testing.T) {
	vocab, err := vocabulary.Default()
	if err != nil {
		t.Fatal(err)
	}
	p, err := parser.New(vocab, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(server.New(p, vocab, nil, "secret", 0, testLogger()))
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "secret")
	out, err := client.Parse(context.Background(), fran, false, "")
	if err != nil {
		t.Fatal(err)
	}
	if out.Title != "Fran" || len(out.Movements) != 2 || out.ID != nil {
		t.Errorf("parse = %+v", out)
	}

	issues, err := client.Validate(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 || issues[0].ErrorType != parser.IssueEmptyInput {
		t.Errorf("issues = %+v, want one EmptyInput", issues)
	}

	if _, err := NewHTTPClient(ts.URL, "wrong").Parse(context.Background(), fran, false, ""); err == nil {
		t.Error("wrong API key: expected error")
	}
}
