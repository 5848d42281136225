package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/schemline/schemline/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	srv := httptest.NewServer(New(runner, log.New(io.Discard)).Router())
	t.Cleanup(srv.Close)
	return srv
}

const validDoc = `
title = "divider"

[[constraint]]
from = "a"
to = "b"
axis = "x"
size = 2.0

[[constraint]]
from = "b"
to = "c"
axis = "x"
size = 1.5
`

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if id := resp.Header.Get("X-Request-ID"); id == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatalf("GET /version: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["version"] == "" {
		t.Error("missing version field")
	}
}

func TestSolve(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/solve", "application/toml", strings.NewReader(validDoc))
	if err != nil {
		t.Fatalf("POST /api/v1/solve: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if resp.Header.Get("X-Schemline-Doc-Hash") == "" {
		t.Error("missing X-Schemline-Doc-Hash header")
	}

	var pl struct {
		Positions map[string]struct{ X, Y float64 } `json:"positions"`
		Width     float64                           `json:"width"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pl); err != nil {
		t.Fatalf("decode placement: %v", err)
	}
	if pl.Width != 3.5 {
		t.Errorf("width = %v, want 3.5", pl.Width)
	}
	if got := pl.Positions["b"].X; got != 2 {
		t.Errorf("b.x = %v, want 2", got)
	}
}

func TestSolveDOT(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/solve?format=dot", "application/toml", strings.NewReader(validDoc))
	if err != nil {
		t.Fatalf("POST /api/v1/solve: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q, want text/vnd.graphviz", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "graph G {") {
		t.Errorf("body is not DOT: %s", body)
	}
}

func TestSolveMalformedDocument(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/solve", "application/toml", strings.NewReader("[[constraint\n"))
	if err != nil {
		t.Fatalf("POST /api/v1/solve: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code == "" || body.Error == "" {
		t.Errorf("error body incomplete: %+v", body)
	}
}

func TestSolveUnderdetermined(t *testing.T) {
	srv := newTestServer(t)

	doc := `
[[constraint]]
from = "a"
to = "b"
axis = "x"
size = 2.0

[[constraint]]
from = "c"
to = "d"
axis = "x"
size = 1.0
`
	resp, err := http.Post(srv.URL+"/api/v1/solve", "application/toml", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("POST /api/v1/solve: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestSolveUnknownFormat(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/solve?format=pdf", "application/toml", strings.NewReader(validDoc))
	if err != nil {
		t.Fatalf("POST /api/v1/solve: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "test-id-123" {
		t.Errorf("X-Request-ID = %q, want test-id-123", got)
	}
}
