package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/knotworks/forcemap/pkg/graph"
	"github.com/knotworks/forcemap/pkg/pipeline"
	"github.com/knotworks/forcemap/pkg/store"
)

func testServer() *Server {
	logger := log.New(&bytes.Buffer{})
	return New(Config{
		Runner: pipeline.NewRunner(nil, nil, logger),
		Store:  store.NewMemoryStore(),
		Logger: logger,
	})
}

func postLayout(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/layouts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCreateLayout(t *testing.T) {
	handler := testServer().Router()

	body := `{
		"entities": [
			{"id": "a", "label": "Alpha", "attrs": {"classification": "core", "family": "f1"}},
			{"id": "b", "label": "Beta", "attrs": {"classification": "core", "family": "f2"}},
			{"id": "c", "label": "Gamma", "attrs": {"classification": "edge", "family": "f3"}}
		],
		"seed": 3
	}`
	w := postLayout(t, handler, body)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body)
	}
	if got := w.Header().Get("X-Request-ID"); got == "" {
		t.Error("missing X-Request-ID header")
	}

	var resp struct {
		ID            string       `json:"id"`
		Layout        graph.Layout `json:"layout"`
		Relationships int          `json:"relationships"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("missing layout id")
	}
	if len(resp.Layout.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(resp.Layout.Nodes))
	}
	// a and b share classification=core.
	if resp.Relationships != 1 {
		t.Errorf("relationships = %d, want 1", resp.Relationships)
	}
}

func TestGetLayout(t *testing.T) {
	handler := testServer().Router()

	body := `{"entities": [
		{"id": "x", "attrs": {"classification": "c1", "family": "f"}},
		{"id": "y", "attrs": {"classification": "c2", "family": "f"}}
	]}`
	created := postLayout(t, handler, body)
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", created.Code, created.Body)
	}
	var createResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(created.Body).Decode(&createResp); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/layouts/"+createResp.ID, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body)
	}
	var rec store.Record
	if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.ID != createResp.ID {
		t.Errorf("record id = %q, want %q", rec.ID, createResp.ID)
	}
	if len(rec.Layout.Edges) != 1 {
		t.Errorf("edges = %d, want 1", len(rec.Layout.Edges))
	}
}

func TestGetLayout_NotFound(t *testing.T) {
	handler := testServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/v1/layouts/nope", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != "LAYOUT_NOT_FOUND" {
		t.Errorf("error code = %q, want LAYOUT_NOT_FOUND", resp.Code)
	}
}

func TestCreateLayout_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"entities": [`, "INVALID_INPUT"},
		{"duplicate ids", `{"entities": [{"id": "a"}, {"id": "a"}]}`, "INVALID_ENTITY"},
		{"bad engine", `{"entities": [{"id": "a"}], "engine": "magnetic"}`, "INVALID_ENGINE"},
	}
	handler := testServer().Router()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postLayout(t, handler, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusBadRequest, w.Body)
			}
			var resp struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code != tt.code {
				t.Errorf("error code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	handler := testServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp["status"])
	}
}

func TestRequestID_Propagated(t *testing.T) {
	handler := testServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "trace-123" {
		t.Errorf("X-Request-ID = %q, want trace-123", got)
	}
}
