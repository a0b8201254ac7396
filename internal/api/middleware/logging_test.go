package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/RitochitGhosh/summarAIze/internal/api/middleware"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := middleware.Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"x"}`))
	}))

	// Prometheus scrapes are passed through without a log line
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("scrape status %d, want handler to run", rec.Code)
	}
	if buf.Len() != 0 {
		t.Fatalf("metrics scrape was logged: %s", buf.String())
	}

	// Everything else gets a structured entry
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/agents", nil))
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry %q: %v", buf.String(), err)
	}
	if entry["method"] != "GET" || entry["path"] != "/api/agents" {
		t.Errorf("entry = %v", entry)
	}
	if entry["status"] != float64(http.StatusCreated) {
		t.Errorf("status = %v, want 201", entry["status"])
	}
	if entry["bytes"] != float64(len(`{"id":"x"}`)) {
		t.Errorf("bytes = %v, want body length", entry["bytes"])
	}
}
