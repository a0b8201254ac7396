package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/RitochitGhosh/summarAIze/internal/api/middleware"
	"github.com/RitochitGhosh/summarAIze/internal/store"
)

func newAuthFixture(t *testing.T) (*store.SQLiteStore, http.Handler) {
	t.Helper()
	db, err := store.NewSQLiteStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(db.Close)

	auth := middleware.NewAuthMiddleware(db, nil)
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := middleware.GetUserFromContext(r.Context())
		if user == nil {
			t.Error("no user in context behind RequireAuth")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(user.Name))
	}))
	return db, handler
}

func seedSession(t *testing.T, db *store.SQLiteStore, name string, expiresAt time.Time) string {
	t.Helper()
	ctx := context.Background()
	user, err := db.CreateUser(ctx, name, name+"@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	token := ulid.Make().String()
	if _, err := db.CreateSession(ctx, token, user.ID, expiresAt); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return token
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestRequireAuthBearerToken(t *testing.T) {
	db, handler := newAuthFixture(t)
	token := seedSession(t, db, "alice", time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if rec.Body.String() != "alice" {
		t.Errorf("resolved user = %q, want alice", rec.Body.String())
	}
}

func TestRequireAuthSessionCookie(t *testing.T) {
	db, handler := newAuthFixture(t)
	token := seedSession(t, db, "alice", time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
}

func TestRequireAuthRejections(t *testing.T) {
	_, handler := newAuthFixture(t)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"no credentials", "", "authentication required"},
		{"malformed scheme", "Basic abc123", "authentication required"},
		{"unknown token", "Bearer " + ulid.Make().String(), "invalid session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status %d, want 401", rec.Code)
			}
			if msg := errorMessage(t, rec); msg != tt.message {
				t.Errorf("error = %q, want %q", msg, tt.message)
			}
		})
	}
}

func TestRequireAuthExpiredSession(t *testing.T) {
	db, handler := newAuthFixture(t)
	token := seedSession(t, db, "alice", time.Now().Add(-time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "session expired" {
		t.Errorf("error = %q, want session expired", msg)
	}

	// Expired sessions are purged on first use
	session, err := db.GetSession(context.Background(), token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if session != nil {
		t.Error("expired session still present after rejection")
	}
}
