package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/RitochitGhosh/summarAIze/internal/api"
	"github.com/RitochitGhosh/summarAIze/internal/handlers"
	"github.com/RitochitGhosh/summarAIze/internal/models"
	"github.com/RitochitGhosh/summarAIze/internal/store"
)

type testEnv struct {
	router http.Handler
	db     *store.SQLiteStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := store.NewSQLiteStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(db.Close)

	return &testEnv{
		router: api.NewRouter(zerolog.Nop(), db, nil),
		db:     db,
	}
}

// mintSession seeds a user and a live session, returning the user and token.
func (e *testEnv) mintSession(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	ctx := context.Background()
	user, err := e.db.CreateUser(ctx, name, name+"@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	token := ulid.Make().String()
	if _, err := e.db.CreateSession(ctx, token, user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func createMeeting(t *testing.T, e *testEnv, token, name string, status string) models.Meeting {
	t.Helper()
	body := map[string]any{"name": name}
	if status != "" {
		body["status"] = status
	}
	rec := e.do(t, http.MethodPost, "/api/meetings", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create meeting %q: status %d body=%s", name, rec.Code, rec.Body.String())
	}
	return decode[models.Meeting](t, rec)
}

func TestEndpointsRequireAuth(t *testing.T) {
	e := newTestEnv(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/agents"},
		{http.MethodPost, "/api/agents"},
		{http.MethodGet, "/api/agents/xyz"},
		{http.MethodGet, "/api/meetings"},
		{http.MethodPost, "/api/meetings"},
		{http.MethodGet, "/api/meetings/xyz"},
		{http.MethodPatch, "/api/meetings/xyz"},
		{http.MethodDelete, "/api/meetings/xyz"},
	}
	for _, p := range paths {
		rec := e.do(t, p.method, p.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status %d, want 401", p.method, p.path, rec.Code)
		}
	}

	// An unknown token is rejected the same way
	rec := e.do(t, http.MethodGet, "/api/meetings", "not-a-real-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bogus token: status %d, want 401", rec.Code)
	}
}

func TestMeetingRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.mintSession(t, "alice")

	created := createMeeting(t, e, token, "Standup", "upcoming")
	if created.Status != models.StatusUpcoming {
		t.Fatalf("created status = %s", created.Status)
	}

	rec := e.do(t, http.MethodGet, "/api/meetings/"+created.ID.String(), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("getOne: status %d body=%s", rec.Code, rec.Body.String())
	}
	detail := decode[handlers.MeetingDetailResponse](t, rec)
	if detail.Name != "Standup" || detail.Status != models.StatusUpcoming {
		t.Fatalf("round trip mismatch: %+v", detail)
	}
	if !detail.Lifecycle.CanCancel || detail.Lifecycle.CanJoin {
		t.Errorf("upcoming lifecycle = %+v", detail.Lifecycle)
	}

	// Update only the status; name must be untouched
	rec = e.do(t, http.MethodPatch, "/api/meetings/"+created.ID.String(), token, map[string]any{"status": "active"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body=%s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodGet, "/api/meetings/"+created.ID.String(), token, nil)
	detail = decode[handlers.MeetingDetailResponse](t, rec)
	if detail.Status != models.StatusActive {
		t.Errorf("status = %s, want active", detail.Status)
	}
	if detail.Name != "Standup" {
		t.Errorf("name = %q, want unchanged", detail.Name)
	}
	if !detail.Lifecycle.CanJoin || detail.Lifecycle.CanCancel {
		t.Errorf("active lifecycle = %+v", detail.Lifecycle)
	}
}

func TestMeetingCreateDefaultsToUpcoming(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.mintSession(t, "alice")

	created := createMeeting(t, e, token, "No Status", "")
	if created.Status != models.StatusUpcoming {
		t.Errorf("default status = %s, want upcoming", created.Status)
	}
}

func TestMeetingCreateValidation(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.mintSession(t, "alice")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{}},
		{"blank name", map[string]any{"name": "   "}},
		{"invalid status", map[string]any{"name": "X", "status": "archived"}},
		{"malformed agent id", map[string]any{"name": "X", "agent_id": "nope"}},
		{"unknown agent id", map[string]any{"name": "X", "agent_id": "3f1f9a34-0000-4000-8000-000000000000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/api/meetings", token, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400 (body=%s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestMeetingPagination(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.mintSession(t, "alice")

	total := 7
	for i := 0; i < total; i++ {
		createMeeting(t, e, token, fmt.Sprintf("Meeting %d", i), "")
	}

	// Out-of-bounds page size is a validation error
	rec := e.do(t, http.MethodGet, "/api/meetings?page_size=101", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("page_size=101: status %d, want 400", rec.Code)
	}
	rec = e.do(t, http.MethodGet, "/api/meetings?page_size=0", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("page_size=0: status %d, want 400", rec.Code)
	}

	pageSize := 3
	seen := map[string]bool{}
	count := 0
	for page := 1; page <= 3; page++ {
		rec := e.do(t, http.MethodGet, fmt.Sprintf("/api/meetings?page=%d&page_size=%d", page, pageSize), token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("page %d: status %d", page, rec.Code)
		}
		result := decode[handlers.MeetingListResponse](t, rec)
		if result.Total != total {
			t.Errorf("page %d total = %d, want %d", page, result.Total, total)
		}
		if result.TotalPages != 3 {
			t.Errorf("page %d total_pages = %d, want 3", page, result.TotalPages)
		}
		if len(result.Items) > pageSize {
			t.Errorf("page %d len = %d > page size", page, len(result.Items))
		}
		for _, item := range result.Items {
			if seen[item.ID.String()] {
				t.Errorf("item %s appears on more than one page", item.ID)
			}
			seen[item.ID.String()] = true
			count++
		}
	}
	if count != total {
		t.Errorf("sum of items across pages = %d, want %d", count, total)
	}

	// Last page carries the remainder
	rec = e.do(t, http.MethodGet, "/api/meetings?page=3&page_size=3", token, nil)
	result := decode[handlers.MeetingListResponse](t, rec)
	if len(result.Items) != total-pageSize*2 {
		t.Errorf("last page len = %d, want %d", len(result.Items), total-pageSize*2)
	}

	// Out-of-range pages return empty items with accurate totals
	rec = e.do(t, http.MethodGet, "/api/meetings?page=50&page_size=3", token, nil)
	result = decode[handlers.MeetingListResponse](t, rec)
	if len(result.Items) != 0 || result.Total != total || result.TotalPages != 3 {
		t.Errorf("out-of-range page: items=%d total=%d total_pages=%d", len(result.Items), result.Total, result.TotalPages)
	}

	// Same page twice with no writes returns identical ordered items
	first := decode[handlers.MeetingListResponse](t, e.do(t, http.MethodGet, "/api/meetings?page=1&page_size=3", token, nil))
	second := decode[handlers.MeetingListResponse](t, e.do(t, http.MethodGet, "/api/meetings?page=1&page_size=3", token, nil))
	if len(first.Items) != len(second.Items) {
		t.Fatal("identical reads differ in length")
	}
	for i := range first.Items {
		if first.Items[i].ID != second.Items[i].ID {
			t.Fatalf("identical reads differ at index %d", i)
		}
	}
}

func TestMeetingSearch(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.mintSession(t, "alice")

	createMeeting(t, e, token, "Weekly Sync", "")
	createMeeting(t, e, token, "Planning", "")

	rec := e.do(t, http.MethodGet, "/api/meetings?search=weekly", token, nil)
	result := decode[handlers.MeetingListResponse](t, rec)
	if result.Total != 1 || len(result.Items) != 1 || result.Items[0].Name != "Weekly Sync" {
		t.Errorf("search weekly: %+v", result)
	}

	rec = e.do(t, http.MethodGet, "/api/meetings?search=zzz-no-match", token, nil)
	result = decode[handlers.MeetingListResponse](t, rec)
	if len(result.Items) != 0 || result.Total != 0 || result.TotalPages != 0 {
		t.Errorf("search no-match: items=%d total=%d total_pages=%d, want all zero", len(result.Items), result.Total, result.TotalPages)
	}
}

func TestMeetingOwnershipIsolation(t *testing.T) {
	e := newTestEnv(t)
	_, aliceToken := e.mintSession(t, "alice")
	_, bobToken := e.mintSession(t, "bob")

	meeting := createMeeting(t, e, aliceToken, "Private Sync", "")
	path := "/api/meetings/" + meeting.ID.String()

	// Bob sees 404 for reads, updates and deletes on alice's meeting
	if rec := e.do(t, http.MethodGet, path, bobToken, nil); rec.Code != http.StatusNotFound {
		t.Errorf("bob getOne: status %d, want 404", rec.Code)
	}
	if rec := e.do(t, http.MethodPatch, path, bobToken, map[string]any{"name": "Stolen"}); rec.Code != http.StatusNotFound {
		t.Errorf("bob update: status %d, want 404", rec.Code)
	}
	if rec := e.do(t, http.MethodDelete, path, bobToken, nil); rec.Code != http.StatusNotFound {
		t.Errorf("bob delete: status %d, want 404", rec.Code)
	}

	// Bob's list never contains alice's meeting
	result := decode[handlers.MeetingListResponse](t, e.do(t, http.MethodGet, "/api/meetings", bobToken, nil))
	if result.Total != 0 || len(result.Items) != 0 {
		t.Errorf("bob list: total=%d items=%d, want empty", result.Total, len(result.Items))
	}

	// Alice still succeeds and the row is intact
	rec := e.do(t, http.MethodGet, path, aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("alice getOne: status %d", rec.Code)
	}
	detail := decode[handlers.MeetingDetailResponse](t, rec)
	if detail.Name != "Private Sync" {
		t.Errorf("name = %q after bob's attempts", detail.Name)
	}
}

func TestMeetingDelete(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.mintSession(t, "alice")

	meeting := createMeeting(t, e, token, "Doomed", "")
	path := "/api/meetings/" + meeting.ID.String()

	rec := e.do(t, http.MethodDelete, path, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}
	removed := decode[models.Meeting](t, rec)
	if removed.ID != meeting.ID || removed.Name != "Doomed" {
		t.Errorf("delete returned %+v, want prior row data", removed)
	}

	// Gone now, and deleting again is 404
	if rec := e.do(t, http.MethodGet, path, token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", rec.Code)
	}
	if rec := e.do(t, http.MethodDelete, path, token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("double delete: status %d, want 404", rec.Code)
	}

	// Deleting a well-formed but nonexistent id is 404 too
	rec = e.do(t, http.MethodDelete, "/api/meetings/3f1f9a34-0000-4000-8000-000000000000", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete nonexistent: status %d, want 404", rec.Code)
	}
}

// agentLookupFailStore fails every agent lookup, simulating a database
// outage mid-request.
type agentLookupFailStore struct {
	*store.SQLiteStore
}

func (s *agentLookupFailStore) GetAgentByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	return nil, errors.New("connection reset by peer")
}

func TestUpdateMeetingAgentLookupFailure(t *testing.T) {
	db, err := store.NewSQLiteStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(db.Close)

	e := &testEnv{
		router: api.NewRouter(zerolog.Nop(), &agentLookupFailStore{db}, nil),
		db:     db,
	}
	_, token := e.mintSession(t, "alice")
	meeting := createMeeting(t, e, token, "Standup", "")

	// A store failure during the agent check is a server error, not the
	// "unknown agent_id" validation message
	rec := e.do(t, http.MethodPatch, "/api/meetings/"+meeting.ID.String(), token, map[string]any{
		"agent_id": uuid.NewString(),
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500 (body=%s)", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] != "database error" {
		t.Errorf("error = %q, want database error", body["error"])
	}
}

func TestMeetingWithAgent(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.mintSession(t, "alice")

	rec := e.do(t, http.MethodPost, "/api/agents", token, map[string]any{
		"name":         "Scribe",
		"instructions": "Take notes during the call",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create agent: status %d", rec.Code)
	}
	agent := decode[models.Agent](t, rec)

	rec = e.do(t, http.MethodPost, "/api/meetings", token, map[string]any{
		"name":     "With Agent",
		"agent_id": agent.ID.String(),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create meeting: status %d body=%s", rec.Code, rec.Body.String())
	}
	meeting := decode[models.Meeting](t, rec)
	if meeting.AgentID == nil || *meeting.AgentID != agent.ID {
		t.Errorf("agent_id = %v, want %s", meeting.AgentID, agent.ID)
	}
}
