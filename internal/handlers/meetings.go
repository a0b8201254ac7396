package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/RitochitGhosh/summarAIze/internal/api/middleware"
	"github.com/RitochitGhosh/summarAIze/internal/lifecycle"
	"github.com/RitochitGhosh/summarAIze/internal/metrics"
	"github.com/RitochitGhosh/summarAIze/internal/models"
)

// CreateMeetingRequest represents the meeting creation request body.
// Status is optional and defaults to upcoming.
type CreateMeetingRequest struct {
	Name    string  `json:"name"`
	AgentID *string `json:"agent_id,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// UpdateMeetingRequest carries a partial update; absent fields are left
// unchanged.
type UpdateMeetingRequest struct {
	Name          *string    `json:"name,omitempty"`
	AgentID       *string    `json:"agent_id,omitempty"`
	Status        *string    `json:"status,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	TranscriptURL *string    `json:"transcript_url,omitempty"`
	RecordingURL  *string    `json:"recording_url,omitempty"`
	Summary       *string    `json:"summary,omitempty"`
}

// MeetingListResponse represents one page of meetings plus totals over the
// full filtered set.
type MeetingListResponse struct {
	Items      []models.Meeting `json:"items"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// MeetingDetailResponse is a meeting together with its derived lifecycle
// view state.
type MeetingDetailResponse struct {
	*models.Meeting
	Lifecycle lifecycle.State `json:"lifecycle"`
}

// ListMeetings returns one page of the caller's meetings under the shared
// pagination contract: optional case-insensitive name search, ownership
// filter always applied, ordered by creation time then ID descending.
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	params, err := ParsePageParams(r.URL.Query())
	if err != nil {
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	filtered := "none"
	if params.Search != "" {
		filtered = "search"
	}
	metrics.MeetingListQueries.WithLabelValues(filtered).Inc()

	items, total, err := h.db.ListMeetings(r.Context(), user.ID, params.Search, params.PageSize, params.Offset())
	if err != nil {
		h.storeError(w, "meetings.list", err)
		return
	}
	if items == nil {
		items = []models.Meeting{}
	}

	h.JSON(w, http.StatusOK, MeetingListResponse{
		Items:      items,
		Total:      total,
		TotalPages: TotalPages(total, params.PageSize),
	})
}

// GetMeeting returns a single meeting owned by the caller, with its
// lifecycle state. A missing row and a row owned by someone else are both
// 404 so ownership cannot be probed.
func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid meeting ID format")
		return
	}

	meeting, err := h.db.GetMeeting(r.Context(), id, user.ID)
	if err != nil {
		h.storeError(w, "meetings.get", err)
		return
	}
	if meeting == nil {
		h.Error(w, http.StatusNotFound, "meeting not found")
		return
	}

	state, err := lifecycle.For(meeting.Status)
	if err != nil {
		h.storeError(w, "meetings.lifecycle", err)
		return
	}

	h.JSON(w, http.StatusOK, MeetingDetailResponse{Meeting: meeting, Lifecycle: state})
}

// CreateMeeting validates the input, stamps the authenticated caller as
// owner and inserts the meeting.
func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	name := sanitizeName(req.Name)
	if name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	status := models.StatusUpcoming
	if req.Status != nil {
		parsed, err := models.ParseMeetingStatus(*req.Status)
		if err != nil {
			h.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		status = parsed
	}

	var agentID *uuid.UUID
	if req.AgentID != nil && *req.AgentID != "" {
		parsed, err := uuid.Parse(*req.AgentID)
		if err != nil {
			h.Error(w, http.StatusBadRequest, "invalid agent_id format")
			return
		}
		agent, err := h.db.GetAgentByID(r.Context(), parsed)
		if err != nil {
			h.storeError(w, "meetings.create", err)
			return
		}
		if agent == nil {
			h.Error(w, http.StatusBadRequest, "unknown agent_id")
			return
		}
		agentID = &parsed
	}

	meeting, err := h.db.CreateMeeting(r.Context(), user.ID, name, agentID, status)
	if err != nil {
		h.storeError(w, "meetings.create", err)
		return
	}

	// TODO: provision the real-time call session with the video provider
	// and register participant identities once that integration lands.

	metrics.MeetingsCreated.WithLabelValues(string(meeting.Status)).Inc()
	h.JSON(w, http.StatusCreated, meeting)
}

// UpdateMeeting applies a partial update to a meeting owned by the caller.
// Zero matched rows, whether the ID is unknown or owned by someone else,
// yield 404.
func (h *Handler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid meeting ID format")
		return
	}

	var req UpdateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	patch, errMsg, err := h.buildPatch(r, &req)
	if err != nil {
		h.storeError(w, "meetings.update", err)
		return
	}
	if errMsg != "" {
		h.Error(w, http.StatusBadRequest, errMsg)
		return
	}

	meeting, err := h.db.UpdateMeeting(r.Context(), id, user.ID, patch)
	if err != nil {
		h.storeError(w, "meetings.update", err)
		return
	}
	if meeting == nil {
		h.Error(w, http.StatusNotFound, "meeting not found")
		return
	}

	metrics.MeetingsUpdated.Inc()
	h.JSON(w, http.StatusOK, meeting)
}

// DeleteMeeting removes a meeting owned by the caller and returns the
// deleted row's prior data.
func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid meeting ID format")
		return
	}

	meeting, err := h.db.DeleteMeeting(r.Context(), id, user.ID)
	if err != nil {
		h.storeError(w, "meetings.delete", err)
		return
	}
	if meeting == nil {
		h.Error(w, http.StatusNotFound, "meeting not found")
		return
	}

	metrics.MeetingsDeleted.Inc()
	h.JSON(w, http.StatusOK, meeting)
}

// buildPatch validates an update request and converts it into a store patch.
// A non-empty message is a validation failure; a non-nil error is a store
// failure.
func (h *Handler) buildPatch(r *http.Request, req *UpdateMeetingRequest) (models.MeetingPatch, string, error) {
	var patch models.MeetingPatch

	if req.Name != nil {
		name := sanitizeName(*req.Name)
		if name == "" {
			return patch, "name must not be empty", nil
		}
		patch.Name = &name
	}

	if req.Status != nil {
		status, err := models.ParseMeetingStatus(*req.Status)
		if err != nil {
			return patch, err.Error(), nil
		}
		patch.Status = &status
	}

	if req.AgentID != nil {
		if *req.AgentID == "" {
			var cleared *uuid.UUID
			patch.AgentID = &cleared
		} else {
			parsed, err := uuid.Parse(*req.AgentID)
			if err != nil {
				return patch, "invalid agent_id format", nil
			}
			agent, err := h.db.GetAgentByID(r.Context(), parsed)
			if err != nil {
				return patch, "", err
			}
			if agent == nil {
				return patch, "unknown agent_id", nil
			}
			p := &parsed
			patch.AgentID = &p
		}
	}

	if req.StartedAt != nil {
		patch.StartedAt = &req.StartedAt
	}
	if req.EndedAt != nil {
		patch.EndedAt = &req.EndedAt
	}
	if req.TranscriptURL != nil {
		patch.TranscriptURL = &req.TranscriptURL
	}
	if req.RecordingURL != nil {
		patch.RecordingURL = &req.RecordingURL
	}
	if req.Summary != nil {
		patch.Summary = &req.Summary
	}

	return patch, "", nil
}
