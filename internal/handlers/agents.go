package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/RitochitGhosh/summarAIze/internal/api/middleware"
	"github.com/RitochitGhosh/summarAIze/internal/metrics"
	"github.com/RitochitGhosh/summarAIze/internal/models"
)

// CreateAgentRequest represents the agent creation request body.
type CreateAgentRequest struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

// ListAgents returns every agent row. Agents are readable by any
// authenticated user; there is no pagination and no implicit limit.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.db.ListAgents(r.Context())
	if err != nil {
		h.storeError(w, "agents.list", err)
		return
	}
	if agents == nil {
		agents = []models.Agent{}
	}
	h.JSON(w, http.StatusOK, agents)
}

// GetAgent returns the agent matching the path ID, or JSON null when absent.
// Absence is not an error at this boundary; callers handle it.
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid agent ID format")
		return
	}

	agent, err := h.db.GetAgentByID(r.Context(), id)
	if err != nil {
		h.storeError(w, "agents.get", err)
		return
	}

	h.JSON(w, http.StatusOK, agent)
}

// CreateAgent validates the input, stamps the authenticated caller as owner
// and inserts the agent. Client-supplied ownership is ignored.
func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	name := sanitizeName(req.Name)
	if name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	instructions := req.Instructions
	if strings.TrimSpace(instructions) == "" {
		h.Error(w, http.StatusBadRequest, "instructions is required")
		return
	}

	agent, err := h.db.CreateAgent(r.Context(), user.ID, name, instructions)
	if err != nil {
		h.storeError(w, "agents.create", err)
		return
	}

	metrics.AgentsCreated.Inc()
	h.JSON(w, http.StatusCreated, agent)
}
