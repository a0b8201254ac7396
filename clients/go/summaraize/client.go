// Package summaraize provides a Go client for the summarAIze dashboard API.
package summaraize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a summarAIze API client. Token is the session token issued by
// the identity provider.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a new client.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Agent mirrors the server's agent record.
type Agent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Instructions string    `json:"instructions"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Meeting mirrors the server's meeting record.
type Meeting struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	UserID        string     `json:"user_id"`
	AgentID       *string    `json:"agent_id,omitempty"`
	Status        string     `json:"status"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	TranscriptURL *string    `json:"transcript_url,omitempty"`
	RecordingURL  *string    `json:"recording_url,omitempty"`
	Summary       *string    `json:"summary,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Lifecycle mirrors the server's derived view state for a meeting.
type Lifecycle struct {
	Status           string `json:"status"`
	CanJoin          bool   `json:"can_join"`
	CanCancel        bool   `json:"can_cancel"`
	SummaryAvailable bool   `json:"summary_available"`
	Transitional     bool   `json:"transitional"`
	Terminal         bool   `json:"terminal"`
}

// MeetingDetail is a meeting together with its lifecycle state.
type MeetingDetail struct {
	Meeting
	Lifecycle Lifecycle `json:"lifecycle"`
}

// MeetingPage is one page of meetings plus totals over the filtered set.
type MeetingPage struct {
	Items      []Meeting `json:"items"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
}

// CreateAgentInput is the agent creation payload.
type CreateAgentInput struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

// CreateMeetingInput is the meeting creation payload. Status defaults to
// "upcoming" server-side when empty.
type CreateMeetingInput struct {
	Name    string  `json:"name"`
	AgentID *string `json:"agent_id,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// UpdateMeetingInput is a partial update; nil fields are left unchanged.
type UpdateMeetingInput struct {
	Name          *string    `json:"name,omitempty"`
	AgentID       *string    `json:"agent_id,omitempty"`
	Status        *string    `json:"status,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	TranscriptURL *string    `json:"transcript_url,omitempty"`
	RecordingURL  *string    `json:"recording_url,omitempty"`
	Summary       *string    `json:"summary,omitempty"`
}

// ListAgents returns all agents.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	if err := c.do(ctx, http.MethodGet, "/api/agents", nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// GetAgent returns an agent by ID, or nil when it does not exist.
func (c *Client) GetAgent(ctx context.Context, id string) (*Agent, error) {
	var agent *Agent
	if err := c.do(ctx, http.MethodGet, "/api/agents/"+url.PathEscape(id), nil, &agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// CreateAgent creates an agent owned by the session's user.
func (c *Client) CreateAgent(ctx context.Context, input CreateAgentInput) (*Agent, error) {
	agent := &Agent{}
	if err := c.do(ctx, http.MethodPost, "/api/agents", input, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// ListMeetings returns one page of the caller's meetings. Zero values fall
// back to server defaults; search is optional.
func (c *Client) ListMeetings(ctx context.Context, page, pageSize int, search string) (*MeetingPage, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	if search != "" {
		params.Set("search", search)
	}

	path := "/api/meetings"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	result := &MeetingPage{}
	if err := c.do(ctx, http.MethodGet, path, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetMeeting returns a meeting owned by the caller with its lifecycle state.
func (c *Client) GetMeeting(ctx context.Context, id string) (*MeetingDetail, error) {
	detail := &MeetingDetail{}
	if err := c.do(ctx, http.MethodGet, "/api/meetings/"+url.PathEscape(id), nil, detail); err != nil {
		return nil, err
	}
	return detail, nil
}

// CreateMeeting creates a meeting owned by the session's user.
func (c *Client) CreateMeeting(ctx context.Context, input CreateMeetingInput) (*Meeting, error) {
	meeting := &Meeting{}
	if err := c.do(ctx, http.MethodPost, "/api/meetings", input, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

// UpdateMeeting applies a partial update to a meeting owned by the caller.
func (c *Client) UpdateMeeting(ctx context.Context, id string, input UpdateMeetingInput) (*Meeting, error) {
	meeting := &Meeting{}
	if err := c.do(ctx, http.MethodPatch, "/api/meetings/"+url.PathEscape(id), input, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

// DeleteMeeting removes a meeting owned by the caller and returns its prior
// data.
func (c *Client) DeleteMeeting(ctx context.Context, id string) (*Meeting, error) {
	meeting := &Meeting{}
	if err := c.do(ctx, http.MethodDelete, "/api/meetings/"+url.PathEscape(id), nil, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

// do sends a request and decodes the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
