package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MeetingStatus is the persisted lifecycle status of a meeting. Exactly one
// value holds at any time; transitions are driven by the external call and
// summary pipeline, not by this service.
type MeetingStatus string

const (
	StatusUpcoming   MeetingStatus = "upcoming"
	StatusActive     MeetingStatus = "active"
	StatusCompleted  MeetingStatus = "completed"
	StatusProcessing MeetingStatus = "processing"
	StatusCancelled  MeetingStatus = "cancelled"
)

// ParseMeetingStatus validates a raw status string.
func ParseMeetingStatus(raw string) (MeetingStatus, error) {
	s := MeetingStatus(raw)
	switch s {
	case StatusUpcoming, StatusActive, StatusCompleted, StatusProcessing, StatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("unknown meeting status %q", raw)
}

// Valid reports whether the status is one of the five known values.
func (s MeetingStatus) Valid() bool {
	_, err := ParseMeetingStatus(string(s))
	return err == nil
}

// Meeting represents a scheduled call owned by a single user. All reads and
// writes are scoped to the owner.
type Meeting struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	UserID        uuid.UUID     `json:"user_id"`
	AgentID       *uuid.UUID    `json:"agent_id,omitempty"`
	Status        MeetingStatus `json:"status"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	EndedAt       *time.Time    `json:"ended_at,omitempty"`
	TranscriptURL *string       `json:"transcript_url,omitempty"`
	RecordingURL  *string       `json:"recording_url,omitempty"`
	Summary       *string       `json:"summary,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// MeetingPatch carries the fields of a partial update. Nil fields are left
// unchanged; double pointers distinguish "clear" from "leave alone" for
// nullable columns.
type MeetingPatch struct {
	Name          *string
	AgentID       **uuid.UUID
	Status        *MeetingStatus
	StartedAt     **time.Time
	EndedAt       **time.Time
	TranscriptURL **string
	RecordingURL  **string
	Summary       **string
}

// Empty reports whether the patch would change nothing.
func (p *MeetingPatch) Empty() bool {
	return p.Name == nil && p.AgentID == nil && p.Status == nil &&
		p.StartedAt == nil && p.EndedAt == nil &&
		p.TranscriptURL == nil && p.RecordingURL == nil && p.Summary == nil
}
