package models

import (
	"time"

	"github.com/google/uuid"
)

// Agent represents an AI meeting participant. Agents are readable by any
// authenticated user; writes are attributed to the creator via UserID.
type Agent struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Instructions string    `json:"instructions"`
	UserID       uuid.UUID `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
