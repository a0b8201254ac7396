package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a dashboard user. Rows are written by the identity
// provider; this service only reads them.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
