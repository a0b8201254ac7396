package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/RitochitGhosh/summarAIze/internal/models"
)

// DataStore defines the interface for persistent storage of users, sessions,
// agents and meetings. Both PostgresStore and SQLiteStore implement it.
//
// Scoped lookups and single-row mutations return (nil, nil) when no row
// matched; callers translate that into their not-found handling. The
// convention deliberately conflates "does not exist" with "owned by someone
// else" so ownership cannot be probed.
type DataStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Users and sessions. Rows are issued by the identity provider (or dev
	// tooling); this service only consumes them.
	CreateUser(ctx context.Context, name, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateSession(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) (*models.Session, error)
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Agent operations. Reads are global to all authenticated users;
	// creation stamps the caller as owner.
	CreateAgent(ctx context.Context, userID uuid.UUID, name, instructions string) (*models.Agent, error)
	GetAgentByID(ctx context.Context, id uuid.UUID) (*models.Agent, error)
	ListAgents(ctx context.Context) ([]models.Agent, error)

	// Meeting operations, all owner-scoped. ListMeetings applies an optional
	// case-insensitive name filter and returns one page plus the total count
	// under the same filter. Ordering is created_at DESC, id DESC.
	CreateMeeting(ctx context.Context, userID uuid.UUID, name string, agentID *uuid.UUID, status models.MeetingStatus) (*models.Meeting, error)
	GetMeeting(ctx context.Context, id, userID uuid.UUID) (*models.Meeting, error)
	ListMeetings(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]models.Meeting, int, error)
	UpdateMeeting(ctx context.Context, id, userID uuid.UUID, patch models.MeetingPatch) (*models.Meeting, error)
	DeleteMeeting(ctx context.Context, id, userID uuid.UUID) (*models.Meeting, error)
}
