package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RitochitGhosh/summarAIze/internal/models"
)

// meetingColumns is the stable projection used by every meeting query.
const meetingColumns = `id, name, user_id, agent_id, status, started_at, ended_at, transcript_url, recording_url, summary, created_at, updated_at`

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateUser creates a new user record.
func (s *PostgresStore) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	user := &models.User{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, created_at
	`, uuid.New(), name, email, time.Now().UTC()).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, created_at FROM users WHERE id = $1
	`, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// CreateSession stores a session issued by the identity provider.
func (s *PostgresStore) CreateSession(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) (*models.Session, error) {
	session := &models.Session{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING token, user_id, expires_at, created_at
	`, token, userID, expiresAt.UTC(), time.Now().UTC()).Scan(
		&session.Token,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession retrieves a session by token.
func (s *PostgresStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	session := &models.Session{}
	err := s.pool.QueryRow(ctx, `
		SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = $1
	`, token).Scan(
		&session.Token,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session by token.
func (s *PostgresStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// CreateAgent creates a new agent record owned by userID.
func (s *PostgresStore) CreateAgent(ctx context.Context, userID uuid.UUID, name, instructions string) (*models.Agent, error) {
	agent := &models.Agent{}
	now := time.Now().UTC()
	err := s.pool.QueryRow(ctx, `
		INSERT INTO agents (id, name, instructions, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, name, instructions, user_id, created_at, updated_at
	`, uuid.New(), name, instructions, userID, now).Scan(
		&agent.ID,
		&agent.Name,
		&agent.Instructions,
		&agent.UserID,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// GetAgentByID retrieves an agent by ID. Agents are not owner-scoped on read.
func (s *PostgresStore) GetAgentByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	agent := &models.Agent{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, instructions, user_id, created_at, updated_at
		FROM agents WHERE id = $1
	`, id).Scan(
		&agent.ID,
		&agent.Name,
		&agent.Instructions,
		&agent.UserID,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

// ListAgents retrieves all agents with no pagination and no implicit limit.
func (s *PostgresStore) ListAgents(ctx context.Context) ([]models.Agent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, instructions, user_id, created_at, updated_at
		FROM agents
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []models.Agent
	for rows.Next() {
		var agent models.Agent
		err := rows.Scan(
			&agent.ID,
			&agent.Name,
			&agent.Instructions,
			&agent.UserID,
			&agent.CreatedAt,
			&agent.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}

// CreateMeeting creates a new meeting owned by userID.
func (s *PostgresStore) CreateMeeting(ctx context.Context, userID uuid.UUID, name string, agentID *uuid.UUID, status models.MeetingStatus) (*models.Meeting, error) {
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO meetings (id, name, user_id, agent_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+meetingColumns+`
	`, uuid.New(), name, userID, agentID, string(status), now)
	return scanMeetingRow(row)
}

// GetMeeting retrieves a meeting by ID scoped to its owner.
func (s *PostgresStore) GetMeeting(ctx context.Context, id, userID uuid.UUID) (*models.Meeting, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	meeting, err := scanMeetingRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return meeting, nil
}

// ListMeetings retrieves one page of the caller's meetings plus the total
// count under the same filter.
func (s *PostgresStore) ListMeetings(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]models.Meeting, int, error) {
	where := `user_id = $1`
	args := []any{userID}
	if search != "" {
		where += ` AND name ILIKE '%' || $2 || '%'`
		args = append(args, search)
	}

	var total int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM meetings WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM meetings
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, meetingColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		meeting, err := scanMeetingRow(rows)
		if err != nil {
			return nil, 0, err
		}
		meetings = append(meetings, *meeting)
	}
	return meetings, total, rows.Err()
}

// UpdateMeeting applies a partial update to a meeting scoped to its owner.
// Returns (nil, nil) when no row matched the id/owner predicate.
func (s *PostgresStore) UpdateMeeting(ctx context.Context, id, userID uuid.UUID, patch models.MeetingPatch) (*models.Meeting, error) {
	set := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.AgentID != nil {
		add("agent_id", *patch.AgentID)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.StartedAt != nil {
		add("started_at", *patch.StartedAt)
	}
	if patch.EndedAt != nil {
		add("ended_at", *patch.EndedAt)
	}
	if patch.TranscriptURL != nil {
		add("transcript_url", *patch.TranscriptURL)
	}
	if patch.RecordingURL != nil {
		add("recording_url", *patch.RecordingURL)
	}
	if patch.Summary != nil {
		add("summary", *patch.Summary)
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(`
		UPDATE meetings SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s
	`, strings.Join(set, ", "), len(args)-1, len(args), meetingColumns)

	meeting, err := scanMeetingRow(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return meeting, nil
}

// DeleteMeeting removes a meeting scoped to its owner and returns the
// deleted row's prior data. Returns (nil, nil) when no row matched.
func (s *PostgresStore) DeleteMeeting(ctx context.Context, id, userID uuid.UUID) (*models.Meeting, error) {
	row := s.pool.QueryRow(ctx, `
		DELETE FROM meetings
		WHERE id = $1 AND user_id = $2
		RETURNING `+meetingColumns+`
	`, id, userID)
	meeting, err := scanMeetingRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return meeting, nil
}

// scanMeetingRow scans a meeting from any row source selecting
// meetingColumns. The persisted status is re-validated so an unknown value
// surfaces as an error instead of leaking into responses.
func scanMeetingRow(row pgx.Row) (*models.Meeting, error) {
	meeting := &models.Meeting{}
	var status string
	err := row.Scan(
		&meeting.ID,
		&meeting.Name,
		&meeting.UserID,
		&meeting.AgentID,
		&status,
		&meeting.StartedAt,
		&meeting.EndedAt,
		&meeting.TranscriptURL,
		&meeting.RecordingURL,
		&meeting.Summary,
		&meeting.CreatedAt,
		&meeting.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	meeting.Status, err = models.ParseMeetingStatus(status)
	if err != nil {
		return nil, err
	}
	return meeting, nil
}
