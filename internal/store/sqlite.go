package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/RitochitGhosh/summarAIze/internal/models"
)

// SQLiteStore handles SQLite database operations. It implements the same
// DataStore interface as PostgresStore and backs local development and tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/summaraize.db".
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/summaraize.db"
	}

	// Ensure directory exists for file-backed databases
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// An in-memory database exists per connection; pin the pool to one.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		instructions TEXT NOT NULL,
		user_id TEXT NOT NULL REFERENCES users(id),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meetings (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		user_id TEXT NOT NULL REFERENCES users(id),
		agent_id TEXT REFERENCES agents(id),
		status TEXT NOT NULL DEFAULT 'upcoming',
		started_at DATETIME,
		ended_at DATETIME,
		transcript_url TEXT,
		recording_url TEXT,
		summary TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_meetings_user_created ON meetings(user_id, created_at DESC, id DESC);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateUser creates a new user record.
func (s *SQLiteStore) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	user := &models.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)
	`, user.ID.String(), user.Name, user.Email, user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	var rawID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at FROM users WHERE id = ?
	`, id.String()).Scan(&rawID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	user.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSession stores a session issued by the identity provider.
func (s *SQLiteStore) CreateSession(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) (*models.Session, error) {
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)
	`, session.Token, session.UserID.String(), session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession retrieves a session by token.
func (s *SQLiteStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	session := &models.Session{}
	var rawUserID string
	err := s.db.QueryRowContext(ctx, `
		SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?
	`, token).Scan(&session.Token, &rawUserID, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	session.UserID, err = uuid.Parse(rawUserID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session by token.
func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// CreateAgent creates a new agent record owned by userID.
func (s *SQLiteStore) CreateAgent(ctx context.Context, userID uuid.UUID, name, instructions string) (*models.Agent, error) {
	now := time.Now().UTC()
	agent := &models.Agent{
		ID:           uuid.New(),
		Name:         name,
		Instructions: instructions,
		UserID:       userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agents (id, name, instructions, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, agent.ID.String(), agent.Name, agent.Instructions, agent.UserID.String(), agent.CreatedAt, agent.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// GetAgentByID retrieves an agent by ID. Agents are not owner-scoped on read.
func (s *SQLiteStore) GetAgentByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, instructions, user_id, created_at, updated_at
		FROM agents WHERE id = ?
	`, id.String())
	agent, err := scanSQLiteAgent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

// ListAgents retrieves all agents with no pagination and no implicit limit.
func (s *SQLiteStore) ListAgents(ctx context.Context) ([]models.Agent, error) {
	rows, err := s.db.QueryContext(ctx, `
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
		agent, err := scanSQLiteAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *agent)
	}
	return agents, rows.Err()
}

// CreateMeeting creates a new meeting owned by userID.
func (s *SQLiteStore) CreateMeeting(ctx context.Context, userID uuid.UUID, name string, agentID *uuid.UUID, status models.MeetingStatus) (*models.Meeting, error) {
	now := time.Now().UTC()
	meeting := &models.Meeting{
		ID:        uuid.New(),
		Name:      name,
		UserID:    userID,
		AgentID:   agentID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var rawAgentID *string
	if agentID != nil {
		v := agentID.String()
		rawAgentID = &v
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meetings (id, name, user_id, agent_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, meeting.ID.String(), meeting.Name, meeting.UserID.String(), rawAgentID, string(meeting.Status), meeting.CreatedAt, meeting.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

// GetMeeting retrieves a meeting by ID scoped to its owner.
func (s *SQLiteStore) GetMeeting(ctx context.Context, id, userID uuid.UUID) (*models.Meeting, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE id = ? AND user_id = ?
	`, id.String(), userID.String())
	meeting, err := scanSQLiteMeeting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return meeting, nil
}

// ListMeetings retrieves one page of the caller's meetings plus the total
// count under the same filter. SQLite LIKE is case-insensitive for ASCII,
// matching Postgres ILIKE semantics for this filter.
func (s *SQLiteStore) ListMeetings(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]models.Meeting, int, error) {
	where := `user_id = ?`
	args := []any{userID.String()}
	if search != "" {
		where += ` AND name LIKE '%' || ? || '%'`
		args = append(args, search)
	}

	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meetings WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM meetings
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, meetingColumns, where)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		meeting, err := scanSQLiteMeeting(rows)
		if err != nil {
			return nil, 0, err
		}
		meetings = append(meetings, *meeting)
	}
	return meetings, total, rows.Err()
}

// UpdateMeeting applies a partial update to a meeting scoped to its owner.
// Returns (nil, nil) when no row matched the id/owner predicate.
func (s *SQLiteStore) UpdateMeeting(ctx context.Context, id, userID uuid.UUID, patch models.MeetingPatch) (*models.Meeting, error) {
	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	add := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.AgentID != nil {
		var raw *string
		if *patch.AgentID != nil {
			v := (*patch.AgentID).String()
			raw = &v
		}
		add("agent_id", raw)
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

	args = append(args, id.String(), userID.String())
	query := fmt.Sprintf(`
		UPDATE meetings SET %s
		WHERE id = ? AND user_id = ?
		RETURNING %s
	`, strings.Join(set, ", "), meetingColumns)

	meeting, err := scanSQLiteMeeting(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return meeting, nil
}

// DeleteMeeting removes a meeting scoped to its owner and returns the
// deleted row's prior data. Returns (nil, nil) when no row matched. The
// single DELETE ... RETURNING keeps it atomic: of two concurrent deletes,
// exactly one captures the row.
func (s *SQLiteStore) DeleteMeeting(ctx context.Context, id, userID uuid.UUID) (*models.Meeting, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM meetings WHERE id = ? AND user_id = ?
		RETURNING `+meetingColumns+`
	`, id.String(), userID.String())
	meeting, err := scanSQLiteMeeting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return meeting, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteAgent(row rowScanner) (*models.Agent, error) {
	agent := &models.Agent{}
	var rawID, rawUserID string
	err := row.Scan(
		&rawID,
		&agent.Name,
		&agent.Instructions,
		&rawUserID,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if agent.ID, err = uuid.Parse(rawID); err != nil {
		return nil, err
	}
	if agent.UserID, err = uuid.Parse(rawUserID); err != nil {
		return nil, err
	}
	return agent, nil
}

func scanSQLiteMeeting(row rowScanner) (*models.Meeting, error) {
	meeting := &models.Meeting{}
	var rawID, rawUserID, status string
	var rawAgentID *string
	err := row.Scan(
		&rawID,
		&meeting.Name,
		&rawUserID,
		&rawAgentID,
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
	if meeting.ID, err = uuid.Parse(rawID); err != nil {
		return nil, err
	}
	if meeting.UserID, err = uuid.Parse(rawUserID); err != nil {
		return nil, err
	}
	if rawAgentID != nil {
		agentID, err := uuid.Parse(*rawAgentID)
		if err != nil {
			return nil, err
		}
		meeting.AgentID = &agentID
	}
	meeting.Status, err = models.ParseMeetingStatus(status)
	if err != nil {
		return nil, err
	}
	return meeting, nil
}
