package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RitochitGhosh/summarAIze/internal/models"
)

// sessionCacheTTL bounds how long a cached session lookup may be served
// without consulting the primary store.
const sessionCacheTTL = 5 * time.Minute

// RedisStore handles Redis operations: session lookup caching and the
// backing counters for rate limiting.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Client exposes the underlying client for middleware that needs pipelines.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// cachedSession is the cached shape of a resolved session: the session row
// plus the user it belongs to.
type cachedSession struct {
	Session models.Session `json:"session"`
	User    models.User    `json:"user"`
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// GetCachedSession returns a cached session resolution, or nil on miss.
// Cache errors are treated as misses; the primary store is authoritative.
func (s *RedisStore) GetCachedSession(ctx context.Context, token string) (*models.Session, *models.User) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		return nil, nil
	}
	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, nil
	}
	return &cached.Session, &cached.User
}

// CacheSession caches a resolved session. The TTL never extends past the
// session's own expiry.
func (s *RedisStore) CacheSession(ctx context.Context, session *models.Session, user *models.User) {
	ttl := sessionCacheTTL
	if until := time.Until(session.ExpiresAt); until < ttl {
		ttl = until
	}
	if ttl <= 0 {
		return
	}
	data, err := json.Marshal(cachedSession{Session: *session, User: *user})
	if err != nil {
		return
	}
	s.client.Set(ctx, sessionKey(session.Token), data, ttl)
}

// InvalidateSession drops a cached session resolution.
func (s *RedisStore) InvalidateSession(ctx context.Context, token string) {
	s.client.Del(ctx, sessionKey(token))
}
