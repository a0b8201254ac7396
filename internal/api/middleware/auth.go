package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/RitochitGhosh/summarAIze/internal/metrics"
	"github.com/RitochitGhosh/summarAIze/internal/models"
	"github.com/RitochitGhosh/summarAIze/internal/store"
)

type contextKey string

const UserContextKey contextKey = "user"

// SessionCookie is the cookie the dashboard frontend sends the session
// token in. API clients use the Authorization header instead.
const SessionCookie = "session"

// AuthMiddleware resolves session tokens to users before any handler runs.
// Session issuance belongs to the external identity provider; this
// middleware only consumes sessions from the store.
type AuthMiddleware struct {
	db    store.DataStore
	redis *store.RedisStore // optional session cache, may be nil
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(db store.DataStore, redis *store.RedisStore) *AuthMiddleware {
	return &AuthMiddleware{db: db, redis: redis}
}

// RequireAuth rejects requests without a valid, unexpired session and
// injects the resolved user into the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			metrics.AuthFailures.WithLabelValues("missing_token").Inc()
			jsonError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		session, user := m.lookupCached(r.Context(), token)
		if session == nil {
			var err error
			session, user, err = m.lookup(r.Context(), token)
			if err != nil {
				jsonError(w, http.StatusInternalServerError, "database error")
				return
			}
		}

		if session == nil || user == nil {
			metrics.AuthFailures.WithLabelValues("unknown_token").Inc()
			jsonError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		if session.Expired(time.Now()) {
			// Best effort cleanup; the 401 stands either way
			_ = m.db.DeleteSession(r.Context(), token)
			if m.redis != nil {
				m.redis.InvalidateSession(r.Context(), token)
			}
			metrics.AuthFailures.WithLabelValues("expired").Inc()
			jsonError(w, http.StatusUnauthorized, "session expired")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// lookupCached consults the Redis cache when configured. Expiry is still
// re-checked by the caller, so a cached entry can never outlive its session.
func (m *AuthMiddleware) lookupCached(ctx context.Context, token string) (*models.Session, *models.User) {
	if m.redis == nil {
		return nil, nil
	}
	session, user := m.redis.GetCachedSession(ctx, token)
	if session == nil {
		metrics.SessionCacheHits.WithLabelValues("miss").Inc()
		return nil, nil
	}
	metrics.SessionCacheHits.WithLabelValues("hit").Inc()
	return session, user
}

// lookup resolves the token against the primary store and refreshes the
// cache on success.
func (m *AuthMiddleware) lookup(ctx context.Context, token string) (*models.Session, *models.User, error) {
	session, err := m.db.GetSession(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, nil
	}

	user, err := m.db.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, nil
	}

	if m.redis != nil && !session.Expired(time.Now()) {
		m.redis.CacheSession(ctx, session, user)
	}
	return session, user, nil
}

// extractToken pulls the session token from the Authorization header or the
// session cookie, in that order.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// GetUserFromContext retrieves the authenticated user from the request context.
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
