// internal/common/auth/sessions.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"roommate-finder/internal/models"
)

const sessionKeyPrefix = "session:"

var (
	ErrMissingToken = errors.New("MISSING_TOKEN")
	ErrInvalidToken = errors.New("INVALID_TOKEN")
)

// SessionStore issues opaque bearer tokens backed by Redis keys with a TTL.
type SessionStore struct {
	redis redis.Cmdable
	ttl   time.Duration
	now   func() time.Time
}

func NewSessionStore(rdb redis.Cmdable, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: rdb, ttl: ttl, now: time.Now}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Issue creates a new session for userID.
func (s *SessionStore) Issue(ctx context.Context, userID string) (*models.Session, error) {
	now := s.now().UTC()
	session := &models.Session{
		Token:     uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.redis.Set(ctx, sessionKey(session.Token), userID, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

// Authenticate resolves a token to its user id.
func (s *SessionStore) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	if _, err := uuid.Parse(token); err != nil {
		return "", ErrInvalidToken
	}

	userID, err := s.redis.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return userID, nil
}

func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
