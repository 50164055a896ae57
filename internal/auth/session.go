package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dpaiva/emprestimos/internal/domain"
	apperrors "github.com/dpaiva/emprestimos/pkg/errors"
)

// Session is the signed-in principal, passed explicitly to whatever needs
// the current user and role. It is created on sign-in and deleted on
// sign-out; nothing holds it globally.
type Session struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s.Role == domain.RoleAdmin
}

// Store persists sessions keyed by opaque bearer token.
type Store interface {
	// Save stores a session under token with the given lifetime
	Save(ctx context.Context, token string, session *Session, ttl time.Duration) error

	// Get retrieves the session for token, or ErrSessionNotFound
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes the session for token
	Delete(ctx context.Context, token string) error
}

const sessionKeyPrefix = "session:"

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Save(ctx context.Context, token string, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+token, payload, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, token string) (*Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *redisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
