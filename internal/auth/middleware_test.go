package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpaiva/emprestimos/internal/domain"
	apperrors "github.com/dpaiva/emprestimos/pkg/errors"
)

type memoryStore struct {
	sessions map[string]*Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]*Session)}
}

func (s *memoryStore) Save(_ context.Context, token string, session *Session, _ time.Duration) error {
	s.sessions[token] = session
	return nil
}

func (s *memoryStore) Get(_ context.Context, token string) (*Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

func (s *memoryStore) Delete(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", TokenFromRequest(r))

	r.Header.Set("Authorization", "bearer abc123")
	assert.Equal(t, "abc123", TokenFromRequest(r))

	r.Header.Set("Authorization", "Basic abc123")
	assert.Equal(t, "", TokenFromRequest(r))
}

func TestMiddleware_InjectsSession(t *testing.T) {
	store := newMemoryStore()
	require.NoError(t, store.Save(context.Background(), "tok", &Session{
		Name: "Fulano",
		Role: domain.RoleAdmin,
	}, time.Hour))

	var got *Session
	handler := Middleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Fulano", got.Name)
	assert.True(t, got.IsAdmin())
}

func TestMiddleware_RejectsMissingOrUnknownToken(t *testing.T) {
	store := newMemoryStore()
	handler := Middleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}

	// Admin passes.
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(NewContext(r.Context(), &Session{Role: domain.RoleAdmin}))
	w := httptest.NewRecorder()
	RequireAdmin(next)(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Regular user is forbidden.
	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(NewContext(r.Context(), &Session{Role: domain.RoleUser}))
	w = httptest.NewRecorder()
	RequireAdmin(next)(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No session at all is forbidden.
	r = httptest.NewRequest(http.MethodPost, "/", nil)
	w = httptest.NewRecorder()
	RequireAdmin(next)(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
