package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dpaiva/emprestimos/internal/auth"
	"github.com/dpaiva/emprestimos/internal/config"
	"github.com/dpaiva/emprestimos/internal/domain"
	"github.com/dpaiva/emprestimos/tests/mocks"
)

func newAuthHandler(users *mocks.MockUserRepository, sessions *mocks.MockSessionStore) *AuthHandler {
	cfg := &config.Config{Session: config.SessionConfig{TTL: time.Hour}}
	return NewAuthHandler(users, sessions, cfg, log.New(io.Discard))
}

func TestSignIn_ExistingUser(t *testing.T) {
	users := &mocks.MockUserRepository{}
	sessions := &mocks.MockSessionStore{}
	handler := newAuthHandler(users, sessions)

	users.On("GetByEmail", mock.Anything, "fulano@example.com").Return(&domain.User{
		Email: "fulano@example.com",
		Name:  "Fulano",
		Role:  domain.RoleAdmin,
	}, nil)
	sessions.On("Save", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(s *auth.Session) bool {
		return s.Role == domain.RoleAdmin && s.Email == "fulano@example.com"
	}), time.Hour).Return(nil)

	body, _ := json.Marshal(domain.SignInRequest{Email: "fulano@example.com", Name: "Fulano"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sessions", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.SignIn(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data domain.SignInResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, domain.RoleAdmin, resp.Data.Role)

	users.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestSignIn_FirstSignInCreatesProfile(t *testing.T) {
	users := &mocks.MockUserRepository{}
	sessions := &mocks.MockSessionStore{}
	handler := newAuthHandler(users, sessions)

	users.On("GetByEmail", mock.Anything, "novo@example.com").Return(nil, sql.ErrNoRows)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		// New accounts start with the default role.
		return u.Role == domain.RoleUser && u.Email == "novo@example.com"
	})).Return(nil)
	sessions.On("Save", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("*auth.Session"), time.Hour).Return(nil)

	body, _ := json.Marshal(domain.SignInRequest{Email: "novo@example.com", Name: "Novo Usuário"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sessions", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.SignIn(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	users.AssertExpectations(t)
}

func TestSignIn_RejectsInvalidPayload(t *testing.T) {
	handler := newAuthHandler(&mocks.MockUserRepository{}, &mocks.MockSessionStore{})

	body, _ := json.Marshal(domain.SignInRequest{Email: "not-an-email", Name: "X"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sessions", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.SignIn(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
