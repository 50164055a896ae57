package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dpaiva/emprestimos/internal/auth"
	"github.com/dpaiva/emprestimos/internal/config"
	"github.com/dpaiva/emprestimos/internal/domain"
	"github.com/dpaiva/emprestimos/internal/repository"
	"github.com/dpaiva/emprestimos/pkg/response"
)

type AuthHandler struct {
	users     repository.UserRepository
	sessions  auth.Store
	config    *config.Config
	validator *validator.Validate
	logger    *log.Logger
}

func NewAuthHandler(
	users repository.UserRepository,
	sessions auth.Store,
	cfg *config.Config,
	logger *log.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:     users,
		sessions:  sessions,
		config:    cfg,
		validator: validator.New(),
		logger:    logger,
	}
}

// SignIn exchanges an identity already verified by the external provider
// for a bearer token. First sign-in persists the profile with the default
// role; promotion to admin happens out of band.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var request domain.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), request.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			response.InternalServerError(w, "failed to load user profile", err)
			return
		}

		user = &domain.User{
			Email: request.Email,
			Name:  request.Name,
			Role:  domain.RoleUser,
		}
		if err := h.users.Create(r.Context(), user); err != nil {
			response.InternalServerError(w, "failed to create user profile", err)
			return
		}
		h.logger.Info("new user profile created", "email", user.Email, "role", user.Role)
	}

	token := uuid.NewString()
	session := &auth.Session{
		UserID: user.ID.String(),
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}

	if err := h.sessions.Save(r.Context(), token, session, h.config.Session.TTL); err != nil {
		response.InternalServerError(w, "failed to create session", err)
		return
	}

	response.Created(w, domain.SignInResponse{
		Token: token,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

// SignOut deletes the caller's session.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	if token == "" {
		response.Unauthorized(w, "authentication required")
		return
	}

	if err := h.sessions.Delete(r.Context(), token); err != nil {
		response.InternalServerError(w, "failed to delete session", err)
		return
	}

	response.Success(w, nil)
}

// Me returns the current session's principal.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	response.Success(w, session)
}
