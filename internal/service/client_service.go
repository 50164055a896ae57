package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dpaiva/emprestimos/internal/domain"
	"github.com/dpaiva/emprestimos/internal/repository"
	apperrors "github.com/dpaiva/emprestimos/pkg/errors"
)

type ClientService struct {
	clients repository.ClientRepository
	logger  *log.Logger
}

func NewClientService(clients repository.ClientRepository, logger *log.Logger) *ClientService {
	return &ClientService{
		clients: clients,
		logger:  logger,
	}
}

func (s *ClientService) Create(ctx context.Context, request *domain.CreateClientRequest) (*domain.Client, error) {
	client := &domain.Client{
		Name:    strings.TrimSpace(request.Name),
		Phone:   request.Phone,
		Email:   request.Email,
		CPF:     request.CPF,
		Address: request.Address,
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("client created", "id", client.ID, "name", client.Name)
	return client, nil
}

// List returns all clients ordered by name, optionally filtered by a
// case-insensitive match on name or email.
func (s *ClientService) List(ctx context.Context, search string) ([]*domain.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	if search == "" {
		return clients, nil
	}

	needle := strings.ToLower(search)
	filtered := make([]*domain.Client, 0, len(clients))
	for _, client := range clients {
		if strings.Contains(strings.ToLower(client.Name), needle) ||
			strings.Contains(strings.ToLower(client.Email), needle) {
			filtered = append(filtered, client)
		}
	}

	return filtered, nil
}

func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapClientNotFound(id.String())
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	return client, nil
}

func (s *ClientService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateClientRequest) (*domain.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Name = strings.TrimSpace(request.Name)
	client.Phone = request.Phone
	client.Email = request.Email
	client.CPF = request.CPF
	client.Address = request.Address

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return client, nil
}
