package service

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dpaiva/emprestimos/internal/domain"
	"github.com/dpaiva/emprestimos/tests/mocks"
)

func TestClientService_Create_TrimsName(t *testing.T) {
	clients := &mocks.MockClientRepository{}
	service := NewClientService(clients, log.New(io.Discard))

	clients.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Client) bool {
		return c.Name == "Fulano da Silva"
	})).Return(nil)

	client, err := service.Create(context.Background(), &domain.CreateClientRequest{
		Name:  "  Fulano da Silva  ",
		Phone: "11 99999-0000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Fulano da Silva", client.Name)

	clients.AssertExpectations(t)
}

func TestClientService_List_Search(t *testing.T) {
	clients := &mocks.MockClientRepository{}
	service := NewClientService(clients, log.New(io.Discard))

	all := []*domain.Client{
		{Name: "Fulano", Email: "fulano@example.com"},
		{Name: "Beltrano", Email: "beltrano@example.com"},
	}
	clients.On("List", mock.Anything).Return(all, nil)

	got, err := service.List(context.Background(), "FULANO")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Fulano", got[0].Name)

	// Email matches too.
	got, err = service.List(context.Background(), "beltrano@")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Beltrano", got[0].Name)

	// Empty search returns everyone.
	got, err = service.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
