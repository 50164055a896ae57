package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dpaiva/emprestimos/internal/domain"
)

// ClientRepository is the record store contract for the clients collection.
// Create assigns the record id; List returns clients ordered by name
// ascending.
type ClientRepository interface {
	// Create persists a new client and assigns its id
	Create(ctx context.Context, client *domain.Client) error

	// GetByID retrieves a client by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)

	// List retrieves all clients ordered by name ascending
	List(ctx context.Context) ([]*domain.Client, error)

	// Update replaces a client's mutable fields
	Update(ctx context.Context, client *domain.Client) error
}

// LoanRepository is the record store contract for the loans collection.
// List returns loans ordered by loan date descending.
type LoanRepository interface {
	// Create persists a new loan and assigns its id
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// List retrieves all loans ordered by loan date descending
	List(ctx context.Context) ([]*domain.Loan, error)

	// ListByClient retrieves the loans owned by one client, ordered by loan
	// date descending
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Loan, error)

	// Update replaces a loan's fields, derived values included
	Update(ctx context.Context, loan *domain.Loan) error

	// UpdatePayment applies one of the two payment transitions. A nil
	// paymentDate clears the stored value rather than leaving it stale.
	UpdatePayment(ctx context.Context, id uuid.UUID, status string, paymentDate *time.Time) error
}

// UserRepository stores authenticated account profiles.
type UserRepository interface {
	// Create persists a new user profile and assigns its id
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a profile by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
