package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client represents a borrower. Name is free text; matching during import
// uses the uppercased trimmed form.
type Client struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Email     string    `json:"email,omitempty" db:"email"`
	CPF       string    `json:"cpf,omitempty" db:"cpf"`
	Address   string    `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MatchKey returns the case-insensitive key used to reconcile spreadsheet
// rows against existing clients.
func (c *Client) MatchKey() string {
	return NormalizeName(c.Name)
}

// NormalizeName uppercases and trims a client name for matching.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

type CreateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	CPF     string `json:"cpf"`
	Address string `json:"address"`
}

type UpdateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	CPF     string `json:"cpf"`
	Address string `json:"address"`
}
