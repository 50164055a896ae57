package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusPending = "pending"
	LoanStatusPaid    = "paid"
)

// Loan represents a loan entity. ClientName is denormalized at creation
// time and is not kept in sync with later client renames.
type Loan struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	ClientID       uuid.UUID       `json:"client_id" db:"client_id"`
	ClientName     string          `json:"client_name" db:"client_name"`
	DocumentNumber string          `json:"document_number,omitempty" db:"document_number"`
	LoanDate       time.Time       `json:"loan_date" db:"loan_date"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	DueDate        time.Time       `json:"due_date" db:"due_date"`
	TermDays       int             `json:"term_days" db:"term_days"`
	InterestRate   decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	InterestValue  decimal.Decimal `json:"interest_value" db:"interest_value"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status         string          `json:"status" db:"status"`
	PaymentDate    *time.Time      `json:"payment_date,omitempty" db:"payment_date"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// IsPaid reports whether the loan has been settled.
func (l *Loan) IsPaid() bool {
	return l.Status == LoanStatusPaid
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	ClientID       uuid.UUID       `json:"client_id" validate:"required"`
	DocumentNumber string          `json:"document_number"`
	LoanDate       time.Time       `json:"loan_date" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	DueDate        time.Time       `json:"due_date"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
}

type UpdateLoanRequest struct {
	ClientID       uuid.UUID       `json:"client_id" validate:"required"`
	DocumentNumber string          `json:"document_number"`
	LoanDate       time.Time       `json:"loan_date" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	DueDate        time.Time       `json:"due_date" validate:"required"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
}

type PreviewLoanRequest struct {
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	LoanDate     time.Time       `json:"loan_date"`
	DueDate      time.Time       `json:"due_date"`
}

type PreviewLoanResponse struct {
	TermDays      int             `json:"term_days"`
	InterestValue decimal.Decimal `json:"interest_value"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

type MarkPaidRequest struct {
	PaymentDate time.Time `json:"payment_date" validate:"required"`
}

// LoanFilter narrows list results. Zero values mean no filtering.
type LoanFilter struct {
	Search string
	Year   int
}

type LoanSummary struct {
	TotalPortfolio decimal.Decimal `json:"total_portfolio"`
	TotalReceived  decimal.Decimal `json:"total_received"`
	TotalPending   decimal.Decimal `json:"total_pending"`
	LoanCount      int             `json:"loan_count"`
}
