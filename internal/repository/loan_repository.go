package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dpaiva/emprestimos/internal/domain"
)

const loanColumns = `
	id, client_id, client_name, document_number, loan_date, amount, due_date,
	term_days, interest_rate, interest_value, total_amount, status,
	payment_date, created_at, updated_at
`

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	loan.ID = uuid.New()
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt

	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.ClientID,
		loan.ClientName,
		loan.DocumentNumber,
		loan.LoanDate,
		loan.Amount,
		loan.DueDate,
		loan.TermDays,
		loan.InterestRate,
		loan.InterestValue,
		loan.TotalAmount,
		loan.Status,
		loan.PaymentDate,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, id)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) List(ctx context.Context) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY loan_date DESC`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE client_id = $1 ORDER BY loan_date DESC`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, clientID)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET client_id = $2, client_name = $3, document_number = $4,
		    loan_date = $5, amount = $6, due_date = $7, term_days = $8,
		    interest_rate = $9, interest_value = $10, total_amount = $11,
		    status = $12, updated_at = $13
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.ClientID,
		loan.ClientName,
		loan.DocumentNumber,
		loan.LoanDate,
		loan.Amount,
		loan.DueDate,
		loan.TermDays,
		loan.InterestRate,
		loan.InterestValue,
		loan.TotalAmount,
		loan.Status,
		time.Now(),
	)

	return err
}

func (r *loanRepository) UpdatePayment(ctx context.Context, id uuid.UUID, status string, paymentDate *time.Time) error {
	query := `
		UPDATE loans
		SET status = $2, payment_date = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, paymentDate, time.Now())
	return err
}
