package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dpaiva/emprestimos/internal/config"
	"github.com/dpaiva/emprestimos/internal/domain"
	"github.com/dpaiva/emprestimos/internal/repository"
	apperrors "github.com/dpaiva/emprestimos/pkg/errors"
	"github.com/dpaiva/emprestimos/pkg/finance"
)

type LoanService struct {
	loans   repository.LoanRepository
	clients repository.ClientRepository
	config  *config.Config
	logger  *log.Logger
}

func NewLoanService(
	loans repository.LoanRepository,
	clients repository.ClientRepository,
	config *config.Config,
	logger *log.Logger,
) *LoanService {
	return &LoanService{
		loans:   loans,
		clients: clients,
		config:  config,
		logger:  logger,
	}
}

// Create registers a loan from manual entry. Derived fields (term, interest,
// total) are computed here with the same calculator the import pipeline
// uses. A blank rate falls back to the configured default; a blank due date
// is suggested as loan date plus the configured offset.
func (s *LoanService) Create(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	if !request.Amount.IsPositive() {
		return nil, apperrors.WrapInvalidAmount(request.Amount.String())
	}

	client, err := s.clients.GetByID(ctx, request.ClientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapClientNotFound(request.ClientID.String())
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	rate := request.InterestRate
	if rate.IsZero() {
		rate = s.config.GetDefaultInterestRate()
	}

	dueDate := request.DueDate
	if dueDate.IsZero() {
		dueDate = request.LoanDate.AddDate(0, 0, s.config.Business.DueDateOffsetDays)
	}

	interest := finance.Interest(request.Amount, rate)

	loan := &domain.Loan{
		ClientID:       client.ID,
		ClientName:     client.Name,
		DocumentNumber: request.DocumentNumber,
		LoanDate:       request.LoanDate,
		Amount:         request.Amount,
		DueDate:        dueDate,
		TermDays:       finance.TermDays(request.LoanDate, dueDate),
		InterestRate:   rate,
		InterestValue:  interest,
		TotalAmount:    finance.Total(request.Amount, interest, decimal.Zero),
		Status:         domain.LoanStatusPending,
	}

	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("loan created", "id", loan.ID, "client", loan.ClientName, "amount", loan.Amount)
	return loan, nil
}

// Update replaces a loan's fields and recomputes every derived value.
// Status and payment date are untouched; those only move through MarkPaid
// and ReversePayment.
func (s *LoanService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateLoanRequest) (*domain.Loan, error) {
	if !request.Amount.IsPositive() {
		return nil, apperrors.WrapInvalidAmount(request.Amount.String())
	}

	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, request.ClientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapClientNotFound(request.ClientID.String())
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	rate := request.InterestRate
	if rate.IsZero() {
		rate = s.config.GetDefaultInterestRate()
	}

	interest := finance.Interest(request.Amount, rate)

	loan.ClientID = client.ID
	loan.ClientName = client.Name
	loan.DocumentNumber = request.DocumentNumber
	loan.LoanDate = request.LoanDate
	loan.Amount = request.Amount
	loan.DueDate = request.DueDate
	loan.TermDays = finance.TermDays(request.LoanDate, request.DueDate)
	loan.InterestRate = rate
	loan.InterestValue = interest
	loan.TotalAmount = finance.Total(request.Amount, interest, decimal.Zero)

	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return loan, nil
}

func (s *LoanService) Get(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapLoanNotFound(id.String())
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	return loan, nil
}

// List returns loans ordered by loan date descending, narrowed by the
// filter: a case-insensitive search over client name and document number,
// and an optional loan-date year.
func (s *LoanService) List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error) {
	loans, err := s.loans.List(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	if filter.Search == "" && filter.Year == 0 {
		return loans, nil
	}

	filtered := make([]*domain.Loan, 0, len(loans))
	for _, loan := range loans {
		if matchesFilter(loan, filter) {
			filtered = append(filtered, loan)
		}
	}

	return filtered, nil
}

func (s *LoanService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Loan, error) {
	loans, err := s.loans.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return loans, nil
}

// Summary aggregates the filtered loan set into the dashboard stat totals.
func (s *LoanService) Summary(ctx context.Context, filter domain.LoanFilter) (*domain.LoanSummary, error) {
	loans, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := &domain.LoanSummary{
		TotalPortfolio: decimal.Zero,
		TotalReceived:  decimal.Zero,
		TotalPending:   decimal.Zero,
		LoanCount:      len(loans),
	}

	for _, loan := range loans {
		summary.TotalPortfolio = summary.TotalPortfolio.Add(loan.TotalAmount)
		if loan.IsPaid() {
			summary.TotalReceived = summary.TotalReceived.Add(loan.TotalAmount)
		}
	}
	summary.TotalPending = summary.TotalPortfolio.Sub(summary.TotalReceived)

	return summary, nil
}

// Preview runs the calculator without persisting anything; it backs the
// entry form's live derivation display.
func (s *LoanService) Preview(request *domain.PreviewLoanRequest) *domain.PreviewLoanResponse {
	rate := request.InterestRate
	if rate.IsZero() {
		rate = s.config.GetDefaultInterestRate()
	}

	interest := finance.Interest(request.Amount, rate)

	return &domain.PreviewLoanResponse{
		TermDays:      finance.TermDays(request.LoanDate, request.DueDate),
		InterestValue: interest,
		TotalAmount:   finance.Total(request.Amount, interest, decimal.Zero),
	}
}

// MarkPaid transitions a pending loan to paid with the given payment date.
func (s *LoanService) MarkPaid(ctx context.Context, id uuid.UUID, paymentDate time.Time) (*domain.Loan, error) {
	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if loan.IsPaid() {
		return nil, apperrors.WrapLoanAlreadyPaid(id.String())
	}

	if err := s.loans.UpdatePayment(ctx, id, domain.LoanStatusPaid, &paymentDate); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	loan.Status = domain.LoanStatusPaid
	loan.PaymentDate = &paymentDate

	s.logger.Info("loan marked paid", "id", id, "payment_date", paymentDate)
	return loan, nil
}

// ReversePayment returns a paid loan to pending. The payment date is
// cleared in the store, not merely left stale.
func (s *LoanService) ReversePayment(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !loan.IsPaid() {
		return nil, apperrors.WrapLoanNotPaid(id.String())
	}

	if err := s.loans.UpdatePayment(ctx, id, domain.LoanStatusPending, nil); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	loan.Status = domain.LoanStatusPending
	loan.PaymentDate = nil

	s.logger.Info("loan payment reversed", "id", id)
	return loan, nil
}

func matchesFilter(loan *domain.Loan, filter domain.LoanFilter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(loan.ClientName), needle) &&
			!strings.Contains(strings.ToLower(loan.DocumentNumber), needle) {
			return false
		}
	}

	if filter.Year != 0 && loan.LoanDate.Year() != filter.Year {
		return false
	}

	return true
}
