package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dpaiva/emprestimos/internal/config"
	"github.com/dpaiva/emprestimos/internal/domain"
	apperrors "github.com/dpaiva/emprestimos/pkg/errors"
	"github.com/dpaiva/emprestimos/tests/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			DefaultInterestRate: "1.2",
			DueDateOffsetDays:   30,
		},
	}
}

func newLoanService(loans *mocks.MockLoanRepository, clients *mocks.MockClientRepository) *LoanService {
	return NewLoanService(loans, clients, testConfig(), log.New(io.Discard))
}

func TestLoanService_Create_DerivesFields(t *testing.T) {
	loans := &mocks.MockLoanRepository{}
	clients := &mocks.MockClientRepository{}
	service := newLoanService(loans, clients)

	client := &domain.Client{ID: uuid.New(), Name: "Fulano da Silva"}
	clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)

	var created *domain.Loan
	loans.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Loan) }).
		Return(nil)

	loan, err := service.Create(context.Background(), &domain.CreateLoanRequest{
		ClientID: client.ID,
		LoanDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		DueDate:  time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.NewFromInt(1000),
		// No rate: the configured default of 1.2% applies.
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "Fulano da Silva", loan.ClientName)
	assert.True(t, loan.InterestRate.Equal(decimal.NewFromFloat(1.2)))
	assert.True(t, loan.InterestValue.Equal(decimal.NewFromInt(12)), "interest %s", loan.InterestValue)
	assert.True(t, loan.TotalAmount.Equal(decimal.NewFromInt(1012)), "total %s", loan.TotalAmount)
	assert.Equal(t, 30, loan.TermDays)
	assert.Equal(t, domain.LoanStatusPending, loan.Status)
	assert.Nil(t, loan.PaymentDate)
}

func TestLoanService_Create_SuggestsDueDate(t *testing.T) {
	loans := &mocks.MockLoanRepository{}
	clients := &mocks.MockClientRepository{}
	service := newLoanService(loans, clients)

	client := &domain.Client{ID: uuid.New(), Name: "Fulano"}
	clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	loans.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).Return(nil)

	loanDate := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	loan, err := service.Create(context.Background(), &domain.CreateLoanRequest{
		ClientID: client.ID,
		LoanDate: loanDate,
		Amount:   decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	assert.Equal(t, loanDate.AddDate(0, 0, 30), loan.DueDate)
	assert.Equal(t, 30, loan.TermDays)
}

func TestLoanService_Create_RejectsNonPositiveAmount(t *testing.T) {
	service := newLoanService(&mocks.MockLoanRepository{}, &mocks.MockClientRepository{})

	_, err := service.Create(context.Background(), &domain.CreateLoanRequest{
		ClientID: uuid.New(),
		LoanDate: time.Now(),
		Amount:   decimal.Zero,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestLoanService_MarkPaid(t *testing.T) {
	loans := &mocks.MockLoanRepository{}
	clients := &mocks.MockClientRepository{}
	service := newLoanService(loans, clients)

	id := uuid.New()
	loans.On("GetByID", mock.Anything, id).Return(&domain.Loan{
		ID:     id,
		Status: domain.LoanStatusPending,
	}, nil)

	paymentDate := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	loans.On("UpdatePayment", mock.Anything, id, domain.LoanStatusPaid, &paymentDate).Return(nil)

	loan, err := service.MarkPaid(context.Background(), id, paymentDate)
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusPaid, loan.Status)
	require.NotNil(t, loan.PaymentDate)
	assert.Equal(t, paymentDate, *loan.PaymentDate)

	loans.AssertExpectations(t)
}

func TestLoanService_MarkPaid_AlreadyPaid(t *testing.T) {
	loans := &mocks.MockLoanRepository{}
	service := newLoanService(loans, &mocks.MockClientRepository{})

	id := uuid.New()
	paid := time.Now()
	loans.On("GetByID", mock.Anything, id).Return(&domain.Loan{
		ID:          id,
		Status:      domain.LoanStatusPaid,
		PaymentDate: &paid,
	}, nil)

	_, err := service.MarkPaid(context.Background(), id, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrLoanAlreadyPaid)
}

func TestLoanService_ReversePayment_ClearsPaymentDate(t *testing.T) {
	loans := &mocks.MockLoanRepository{}
	service := newLoanService(loans, &mocks.MockClientRepository{})

	id := uuid.New()
	paid := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	loans.On("GetByID", mock.Anything, id).Return(&domain.Loan{
		ID:          id,
		Status:      domain.LoanStatusPaid,
		PaymentDate: &paid,
	}, nil)

	// The stored payment date is cleared, not left stale.
	loans.On("UpdatePayment", mock.Anything, id, domain.LoanStatusPending, (*time.Time)(nil)).Return(nil)

	loan, err := service.ReversePayment(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusPending, loan.Status)
	assert.Nil(t, loan.PaymentDate)

	loans.AssertExpectations(t)
}

func TestLoanService_ReversePayment_NotPaid(t *testing.T) {
	loans := &mocks.MockLoanRepository{}
	service := newLoanService(loans, &mocks.MockClientRepository{})

	id := uuid.New()
	loans.On("GetByID", mock.Anything, id).Return(&domain.Loan{
		ID:     id,
		Status: domain.LoanStatusPending,
	}, nil)

	_, err := service.ReversePayment(context.Background(), id)
	assert.ErrorIs(t, err, apperrors.ErrLoanNotPaid)
}

func TestLoanService_MarkPaidThenReverse(t *testing.T) {
	loans := &mocks.MockLoanRepository{}
	service := newLoanService(loans, &mocks.MockClientRepository{})

	id := uuid.New()
	state := &domain.Loan{ID: id, Status: domain.LoanStatusPending}
	loans.On("GetByID", mock.Anything, id).Return(state, nil)
	loans.On("UpdatePayment", mock.Anything, id, mock.Anything, mock.Anything).Return(nil)

	paid, err := service.MarkPaid(context.Background(), id, time.Now())
	require.NoError(t, err)
	require.Equal(t, domain.LoanStatusPaid, paid.Status)

	reversed, err := service.ReversePayment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusPending, reversed.Status)
	assert.Nil(t, reversed.PaymentDate)
}

func TestLoanService_List_Filter(t *testing.T) {
	loans := &mocks.MockLoanRepository{}
	service := newLoanService(loans, &mocks.MockClientRepository{})

	all := []*domain.Loan{
		{ClientName: "Fulano", DocumentNumber: "CH-001", LoanDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{ClientName: "Beltrano", DocumentNumber: "CH-002", LoanDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	loans.On("List", mock.Anything).Return(all, nil)

	got, err := service.List(context.Background(), domain.LoanFilter{Search: "fulano"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Fulano", got[0].ClientName)

	got, err = service.List(context.Background(), domain.LoanFilter{Search: "ch-002"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Beltrano", got[0].ClientName)

	got, err = service.List(context.Background(), domain.LoanFilter{Year: 2023})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Beltrano", got[0].ClientName)
}

func TestLoanService_Summary(t *testing.T) {
	loans := &mocks.MockLoanRepository{}
	service := newLoanService(loans, &mocks.MockClientRepository{})

	all := []*domain.Loan{
		{TotalAmount: decimal.NewFromInt(1000), Status: domain.LoanStatusPaid},
		{TotalAmount: decimal.NewFromInt(2000), Status: domain.LoanStatusPending},
		{TotalAmount: decimal.NewFromInt(500), Status: domain.LoanStatusPending},
	}
	loans.On("List", mock.Anything).Return(all, nil)

	summary, err := service.Summary(context.Background(), domain.LoanFilter{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.LoanCount)
	assert.True(t, summary.TotalPortfolio.Equal(decimal.NewFromInt(3500)))
	assert.True(t, summary.TotalReceived.Equal(decimal.NewFromInt(1000)))
	assert.True(t, summary.TotalPending.Equal(decimal.NewFromInt(2500)))
}

func TestLoanService_Preview(t *testing.T) {
	service := newLoanService(&mocks.MockLoanRepository{}, &mocks.MockClientRepository{})

	preview := service.Preview(&domain.PreviewLoanRequest{
		Amount:   decimal.NewFromInt(1000),
		LoanDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		DueDate:  time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, 30, preview.TermDays)
	assert.True(t, preview.InterestValue.Equal(decimal.NewFromInt(12)))
	assert.True(t, preview.TotalAmount.Equal(decimal.NewFromInt(1012)))
}
