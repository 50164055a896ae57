package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/dpaiva/emprestimos/internal/domain"
	"github.com/dpaiva/emprestimos/internal/importer"
	"github.com/dpaiva/emprestimos/internal/repository"
	apperrors "github.com/dpaiva/emprestimos/pkg/errors"
	"github.com/dpaiva/emprestimos/pkg/finance"
	"github.com/dpaiva/emprestimos/pkg/normalize"
)

// ImportService drives one spreadsheet import batch: locate the header,
// map rows, ingest each one tolerating per-row failures, and report a
// summary. The batch is not transactional: records created before a
// mid-batch failure stay persisted.
type ImportService struct {
	clients repository.ClientRepository
	loans   repository.LoanRepository
	logger  *log.Logger
}

func NewImportService(
	clients repository.ClientRepository,
	loans repository.LoanRepository,
	logger *log.Logger,
) *ImportService {
	return &ImportService{
		clients: clients,
		loans:   loans,
		logger:  logger,
	}
}

// ImportResult is the batch's externally observable outcome besides the
// store mutations: an ordered log and three counters.
type ImportResult struct {
	Log          []string        `json:"log"`
	SuccessCount int             `json:"success_count"`
	ErrorCount   int             `json:"error_count"`
	TotalSum     decimal.Decimal `json:"total_sum"`
}

func (r *ImportResult) logf(format string, args ...interface{}) {
	r.Log = append(r.Log, fmt.Sprintf(format, args...))
}

// ImportFile runs a batch over an uploaded workbook. A decode failure is
// fatal and returned as a classified error; structural failures (header not
// found, zero data rows) end the batch with only a log line. Row failures
// never stop the batch.
func (s *ImportService) ImportFile(ctx context.Context, data []byte) (*ImportResult, error) {
	grid, err := importer.Decode(data)
	if err != nil {
		s.logger.Error("workbook decode failed", "err", err)
		return nil, err
	}

	return s.importGrid(ctx, grid)
}

func (s *ImportService) importGrid(ctx context.Context, grid [][]string) (*ImportResult, error) {
	result := &ImportResult{TotalSum: decimal.Zero}

	headerIndex, found := importer.LocateHeader(grid, importer.HeaderAnchor)
	if !found {
		result.logf("ERRO: Não encontrei a coluna '%s' nas primeiras 10 linhas.", importer.HeaderAnchor)
		return result, nil
	}

	result.logf("Cabeçalho encontrado na linha %d.", headerIndex+1)

	rows := importer.BuildRows(grid, headerIndex)
	if len(rows) == 0 {
		result.logf("ERRO: Nenhuma linha de dados encontrada após o cabeçalho.")
		return result, nil
	}

	result.logf("Colunas: %s", strings.Join(importer.Labels(grid, headerIndex), ", "))
	result.logf("Lendo %d linhas...", len(rows))

	// Snapshot of existing clients, loaded once per batch. New clients are
	// appended as they are created so repeated holder names within the
	// batch reuse the same record; the store is never re-queried mid-batch.
	snapshot, err := s.clients.List(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	for _, row := range rows {
		snapshot = s.ingestRow(ctx, row, snapshot, result)
	}

	result.logf("Concluído! %d importados, %d erros.", result.SuccessCount, result.ErrorCount)
	result.logf("Soma Total Importada: %s", normalize.FormatBRL(result.TotalSum))

	if result.SuccessCount == 0 {
		result.logf("AVISO: Nada importado. Verifique os nomes das colunas acima.")
	}

	return result, nil
}

// ingestRow maps one data row to a loan record and persists it, resolving
// or creating the owning client. Returns the possibly extended snapshot.
func (s *ImportService) ingestRow(
	ctx context.Context,
	row importer.Row,
	snapshot []*domain.Client,
	result *ImportResult,
) []*domain.Client {
	name := domain.NormalizeName(row.Get(importer.ColHolder))
	if name == "" {
		// Blank or separator row: skipped without counting as an error.
		return snapshot
	}

	amount := normalize.Currency(row.Get(importer.ColAmount))
	interest := normalize.Currency(row.Get(importer.ColInterest))
	explicitTotal := normalize.Currency(row.Get(importer.ColTotal))

	loanDate, loanDateDefaulted := normalize.Date(row.Get(importer.ColLoanDate))
	dueDate, _ := normalize.Date(row.Get(importer.ColDueDate))

	// A defaulted loan date means the cell was missing or unparseable; that
	// is bad data, not a loan issued today, so the row counts as an error.
	if !amount.IsPositive() || loanDateDefaulted {
		result.ErrorCount++
		result.logf("Dados inválidos para: %s", name)
		return snapshot
	}

	client, snapshot, err := s.resolveClient(ctx, name, snapshot, result)
	if err != nil {
		result.ErrorCount++
		result.logf("Erro ao criar cliente: %s", name)
		s.logger.Error("client create failed during import", "name", name, "err", err)
		return snapshot
	}

	total := finance.Total(amount, interest, explicitTotal)

	loan := &domain.Loan{
		ClientID:      client.ID,
		ClientName:    name,
		LoanDate:      loanDate,
		Amount:        amount,
		DueDate:       dueDate,
		TermDays:      finance.TermDays(loanDate, dueDate),
		InterestRate:  finance.EffectiveRate(interest, amount),
		InterestValue: interest,
		TotalAmount:   total,
		Status:        domain.LoanStatusPending,
	}

	if err := s.loans.Create(ctx, loan); err != nil {
		result.ErrorCount++
		result.logf("Erro ao gravar empréstimo de: %s", name)
		s.logger.Error("loan create failed during import", "name", name, "err", err)
		return snapshot
	}

	result.SuccessCount++
	result.TotalSum = result.TotalSum.Add(total)
	return snapshot
}

// resolveClient finds the holder in the batch snapshot by normalized name,
// creating and appending a new client on miss. Contact fields stay empty;
// import never touches an existing client's details.
func (s *ImportService) resolveClient(
	ctx context.Context,
	name string,
	snapshot []*domain.Client,
	result *ImportResult,
) (*domain.Client, []*domain.Client, error) {
	for _, client := range snapshot {
		if client.MatchKey() == name {
			return client, snapshot, nil
		}
	}

	result.logf("Criando cliente: %s", name)

	client := &domain.Client{Name: name}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, snapshot, err
	}

	return client, append(snapshot, client), nil
}
