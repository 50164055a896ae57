package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrClientNotFound  = errors.New("client not found")
	ErrLoanNotFound    = errors.New("loan not found")
	ErrLoanAlreadyPaid = errors.New("loan is already paid")
	ErrLoanNotPaid     = errors.New("loan has no payment to reverse")
	ErrInvalidAmount   = errors.New("invalid loan amount")
	ErrFileProtected   = errors.New("workbook is password-protected")
	ErrFileUnreadable  = errors.New("workbook could not be read")
	ErrSessionNotFound = errors.New("session not found")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeClientNotFound  = "CLIENT_NOT_FOUND"
	ErrCodeLoanNotFound    = "LOAN_NOT_FOUND"
	ErrCodeLoanAlreadyPaid = "LOAN_ALREADY_PAID"
	ErrCodeLoanNotPaid     = "LOAN_NOT_PAID"
	ErrCodeInvalidAmount   = "INVALID_AMOUNT"
	ErrCodeFileProtected   = "FILE_PROTECTED"
	ErrCodeFileUnreadable  = "FILE_UNREADABLE"
	ErrCodeDatabaseError   = "DATABASE_ERROR"
)

// Wrap common errors with business context

func WrapClientNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientNotFound,
		fmt.Sprintf("Client with ID %s not found", id),
		ErrClientNotFound,
	)
}

func WrapLoanNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", id),
		ErrLoanNotFound,
	)
}

func WrapLoanAlreadyPaid(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyPaid,
		fmt.Sprintf("Loan with ID %s is already marked as paid", id),
		ErrLoanAlreadyPaid,
	)
}

func WrapLoanNotPaid(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotPaid,
		fmt.Sprintf("Loan with ID %s has no payment to reverse", id),
		ErrLoanNotPaid,
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid loan amount: %s", amount),
		ErrInvalidAmount,
	)
}

// WrapFileProtected flags a workbook the decoder rejected as encrypted. The
// user-facing message asks for the password to be removed before retrying.
func WrapFileProtected(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeFileProtected,
		"Este arquivo está protegido por senha. Remova a senha no Excel e tente novamente.",
		errors.Join(ErrFileProtected, err),
	)
}

func WrapFileUnreadable(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeFileUnreadable,
		"Erro ao ler o arquivo. Verifique se é um Excel válido.",
		errors.Join(ErrFileUnreadable, err),
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}
