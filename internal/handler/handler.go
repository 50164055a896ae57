package handler

import (
	"errors"
	"net/http"

	apperrors "github.com/dpaiva/emprestimos/pkg/errors"
	"github.com/dpaiva/emprestimos/pkg/response"
)

// writeServiceError maps a service-layer error onto an HTTP response.
func writeServiceError(w http.ResponseWriter, err error) {
	var businessErr *apperrors.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	switch businessErr.Code {
	case apperrors.ErrCodeClientNotFound, apperrors.ErrCodeLoanNotFound:
		response.NotFound(w, businessErr.Message)
	case apperrors.ErrCodeInvalidAmount,
		apperrors.ErrCodeLoanAlreadyPaid,
		apperrors.ErrCodeLoanNotPaid,
		apperrors.ErrCodeFileProtected,
		apperrors.ErrCodeFileUnreadable:
		response.BadRequest(w, businessErr.Message, nil)
	default:
		response.InternalServerError(w, businessErr.Message, businessErr.Err)
	}
}
