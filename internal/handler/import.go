package handler

import (
	"io"
	"net/http"

	"github.com/dpaiva/emprestimos/internal/service"
	"github.com/dpaiva/emprestimos/pkg/response"
)

// maxImportSize bounds the uploaded workbook at 10 MiB.
const maxImportSize = 10 << 20

type ImportHandler struct {
	service *service.ImportService
}

func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{service: importService}
}

// Import runs a spreadsheet batch over the uploaded workbook. File-level
// failures come back as a 400 with the classified message; everything else,
// structural failures included, returns the batch result with its log.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "workbook file required", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "failed to read uploaded file", err)
		return
	}

	result, err := h.service.ImportFile(r.Context(), data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}
