package importer

import (
	"bytes"
	"strings"

	"github.com/extrame/xls"

	apperrors "github.com/dpaiva/emprestimos/pkg/errors"
)

// HeaderAnchor is the column label that marks the header row. Real-world
// sheets carry a variable number of title and blank rows above it.
const HeaderAnchor = "TITULAR"

// maxHeaderScan bounds the header search window. Searching only the first
// ten rows avoids false positives deeper in the data.
const maxHeaderScan = 10

// Recognized header labels, matched case/whitespace-insensitively.
const (
	ColHolder   = "TITULAR"
	ColAmount   = "VALORES"
	ColInterest = "VALOR DO JUROS"
	ColTotal    = "TOTAL"
	ColLoanDate = "DATA DO EMPRESTIMO"
	ColDueDate  = "DATA DO VENCIMENTO"
)

// Decode reads a binary workbook and returns the first sheet as a grid of
// raw cells. Decode failures are classified into password-protected vs
// generically unreadable, each carrying its own user-facing message.
func Decode(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, classifyDecodeError(err)
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, apperrors.WrapFileUnreadable(apperrors.ErrFileUnreadable)
	}

	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}

		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		grid = append(grid, cells)
	}

	return grid, nil
}

func classifyDecodeError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "password") || strings.Contains(msg, "encrypted") {
		return apperrors.WrapFileProtected(err)
	}
	return apperrors.WrapFileUnreadable(err)
}

// LocateHeader scans the first ten rows of the grid for a cell whose
// trimmed, upper-cased text equals the anchor label. Returns the zero-based
// row index, or false when no row in the window qualifies.
func LocateHeader(grid [][]string, anchor string) (int, bool) {
	want := normalizeLabel(anchor)

	limit := len(grid)
	if limit > maxHeaderScan {
		limit = maxHeaderScan
	}

	for i := 0; i < limit; i++ {
		for _, cell := range grid[i] {
			if normalizeLabel(cell) == want {
				return i, true
			}
		}
	}

	return -1, false
}

func normalizeLabel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
