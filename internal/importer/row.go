package importer

// Row is one data row keyed by normalized header label. The dynamic shape of
// the spreadsheet stops here: downstream code only sees typed values built
// from these cells.
type Row map[string]string

// Get resolves a cell by header label, case/whitespace-insensitive.
func (r Row) Get(label string) string {
	return r[normalizeLabel(label)]
}

// BuildRows maps every row below the header row onto the located header
// labels. Cells beyond a short row read as empty; columns with a blank
// header are dropped.
func BuildRows(grid [][]string, headerIndex int) []Row {
	if headerIndex < 0 || headerIndex >= len(grid) {
		return nil
	}

	labels := make([]string, len(grid[headerIndex]))
	for i, cell := range grid[headerIndex] {
		labels[i] = normalizeLabel(cell)
	}

	var rows []Row
	for _, cells := range grid[headerIndex+1:] {
		row := make(Row, len(labels))
		for i, label := range labels {
			if label == "" {
				continue
			}
			if i < len(cells) {
				row[label] = cells[i]
			} else {
				row[label] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows
}

// Labels returns the normalized header labels of the header row, in column
// order, blanks dropped. Used for the import log's column echo.
func Labels(grid [][]string, headerIndex int) []string {
	if headerIndex < 0 || headerIndex >= len(grid) {
		return nil
	}

	var labels []string
	for _, cell := range grid[headerIndex] {
		if l := normalizeLabel(cell); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}
