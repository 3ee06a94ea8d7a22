// Package lookup implements the spreadsheet companion tool: find rows
// whose search-column value matches and report chosen result columns.
package lookup

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrFileType reports a path that is not an Excel workbook.
var ErrFileType = errors.New("file must be .xlsx or .xlsm")

// Options selects where to search and what to report.
type Options struct {
	// Sheet is the worksheet name; empty means the active sheet.
	Sheet string
	// SearchColumn is the column letter to match against. Default "A".
	SearchColumn string
	// ResultColumns are the column letters reported per match. Default ["B"].
	ResultColumns []string
}

// Match is one matching row.
type Match struct {
	// Row is the 1-based row number.
	Row int
	// Values holds one value per requested result column; a missing or
	// empty cell yields "".
	Values []string
}

// CheckFileType validates the workbook extension.
func CheckFileType(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return nil
	default:
		return ErrFileType
	}
}

// Search returns every row whose search-column value equals value, both
// sides trimmed of surrounding whitespace. Rows with an empty search
// cell never match.
func Search(path, value string, opts Options) ([]Match, error) {
	if err := CheckFileType(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := resolveSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	searchCol, err := columnIndex(opts.SearchColumn, "A")
	if err != nil {
		return nil, err
	}

	resultCols := opts.ResultColumns
	if len(resultCols) == 0 {
		resultCols = []string{"B"}
	}
	indices := make([]int, len(resultCols))
	for i, col := range resultCols {
		idx, err := columnIndex(col, "")
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	want := strings.TrimSpace(value)
	var matches []Match
	for i, row := range rows {
		cell := cellAt(row, searchCol)
		if cell == "" || strings.TrimSpace(cell) != want {
			continue
		}
		m := Match{Row: i + 1, Values: make([]string, len(indices))}
		for j, idx := range indices {
			m.Values[j] = cellAt(row, idx)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// Sheets returns the workbook's sheet names and which one is active.
func Sheets(path string) ([]string, string, error) {
	if err := CheckFileType(path); err != nil {
		return nil, "", err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), f.GetSheetName(f.GetActiveSheetIndex()), nil
}

func resolveSheet(f *excelize.File, name string) (string, error) {
	if name == "" {
		return f.GetSheetName(f.GetActiveSheetIndex()), nil
	}
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return "", err
	}
	if idx < 0 {
		return "", fmt.Errorf("sheet %q does not exist, available sheets: %s",
			name, strings.Join(f.GetSheetList(), ", "))
	}
	return name, nil
}

func columnIndex(col, def string) (int, error) {
	if col == "" {
		col = def
	}
	n, err := excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(col)))
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", col, err)
	}
	return n, nil
}

// cellAt returns the 1-based column's cell, or "" past the row's end.
// Row slices from the reader omit trailing empty cells.
func cellAt(row []string, col int) string {
	if col-1 < len(row) {
		return row[col-1]
	}
	return ""
}
