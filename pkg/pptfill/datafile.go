package pptfill

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// matrix returns the cell matrix for the directive: inline data when present,
// otherwise the contents of the referenced workbook. A directive carrying
// neither yields nil.
func (d TableDirective) matrix() ([][]any, error) {
	if d.Data != nil {
		return d.Data, nil
	}
	if d.DataFile == "" {
		return nil, nil
	}
	return loadWorkbookMatrix(d.DataFile, d.Sheet, d.Range)
}

// loadWorkbookMatrix reads a table matrix from an xlsx workbook. All cells
// come back in their display form, so table filling from a workbook behaves
// exactly like inline string data.
func loadWorkbookMatrix(path, sheet, cellRange string) ([][]any, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if cellRange != "" {
		rows, err = cropRange(rows, cellRange)
		if err != nil {
			return nil, err
		}
	}

	matrix := make([][]any, len(rows))
	for i, row := range rows {
		vals := make([]any, len(row))
		for j, cell := range row {
			vals[j] = cell
		}
		matrix[i] = vals
	}
	return matrix, nil
}

// cropRange cuts the rows returned by GetRows down to an "A1:D5" style range.
// A single cell name selects a 1x1 range. Cells the sheet does not reach come
// back empty, so the matrix always covers the full requested rectangle.
func cropRange(rows [][]string, cellRange string) ([][]string, error) {
	first, second, ok := strings.Cut(cellRange, ":")
	if !ok {
		second = first
	}
	c1, r1, err := excelize.CellNameToCoordinates(first)
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: %w", cellRange, err)
	}
	c2, r2, err := excelize.CellNameToCoordinates(second)
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: %w", cellRange, err)
	}
	if c2 < c1 || r2 < r1 {
		return nil, fmt.Errorf("invalid range %q: end before start", cellRange)
	}

	out := make([][]string, 0, r2-r1+1)
	for r := r1; r <= r2; r++ {
		rowVals := make([]string, 0, c2-c1+1)
		for c := c1; c <= c2; c++ {
			val := ""
			if r-1 < len(rows) && c-1 < len(rows[r-1]) {
				val = rows[r-1][c-1]
			}
			rowVals = append(rowVals, val)
		}
		out = append(out, rowVals)
	}
	return out, nil
}
