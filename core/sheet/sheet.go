package sheet

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is a parsed worksheet with cell access by zero-based row and column.
type Sheet interface {
	// Rows is the number of rows in the used range.
	Rows() int
	// Cols is the widest row length in the used range.
	Cols() int
	// Cell returns the trimmed cell text, or "" outside the used range.
	Cell(row, col int) string
}

// Grid is an in-memory Sheet.
type Grid [][]string

// Rows implements Sheet.
func (g Grid) Rows() int {
	return len(g)
}

// Cols implements Sheet.
func (g Grid) Cols() int {
	n := 0
	for _, row := range g {
		n = max(n, len(row))
	}
	return n
}

// Cell implements Sheet.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return strings.TrimSpace(g[row][col])
}

// Parse reads the first worksheet of an xlsx workbook.
func Parse(r io.Reader) (Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return Grid(rows), nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	grid, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return grid, nil
}
