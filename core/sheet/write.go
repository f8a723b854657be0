package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Align is the horizontal alignment of a column's data cells.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one output column.
type Column struct {
	Header string
	Width  float64
	Align  Align
}

// Table is one worksheet of an exported workbook.
type Table struct {
	// Name is the worksheet name; invalid characters are replaced.
	Name string
	// Title, when set, is written in a merged row above the header.
	Title   string
	Columns []Column
	// NoHeader omits the header row (importable flat tables).
	NoHeader bool
	Rows     [][]any
}

const (
	fontFamily   = "等线"
	maxSheetName = 31
)

type styles struct {
	title, header, left, right int
}

// Write renders tables into an xlsx workbook, one worksheet per table.
func Write(tables ...Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	used := make(map[string]int)
	for i, t := range tables {
		name := uniqueName(sheetName(t.Name, i), used)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		if err := writeTable(f, name, t, st); err != nil {
			return nil, fmt.Errorf("failed to write sheet %s: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, name string, t Table, st styles) error {
	width := len(t.Columns)
	for _, r := range t.Rows {
		width = max(width, len(r))
	}
	if width == 0 {
		return nil
	}

	row := 1
	if t.Title != "" {
		start := cellName(0, row)
		end := cellName(width-1, row)
		if err := f.SetCellValue(name, start, t.Title); err != nil {
			return err
		}
		if width > 1 {
			if err := f.MergeCell(name, start, end); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(name, start, end, st.title); err != nil {
			return err
		}
		if err := f.SetRowHeight(name, row, 30); err != nil {
			return err
		}
		row++
	}

	if !t.NoHeader && len(t.Columns) > 0 {
		for j, c := range t.Columns {
			if err := f.SetCellValue(name, cellName(j, row), c.Header); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(name, cellName(0, row), cellName(len(t.Columns)-1, row), st.header); err != nil {
			return err
		}
		row++
	}

	for _, r := range t.Rows {
		for j, v := range r {
			cell := cellName(j, row)
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}
			style := st.left
			if j < len(t.Columns) && t.Columns[j].Align == AlignRight {
				style = st.right
			}
			if err := f.SetCellStyle(name, cell, cell, style); err != nil {
				return err
			}
		}
		row++
	}

	for j, c := range t.Columns {
		if c.Width <= 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, col, col, c.Width); err != nil {
			return err
		}
	}
	return nil
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	defs := []*excelize.Style{
		{
			Font:      &excelize.Font{Family: fontFamily, Size: 14, Bold: true},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
		{
			Font:      &excelize.Font{Family: fontFamily, Size: 11, Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
		{
			Font:      &excelize.Font{Family: fontFamily, Size: 11},
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		},
		{
			Font:      &excelize.Font{Family: fontFamily, Size: 11},
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		},
	}

	ids := make([]int, len(defs))
	for i, def := range defs {
		id, err := f.NewStyle(def)
		if err != nil {
			return styles{}, fmt.Errorf("failed to create style: %w", err)
		}
		ids[i] = id
	}
	return styles{title: ids[0], header: ids[1], left: ids[2], right: ids[3]}, nil
}

func cellName(col, row int) string {
	// col and row are always in range here.
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

var sheetNameReplacer = strings.NewReplacer(
	"[", "_", "]", "_", ":", "_", "*", "_", "?", "_", "/", "_", "\\", "_",
)

func sheetName(name string, index int) string {
	name = strings.TrimSpace(sheetNameReplacer.Replace(name))
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

func uniqueName(name string, used map[string]int) string {
	key := strings.ToLower(name)
	n := used[key]
	used[key] = n + 1
	if n == 0 {
		return name
	}
	suffix := fmt.Sprintf(" (%d)", n+1)
	r := []rune(name)
	if len(r)+len([]rune(suffix)) > maxSheetName {
		r = r[:maxSheetName-len([]rune(suffix))]
	}
	return string(r) + suffix
}
