package extract

import (
	"iter"
	"path/filepath"
	"regexp"
	"strings"

	"spare-manager/core/registry"
	"spare-manager/core/sheet"
	"spare-manager/feature/inspection/models"
)

var (
	identifierHeaders = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ERP`),
		regexp.MustCompile(`(?i)ERP编号`),
		regexp.MustCompile(`(?i)ERP编码`),
		regexp.MustCompile(`物料号`),
		regexp.MustCompile(`物料编号`),
		regexp.MustCompile(`(?i)material[\s_]*id`),
		regexp.MustCompile(`(?i)material\s*(no|number)`),
	}
	descriptionHeaders = []*regexp.Regexp{
		regexp.MustCompile(`物料描述`),
		regexp.MustCompile(`(?i)description`),
	}
	// Unit headers match the whole cell; "Unit Price" is not a unit column.
	unitHeaders = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\s*(计量)?(单位|unit)\s*$`),
	}
)

// modelRules are tested in order against the lower-cased file name.
var modelRules = []struct {
	tokens []string
	model  string
}{
	{[]string{"ap", "system", "系统"}, registry.ModelSystem},
	{[]string{"摆渡车", "shuttle"}, registry.ModelShuttle},
	{[]string{"运输车", "transport"}, registry.ModelTransport},
	{[]string{"砖机", "press"}, registry.ModelPress},
	{[]string{"辅机", "auxiliary"}, registry.ModelAuxiliary},
}

// InferModel derives the equipment model from a file name. The first rule
// whose token occurs in the base name wins; no match yields "".
func InferModel(fileName string) string {
	name := strings.ToLower(filepath.Base(strings.ReplaceAll(fileName, `\`, "/")))
	for _, rule := range modelRules {
		for _, token := range rule.tokens {
			if strings.Contains(name, token) {
				return rule.model
			}
		}
	}
	return ""
}

// Result is the scanned layout of one spreadsheet.
type Result struct {
	File  string
	Model string

	sheet   sheet.Sheet
	idCol   int
	descCol int
	unitCol int
}

// Scan locates the identifier, description and unit columns in the header
// row. When several columns match a role the last one wins; a column
// matching the identifier patterns is never used for another role.
func Scan(fileName string, s sheet.Sheet) Result {
	r := Result{
		File:    fileName,
		Model:   InferModel(fileName),
		sheet:   s,
		idCol:   -1,
		descCol: -1,
		unitCol: -1,
	}
	if s == nil || s.Rows() == 0 {
		return r
	}

	for col := 0; col < s.Cols(); col++ {
		header := s.Cell(0, col)
		if header == "" {
			continue
		}
		switch {
		case matchesAny(identifierHeaders, header):
			r.idCol = col
		case matchesAny(descriptionHeaders, header):
			r.descCol = col
		case matchesAny(unitHeaders, header):
			r.unitCol = col
		}
	}
	return r
}

// HasIdentifier reports whether an identifier column was found.
func (r Result) HasIdentifier() bool {
	return r.idCol >= 0
}

// Rows yields the data rows that carry both an identifier and a description.
// Each call restarts from the first data row.
func (r Result) Rows() iter.Seq[models.RawRow] {
	return func(yield func(models.RawRow) bool) {
		if !r.HasIdentifier() {
			return
		}
		for row := 1; row < r.sheet.Rows(); row++ {
			id := r.sheet.Cell(row, r.idCol)
			if id == "" {
				continue
			}
			desc := r.cell(row, r.descCol)
			// Category header rows carry an id but no description.
			if desc == "" {
				continue
			}
			if !yield(models.RawRow{ErpCode: id, Description: desc, Unit: r.cell(row, r.unitCol)}) {
				return
			}
		}
	}
}

// Seen counts data rows with a non-empty identifier, before the description filter.
func (r Result) Seen() int {
	if !r.HasIdentifier() {
		return 0
	}
	n := 0
	for row := 1; row < r.sheet.Rows(); row++ {
		if r.sheet.Cell(row, r.idCol) != "" {
			n++
		}
	}
	return n
}

func (r Result) cell(row, col int) string {
	if col < 0 {
		return ""
	}
	return r.sheet.Cell(row, col)
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
