package devices

import (
	"fmt"
	"regexp"

	"spare-manager/core/registry"
	"spare-manager/core/sheet"
	"spare-manager/core/utils"
)

// headerScanRows bounds the search for the whitelist header row, which may
// sit below a title row.
const headerScanRows = 10

type field int

const (
	fieldID field = iota
	fieldDescription
	fieldStatus
	fieldModel
	fieldSpareCount
	fieldUnit
	fieldRemark
)

var fieldHeaders = []struct {
	field   field
	pattern *regexp.Regexp
}{
	{fieldID, regexp.MustCompile(`(?i)^(物料号|物料编号|erp.*|material[\s_]*id)$`)},
	{fieldDescription, regexp.MustCompile(`(?i)^(物料描述|description)$`)},
	{fieldStatus, regexp.MustCompile(`(?i)^(状态|status)$`)},
	{fieldModel, regexp.MustCompile(`(?i)^(机型|model)$`)},
	{fieldSpareCount, regexp.MustCompile(`(?i)^(备件数|建议备件数量|备件数量|spare[\s_]*count)$`)},
	{fieldUnit, regexp.MustCompile(`(?i)^(单位|unit)$`)},
	{fieldRemark, regexp.MustCompile(`(?i)^(备注|remark)$`)},
}

// RowIssue is a spreadsheet row that could not be imported.
type RowIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes an import.
type ImportResult struct {
	Imported int        `json:"imported"`
	Existing int        `json:"existing"`
	Invalid  []RowIssue `json:"invalid"`
}

// parsed is the outcome of reading an import sheet, before registry checks.
type parsed struct {
	devices []registry.Device
	invalid []RowIssue
}

// parseWhitelist reads a sheet with a header row naming the device fields.
// Rows without a status are whitelisted.
func parseWhitelist(s sheet.Sheet) (parsed, error) {
	headerRow, cols := findHeader(s)
	if headerRow < 0 {
		return parsed{}, fmt.Errorf("no material id header in the first %d rows", headerScanRows)
	}

	cell := func(row int, f field) string {
		col, ok := cols[f]
		if !ok {
			return ""
		}
		return s.Cell(row, col)
	}

	var p parsed
	for row := headerRow + 1; row < s.Rows(); row++ {
		id := cell(row, fieldID)
		if id == "" {
			continue
		}
		status := registry.StatusWhitelisted
		if raw := cell(row, fieldStatus); raw != "" {
			status = registry.ParseStatus(raw)
		}
		model := cell(row, fieldModel)
		if model != "" {
			model = registry.CanonicalModel(model)
		}
		d := registry.Device{
			MaterialID:  id,
			Model:       model,
			Description: cell(row, fieldDescription),
			SpareCount:  utils.ToInt(cell(row, fieldSpareCount)),
			Unit:        cell(row, fieldUnit),
			Remark:      cell(row, fieldRemark),
			Status:      status,
		}
		p.add(row+1, d)
	}
	return p, nil
}

// parseBlacklist reads a headerless sheet of (material id, description) rows.
func parseBlacklist(s sheet.Sheet) parsed {
	var p parsed
	for row := 0; row < s.Rows(); row++ {
		id := s.Cell(row, 0)
		if id == "" {
			continue
		}
		p.add(row+1, registry.Device{
			MaterialID:  id,
			Description: s.Cell(row, 1),
			Status:      registry.StatusBlacklisted,
		})
	}
	return p
}

func (p *parsed) add(row int, d registry.Device) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		p.invalid = append(p.invalid, RowIssue{Row: row, Reason: err.Error()})
		return
	}
	p.devices = append(p.devices, d)
}

func findHeader(s sheet.Sheet) (int, map[field]int) {
	for row := 0; row < min(headerScanRows, s.Rows()); row++ {
		cols := make(map[field]int)
		for col := 0; col < s.Cols(); col++ {
			header := s.Cell(row, col)
			if header == "" {
				continue
			}
			for _, h := range fieldHeaders {
				if _, taken := cols[h.field]; taken {
					continue
				}
				if h.pattern.MatchString(header) {
					cols[h.field] = col
					break
				}
			}
		}
		if _, ok := cols[fieldID]; ok {
			return row, cols
		}
	}
	return -1, nil
}
