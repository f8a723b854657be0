package report

import (
	"errors"
	"fmt"
	"slices"

	"spare-manager/core/registry"
	"spare-manager/core/sheet"
	"spare-manager/feature/inspection/models"
)

// ErrDuplicateEntry is returned when a report would repeat an identity key.
var ErrDuplicateEntry = errors.New("duplicate report entry")

// DefaultTitle heads the vulnerable parts report.
const DefaultTitle = "易损件清单"

var vulnerableColumns = []sheet.Column{
	{Header: "序号", Width: 8, Align: sheet.AlignRight},
	{Header: "物料号", Width: 18, Align: sheet.AlignRight},
	{Header: "物料描述", Width: 48},
	{Header: "机型", Width: 12},
	{Header: "建议备件数量", Width: 14, Align: sheet.AlignRight},
	{Header: "单位", Width: 8},
	{Header: "备注", Width: 30},
}

var libraryColumns = []sheet.Column{
	{Header: "物料号", Width: 18, Align: sheet.AlignRight},
	{Header: "物料描述", Width: 48},
	{Header: "机型", Width: 12},
	{Header: "建议备件数量", Width: 14, Align: sheet.AlignRight},
	{Header: "单位", Width: 8},
	{Header: "备注", Width: 30},
}

// Vulnerable lays out the vulnerable parts report. Entries are ordered by
// model precedence, keeping their relative order within a model; models
// outside the vocabulary come last. An identity key appearing twice fails
// the export rather than being collapsed.
func Vulnerable(title string, scheme registry.KeyScheme, entries []models.Entry) (sheet.Table, error) {
	if title == "" {
		title = DefaultTitle
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		key := scheme.KeyOf(e.ErpCode, e.Model)
		if _, ok := seen[key]; ok {
			return sheet.Table{}, fmt.Errorf("%w: %s", ErrDuplicateEntry, key)
		}
		seen[key] = struct{}{}
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b models.Entry) int {
		return registry.ModelRank(a.Model) - registry.ModelRank(b.Model)
	})

	rows := make([][]any, 0, len(sorted))
	for i, e := range sorted {
		rows = append(rows, []any{i + 1, e.ErpCode, e.Description, e.Model, e.SpareCount, e.Unit, e.Remark})
	}

	return sheet.Table{
		Name:    title,
		Title:   title,
		Columns: vulnerableColumns,
		Rows:    rows,
	}, nil
}

// LibraryFor lays out the whitelisted registry entries of one model.
func LibraryFor(model string, devices []registry.Device) sheet.Table {
	var rows [][]any
	for _, d := range devices {
		if d.Model != model || d.Status != registry.StatusWhitelisted {
			continue
		}
		rows = append(rows, []any{d.MaterialID, d.Description, d.Model, d.SpareCount, d.Unit, d.Remark})
	}
	return sheet.Table{
		Name:    model,
		Title:   model + "易损件库",
		Columns: libraryColumns,
		Rows:    rows,
	}
}

// Library lays out one table per vocabulary model.
func Library(devices []registry.Device) []sheet.Table {
	tables := make([]sheet.Table, 0, len(registry.Models))
	for _, m := range registry.Models {
		tables = append(tables, LibraryFor(m, devices))
	}
	return tables
}

// Blacklist lays out blacklisted ids as a headerless two column table, one
// row per material id.
func Blacklist(devices []registry.Device) sheet.Table {
	seen := make(map[string]struct{})
	var rows [][]any
	for _, d := range devices {
		if d.Status != registry.StatusBlacklisted {
			continue
		}
		if _, ok := seen[d.MaterialID]; ok {
			continue
		}
		seen[d.MaterialID] = struct{}{}
		rows = append(rows, []any{d.MaterialID, d.Description})
	}
	return sheet.Table{
		Name:     "黑名单",
		NoHeader: true,
		Columns: []sheet.Column{
			{Header: "物料号", Width: 18, Align: sheet.AlignRight},
			{Header: "物料描述", Width: 48},
		},
		Rows: rows,
	}
}
