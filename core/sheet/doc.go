// Package sheet reads and writes xlsx workbooks through excelize.
//
// Parse turns the first worksheet of a workbook into a Grid, the Sheet
// implementation used by the row extractor and the registry importers.
// Write renders one or more Tables into a styled workbook: an optional merged
// title row, a grey bold header row, thin-bordered data cells and per-column
// alignment and width.
//
// Legacy binary .xls workbooks are not supported; Parse reports them as an
// error and callers treat that as a per-file parse failure.
package sheet
