// Package report lays out the exported workbooks: the vulnerable parts
// report of a run, the per-model spare library and the importable blacklist.
// Rendering to bytes is done by core/sheet.
package report
