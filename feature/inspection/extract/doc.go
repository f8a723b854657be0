// Package extract turns a parsed spreadsheet into raw device rows.
//
// The header row is scanned for an identifier column (ERP code or material
// number aliases), a description column and a unit column. Rows are yielded
// lazily; rows without an identifier or without a description are skipped.
// The equipment model of the whole file is inferred from its name.
package extract
