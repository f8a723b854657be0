// Package utils provides common utility functions for spare-manager.
// It includes lenient type conversion for spreadsheet cells and operator input,
// and slice chunking used by the batch file processor.
package utils
