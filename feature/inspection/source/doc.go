// Package source provides the spreadsheet inputs of an inspection run:
// local files and folders, uploaded files held in memory, and objects under
// a prefix of the storage bucket.
package source
