// Package classify partitions extracted rows into matched-white,
// matched-black and unknown.
//
// Row is a pure function of the row, the file model, the key scheme and a
// match result; Engine gathers a file's rows, resolves them with one matcher
// call and folds the outcomes into a FileResult.
package classify
