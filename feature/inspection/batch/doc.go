// Package batch drives an inspection over many spreadsheets.
//
// Files are split into chunks of the configured concurrency; each chunk runs
// on an errgroup and is joined before the next starts. Per-file problems are
// contained and reported in Result.Failed, while registry failures abort the
// run. Partial results are merged in file order into the deduplicated
// unknown queue and vulnerable list.
package batch
