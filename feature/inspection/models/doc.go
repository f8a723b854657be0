// Package models holds the per-run types of an inspection: extracted rows,
// unknown-device candidates, report entries and the two ordered sets that
// deduplicate them.
//
// VulnerableList is keyed by the registry key scheme and keeps the latest
// value for a key. CandidateQueue is always keyed by (model, erpCode) and
// keeps the first candidate seen, so the same part can be queued once per
// inferred model even when the registry uses single keys.
package models
