// Package reconcile implements the human-in-the-loop transition that turns
// unknown-device candidates into registry records.
//
// Confirm is a pure function: it takes the current State and the operator's
// decisions and returns the next State plus the Effects the caller must
// apply (persist the devices, then refresh the registry view). Validation
// covers every decision before any effect is returned.
package reconcile
