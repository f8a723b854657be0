// Package inspection implements the spare-parts inspection feature.
//
// A run takes a batch of equipment spreadsheets, classifies every row against
// the device registry and keeps the result in memory until an operator has
// decided on the unknown devices:
//  1. Process: batch.Runner scans and classifies the files.
//  2. Confirm: reconcile.Confirm turns the decisions into registry writes and
//     report entries; the service applies the writes before the run advances.
//  3. Report: report.Vulnerable lays out the entries, core/sheet renders xlsx.
//
// # Components
//
//   - Service: Owns the runs and applies reconciliation effects.
//   - Handler: Exposes the run lifecycle over HTTP.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /runs : Upload spreadsheets (multipart field "files").
//   - GET /runs/:id : Get a run.
//   - POST /runs/:id/confirm : Submit one decision per unknown device.
//   - GET /runs/:id/report : Download the report.
//   - DELETE /runs/:id : Drop a run.
package inspection
