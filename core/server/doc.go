// Package server holds the HTTP server configuration.
//
// The cmd/start command builds the fiber application from this Config: the
// listen address, the body limit used for spreadsheet uploads and the grace
// period given to in-flight requests on shutdown.
package server
