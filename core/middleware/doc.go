// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - RayID: generates a unique request ID for every incoming request,
//     storing it in the context locals and the X-Ray-ID response header.
//
// Middleware is registered globally in cmd/start before the features load.
package middleware
