// Package http implements the handlers of the read-only results API.
//
// Handlers stay thin: they parse the request, call a service through one of
// the interfaces in services.go, and render JSON with go-chi/render. Every
// failure is written as an RFC 7807 problem by errors.ErrorHandler.
//
// Routes:
//
//	GET /healthz                          liveness and output directory status
//	GET /api/v1/chunks                    chunks with SNR output
//	GET /api/v1/chunks/{chunk}/snr        accepted SNR records of a chunk
//	GET /api/v1/chunks/{chunk}/skipped    skipped channels of a chunk
package http
