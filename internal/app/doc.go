// Package app wires the results server: services, handlers, middleware and
// the HTTP server lifecycle.
//
// Middleware order is RequestID, RealIP, OTel, StructuredLogger, Recoverer,
// SecurityHeaders, RateLimiter. /metrics sits outside the group so scrapes are
// neither rate limited nor logged per request.
//
// The server never calls os.Exit; Serve returns once ctx is cancelled and
// in-flight requests have drained or the shutdown timeout has elapsed.
package app
