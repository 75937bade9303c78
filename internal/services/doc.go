// Package services holds the read-side logic behind the results server.
//
// ResultsService lists the chunks that have SNR output and loads their
// accepted and skipped tables from the SNR directory. HealthService reports
// liveness and whether the output directories can be read. Handlers in
// internal/transport/http depend on these services through small interfaces
// so they can be tested with mocks.
package services
