// Package shared holds helpers used by more than one pipeline package.
//
// testutil provides a capturing slog handler and CSV fixture writers so stage
// tests can assert on log output and build chunk files in t.TempDir() without
// repeating boilerplate.
package shared
