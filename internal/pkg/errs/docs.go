// Package errs defines the standardized error types used across the order
// lifecycle service.
//
// Every error category follows one pattern:
//   - a sentinel variable for errors.Is checks (e.g. ErrObjectNotFound,
//     ErrConcurrencyConflict)
//   - a struct carrying the failing parameter, value, and optional cause
//   - constructors with and without a cause
//   - Error() formatting and Unwrap() returning the sentinel
//
// Callers branch on the sentinels; the structs exist for messages and for
// errors.As when a handler needs the details. The concurrency conflict type
// backs the repository's compare-and-swap writes, where a lost race must be
// distinguishable from a missing object.
package errs
