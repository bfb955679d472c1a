// Package utils provides concurrency helpers for the tempograph library.
//
// This package contains:
//   - Bounded concurrent execution (concurrent.go)
//   - Panic recovery helpers (recovery.go)
package utils
