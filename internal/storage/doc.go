// Package storage defines the read and write seams for the roll ledger and
// the modifier registry.
//
// The position calculator only reads. Writers (seed tooling, tests, or an
// administration surface living elsewhere) go through BoardWriter. Every
// write bumps the store revision so cached positions derived from older data
// are detected as stale.
//
// Implementations live in subpackages:
//   - memory: process-local, copy-on-read.
//   - sqlite: durable, revision maintained by triggers.
//
// # Error Types
//
//   - ErrNotFound: a requested record is missing.
package storage
