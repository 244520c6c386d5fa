// Package storage provides the local key/value stores that hold the
// persisted session.
//
// Implementations:
//   - Memory: process-local map, used by tests and one-shot tools
//   - File: one JSON document per directory, replaced atomically on write
//   - Sealed: wraps another Store and encrypts every value with
//     XChaCha20-Poly1305
//
// Values are opaque strings. All failures are returned as *PersistenceError.
package storage
