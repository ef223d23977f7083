// Package store persists analysis results in a SQLite database.
//
// Each analyzed file is keyed by the SHA-256 of its bytes, so re-analyzing
// the same file replaces the earlier record. Batch imports are grouped under
// run records. The schema is embedded and versioned; a database written by a
// different schema version is refused with ErrSchemaMismatch.
package store
