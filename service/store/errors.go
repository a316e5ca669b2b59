package store

import "errors"

// Common, reusable store errors. Using sentinel variables allows callers
// to reliably detect error conditions via errors.Is/As instead of brittle
// string comparisons.

var (
	// ErrNotFound is returned when the requested record does not exist in
	// the underlying storage.
	ErrNotFound = errors.New("store: not found")

	// ErrInvalidID indicates that the supplied identity is empty or
	// otherwise invalid.
	ErrInvalidID = errors.New("store: invalid id")

	// ErrNilEntity is returned when the caller attempts to persist a nil
	// record.
	ErrNilEntity = errors.New("store: nil record")

	// ErrStaleRevision is returned by a conditional update whose expected
	// revision no longer matches the stored one. The record was mutated by
	// another actor; the caller must re-read to learn the outcome.
	ErrStaleRevision = errors.New("store: stale revision")

	// ErrUnavailable wraps transient infrastructure failures. Operations
	// failing with it are safe to retry: inserts are idempotent and
	// updates are conditional.
	ErrUnavailable = errors.New("store: unavailable")
)
