// Package store defines the durable storage contract for approval-request
// records: atomic insert-if-absent keyed by idempotency key, conditional
// update keyed by (identity, revision), point read and overdue scan. These
// four operations are the entire surface the lifecycle engine requires.
package store
