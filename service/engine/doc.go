// Package engine implements the approval-request lifecycle: idempotent
// creation, concurrency-safe decision application and forced expiry.
// Correctness under racing actors rests entirely on the store's
// conditional-write primitive – the engine never locks a record across the
// human-timescale wait for a decision.
package engine
