// Package messaging defines a minimal generic queue abstraction used to
// fan lifecycle events out to notification consumers.
package messaging
