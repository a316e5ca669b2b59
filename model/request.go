package model

import (
	"time"
)

// Status represents the lifecycle state of an approval request.
type Status string

const (
	// StatusPending marks a request awaiting a decision.
	StatusPending Status = "pending"
	// StatusApproved marks a request resolved positively by an approver.
	StatusApproved Status = "approved"
	// StatusRejected marks a request resolved negatively by an approver.
	StatusRejected Status = "rejected"
	// StatusExpired marks a request the timeout sweeper forced closed.
	StatusExpired Status = "expired"
)

// Terminal reports whether no further transition out of the status is
// permitted.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	return s == StatusPending || s.Terminal()
}

// ApprovalRequest represents a request for human sign-off on an agent
// action. All fields except Status, DecidedAt, DecidedBy and Revision are
// immutable after creation.
type ApprovalRequest struct {
	ID             string                 `json:"id"`                  // Globally unique, primary key
	IdempotencyKey string                 `json:"idempotencyKey"`      // Caller-supplied dedup token, unique per logical request
	Status         Status                 `json:"status"`              // See Status constants
	Action         string                 `json:"action"`              // Human-readable description of the gated action
	Context        map[string]interface{} `json:"context,omitempty"`   // Free-form map: tenant, user, arguments, etc.
	RequestedBy    string                 `json:"requestedBy"`         // Identity of the requesting agent
	CreatedAt      time.Time              `json:"createdAt"`           // RFC-3339 timestamp, set once
	ExpiresAt      time.Time              `json:"expiresAt"`           // CreatedAt + timeout window, computed once
	DecidedAt      *time.Time             `json:"decidedAt,omitempty"` // Set exactly once, on the terminal transition
	DecidedBy      string                 `json:"decidedBy,omitempty"` // Approver identity; empty on expiry
	Revision       int64                  `json:"revision"`            // Incremented on every mutation, drives conditional writes
}

// Clone returns a deep copy so that stored records never alias snapshots
// handed to callers or notification sinks.
func (r *ApprovalRequest) Clone() *ApprovalRequest {
	if r == nil {
		return nil
	}
	ret := *r
	if r.Context != nil {
		ret.Context = make(map[string]interface{}, len(r.Context))
		for k, v := range r.Context {
			ret.Context[k] = v
		}
	}
	if r.DecidedAt != nil {
		decidedAt := *r.DecidedAt
		ret.DecidedAt = &decidedAt
	}
	return &ret
}

// Overdue reports whether the request is still pending past its deadline.
func (r *ApprovalRequest) Overdue(now time.Time) bool {
	return r.Status == StatusPending && !r.ExpiresAt.After(now)
}
