package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusTerminal(t *testing.T) {
	type testCase struct {
		status   Status
		terminal bool
	}
	tests := []testCase{
		{StatusPending, false},
		{StatusApproved, true},
		{StatusRejected, true},
		{StatusExpired, true},
		{Status("unknown"), false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.terminal, tc.status.Terminal(), "status %v", tc.status)
	}
}

func TestApprovalRequestClone(t *testing.T) {
	decidedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	original := &ApprovalRequest{
		ID:             "r1",
		IdempotencyKey: "key-1",
		Status:         StatusApproved,
		Action:         "delete production table",
		Context:        map[string]interface{}{"table": "users"},
		RequestedBy:    "agent-7",
		CreatedAt:      decidedAt.Add(-time.Minute),
		ExpiresAt:      decidedAt.Add(time.Hour),
		DecidedAt:      &decidedAt,
		DecidedBy:      "alice",
		Revision:       1,
	}

	cloned := original.Clone()
	assert.EqualValues(t, original, cloned)

	// Mutating the clone must not leak back into the original.
	cloned.Context["table"] = "orders"
	*cloned.DecidedAt = decidedAt.Add(time.Hour)
	assert.Equal(t, "users", original.Context["table"])
	assert.Equal(t, decidedAt, *original.DecidedAt)

	var nilRequest *ApprovalRequest
	assert.Nil(t, nilRequest.Clone())
}

func TestApprovalRequestOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pending := &ApprovalRequest{Status: StatusPending, ExpiresAt: now}
	assert.True(t, pending.Overdue(now), "deadline reached counts as overdue")
	assert.False(t, pending.Overdue(now.Add(-time.Second)))

	resolved := &ApprovalRequest{Status: StatusApproved, ExpiresAt: now}
	assert.False(t, resolved.Overdue(now.Add(time.Hour)))
}
