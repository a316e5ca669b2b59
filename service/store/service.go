package store

import (
	"context"
	"time"

	"github.com/tonytrieu-dev/approval-workflow-service/model"
)

// Service is the storage contract the lifecycle engine consumes. Any
// backend providing genuine atomicity for Insert and Update is
// substitutable – the engine delegates all cross-actor coordination to
// these two primitives and holds no shared state of its own.
type Service interface {
	// Insert stores the record if no record exists for its idempotency
	// key. On a key conflict it returns the previously stored record with
	// created == false – the loser of a concurrent race observes the
	// winner, never an error and never a second record.
	Insert(ctx context.Context, record *model.ApprovalRequest) (stored *model.ApprovalRequest, created bool, err error)

	// Update swaps the stored record for the supplied one, but only when
	// the stored revision still equals expectedRevision. A moved revision
	// yields ErrStaleRevision without side effect.
	Update(ctx context.Context, record *model.ApprovalRequest, expectedRevision int64) error

	// Load returns a snapshot of the record by identity, or ErrNotFound.
	Load(ctx context.Context, id string) (*model.ApprovalRequest, error)

	// ListOverdue returns pending records with ExpiresAt at or before
	// cutoff.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]*model.ApprovalRequest, error)
}
