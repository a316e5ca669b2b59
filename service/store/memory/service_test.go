package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tonytrieu-dev/approval-workflow-service/model"
	"github.com/tonytrieu-dev/approval-workflow-service/service/store"
)

func newRecord(id, key string, expiresAt time.Time) *model.ApprovalRequest {
	return &model.ApprovalRequest{
		ID:             id,
		IdempotencyKey: key,
		Status:         model.StatusPending,
		Action:         "send email",
		RequestedBy:    "agent-1",
		CreatedAt:      expiresAt.Add(-time.Minute),
		ExpiresAt:      expiresAt,
	}
}

func TestInsertIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	first, created, err := s.Insert(ctx, newRecord("r1", "key-1", now))
	assert.NoError(t, err)
	assert.True(t, created)

	// Same key, different identity: must return the original record.
	second, created, err := s.Insert(ctx, newRecord("r2", "key-1", now))
	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	// The loser's record was never stored.
	_, err = s.Load(ctx, "r2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsertConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	const callers = 16
	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record := newRecord("r"+string(rune('a'+i)), "shared", now)
			stored, _, err := s.Insert(ctx, record)
			assert.NoError(t, err)
			ids[i] = stored.ID
		}(i)
	}
	wg.Wait()

	// Every caller observed the same winning identity.
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestUpdateConditional(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()
	_, _, err := s.Insert(ctx, newRecord("r1", "key-1", now))
	assert.NoError(t, err)

	loaded, err := s.Load(ctx, "r1")
	assert.NoError(t, err)

	next := loaded.Clone()
	next.Status = model.StatusApproved
	next.DecidedBy = "alice"
	next.Revision = loaded.Revision + 1
	assert.NoError(t, s.Update(ctx, next, loaded.Revision))

	// The same expected revision is now stale.
	assert.ErrorIs(t, s.Update(ctx, next, loaded.Revision), store.ErrStaleRevision)

	// A stale update left the record untouched.
	current, err := s.Load(ctx, "r1")
	assert.NoError(t, err)
	assert.Equal(t, model.StatusApproved, current.Status)
	assert.Equal(t, int64(1), current.Revision)

	assert.ErrorIs(t, s.Update(ctx, newRecord("missing", "k", now), 0), store.ErrNotFound)
}

func TestListOverdue(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	_, _, _ = s.Insert(ctx, newRecord("due", "k1", now.Add(-time.Second)))
	_, _, _ = s.Insert(ctx, newRecord("exact", "k2", now))
	_, _, _ = s.Insert(ctx, newRecord("future", "k3", now.Add(time.Hour)))

	resolved := newRecord("resolved", "k4", now.Add(-time.Hour))
	_, _, _ = s.Insert(ctx, resolved)
	next := resolved.Clone()
	next.Status = model.StatusRejected
	next.Revision = 1
	assert.NoError(t, s.Update(ctx, next, 0))

	overdue, err := s.ListOverdue(ctx, now)
	assert.NoError(t, err)
	ids := make([]string, 0, len(overdue))
	for _, record := range overdue {
		ids = append(ids, record.ID)
	}
	assert.ElementsMatch(t, []string{"due", "exact"}, ids)
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	ctx := context.Background()
	s := New()
	record := newRecord("r1", "key-1", time.Now())
	record.Context = map[string]interface{}{"env": "prod"}

	stored, _, err := s.Insert(ctx, record)
	assert.NoError(t, err)

	// Mutating either the input or a returned snapshot must not reach the
	// stored copy.
	record.Context["env"] = "dev"
	stored.Context["env"] = "staging"

	loaded, err := s.Load(ctx, "r1")
	assert.NoError(t, err)
	assert.Equal(t, "prod", loaded.Context["env"])
}
