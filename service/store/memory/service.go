package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tonytrieu-dev/approval-workflow-service/model"
	"github.com/tonytrieu-dev/approval-workflow-service/service/store"
)

// Service is the in-memory reference implementation of store.Service. It
// keeps records keyed both by identity and by idempotency key under a
// single mutex, which makes insert-if-absent and the revision swap
// genuinely atomic with respect to each other.
//
// Records are cloned on the way in and on the way out so that no caller
// ever holds an alias of stored state.
type Service struct {
	mu      sync.RWMutex
	records map[string]*model.ApprovalRequest // by identity
	byKey   map[string]string                 // idempotency key -> identity
}

// New creates an empty in-memory store.
func New() *Service {
	return &Service{
		records: make(map[string]*model.ApprovalRequest),
		byKey:   make(map[string]string),
	}
}

// Insert stores record unless its idempotency key is already taken, in
// which case the existing record is returned unchanged.
func (s *Service) Insert(_ context.Context, record *model.ApprovalRequest) (*model.ApprovalRequest, bool, error) {
	if record == nil {
		return nil, false, store.ErrNilEntity
	}
	if record.ID == "" {
		return nil, false, store.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byKey[record.IdempotencyKey]; ok {
		return s.records[id].Clone(), false, nil
	}
	s.records[record.ID] = record.Clone()
	s.byKey[record.IdempotencyKey] = record.ID
	return record.Clone(), true, nil
}

// Update swaps the stored record when the revision still matches.
func (s *Service) Update(_ context.Context, record *model.ApprovalRequest, expectedRevision int64) error {
	if record == nil {
		return store.ErrNilEntity
	}
	if record.ID == "" {
		return store.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[record.ID]
	if !ok {
		return store.ErrNotFound
	}
	if current.Revision != expectedRevision {
		return store.ErrStaleRevision
	}
	s.records[record.ID] = record.Clone()
	return nil
}

// Load returns a snapshot of the record by identity.
func (s *Service) Load(_ context.Context, id string) (*model.ApprovalRequest, error) {
	if id == "" {
		return nil, store.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return record.Clone(), nil
}

// ListOverdue returns pending records whose deadline is at or before
// cutoff.
func (s *Service) ListOverdue(_ context.Context, cutoff time.Time) ([]*model.ApprovalRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var overdue []*model.ApprovalRequest
	for _, record := range s.records {
		if record.Overdue(cutoff) {
			overdue = append(overdue, record.Clone())
		}
	}
	return overdue, nil
}

// Ensure Service implements store.Service.
var _ store.Service = (*Service)(nil)
