package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tonytrieu-dev/approval-workflow-service/internal/clock"
	"github.com/tonytrieu-dev/approval-workflow-service/internal/idgen"
	"github.com/tonytrieu-dev/approval-workflow-service/model"
	"github.com/tonytrieu-dev/approval-workflow-service/service/notifier"
	"github.com/tonytrieu-dev/approval-workflow-service/service/store"
	"github.com/tonytrieu-dev/approval-workflow-service/tracing"
)

// CreateInput carries the parameters for a new approval request.
type CreateInput struct {
	IdempotencyKey string                 `json:"idempotencyKey"`
	Action         string                 `json:"action"`
	Context        map[string]interface{} `json:"context,omitempty"`
	RequestedBy    string                 `json:"requestedBy"`
	Timeout        time.Duration          `json:"timeout"`
}

// Service is the approval-request lifecycle engine. It holds no mutable
// state of its own – all cross-actor coordination is delegated to the
// store's conditional-write primitives, so multiple stateless instances
// may run against one store.
type Service interface {
	// Create inserts a new pending request, or returns the existing record
	// unchanged when the idempotency key was seen before.
	Create(ctx context.Context, input *CreateInput) (*model.ApprovalRequest, error)

	// Respond applies an approver decision (approved or rejected) to a
	// pending request. A record already terminal – including one that lost
	// the race to the sweeper – yields *AlreadyResolvedError carrying the
	// status actually reached.
	Respond(ctx context.Context, id string, decision model.Status, decidedBy string) (*model.ApprovalRequest, error)

	// ExpireOverdue transitions every pending request whose deadline is at
	// or before now to expired, returning how many it transitioned.
	// Records lost to a concurrent Respond are skipped silently.
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)

	// Get returns a snapshot of the request, no side effects.
	Get(ctx context.Context, id string) (*model.ApprovalRequest, error)
}

type service struct {
	store      store.Service
	dispatcher notifier.Dispatcher
}

// Option customises the engine.
type Option func(*service)

// WithDispatcher sets the notification dispatcher. Defaults to the log
// sink.
func WithDispatcher(dispatcher notifier.Dispatcher) Option {
	return func(s *service) { s.dispatcher = dispatcher }
}

// New creates a lifecycle engine backed by the supplied store.
func New(requestStore store.Service, options ...Option) (Service, error) {
	if requestStore == nil {
		return nil, fmt.Errorf("request store is required")
	}
	ret := &service{
		store:      requestStore,
		dispatcher: &notifier.Log{},
	}
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}

func (s *service) Create(ctx context.Context, input *CreateInput) (record *model.ApprovalRequest, err error) {
	ctx, span := tracing.StartSpan(ctx, "engine.Create")
	defer func() { tracing.EndSpan(span, err) }()

	if input == nil {
		return nil, fmt.Errorf("%w: nil input", ErrInvalidInput)
	}
	if input.Action == "" {
		return nil, fmt.Errorf("%w: empty action", ErrInvalidInput)
	}
	if input.Timeout <= 0 {
		return nil, fmt.Errorf("%w: non-positive timeout %v", ErrInvalidInput, input.Timeout)
	}
	if input.IdempotencyKey == "" {
		return nil, fmt.Errorf("%w: empty idempotency key", ErrInvalidInput)
	}

	now := clock.Now()
	candidate := &model.ApprovalRequest{
		ID:             idgen.New(),
		IdempotencyKey: input.IdempotencyKey,
		Status:         model.StatusPending,
		Action:         input.Action,
		Context:        input.Context,
		RequestedBy:    input.RequestedBy,
		CreatedAt:      now,
		ExpiresAt:      now.Add(input.Timeout),
		Revision:       0,
	}
	span.WithAttributes(map[string]string{"request.id": candidate.ID})

	stored, created, err := s.store.Insert(ctx, candidate)
	if err != nil {
		return nil, err
	}
	// Idempotent replay: the winner's record comes back unchanged and no
	// duplicate notification is emitted.
	if created {
		s.dispatch(ctx, notifier.KindCreated, stored)
	}
	return stored, nil
}

func (s *service) Respond(ctx context.Context, id string, decision model.Status, decidedBy string) (record *model.ApprovalRequest, err error) {
	ctx, span := tracing.StartSpan(ctx, "engine.Respond")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"request.id": id, "decision": string(decision)})

	if decision != model.StatusApproved && decision != model.StatusRejected {
		return nil, fmt.Errorf("%w: decision must be %s or %s, got %q",
			ErrInvalidInput, model.StatusApproved, model.StatusRejected, decision)
	}

	current, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != model.StatusPending {
		return nil, &AlreadyResolvedError{ID: id, Status: current.Status}
	}

	now := clock.Now()
	next := current.Clone()
	next.Status = decision
	next.DecidedAt = &now
	next.DecidedBy = decidedBy
	next.Revision = current.Revision + 1

	if err = s.store.Update(ctx, next, current.Revision); err != nil {
		if errors.Is(err, store.ErrStaleRevision) {
			// Another actor won the race; report the outcome it fixed.
			return nil, s.resolvedError(ctx, id)
		}
		return nil, err
	}
	s.dispatch(ctx, notifier.KindResolved, next)
	return next, nil
}

func (s *service) ExpireOverdue(ctx context.Context, now time.Time) (count int, err error) {
	ctx, span := tracing.StartSpan(ctx, "engine.ExpireOverdue")
	defer func() { tracing.EndSpan(span, err) }()

	overdue, err := s.store.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, current := range overdue {
		next := current.Clone()
		next.Status = model.StatusExpired
		decidedAt := now
		next.DecidedAt = &decidedAt
		next.DecidedBy = ""
		next.Revision = current.Revision + 1

		if updateErr := s.store.Update(ctx, next, current.Revision); updateErr != nil {
			// Lost the race to a concurrent responder – the record is
			// already correctly terminal via the other path.
			if errors.Is(updateErr, store.ErrStaleRevision) {
				continue
			}
			err = updateErr
			return count, err
		}
		count++
		s.dispatch(ctx, notifier.KindExpired, next)
	}
	span.WithAttributes(map[string]string{"expired.count": fmt.Sprintf("%d", count)})
	return count, nil
}

func (s *service) Get(ctx context.Context, id string) (*model.ApprovalRequest, error) {
	return s.store.Load(ctx, id)
}

// resolvedError re-reads the record after a lost conditional write so the
// caller sees the terminal status the winner reached.
func (s *service) resolvedError(ctx context.Context, id string) error {
	latest, err := s.store.Load(ctx, id)
	if err != nil {
		return err
	}
	return &AlreadyResolvedError{ID: id, Status: latest.Status}
}

// dispatch attempts delivery once. The transition is already durable, so a
// sink failure is logged and never propagated.
func (s *service) dispatch(ctx context.Context, kind notifier.Kind, record *model.ApprovalRequest) {
	if err := s.dispatcher.Dispatch(ctx, notifier.NewEvent(kind, record)); err != nil {
		log.Printf("failed to dispatch %s notification for %s: %v", kind, record.ID, err)
	}
}

var _ Service = (*service)(nil)
