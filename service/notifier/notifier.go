package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/tonytrieu-dev/approval-workflow-service/internal/clock"
	"github.com/tonytrieu-dev/approval-workflow-service/model"
)

// Kind identifies a lifecycle event.
type Kind string

const (
	// KindCreated is dispatched after a new pending request is inserted.
	KindCreated Kind = "created"
	// KindResolved is dispatched after an approver decision is committed.
	KindResolved Kind = "resolved"
	// KindExpired is dispatched after the sweeper forces a request closed.
	KindExpired Kind = "expired"
)

// Event carries a lifecycle notification. Request is a snapshot taken
// after the triggering store mutation committed; sinks may retain it but
// mutations never reach stored state.
type Event struct {
	Kind      Kind                   `json:"kind"`
	Request   *model.ApprovalRequest `json:"request"`
	CreatedAt time.Time              `json:"createdAt"`
}

// NewEvent builds an event around a snapshot of the supplied record.
func NewEvent(kind Kind, record *model.ApprovalRequest) *Event {
	return &Event{
		Kind:      kind,
		Request:   record.Clone(),
		CreatedAt: clock.Now(),
	}
}

// Dispatcher delivers lifecycle events to a sink. Delivery is attempted at
// least once; a returned error is logged by the caller and never fails the
// state transition that produced the event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event *Event) error
}

// Multi fans a single event out to every sink. All sinks are attempted;
// their errors are joined.
type Multi []Dispatcher

// Dispatch delivers the event to each composed sink.
func (m Multi) Dispatch(ctx context.Context, event *Event) error {
	var errs []error
	for _, dispatcher := range m {
		if err := dispatcher.Dispatch(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
