package notifier

import (
	"context"

	"github.com/tonytrieu-dev/approval-workflow-service/service/messaging"
	qmem "github.com/tonytrieu-dev/approval-workflow-service/service/messaging/memory"
)

// QueueSink publishes lifecycle events onto a messaging queue so that
// programmatic consumers (agent resumption transport, chat bridges) can
// subscribe without coupling to the engine.
type QueueSink struct {
	events messaging.Queue[Event]
}

// NewQueueSink wraps an existing queue.
func NewQueueSink(queue messaging.Queue[Event]) *QueueSink {
	return &QueueSink{events: queue}
}

// NewMemoryQueueSink creates a sink backed by a fresh in-memory queue.
func NewMemoryQueueSink() *QueueSink {
	return NewQueueSink(qmem.NewQueue[Event](qmem.DefaultConfig()))
}

// Dispatch publishes the event.
func (s *QueueSink) Dispatch(ctx context.Context, event *Event) error {
	return s.events.Publish(ctx, event)
}

// Queue exposes the underlying queue for consumers.
func (s *QueueSink) Queue() messaging.Queue[Event] {
	return s.events
}

// Ensure QueueSink implements Dispatcher.
var _ Dispatcher = (*QueueSink)(nil)
