package notifier

import (
	"context"
	"log"
)

// Log writes one line per lifecycle event using the standard logger. It is
// the default sink and the "log line" notification channel.
type Log struct{}

// Dispatch logs the event.
func (l *Log) Dispatch(_ context.Context, event *Event) error {
	record := event.Request
	switch event.Kind {
	case KindResolved:
		log.Printf("approval %s: %s %q by %s", event.Kind, record.Status, record.ID, record.DecidedBy)
	case KindExpired:
		log.Printf("approval %s: %q requested by %s (deadline %s)", event.Kind, record.ID, record.RequestedBy, record.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"))
	default:
		log.Printf("approval %s: %q action %q requested by %s", event.Kind, record.ID, record.Action, record.RequestedBy)
	}
	return nil
}

// Ensure Log implements Dispatcher.
var _ Dispatcher = (*Log)(nil)
