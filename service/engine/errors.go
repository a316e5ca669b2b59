package engine

import (
	"errors"
	"fmt"

	"github.com/tonytrieu-dev/approval-workflow-service/model"
)

// ErrInvalidInput is returned when creation or decision parameters are
// malformed. Caller error – do not retry.
var ErrInvalidInput = errors.New("engine: invalid input")

// AlreadyResolvedError is returned when a transition is attempted on a
// record that has already reached a terminal state. Status carries the
// outcome actually reached so the caller learns it without a second round
// trip.
type AlreadyResolvedError struct {
	ID     string
	Status model.Status
}

// Error implements the error interface.
func (e *AlreadyResolvedError) Error() string {
	return fmt.Sprintf("engine: request %s already resolved as %s", e.ID, e.Status)
}

// AsAlreadyResolved extracts an AlreadyResolvedError from err, if any.
func AsAlreadyResolved(err error) (*AlreadyResolvedError, bool) {
	var resolved *AlreadyResolvedError
	if errors.As(err, &resolved) {
		return resolved, true
	}
	return nil, false
}
