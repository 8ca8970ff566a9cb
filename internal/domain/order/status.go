package order

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

// Status is an order's lifecycle state. The workflow is strictly linear:
// Placed -> Processing -> Delivered, with Delivered terminal.
type Status string

const (
	StatusPlaced     Status = "Placed"
	StatusProcessing Status = "Processing"
	StatusDelivered  Status = "Delivered"
)

// nextStatus maps each state to the single state reachable from it.
// Delivered has no entry: it is terminal.
var nextStatus = map[Status]Status{
	StatusPlaced:     StatusProcessing,
	StatusProcessing: StatusDelivered,
}

var (
	// ErrUnknownStatus is returned for a label outside the three known states.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrSameStatus is returned when a transition targets the current status.
	ErrSameStatus = errors.New("order is already in the requested status")
)

// TransitionError reports a requested transition that is not the single
// allowed forward step. Allowed is empty when the current status is terminal.
type TransitionError struct {
	From    Status
	To      Status
	Allowed Status
}

func (e *TransitionError) Error() string {
	if e.Allowed == "" {
		return fmt.Sprintf("cannot change status from %s to %s: %s is a final state", e.From, e.To, e.From)
	}
	return fmt.Sprintf("cannot change status from %s to %s: next allowed status is %s", e.From, e.To, e.Allowed)
}

// ParseStatus validates a status label.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPlaced, StatusProcessing, StatusDelivered:
		return Status(s), nil
	}
	return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
}

// NextStatus returns the single status reachable from s, or "" when s is
// terminal.
func NextStatus(s Status) Status {
	return nextStatus[s]
}

// TransitionTo applies a status transition at the given time: it validates
// the move, sets the status, and appends a history entry. The order is not
// persisted; callers hand it back to the repository.
func (o *Order) TransitionTo(requested Status, now time.Time) error {
	if _, err := ParseStatus(string(requested)); err != nil {
		return err
	}
	if requested == o.Status {
		return errors.Wrapf(ErrSameStatus, "%s", requested)
	}
	if allowed := nextStatus[o.Status]; requested != allowed {
		return &TransitionError{From: o.Status, To: requested, Allowed: allowed}
	}

	o.Status = requested
	o.StatusHistory = append(o.StatusHistory, StatusChange{Status: requested, Timestamp: now})
	return nil
}
