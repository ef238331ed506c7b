package order

import (
	"errors"
	"strings"
)

// Status is one step of the order fulfilment workflow.
type Status string

// Order lifecycle steps. CANCELED is only reachable before the kitchen
// starts preparing the order.
const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusPreparing  Status = "PREPARING"
	StatusDelivering Status = "DELIVERING"
	StatusDelivered  Status = "DELIVERED"
	StatusCanceled   Status = "CANCELED"
)

// ErrInvalidTransition is returned when a status change would break the workflow.
var ErrInvalidTransition = errors.New("invalid order status transition")

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, bool) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusDelivering, StatusDelivered, StatusCanceled:
		return status, true
	}
	return "", false
}

// CanTransition reports whether the workflow permits moving current to next.
// Staying on the same status is not a move and is rejected here; callers that
// want idempotent updates must short-circuit before consulting the table.
func CanTransition(current, next Status) bool {
	switch current {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCanceled
	case StatusConfirmed:
		return next == StatusPreparing || next == StatusCanceled
	case StatusPreparing:
		return next == StatusDelivering
	case StatusDelivering:
		return next == StatusDelivered
	default:
		return false
	}
}

// Cancelable reports whether the customer may still cancel the order.
func Cancelable(current Status) bool {
	return CanTransition(current, StatusCanceled)
}

// Rank orders statuses along the fulfilment stepper for progress display.
func Rank(s Status) int {
	switch s {
	case StatusPending:
		return 0
	case StatusConfirmed:
		return 1
	case StatusPreparing:
		return 2
	case StatusDelivering:
		return 3
	case StatusDelivered:
		return 4
	case StatusCanceled:
		return -1
	default:
		return -2
	}
}
