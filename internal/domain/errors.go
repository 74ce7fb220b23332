package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates the operation lost against the entity's current state,
	// e.g. re-confirming a non-pending payment or a CAS write that matched no row.
	ErrConflict = errors.New("conflict")
	// ErrEmptyCart rejects checkout and summary on a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
)

// ValidationError is a caller-fixable input problem. No state is mutated
// when one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UnavailableItemsError names every cart line whose menu item is gone or
// no longer available, so the caller can fix the cart in one pass.
type UnavailableItemsError struct {
	Names []string
}

func (e *UnavailableItemsError) Error() string {
	return "items no longer available: " + strings.Join(e.Names, ", ")
}

// InvalidTransitionError rejects a move that is not on the status graph.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// ProcessorError wraps a payment-gateway failure so callers can retry the
// payment without re-running checkout.
type ProcessorError struct {
	Op  string
	Err error
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("payment processor %s: %v", e.Op, e.Err)
}

func (e *ProcessorError) Unwrap() error { return e.Err }
