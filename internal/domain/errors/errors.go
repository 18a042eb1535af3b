package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Categories. Every specific error below wraps exactly one of them.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("temporarily unavailable")
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrAccountNotApproved = errors.New("account not approved")
)

var (
	ErrInvalidRate            = fmt.Errorf("%w: commission rate must be within [0, 100)", ErrValidation)
	ErrInvalidQuantity        = fmt.Errorf("%w: quantity must be positive", ErrValidation)
	ErrInvalidPrice           = fmt.Errorf("%w: price must not be negative", ErrValidation)
	ErrEmptyCart              = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrAddressIncomplete      = fmt.Errorf("%w: shipping address and mobile are required", ErrValidation)
	ErrTrackingNumberRequired = fmt.Errorf("%w: tracking number is required to ship", ErrValidation)
	ErrInvalidAction          = fmt.Errorf("%w: unknown item action", ErrValidation)
	ErrInvalidStatus          = fmt.Errorf("%w: unknown artist status", ErrValidation)
	ErrInvalidRole            = fmt.Errorf("%w: unknown role", ErrValidation)
	ErrInvalidMobile          = fmt.Errorf("%w: invalid mobile number", ErrValidation)
	ErrInvalidDateRange       = fmt.Errorf("%w: from must not be after to", ErrValidation)
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrArtistNotFound  = fmt.Errorf("artist %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)
	ErrItemNotFound    = fmt.Errorf("order item %w", ErrNotFound)
	ErrCartNotFound    = fmt.Errorf("cart %w", ErrNotFound)
)

var (
	ErrInvalidTransition       = fmt.Errorf("%w: invalid shipping status transition", ErrConflict)
	ErrInvalidStatusTransition = fmt.Errorf("%w: invalid artist status transition", ErrConflict)
	ErrOrderInProgress         = fmt.Errorf("%w: order has items in fulfilment, cancel items individually", ErrConflict)
	ErrCartChanged             = fmt.Errorf("%w: cart changed during checkout", ErrConflict)
)

// ConflictError reports a rejected state change together with the state actually observed.
type ConflictError struct {
	Err     error
	Current string
}

// NewConflict builds ConflictError for err observed at current state.
func NewConflict(err error, current string) *ConflictError {
	return &ConflictError{Err: err, Current: current}
}

func (e *ConflictError) Error() string {
	if e.Current == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s (current status %q)", e.Err, e.Current)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// AccountNotApprovedError is returned for artists outside the approved state.
type AccountNotApprovedError struct {
	Status string
}

func (e *AccountNotApprovedError) Error() string {
	return fmt.Sprintf("account status is '%s', only approved artists can log in", strings.ReplaceAll(e.Status, "_", " "))
}

func (e *AccountNotApprovedError) Is(target error) bool {
	return target == ErrAccountNotApproved
}

// CurrentState extracts the state reported by a ConflictError in err's chain.
func CurrentState(err error) (string, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Current, true
	}
	return "", false
}
