package orderbook

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateToken = errors.New("Token already registered")
	ErrCapacity       = errors.New("Max tokens reached")
	ErrInvalidAmount  = errors.New("amount must be a non-negative integer")
)

// NotFoundError is returned when a token lookup misses in either direction.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

// DuplicateTokenError is returned by AddToken when the address is already registered.
type DuplicateTokenError struct {
	Address string
}

func (e *DuplicateTokenError) Error() string { return ErrDuplicateToken.Error() }
func (e *DuplicateTokenError) Unwrap() error { return ErrDuplicateToken }

// CapacityError is returned by AddToken once the token table is full.
type CapacityError struct {
	Max int
}

func (e *CapacityError) Error() string { return ErrCapacity.Error() }
func (e *CapacityError) Unwrap() error { return ErrCapacity }

func errAddressNotFound() error {
	return &NotFoundError{Msg: "Must have Address to get ID"}
}

func errIDNotFound() error {
	return &NotFoundError{Msg: "Must have ID to get Address"}
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func invalidAmount(field string) error {
	return fmt.Errorf("%s: %w", field, ErrInvalidAmount)
}
