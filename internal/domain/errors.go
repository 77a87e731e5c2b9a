package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed input rejected before touching the store.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyCart is returned when checking out a cart without line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrConcurrentModification is returned when a cart vanished mid-checkout.
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrStoreUnavailable wraps connection-level database failures.
	ErrStoreUnavailable = errors.New("store unavailable")
)
