package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyCart is returned when an order is submitted without cart items.
	ErrEmptyCart = errors.New("no items in cart")
	// ErrInvalidQuantity is returned when a cart add carries a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrInvalidTransition is returned when an order status change is not allowed
	// from the order's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)
