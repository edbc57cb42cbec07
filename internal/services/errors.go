package services

import (
	"errors"
	"fmt"
)

// Business failures surfaced to the HTTP boundary. Handlers match them with
// errors.Is / errors.As and map them to response codes; anything else is
// treated as an internal error, logged with detail and answered generically.
var (
	// ErrCartEmpty is returned when checkout is attempted with no items.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrProductUnavailable is returned when a cart item's product was
	// deleted between cart-time and checkout-time.
	ErrProductUnavailable = errors.New("product no longer available")

	// ErrInvalidStatus is returned for a status outside the order lifecycle.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrForbidden is returned when the caller lacks the privilege or
	// ownership required for the operation.
	ErrForbidden = errors.New("forbidden")
)

// InsufficientStockError is returned when a requested quantity exceeds the
// product's live stock. It carries the product name for user display.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s (requested: %d, available: %d)",
		e.ProductName, e.Requested, e.Available)
}
