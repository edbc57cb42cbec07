package repositories

import "errors"

// Sentinel errors shared by all repository implementations. Callers match
// them with errors.Is; implementations wrap them with context.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is returned by DecrementStock when the product's
	// available stock is smaller than the requested amount.
	ErrInsufficientStock = errors.New("insufficient stock")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
