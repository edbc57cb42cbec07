package repositories

import (
	"robokart/internal/models"
)

// CartRepository defines the interface for cart data access. Carts are
// returned with their items and each item's product populated.
type CartRepository interface {
	// GetOrCreateByUserID returns the user's cart, creating an empty one
	// if none exists yet. Idempotent.
	GetOrCreateByUserID(userID string) (*models.Cart, error)

	// GetByUserID returns the user's cart, or ErrNotFound.
	GetByUserID(userID string) (*models.Cart, error)

	// Save persists the cart and its items as currently held in memory,
	// replacing the stored item set.
	Save(cart *models.Cart) error

	// ClearItems removes every item from the cart.
	ClearItems(cartID string) error
}
