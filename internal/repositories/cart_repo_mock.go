package repositories

import (
	"fmt"
	"sync"

	"robokart/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// Product details on items are not resolved here; pair it with a product
// repository when populated items are needed.
type MockCartRepository struct {
	carts map[string]models.Cart // keyed by user ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

// GetOrCreateByUserID returns the user's cart, creating one if absent.
func (r *MockCartRepository) GetOrCreateByUserID(userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		cart = models.Cart{
			ID:     uuid.New().String(),
			UserID: userID,
			Items:  []models.CartItem{},
		}
		r.carts[userID] = cart
	}
	return copyCart(cart), nil
}

// GetByUserID returns the user's cart.
func (r *MockCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
	}
	return copyCart(cart), nil
}

// Save replaces the stored cart with the given one.
func (r *MockCartRepository) Save(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range cart.Items {
		if cart.Items[i].ID == "" {
			cart.Items[i].ID = uuid.New().String()
		}
		cart.Items[i].CartID = cart.ID
	}
	r.carts[cart.UserID] = *copyCart(*cart)
	return nil
}

// ClearItems removes every item from the cart.
func (r *MockCartRepository) ClearItems(cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, cart := range r.carts {
		if cart.ID == cartID {
			cart.Items = []models.CartItem{}
			r.carts[userID] = cart
			return nil
		}
	}
	return fmt.Errorf("cart with ID %s: %w", cartID, ErrNotFound)
}

// copyCart returns a cart with its own item slice so callers cannot mutate
// the stored state behind the lock.
func copyCart(cart models.Cart) *models.Cart {
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	cart.Items = items
	return &cart
}
