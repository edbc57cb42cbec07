package repositories

import (
	"robokart/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	// DecrementStock atomically subtracts amount from the product's stock,
	// failing with ErrInsufficientStock if less than amount is available.
	// Two concurrent decrements must never drive the stock negative, so
	// implementations use a conditional update, not read-then-write.
	DecrementStock(id string, amount int) error

	// IncrementStock adds amount back to the product's stock. It is the
	// compensation counterpart of DecrementStock used when a checkout
	// aborts after some reservations were already applied.
	IncrementStock(id string, amount int) error
}
