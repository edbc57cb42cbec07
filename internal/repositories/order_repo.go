package repositories

import (
	"robokart/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetAllByUserID(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status string) error

	// Delete exists only so an aborted checkout can undo the order it just
	// created; it is never exposed through the HTTP surface.
	Delete(id string) error
}
