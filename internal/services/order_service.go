package services

import (
	"encoding/json"
	"fmt"
	"log"

	"robokart/internal/models"
	"robokart/internal/repositories"
)

// OrderService handles order reads and the admin-only status transitions.
// Orders are created exclusively by the CheckoutService.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// GetAllOrders retrieves all orders, newest first. Admin only.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrdersForUser retrieves the user's own orders, newest first.
func (s *OrderService) GetOrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetAllByUserID(userID)
}

// GetOrder retrieves a single order, restricted to its owner or an admin.
func (s *OrderService) GetOrder(id string, caller *Identity) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.UserID && caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("order %s does not belong to caller: %w", id, ErrForbidden)
	}
	return order, nil
}

// UpdateStatus moves an order to a new lifecycle status. Transitions are
// unrestricted beyond status validity so admins can correct mistakes, e.g.
// pull a mistakenly delivered order back to processing.
func (s *OrderService) UpdateStatus(id string, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, err)
	}

	s.publishStatusUpdated(id, status)
	return nil
}

// publishStatusUpdated emits the order.status_updated event, best effort.
func (s *OrderService) publishStatusUpdated(orderID, status string) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	if err != nil {
		log.Printf("failed to marshal order status event: %v", err)
		return
	}
	if err := s.publisher.Publish("order.status_updated", body); err != nil {
		log.Printf("failed to publish status update event for order %s: %v", orderID, err)
	}
}
