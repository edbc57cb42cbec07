package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"robokart/internal/models"
	"robokart/internal/repositories"
)

// EventPublisher publishes domain events to the message broker. A nil
// publisher disables event publication.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// CheckoutService converts a user's cart into an order. It is the only
// writer of orders and the only place stock is reserved, and it must leave
// no partial state behind: either the order exists, stock is decremented and
// the cart is empty, or none of that happened.
type CheckoutService struct {
	cartRepo    repositories.CartRepository
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	cartRepo repositories.CartRepository,
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	publisher EventPublisher,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// Checkout turns the user's cart into a pending order.
//
// Stock is reserved through conditional decrements processed in ascending
// product ID order, so concurrent checkouts touching overlapping products
// contend in a stable order. Any failure after a decrement was applied is
// compensated by incrementing the affected products back before returning,
// and the cart is left untouched on every failure path.
func (s *CheckoutService) Checkout(userID string, address models.ShippingAddress) (*models.Order, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID < items[j].ProductID
	})

	// Re-validate against live products. Cart-time checks are advisory:
	// stock or the product itself may be gone by now.
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrProductUnavailable)
			}
			return nil, err
		}
		if item.Quantity > product.Stock {
			return nil, &InsufficientStockError{
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Stock,
			}
		}
		// Snapshot the current unit price; the order's financials must not
		// move when the catalog price does.
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
	}

	// Reserve stock. The conditional decrement is the authoritative check;
	// the validation pass above only produces friendlier errors for the
	// common case.
	reserved := make([]models.OrderItem, 0, len(orderItems))
	for _, item := range orderItems {
		if err := s.productRepo.DecrementStock(item.ProductID, item.Quantity); err != nil {
			s.releaseStock(reserved)
			if errors.Is(err, repositories.ErrInsufficientStock) {
				stockErr := &InsufficientStockError{ProductName: item.ProductID, Requested: item.Quantity}
				if product, lookupErr := s.productRepo.GetByID(item.ProductID); lookupErr == nil {
					stockErr.ProductName = product.Name
					stockErr.Available = product.Stock
				}
				return nil, stockErr
			}
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrProductUnavailable)
			}
			return nil, err
		}
		reserved = append(reserved, item)
	}

	order := &models.Order{
		UserID:          userID,
		Items:           orderItems,
		Status:          models.OrderStatusPending,
		ShippingAddress: address,
	}
	order.Total = order.CalculateTotal()

	if err := s.orderRepo.Create(order); err != nil {
		s.releaseStock(reserved)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		// Undo the order too; a cart that survives its checkout would let
		// the user buy the same reservation twice.
		if delErr := s.orderRepo.Delete(order.ID); delErr != nil {
			log.Printf("failed to roll back order %s after cart clear failure: %v", order.ID, delErr)
		}
		s.releaseStock(reserved)
		return nil, fmt.Errorf("failed to clear cart after checkout: %w", err)
	}

	s.publishOrderCreated(order)

	return s.withProducts(order)
}

// releaseStock undoes the decrements already applied in this attempt.
func (s *CheckoutService) releaseStock(reserved []models.OrderItem) {
	for _, item := range reserved {
		if err := s.productRepo.IncrementStock(item.ProductID, item.Quantity); err != nil {
			log.Printf("failed to release %d units of product %s: %v", item.Quantity, item.ProductID, err)
		}
	}
}

// publishOrderCreated emits the order.created event. Publication is best
// effort: the order stands even when the broker is down.
func (s *CheckoutService) publishOrderCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.Total,
	})
	if err != nil {
		log.Printf("failed to marshal order created event: %v", err)
		return
	}
	if err := s.publisher.Publish("order.created", body); err != nil {
		log.Printf("failed to publish order created event for order %s: %v", order.ID, err)
	}
}

// withProducts resolves product details onto the order items.
func (s *CheckoutService) withProducts(order *models.Order) (*models.Order, error) {
	for i := range order.Items {
		if order.Items[i].Product != nil {
			continue
		}
		product, err := s.productRepo.GetByID(order.Items[i].ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, err
		}
		order.Items[i].Product = product
	}
	return order, nil
}
