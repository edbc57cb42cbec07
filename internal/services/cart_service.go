package services

import (
	"errors"
	"fmt"
	"log"

	"robokart/internal/models"
	"robokart/internal/repositories"
)

// CartService handles business logic for the per-user shopping cart. Stock
// checks here are advisory — they keep the cart honest at mutation time, but
// the checkout re-validates against live stock before reserving anything.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.withProducts(cart)
}

// AddItem puts quantity units of the product into the user's cart. If the
// product is already in the cart the quantities are summed; the combined
// quantity is checked against the product's live stock.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	if existing := cart.ItemByProduct(productID); existing != nil {
		newQuantity += existing.Quantity
	}
	if newQuantity > product.Stock {
		return nil, &InsufficientStockError{
			ProductName: product.Name,
			Requested:   newQuantity,
			Available:   product.Stock,
		}
	}

	if existing := cart.ItemByProduct(productID); existing != nil {
		existing.Quantity = newQuantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: productID,
			Quantity:  quantity,
		})
	}

	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return s.withProducts(cart)
}

// UpdateItem sets the quantity of an existing cart line.
func (s *CartService) UpdateItem(userID, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	item := cart.ItemByID(itemID)
	if item == nil {
		return nil, fmt.Errorf("cart item with ID %s: %w", itemID, repositories.ErrNotFound)
	}

	product, err := s.productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, &InsufficientStockError{
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.Stock,
		}
	}

	item.Quantity = quantity
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return s.withProducts(cart)
}

// RemoveItem removes a cart line. Removing an item that is not in the cart
// is a no-op, not an error.
func (s *CartService) RemoveItem(userID, itemID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return s.GetCart(userID)
		}
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return s.withProducts(cart)
}

// withProducts resolves product details onto cart items that came back
// without them, so callers always see populated lines.
func (s *CartService) withProducts(cart *models.Cart) (*models.Cart, error) {
	for i := range cart.Items {
		if cart.Items[i].Product != nil {
			continue
		}
		product, err := s.productRepo.GetByID(cart.Items[i].ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				// An item can outlive its product; the checkout rejects it,
				// the cart view just shows the line without details.
				log.Printf("cart %s references missing product %s", cart.ID, cart.Items[i].ProductID)
				continue
			}
			return nil, err
		}
		cart.Items[i].Product = product
	}
	return cart, nil
}
