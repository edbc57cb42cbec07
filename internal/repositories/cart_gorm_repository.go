package repositories

import (
	"fmt"
	"robokart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetOrCreateByUserID returns the user's cart with items and products
// populated, creating an empty cart if the user has none yet.
func (r *GORMCartRepository) GetOrCreateByUserID(userID string) (*models.Cart, error) {
	cart, err := r.GetByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	cart = &models.Cart{
		ID:     uuid.New().String(),
		UserID: userID,
		Items:  []models.CartItem{},
	}
	if err := r.db.Omit(clause.Associations).Create(cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, err)
	}
	return cart, nil
}

// GetByUserID returns the user's cart with items and products populated.
func (r *GORMCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items.Product").First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// Save replaces the cart's stored item set with the one held in memory.
// The delete-and-recreate happens inside one transaction so a concurrent
// reader never observes a half-written cart.
func (r *GORMCartRepository) Save(cart *models.Cart) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range cart.Items {
			if cart.Items[i].ID == "" {
				cart.Items[i].ID = uuid.New().String()
			}
			cart.Items[i].CartID = cart.ID
		}
		if err := tx.Omit(clause.Associations).Save(cart).Error; err != nil {
			return err
		}
		if len(cart.Items) > 0 {
			if err := tx.Omit(clause.Associations).Create(&cart.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save cart %s: %w", cart.ID, err)
	}
	return nil
}

// ClearItems removes every item from the cart.
func (r *GORMCartRepository) ClearItems(cartID string) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}
