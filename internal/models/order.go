package models

import "gorm.io/gorm"

// Order lifecycle states.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
)

// ValidOrderStatus reports whether status is one of the lifecycle states.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// ShippingAddress is the address snapshot frozen into an order at checkout.
type ShippingAddress struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// OrderItem is a frozen snapshot of one cart line at checkout time. Price is
// the unit price copied from the product when the order was created, so the
// financial record is unaffected by later price changes.
type OrderItem struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string   `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string   `json:"product_id" gorm:"type:varchar(36)"`
	Quantity  int      `json:"quantity" validate:"required,min=1"`
	Price     float64  `json:"price" validate:"gte=0"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Order represents a completed purchase. Everything except Status is
// immutable once created.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Total           float64         `json:"total" validate:"gte=0"`
	Status          string          `json:"status" gorm:"type:varchar(20);default:pending"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:ship_"`
	gorm.Model                      // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// CalculateTotal returns the sum of price × quantity across all items.
func (o *Order) CalculateTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
