package models

import "gorm.io/gorm"

// Categories the catalog accepts. The list mirrors the storefront's
// navigation; products outside of it are rejected at creation time.
var ProductCategories = []string{
	"Motors",
	"Soldering Items",
	"Basic Tools",
	"Wheels",
	"Temperature Controller",
	"Batteries",
	"Battery Holders",
	"Chargers",
	"Adaptors",
	"Sensor Modules",
	"Sensors Only",
	"Motor Driver",
	"Board",
	"Other Modules",
}

// ValidCategory reports whether category is one of ProductCategories.
func ValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Product represents a purchasable item in the catalog. Stock is the live
// available quantity and must never go negative; it is only decremented
// through the repository's conditional update.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"required,max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	Image       string  `json:"image" validate:"required"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
