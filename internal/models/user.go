package models

import "gorm.io/gorm"

// Roles a user can carry.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a customer of the store. Accounts are provisioned by an
// external identity flow; this service only reads them to resolve the
// caller's identity and current role.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Role       string `json:"role" gorm:"type:varchar(20);default:user" validate:"omitempty,oneof=user admin"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// IsAdmin reports whether the user may perform privileged operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
