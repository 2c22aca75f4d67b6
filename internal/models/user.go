// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Roles a user account can hold. There is no role-change endpoint; roles
// are assigned at registration (user) or by the createadmin command.
const (
	RoleUser     = "user"
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleReviewer || r == RoleAdmin
}

// User represents an account in the Wayfare application.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Nickname  string    `gorm:"not null" json:"nickname"`
	Avatar    string    `json:"avatar"`
	Role      string    `gorm:"not null;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Travels   []Travel  `gorm:"foreignKey:AuthorID" json:"travels,omitempty"`
}

// CanReview reports whether the user's role may review travels.
func (u *User) CanReview() bool {
	return u.Role == RoleReviewer || u.Role == RoleAdmin
}
