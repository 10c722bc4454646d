package models

import "strings"

// Platform roles. Every user holds exactly one.
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
	RoleBuyer  = "buyer"
)

// User describes a platform account: admins moderate listings, sellers own
// them, buyers inquire and favorite.
type User struct {
	BaseModel

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `gorm:"type:varchar(15)" json:"phone"`
	Bio       string `gorm:"type:text" json:"bio"`
	Avatar    string `json:"avatar"`

	Role     string `gorm:"type:varchar(10);not null;default:'buyer';index" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// DisplayName returns the user's full name, falling back to the username when
// no name has been set.
func (u *User) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full == "" {
		return u.Username
	}
	return full
}

// ValidRole reports whether the supplied role is one of the platform roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return true
	}
	return false
}
