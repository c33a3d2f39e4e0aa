package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleSupreme = "supreme"
)

// User is a resident or staff account. Username is the login email; the
// same email may exist once per role.
type User struct {
	ID           uint                        `gorm:"primaryKey" json:"-"`
	Username     string                      `gorm:"size:255;not null;uniqueIndex:idx_users_username_role" json:"username"`
	PasswordHash string                      `gorm:"not null" json:"-"`
	Role         string                      `gorm:"size:20;not null;default:'user';uniqueIndex:idx_users_username_role" json:"role"`
	Name         string                      `gorm:"size:255" json:"name"`
	Aadhaar      string                      `gorm:"size:20" json:"aadhaar"`
	Phone        string                      `gorm:"size:20" json:"phone"`
	Address      string                      `gorm:"size:500" json:"address"`
	FamilySize   int                         `json:"familySize"`
	PropertyType string                      `gorm:"size:50" json:"propertyType"`
	Photo        string                      `gorm:"type:text" json:"photo"`
	Badges       datatypes.JSONSlice[string] `json:"badges"`
	Points       int                         `gorm:"not null;default:0" json:"points"`
	CreatedAt    time.Time                   `json:"createdAt"`
}

// ValidRole reports whether role is one of the three account roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleSupreme
}
