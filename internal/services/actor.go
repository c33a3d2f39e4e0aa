package services

import "github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Name string
	Role string
}

func (a Actor) IsStaff() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleSupreme
}

func (a Actor) IsSupreme() bool {
	return a.Role == models.RoleSupreme
}
