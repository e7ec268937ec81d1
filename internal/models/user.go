package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleViewer:
		return true
	}
	return false
}

// User is a staff account identified by employee ID. Accounts are never
// deleted, so there is no soft-delete column.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID string    `gorm:"size:10;not null;uniqueIndex" json:"employee_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Password   string    `gorm:"not null" json:"-"`
	Role       Role      `gorm:"size:20;not null;default:'viewer'" json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
