package models

import (
	"time"

	"github.com/google/uuid"
)

// Device is a piece of equipment covered by a guide. Owned exclusively
// by one guide and removed with it.
type Device struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GuideID   uuid.UUID `gorm:"type:uuid;not null;index" json:"guide_id"`
	Guide     *Guide    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
