package models

import (
	"time"

	"github.com/google/uuid"
)

// FaultCase describes one failure condition of a device.
type FaultCase struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DeviceID    uuid.UUID `gorm:"type:uuid;not null;index" json:"device_id"`
	Device      *Device   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
