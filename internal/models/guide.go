package models

import (
	"time"

	"github.com/google/uuid"
)

// Guide is a work-instruction document and the root of the
// device/fault/step hierarchy.
type Guide struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobTypeID     *uuid.UUID `gorm:"type:uuid;index" json:"job_type_id"`
	JobType       *JobType   `gorm:"constraint:OnDelete:SET NULL" json:"job_type,omitempty"`
	System        string     `gorm:"size:100" json:"system"`
	Subsystem     string     `gorm:"size:100" json:"subsystem"`
	EquipmentType string     `gorm:"size:100" json:"equipment_type"`
	DocNumber     string     `gorm:"size:100;not null;uniqueIndex" json:"doc_number"`
	Title         string     `gorm:"size:200;not null" json:"title"`
	Department    string     `gorm:"size:100" json:"department"`
	Owner         string     `gorm:"size:100" json:"owner"`
	FilePath      string     `gorm:"size:500" json:"file_path,omitempty"`
	IsPinned      bool       `gorm:"not null;default:false;index" json:"is_pinned"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
