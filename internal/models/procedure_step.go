package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcedureStep is one remediation step of a fault case. StepOrder is a
// display ordering only: duplicates and gaps are allowed.
type ProcedureStep struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FaultCaseID uuid.UUID  `gorm:"type:uuid;not null;index" json:"fault_case_id"`
	FaultCase   *FaultCase `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	StepOrder   int        `gorm:"not null;default:0" json:"step_order"`
	Instruction string     `gorm:"type:text" json:"instruction"`
	FilePath    string     `gorm:"size:500" json:"file_path,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
