package models

import (
	"time"

	"github.com/google/uuid"
)

// JobType classifies guides by job category. Deleting a job type keeps
// its guides; their reference is nulled out in the same transaction.
type JobType struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
