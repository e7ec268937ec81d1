package dto

import "github.com/google/uuid"

// Guide payloads carry form tags as well: create and update accept
// either JSON or a multipart form with an optional "file" part.
type CreateGuideRequest struct {
	JobTypeID     *uuid.UUID `json:"job_type_id" form:"job_type_id"`
	System        string     `json:"system" form:"system"`
	Subsystem     string     `json:"subsystem" form:"subsystem"`
	EquipmentType string     `json:"equipment_type" form:"equipment_type"`
	DocNumber     string     `json:"doc_number" form:"doc_number"`
	Title         string     `json:"title" form:"title"`
	Department    string     `json:"department" form:"department"`
	Owner         string     `json:"owner" form:"owner"`
	IsPinned      bool       `json:"is_pinned" form:"is_pinned"`
}

// UpdateGuideRequest uses pointer fields so a partial update only
// touches what the client sent. Clearing the job type is expressed by
// sending an explicit null with ClearJobType set.
type UpdateGuideRequest struct {
	JobTypeID     *uuid.UUID `json:"job_type_id" form:"job_type_id"`
	ClearJobType  bool       `json:"clear_job_type" form:"clear_job_type"`
	System        *string    `json:"system" form:"system"`
	Subsystem     *string    `json:"subsystem" form:"subsystem"`
	EquipmentType *string    `json:"equipment_type" form:"equipment_type"`
	DocNumber     *string    `json:"doc_number" form:"doc_number"`
	Title         *string    `json:"title" form:"title"`
	Department    *string    `json:"department" form:"department"`
	Owner         *string    `json:"owner" form:"owner"`
	IsPinned      *bool      `json:"is_pinned" form:"is_pinned"`
}

// GuideFilter restricts list results; nil fields are ignored.
type GuideFilter struct {
	JobTypeID *uuid.UUID
	IsPinned  *bool
}

type JobTypeRequest struct {
	Name string `json:"name"`
}
