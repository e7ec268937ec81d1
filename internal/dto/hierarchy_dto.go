package dto

import "github.com/google/uuid"

type CreateDeviceRequest struct {
	GuideID uuid.UUID `json:"guide_id"`
	Name    string    `json:"name"`
}

type UpdateDeviceRequest struct {
	GuideID *uuid.UUID `json:"guide_id"`
	Name    *string    `json:"name"`
}

type CreateFaultRequest struct {
	DeviceID    uuid.UUID `json:"device_id"`
	Description string    `json:"description"`
}

type UpdateFaultRequest struct {
	DeviceID    *uuid.UUID `json:"device_id"`
	Description *string    `json:"description"`
}

// Step payloads accept either JSON or a multipart form with an optional
// "file" part, like guides.
type CreateStepRequest struct {
	FaultCaseID uuid.UUID `json:"fault_case_id" form:"fault_case_id"`
	StepOrder   int       `json:"step_order" form:"step_order"`
	Instruction string    `json:"instruction" form:"instruction"`
}

type UpdateStepRequest struct {
	FaultCaseID *uuid.UUID `json:"fault_case_id" form:"fault_case_id"`
	StepOrder   *int       `json:"step_order" form:"step_order"`
	Instruction *string    `json:"instruction" form:"instruction"`
}
