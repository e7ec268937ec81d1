package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/authctx"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/services"
	"github.com/yuchenghsu/signalguide-backend/internal/storage"
)

type StepHandler struct {
	stepService *services.StepService
	files       *storage.Store
}

func NewStepHandler(stepService *services.StepService, files *storage.Store) *StepHandler {
	return &StepHandler{stepService: stepService, files: files}
}

// List handles GET /steps/?fault=<id>, returning the fault case's steps
// in display order.
func (h *StepHandler) List(c *fiber.Ctx) error {
	faultID, err := uuid.Parse(c.Query("fault"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "fault query parameter is required",
		})
	}

	steps, err := h.stepService.ListByFault(faultID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch steps",
		})
	}
	return c.JSON(steps)
}

func (h *StepHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid step ID",
		})
	}

	step, err := h.stepService.Get(id)
	if err != nil {
		return stepError(c, err, "Failed to fetch step")
	}
	return c.JSON(step)
}

func (h *StepHandler) Create(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	filePath, err := h.saveAttachment(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	step, err := h.stepService.Create(ctx, &req, filePath)
	if err != nil {
		return stepError(c, err, "Failed to create step")
	}
	return c.Status(fiber.StatusCreated).JSON(step)
}

func (h *StepHandler) Update(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid step ID",
		})
	}

	var req dto.UpdateStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	filePath, err := h.saveAttachment(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	step, err := h.stepService.Update(ctx, id, &req, filePath)
	if err != nil {
		return stepError(c, err, "Failed to update step")
	}
	return c.JSON(step)
}

func (h *StepHandler) Delete(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid step ID",
		})
	}

	if err := h.stepService.Delete(ctx, id); err != nil {
		return stepError(c, err, "Failed to delete step")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *StepHandler) saveAttachment(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", nil
	}
	return h.files.Save(file, "steps")
}

func stepError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrStepNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrBadFaultRef),
		errors.Is(err, services.ErrStepEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}
