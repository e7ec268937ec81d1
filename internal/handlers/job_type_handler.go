package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/authctx"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/services"
)

type JobTypeHandler struct {
	jobTypeService *services.JobTypeService
}

func NewJobTypeHandler(jobTypeService *services.JobTypeService) *JobTypeHandler {
	return &JobTypeHandler{jobTypeService: jobTypeService}
}

func (h *JobTypeHandler) List(c *fiber.Ctx) error {
	jobTypes, err := h.jobTypeService.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch job types",
		})
	}
	return c.JSON(jobTypes)
}

func (h *JobTypeHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid job type ID",
		})
	}

	jt, err := h.jobTypeService.Get(id)
	if err != nil {
		return jobTypeError(c, err, "Failed to fetch job type")
	}
	return c.JSON(jt)
}

func (h *JobTypeHandler) Create(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.JobTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	jt, err := h.jobTypeService.Create(ctx, &req)
	if err != nil {
		return jobTypeError(c, err, "Failed to create job type")
	}
	return c.Status(fiber.StatusCreated).JSON(jt)
}

func (h *JobTypeHandler) Update(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid job type ID",
		})
	}

	var req dto.JobTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	jt, err := h.jobTypeService.Update(ctx, id, &req)
	if err != nil {
		return jobTypeError(c, err, "Failed to update job type")
	}
	return c.JSON(jt)
}

func (h *JobTypeHandler) Delete(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid job type ID",
		})
	}

	if err := h.jobTypeService.Delete(ctx, id); err != nil {
		return jobTypeError(c, err, "Failed to delete job type")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func jobTypeError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrJobTypeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrJobTypeNameTaken),
		errors.Is(err, services.ErrJobTypeNameEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}
