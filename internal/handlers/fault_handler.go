package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/authctx"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/services"
)

type FaultHandler struct {
	faultService *services.FaultService
}

func NewFaultHandler(faultService *services.FaultService) *FaultHandler {
	return &FaultHandler{faultService: faultService}
}

// List handles GET /faults/ with an optional device filter.
func (h *FaultHandler) List(c *fiber.Ctx) error {
	if raw := c.Query("device"); raw != "" {
		deviceID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid device filter",
			})
		}
		faults, err := h.faultService.ListByDevice(deviceID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to fetch fault cases",
			})
		}
		return c.JSON(faults)
	}

	faults, err := h.faultService.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch fault cases",
		})
	}
	return c.JSON(faults)
}

func (h *FaultHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid fault case ID",
		})
	}

	fault, err := h.faultService.Get(id)
	if err != nil {
		return faultError(c, err, "Failed to fetch fault case")
	}
	return c.JSON(fault)
}

func (h *FaultHandler) Create(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateFaultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	fault, err := h.faultService.Create(ctx, &req)
	if err != nil {
		return faultError(c, err, "Failed to create fault case")
	}
	return c.Status(fiber.StatusCreated).JSON(fault)
}

func (h *FaultHandler) Update(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid fault case ID",
		})
	}

	var req dto.UpdateFaultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	fault, err := h.faultService.Update(ctx, id, &req)
	if err != nil {
		return faultError(c, err, "Failed to update fault case")
	}
	return c.JSON(fault)
}

func (h *FaultHandler) Delete(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid fault case ID",
		})
	}

	if err := h.faultService.Delete(ctx, id); err != nil {
		return faultError(c, err, "Failed to delete fault case")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func faultError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrFaultNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrBadDeviceRef),
		errors.Is(err, services.ErrDescRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}
