package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/authctx"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/services"
)

type DeviceHandler struct {
	deviceService *services.DeviceService
}

func NewDeviceHandler(deviceService *services.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService}
}

func (h *DeviceHandler) List(c *fiber.Ctx) error {
	devices, err := h.deviceService.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch devices",
		})
	}
	return c.JSON(devices)
}

// ListByGuide handles GET /devices/by-guide/:guide_id/. An unknown guide
// returns an empty array.
func (h *DeviceHandler) ListByGuide(c *fiber.Ctx) error {
	guideID, err := uuid.Parse(c.Params("guide_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid guide ID",
		})
	}

	devices, err := h.deviceService.ListByGuide(guideID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch devices",
		})
	}
	return c.JSON(devices)
}

func (h *DeviceHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid device ID",
		})
	}

	device, err := h.deviceService.Get(id)
	if err != nil {
		return deviceError(c, err, "Failed to fetch device")
	}
	return c.JSON(device)
}

func (h *DeviceHandler) Create(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	device, err := h.deviceService.Create(ctx, &req)
	if err != nil {
		return deviceError(c, err, "Failed to create device")
	}
	return c.Status(fiber.StatusCreated).JSON(device)
}

func (h *DeviceHandler) Update(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid device ID",
		})
	}

	var req dto.UpdateDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	device, err := h.deviceService.Update(ctx, id, &req)
	if err != nil {
		return deviceError(c, err, "Failed to update device")
	}
	return c.JSON(device)
}

func (h *DeviceHandler) Delete(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid device ID",
		})
	}

	if err := h.deviceService.Delete(ctx, id); err != nil {
		return deviceError(c, err, "Failed to delete device")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func deviceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrDeviceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrBadGuideRef),
		errors.Is(err, services.ErrDeviceNameEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}
