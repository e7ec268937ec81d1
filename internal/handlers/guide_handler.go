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

type GuideHandler struct {
	guideService *services.GuideService
	files        *storage.Store
}

func NewGuideHandler(guideService *services.GuideService, files *storage.Store) *GuideHandler {
	return &GuideHandler{guideService: guideService, files: files}
}

// List handles GET /signal-guides/ with optional job_type and is_pinned
// query filters.
func (h *GuideHandler) List(c *fiber.Ctx) error {
	var filter dto.GuideFilter

	if raw := c.Query("job_type"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid job_type filter",
			})
		}
		filter.JobTypeID = &id
	}
	if raw := c.Query("is_pinned"); raw != "" {
		switch raw {
		case "true", "1":
			v := true
			filter.IsPinned = &v
		case "false", "0":
			v := false
			filter.IsPinned = &v
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid is_pinned filter",
			})
		}
	}

	guides, err := h.guideService.List(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch guides",
		})
	}

	return c.JSON(guides)
}

func (h *GuideHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid guide ID",
		})
	}

	guide, err := h.guideService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrGuideNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch guide",
		})
	}

	return c.JSON(guide)
}

func (h *GuideHandler) Create(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateGuideRequest
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

	guide, err := h.guideService.Create(ctx, &req, filePath)
	if err != nil {
		return guideError(c, err, "Failed to create guide")
	}

	return c.Status(fiber.StatusCreated).JSON(guide)
}

// Update backs both PUT and PATCH; absent fields are left untouched.
func (h *GuideHandler) Update(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid guide ID",
		})
	}

	var req dto.UpdateGuideRequest
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

	guide, err := h.guideService.Update(ctx, id, &req, filePath)
	if err != nil {
		return guideError(c, err, "Failed to update guide")
	}

	return c.JSON(guide)
}

func (h *GuideHandler) Delete(c *fiber.Ctx) error {
	ctx, err := authctx.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid guide ID",
		})
	}

	if err := h.guideService.Delete(ctx, id); err != nil {
		return guideError(c, err, "Failed to delete guide")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// saveAttachment stores the optional multipart "file" part and returns
// its relative path, or "" when the request has no attachment.
func (h *GuideHandler) saveAttachment(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", nil
	}
	return h.files.Save(file, "manuals")
}

func guideError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrGuideNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrDocNumberTaken),
		errors.Is(err, services.ErrDocNumRequired),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrBadJobTypeRef):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}
