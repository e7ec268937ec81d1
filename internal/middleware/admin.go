package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/yuchenghsu/signalguide-backend/internal/authctx"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/models"
	"gorm.io/gorm"
)

// AdminRequired rejects callers whose current role is not admin. The
// role claim is cross-checked against the database so a demotion takes
// effect before the token expires.
func AdminRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, err := authctx.FromFiber(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !ctx.IsAdmin() {
			return forbidden(c)
		}

		var user models.User
		if err := db.First(&user, "id = ?", ctx.UserID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if user.Role != models.RoleAdmin {
			return forbidden(c)
		}

		return c.Next()
	}
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error: true, Message: "Admin access required",
	})
}
