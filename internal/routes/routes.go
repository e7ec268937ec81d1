package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/yuchenghsu/signalguide-backend/internal/config"
	"github.com/yuchenghsu/signalguide-backend/internal/handlers"
	"github.com/yuchenghsu/signalguide-backend/internal/middleware"
	"gorm.io/gorm"
)

// Setup mounts all routes. Read endpoints are open to any authenticated
// caller; mutating endpoints are additionally role-checked in the
// services, which receive the caller's AuthContext.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	guideHandler *handlers.GuideHandler,
	jobTypeHandler *handlers.JobTypeHandler,
	deviceHandler *handlers.DeviceHandler,
	faultHandler *handlers.FaultHandler,
	stepHandler *handlers.StepHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Token issuance — public, stricter rate limit: 10 req/min per IP
	token := api.Group("/token")
	token.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	token.Post("/", authHandler.Token)
	token.Post("/refresh", authHandler.Refresh)

	// Everything below requires a valid access token.
	protected := api.Group("", middleware.JWTProtected(cfg))

	protected.Post("/create_user", middleware.AdminRequired(db), authHandler.CreateUser)
	protected.Post("/change_password", authHandler.ChangePassword)

	guides := protected.Group("/signal-guides")
	guides.Get("/", guideHandler.List)
	guides.Get("/:id", guideHandler.Get)
	guides.Post("/", guideHandler.Create)
	guides.Put("/:id", guideHandler.Update)
	guides.Patch("/:id", guideHandler.Update)
	guides.Delete("/:id", guideHandler.Delete)

	jobTypes := protected.Group("/jobtypes")
	jobTypes.Get("/", jobTypeHandler.List)
	jobTypes.Get("/:id", jobTypeHandler.Get)
	jobTypes.Post("/", jobTypeHandler.Create)
	jobTypes.Put("/:id", jobTypeHandler.Update)
	jobTypes.Patch("/:id", jobTypeHandler.Update)
	jobTypes.Delete("/:id", jobTypeHandler.Delete)

	devices := protected.Group("/devices")
	devices.Get("/", deviceHandler.List)
	devices.Get("/by-guide/:guide_id", deviceHandler.ListByGuide)
	devices.Get("/:id", deviceHandler.Get)
	devices.Post("/", deviceHandler.Create)
	devices.Put("/:id", deviceHandler.Update)
	devices.Patch("/:id", deviceHandler.Update)
	devices.Delete("/:id", deviceHandler.Delete)

	faults := protected.Group("/faults")
	faults.Get("/", faultHandler.List)
	faults.Get("/:id", faultHandler.Get)
	faults.Post("/", faultHandler.Create)
	faults.Put("/:id", faultHandler.Update)
	faults.Patch("/:id", faultHandler.Update)
	faults.Delete("/:id", faultHandler.Delete)

	steps := protected.Group("/steps")
	steps.Get("/", stepHandler.List)
	steps.Get("/:id", stepHandler.Get)
	steps.Post("/", stepHandler.Create)
	steps.Put("/:id", stepHandler.Update)
	steps.Patch("/:id", stepHandler.Update)
	steps.Delete("/:id", stepHandler.Delete)
}
