package http

import (
	"time"

	"github.com/Devik-code/rust-ai-auditor/internal/config"
	"github.com/Devik-code/rust-ai-auditor/internal/http/handlers"
	"github.com/Devik-code/rust-ai-auditor/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	auditHandler *handlers.AuditHandler,
	statsHandler *handlers.StatsHandler,
	toolchainHandler *handlers.ToolchainHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/token", authHandler.IssueToken)

	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// Audits
	protected.Post("/audits", auditHandler.CreateAudit)
	protected.Get("/audits", auditHandler.ListAudits)
	protected.Get("/audits/:id", auditHandler.GetAudit)

	// Stats
	protected.Get("/stats", statsHandler.GetStats)

	// Toolchain status
	protected.Get("/meta/toolchain", toolchainHandler.GetToolchain)

	// WebSocket audit feed
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
