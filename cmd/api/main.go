package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Devik-code/rust-ai-auditor/internal/compiler"
	"github.com/Devik-code/rust-ai-auditor/internal/config"
	"github.com/Devik-code/rust-ai-auditor/internal/db"
	"github.com/Devik-code/rust-ai-auditor/internal/events"
	apphttp "github.com/Devik-code/rust-ai-auditor/internal/http"
	"github.com/Devik-code/rust-ai-auditor/internal/http/handlers"
	"github.com/Devik-code/rust-ai-auditor/internal/repositories"
	"github.com/Devik-code/rust-ai-auditor/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Compile checker
	var checker compiler.Checker
	switch cfg.CheckerMode {
	case "heuristic":
		checker = compiler.NewHeuristicChecker()
	default:
		checker = compiler.NewRustcChecker(cfg.CompilerBin, cfg.ScratchDir, cfg.CompileTimeout, log)
	}

	// Advisory probe: a missing toolchain degrades create-audit calls,
	// it does not prevent serving reads and stats.
	if version, err := checker.Probe(ctx); err != nil {
		log.Warn("toolchain unavailable, create-audit will fail until it returns", zap.Error(err))
	} else {
		log.Info("toolchain available", zap.String("version", version))
	}

	// Repositories
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	auditService := services.NewAuditService(auditRepo, checker, publisher, log)
	statsService := services.NewStatsService(auditRepo, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, log)
	auditHandler := handlers.NewAuditHandler(auditService, log)
	statsHandler := handlers.NewStatsHandler(statsService, log)
	toolchainHandler := handlers.NewToolchainHandler(checker, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, auditHandler, statsHandler, toolchainHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
