package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/date-facts/internal/api/http"
	"github.com/i474232898/date-facts/internal/config"
	"github.com/i474232898/date-facts/internal/facts"
	"github.com/i474232898/date-facts/internal/facts/providers"
	"github.com/i474232898/date-facts/internal/scheduler"
	"github.com/i474232898/date-facts/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound upstream calls; per-call deadlines are
	// applied by the provider.
	httpClient := &http.Client{}

	// Upstream with a bounded timeout and a circuit breaker.
	fetcher := providers.NewNumbersAPIProvider(cfg.UpstreamURL, providers.HTTPClientConfig{
		Client:  httpClient,
		Timeout: cfg.FetchTimeout,
		Breaker: providers.BreakerConfig{
			MaxFailures: cfg.BreakerMaxFailures,
			OpenTimeout: cfg.BreakerOpenTimeout,
		},
	})

	// One cache for the whole process, owned by the service.
	memStore := store.NewMemoryStore(cfg.StoreMaxAge)
	service := facts.NewService(facts.NewCache(memStore), fetcher)

	// Scheduler that periodically warms this week's facts.
	sched := scheduler.New(cfg.Location, cfg.WarmInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "date-facts",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * cfg.FetchTimeout,
		ErrorHandler:          errorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "date-facts",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, cfg.Location)

	go func() {
		log.Printf("INFO: listening on :%s (time zone %s)", cfg.Port, cfg.Location)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// errorHandler renders every error as a JSON body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
