package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/lunar-insights/internal/api/http"
	"github.com/i474232898/lunar-insights/internal/config"
	"github.com/i474232898/lunar-insights/internal/geo"
	"github.com/i474232898/lunar-insights/internal/scheduler"
	"github.com/i474232898/lunar-insights/internal/view"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a := newServices(cfg, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Locate the device once at startup when one is configured.
	if a.device {
		if _, err := a.resolver.ResolveFromDevice(ctx); err != nil {
			log.Printf("INFO: initial device location failed: %s", geo.Message(err))
		}
	}

	sched := scheduler.New(cfg.AutoRefresh, a.resolver)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "lunar-insights",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "lunar-insights",
		})
	})

	httpapi.RegisterRoutes(app, a.resolver, a.store, view.DefaultCanvas)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	if err := a.resolver.Shutdown(shutdownCtx); err != nil {
		log.Printf("error waiting for in-flight fetches: %v", err)
	}
	return nil
}
