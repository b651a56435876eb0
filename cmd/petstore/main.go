package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"petstore/internal/config"
	"petstore/internal/http/handlers"
	applog "petstore/internal/log"
	"petstore/internal/repos"
	"petstore/internal/services"
)

func runMigrate(db *sqlx.DB, direction string) error {
	switch direction {
	case "up":
		// OpenDB already migrated up.
		applog.Event("migrate.up", nil)
		return nil
	case "down":
		if err := repos.MigrateDown(db); err != nil {
			return err
		}
		applog.Event("migrate.down", nil)
		return nil
	default:
		return fmt.Errorf("unknown migrate direction %q, want up or down", direction)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// `petstore migrate up|down` runs the schema migration and exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if len(os.Args) < 3 {
			log.Fatal("usage: petstore migrate up|down")
		}
		if err := runMigrate(db, os.Args[2]); err != nil {
			log.Fatal(err)
		}
		return
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())

	deps := handlers.NewDeps(db, cfg, services.LogSMSSender{})

	api := app.Group("/api/v1")

	// Catalog browsing
	api.Get("/good_categories", deps.CatalogHandler.GoodCategories)
	api.Get("/brands", deps.CatalogHandler.Brands)
	api.Get("/pet_categories", deps.CatalogHandler.PetCategories)
	api.Get("/catalog", deps.CatalogHandler.Browse)
	api.Get("/catalog/:publicId", deps.CatalogHandler.ItemDetail)

	// Orders
	api.Post("/orders", deps.OrderHandler.Place)
	api.Get("/orders/:id", deps.OrderHandler.Get)
	api.Post("/orders/:id/status", deps.OrderHandler.UpdateStatus)

	// SMS auth (throttled)
	smsLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.sms.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Post("/sms/send_code", smsLimiter, deps.AuthHandler.SendCode)
	api.Post("/sms/verify_code", smsLimiter, deps.AuthHandler.VerifyCode)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
