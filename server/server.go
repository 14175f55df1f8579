// Package server exposes the scan-history store over a small read-only
// HTTP API for CI dashboards.
package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"zapline/database"
)

// NewApp builds the fiber application over the given history store.
func NewApp(db *database.DB) *fiber.App {
	h := Handler{db: db}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Origin", "Accept"},
	}))

	// Define routes
	app.Get("/health", h.HealthHandler)
	app.Get("/reports", h.ReportsHandler)
	app.Get("/reports/:id", h.ReportHandler)

	return app
}

// Start opens the history store and serves the API on addr.
func Start(dbPath, addr string) error {
	db, err := database.New(dbPath)
	if err != nil {
		return err
	}

	return NewApp(db).Listen(addr)
}
