package server

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"gorm.io/gorm"

	"zapline/database"
)

// Handler defines an HTTP handler over the scan-history store.
type Handler struct {
	db *database.DB // db defines the *database.DB used in operations.
}

// HealthHandler defines the handler for the /health endpoint.
func (h *Handler) HealthHandler(ctx fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(HealthResponse{Status: "ok"})
}

// ReportsHandler defines the handler for the /reports endpoint.
func (h *Handler) ReportsHandler(ctx fiber.Ctx) error {
	records, err := h.db.Reports()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(response{
			Error:   true,
			Message: "Unexpected internal error occurred.",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(ReportsResponse{Reports: records})
}

// ReportHandler defines the handler for the /reports/:id endpoint.
func (h *Handler) ReportHandler(ctx fiber.Ctx) error {
	br := response{
		Error:   true,
		Message: "Invalid report ID provided.",
	}

	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	rec, err := h.db.Report(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		br.Message = "Report not found."
		return ctx.Status(fiber.StatusNotFound).JSON(br)
	}
	if err != nil {
		br.Message = "Unexpected internal error occurred."
		return ctx.Status(fiber.StatusInternalServerError).JSON(br)
	}

	return ctx.Status(fiber.StatusOK).JSON(rec)
}
