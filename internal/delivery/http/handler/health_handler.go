package handler

import (
	"context"
	"time"

	"listing-radar/internal/database"
	"listing-radar/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	db database.DB
}

func NewHealthHandler(db database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	dbStatus := "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			dbStatus = "unavailable"
		}
	}
	return response.Success(c, fiber.StatusOK, "success", fiber.Map{
		"status":   "ok",
		"database": dbStatus,
	})
}
