package handler

import (
	"errors"
	"time"

	"listing-radar/internal/delivery/http/dto"
	"listing-radar/internal/delivery/http/middleware"
	"listing-radar/internal/pkg/response"
	"listing-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SourceHandler struct {
	uc usecase.SourceUsecase
}

func NewSourceHandler(uc usecase.SourceUsecase) *SourceHandler {
	return &SourceHandler{uc: uc}
}

func (h *SourceHandler) HandleListSources(c fiber.Ctx) error {
	items, err := h.uc.ListSources(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.SourceResponse, 0, len(items))
	for _, s := range items {
		item := dto.SourceResponse{
			ID:        s.ID,
			Name:      s.Name,
			BaseURL:   s.BaseURL,
			IsEnabled: s.IsEnabled,
			SortOrder: s.SortOrder,
			LastError: s.LastError,
		}
		if s.LastCrawlAt != nil && !s.LastCrawlAt.IsZero() {
			item.LastCrawlAt = s.LastCrawlAt.UTC().Format(time.RFC3339)
		}
		out = append(out, item)
	}

	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *SourceHandler) HandleSetEnabled(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid source id", nil, err)
	}

	var req dto.SetSourceEnabledRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.SetEnabled(c.Context(), id, req.IsEnabled); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		case errors.Is(err, usecase.ErrNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Source not found", nil, err)
		}
		return err
	}

	return response.Success(c, fiber.StatusOK, "success", nil)
}
