package handler

import (
	"errors"
	"time"

	"listing-radar/internal/delivery/http/dto"
	"listing-radar/internal/delivery/http/middleware"
	"listing-radar/internal/domain/listing"
	"listing-radar/internal/pkg/response"
	"listing-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SearchTermHandler struct {
	uc usecase.SearchTermUsecase
}

func NewSearchTermHandler(uc usecase.SearchTermUsecase) *SearchTermHandler {
	return &SearchTermHandler{uc: uc}
}

func (h *SearchTermHandler) HandleListTerms(c fiber.Ctx) error {
	items, err := h.uc.ListTerms(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.SearchTermResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toSearchTermResponse(t))
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *SearchTermHandler) HandleCreateTerm(c fiber.Ctx) error {
	var req dto.CreateSearchTermRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.CreateTerm(c.Context(), usecase.CreateSearchTermParams{
		Term:         req.Term,
		Mode:         req.Mode,
		ExcludeTerms: req.ExcludeTerms,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Invalid search term", nil, err)
		}
		return err
	}

	return response.Success(c, fiber.StatusCreated, "created", toSearchTermResponse(created))
}

func (h *SearchTermHandler) HandleSetActive(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid search term id", nil, err)
	}

	var req dto.SetSearchTermActiveRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.SetActive(c.Context(), id, req.IsActive); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		case errors.Is(err, usecase.ErrNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Search term not found", nil, err)
		}
		return err
	}

	return response.Success(c, fiber.StatusOK, "success", nil)
}

func (h *SearchTermHandler) HandleDeleteTerm(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid search term id", nil, err)
	}

	if err := h.uc.DeleteTerm(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		case errors.Is(err, usecase.ErrNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Search term not found", nil, err)
		}
		return err
	}

	return response.Success(c, fiber.StatusOK, "success", nil)
}

func toSearchTermResponse(t listing.SearchTerm) dto.SearchTermResponse {
	excludes := t.ExcludeTerms
	if excludes == nil {
		excludes = []string{}
	}
	return dto.SearchTermResponse{
		ID:           t.ID,
		Term:         t.Term,
		Mode:         string(t.Mode),
		IsActive:     t.IsActive,
		ExcludeTerms: excludes,
		CreatedAt:    t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
