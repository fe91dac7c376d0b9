package handler

import (
	"errors"
	"strconv"
	"time"

	"listing-radar/internal/delivery/http/dto"
	"listing-radar/internal/delivery/http/middleware"
	"listing-radar/internal/pkg/response"
	"listing-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchListUsecase
}

func NewMatchHandler(uc usecase.MatchListUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) HandleListMatches(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 50)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	onlyNew := c.Query("only_new") == "true"

	items, err := h.uc.ListMatches(c.Context(), usecase.MatchListParams{
		Limit:   limit,
		Offset:  offset,
		OnlyNew: onlyNew,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		return err
	}

	out := make([]dto.MatchResponse, 0, len(items))
	for _, m := range items {
		out = append(out, dto.MatchResponse{
			ID:          m.ID,
			SourceName:  m.SourceName,
			Term:        m.Term,
			Title:       m.Title,
			Price:       m.Price,
			URL:         m.URL,
			ImageURL:    m.ImageURL,
			IsNew:       m.IsNew,
			FirstSeenAt: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *MatchHandler) HandleMarkAllSeen(c fiber.Ctx) error {
	if err := h.uc.MarkAllSeen(c.Context()); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "success", nil)
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}
