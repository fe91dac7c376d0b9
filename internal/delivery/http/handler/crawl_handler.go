package handler

import (
	"errors"
	"time"

	"listing-radar/internal/crawl"
	"listing-radar/internal/delivery/http/dto"
	"listing-radar/internal/delivery/http/middleware"
	"listing-radar/internal/domain/listing"
	"listing-radar/internal/pkg/response"
	"listing-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CrawlHandler struct {
	uc usecase.CrawlUsecase
}

func NewCrawlHandler(uc usecase.CrawlUsecase) *CrawlHandler {
	return &CrawlHandler{uc: uc}
}

// HandleStartCrawl triggers a background cycle. 202 when accepted, 409
// when one is already running.
func (h *CrawlHandler) HandleStartCrawl(c fiber.Ctx) error {
	err := h.uc.Start(c.Context(), listing.TriggerManual)
	if err != nil {
		if errors.Is(err, crawl.ErrAlreadyRunning) {
			return middleware.NewAppError(fiber.StatusConflict, "A crawl is already running", nil, err)
		}
		return err
	}
	return response.Success(c, fiber.StatusAccepted, "crawl started", nil)
}

func (h *CrawlHandler) HandleCrawlStatus(c fiber.Ctx) error {
	st, err := h.uc.Status(c.Context())
	if err != nil {
		return err
	}

	out := dto.CrawlStatusResponse{
		IsRunning:          st.IsRunning,
		SourcesTotal:       st.SourcesTotal,
		SourcesDone:        st.SourcesDone,
		CurrentSource:      st.CurrentSource,
		ElapsedSeconds:     st.ElapsedSeconds,
		EtaMinutes:         st.EtaMinutes,
		AvgDurationSeconds: st.AvgDurationSeconds,
		Outcomes:           make([]dto.SourceOutcomeItem, 0, len(st.Outcomes)),
	}
	if st.IsRunning && !st.StartedAt.IsZero() {
		out.StartedAt = st.StartedAt.UTC().Format(time.RFC3339)
	}
	for _, o := range st.Outcomes {
		out.Outcomes = append(out.Outcomes, dto.SourceOutcomeItem{
			Source:         o.Source,
			Status:         string(o.Status),
			Listings:       o.Listings,
			NewMatches:     o.NewMatches,
			Error:          o.Error,
			ElapsedSeconds: o.Elapsed.Seconds(),
		})
	}
	if st.LastRun != nil {
		out.LastRun = &dto.CrawlRunSummaryItem{
			SourcesAttempted: st.LastRun.SourcesAttempted,
			SourcesSucceeded: st.LastRun.SourcesSucceeded,
			SourcesFailed:    st.LastRun.SourcesFailed,
			TotalListings:    st.LastRun.TotalListings,
			NewMatches:       st.LastRun.NewMatches,
			DuplicateMatches: st.LastRun.DuplicateMatches,
			FailedSources:    st.LastRun.FailedSources,
			StartedAt:        st.LastRun.StartedAt.UTC().Format(time.RFC3339),
			CompletedAt:      st.LastRun.CompletedAt.UTC().Format(time.RFC3339),
			DurationSeconds:  st.LastRun.DurationSeconds,
			IsSuccess:        st.LastRun.IsSuccess(),
			Aborted:          st.LastRun.Aborted,
		}
	}

	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *CrawlHandler) HandleListRuns(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 10)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	runs, err := h.uc.RecentRuns(c.Context(), limit)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		return err
	}

	out := make([]dto.CrawlRunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, dto.CrawlRunResponse{
			ID:               r.ID,
			StartedAt:        r.StartedAt.UTC().Format(time.RFC3339),
			CompletedAt:      r.CompletedAt.UTC().Format(time.RFC3339),
			DurationSeconds:  r.DurationSeconds,
			SourcesAttempted: r.SourcesAttempted,
			SourcesSucceeded: r.SourcesSucceeded,
			SourcesFailed:    r.SourcesFailed,
			TotalListings:    r.TotalListings,
			NewMatches:       r.NewMatches,
			DuplicateMatches: r.DuplicateMatches,
			IsSuccess:        r.IsSuccess,
			Trigger:          string(r.Trigger),
		})
	}

	return response.Success(c, fiber.StatusOK, "success", out)
}
