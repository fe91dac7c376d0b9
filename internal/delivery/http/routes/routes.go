package routes

import (
	"listing-radar/internal/delivery/http/handler"
	"listing-radar/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Health      *handler.HealthHandler
	Crawl       *handler.CrawlHandler
	Matches     *handler.MatchHandler
	Sources     *handler.SourceHandler
	SearchTerms *handler.SearchTermHandler
	WS          *ws.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	app.Get("/health", r.Health.HandleHealth)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Post("/crawl", r.Crawl.HandleStartCrawl)
	v1.Get("/crawl/status", r.Crawl.HandleCrawlStatus)
	v1.Get("/crawl/runs", r.Crawl.HandleListRuns)

	v1.Get("/matches", r.Matches.HandleListMatches)
	v1.Post("/matches/mark-seen", r.Matches.HandleMarkAllSeen)

	v1.Get("/sources", r.Sources.HandleListSources)
	v1.Patch("/sources/:id/enabled", r.Sources.HandleSetEnabled)

	v1.Get("/search-terms", r.SearchTerms.HandleListTerms)
	v1.Post("/search-terms", r.SearchTerms.HandleCreateTerm)
	v1.Patch("/search-terms/:id/active", r.SearchTerms.HandleSetActive)
	v1.Delete("/search-terms/:id", r.SearchTerms.HandleDeleteTerm)

	if r.WS != nil {
		app.Get("/ws/crawl", r.WS.HandleCrawlWS)
	}
}
