package app

import (
	"fmt"
	"strings"

	"listing-radar/internal/delivery/http/handler"
	"listing-radar/internal/delivery/http/middleware"
	"listing-radar/internal/delivery/http/routes"
	"listing-radar/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the fiber app on top of an initialized container and
// starts the websocket hub.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	errMw := middleware.NewErrorMiddleware()
	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	f.Use(errMw.Middleware())
	f.Use(accessMw.Middleware())

	registry := &routes.Registry{
		Health:      handler.NewHealthHandler(c.DB),
		Crawl:       handler.NewCrawlHandler(c.CrawlUC),
		Matches:     handler.NewMatchHandler(c.MatchUC),
		Sources:     handler.NewSourceHandler(c.SourceUC),
		SearchTerms: handler.NewSearchTermHandler(c.SearchTermUC),
		WS:          ws.NewHandler(c.Hub, c.Logger),
	}
	registry.Register(f)

	go c.Hub.Run()

	return &App{Fiber: f, Container: c}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
