package app

import (
	"context"
	"log"
	"time"

	"listing-radar/internal/config"
	"listing-radar/internal/crawl"
	"listing-radar/internal/database"
	"listing-radar/internal/database/migration"
	dbpostgres "listing-radar/internal/database/postgres"
	"listing-radar/internal/database/seeder"
	"listing-radar/internal/domain/listing"
	"listing-radar/internal/infrastructure/cache"
	"listing-radar/internal/notify"
	"listing-radar/internal/repository"
	"listing-radar/internal/scraper"
	"listing-radar/internal/usecase"
	"listing-radar/internal/ws"
)

type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub

	State        *crawl.State
	Orchestrator *crawl.Orchestrator

	CrawlUC      *usecase.Crawl
	MatchUC      *usecase.MatchList
	SourceUC     *usecase.Source
	SearchTermUC *usecase.SearchTerm

	// runCancel aborts an in-flight background crawl on shutdown.
	runCancel context.CancelFunc
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache := cache.NewRedis(logger)
	hub := ws.NewHub(logger)
	ws.SetDefaultHub(hub)

	telegram := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)

	sources := repository.NewPostgresSourceRepository(db)
	terms := repository.NewPostgresSearchTermRepository(db)
	matches := repository.NewPostgresMatchRepository(db)
	runs := repository.NewPostgresCrawlRunRepository(db)

	registry := scraper.NewRegistry()
	scraper.RegisterDefaults(registry)

	state := crawl.NewState()
	events := &crawlEvents{
		cache:    redisCache,
		telegram: telegram,
		logger:   logger,
	}
	orch := crawl.NewOrchestrator(
		sources, terms, matches, runs,
		registry, state, events,
		cfg.Crawl.SourceTimeout, logger,
	)

	runCtx, runCancel := context.WithCancel(context.Background())

	c := &Container{
		Config:       cfg,
		Logger:       logger,
		DB:           db,
		Cache:        redisCache,
		Hub:          hub,
		State:        state,
		Orchestrator: orch,
		CrawlUC:      usecase.NewCrawlUsecase(orch, state, runs, cfg.Crawl.HistoryLimit, runCtx, logger),
		MatchUC:      usecase.NewMatchListUsecase(matches, redisCache, logger),
		SourceUC:     usecase.NewSourceUsecase(sources, redisCache, logger),
		SearchTermUC: usecase.NewSearchTermUsecase(terms, redisCache, logger),
		runCancel:    runCancel,
	}
	return c, nil
}

// Migrate applies pending schema migrations and runs the default
// seeders.
func (c *Container) Migrate(ctx context.Context) error {
	runner := migration.Runner{}
	if err := runner.Run(ctx, c.DB.SQLDB()); err != nil {
		return err
	}
	return seeder.Runner{Seeders: seeder.Defaults()}.Run(ctx, c.DB)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.runCancel != nil {
		c.runCancel()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

// crawlEvents fans orchestrator progress out to the websocket hub, the
// Telegram notifier, and cache invalidation.
type crawlEvents struct {
	cache    *cache.Redis
	telegram *notify.Telegram
	logger   *log.Logger
}

func (e *crawlEvents) CrawlStarted(total int) {
	ws.NotifyCrawlStarted(total)
}

func (e *crawlEvents) SourceDone(outcome crawl.SourceOutcome, done, total int) {
	ws.NotifySourceDone(outcome.Source, string(outcome.Status), outcome.Listings, outcome.NewMatches, done, total)
}

func (e *crawlEvents) CrawlFinished(summary crawl.RunSummary, newMatches []listing.Match) {
	ws.NotifyCrawlFinished(
		summary.IsSuccess(), summary.Aborted,
		summary.SourcesSucceeded, summary.SourcesFailed,
		summary.NewMatches, summary.DurationSeconds,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if len(newMatches) > 0 {
		if err := e.cache.InvalidateListings(ctx); err != nil {
			e.logger.Printf("crawl=finished status=cache_invalidate_failed error=%v", err)
		}
	}
	duration := time.Duration(summary.DurationSeconds * float64(time.Second))
	if err := e.telegram.NotifyNewMatches(ctx, newMatches, duration); err != nil {
		e.logger.Printf("crawl=finished status=notify_failed error=%v", err)
	}
}
