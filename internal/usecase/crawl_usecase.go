package usecase

import (
	"context"
	"log"
	"time"

	"listing-radar/internal/crawl"
	"listing-radar/internal/domain/listing"
	"listing-radar/internal/repository"
)

// CrawlStatus is the live progress view plus the computed ETA. EtaMinutes
// and AvgDurationSeconds are nil when no estimate is available.
type CrawlStatus struct {
	IsRunning          bool
	SourcesTotal       int
	SourcesDone        int
	CurrentSource      string
	StartedAt          time.Time
	ElapsedSeconds     float64
	EtaMinutes         *int
	AvgDurationSeconds *float64
	Outcomes           []crawl.SourceOutcome
	LastRun            *crawl.RunSummary
}

type CrawlUsecase interface {
	// Start launches a cycle in the background. Returns
	// crawl.ErrAlreadyRunning when one is in flight.
	Start(ctx context.Context, trigger listing.TriggerKind) error
	// RunBlocking executes a full cycle and waits for it.
	RunBlocking(ctx context.Context, trigger listing.TriggerKind) (crawl.RunSummary, error)
	Status(ctx context.Context) (CrawlStatus, error)
	RecentRuns(ctx context.Context, limit int) ([]listing.CrawlRun, error)
}

type Crawl struct {
	orch         *crawl.Orchestrator
	state        *crawl.State
	runs         repository.CrawlRunRepository
	historyLimit int
	// runCtx outlives the triggering HTTP request; it is canceled on
	// process shutdown so an in-flight cycle aborts cleanly.
	runCtx context.Context
	logger *log.Logger
}

func NewCrawlUsecase(orch *crawl.Orchestrator, state *crawl.State, runs repository.CrawlRunRepository, historyLimit int, runCtx context.Context, logger *log.Logger) *Crawl {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	if runCtx == nil {
		runCtx = context.Background()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Crawl{
		orch:         orch,
		state:        state,
		runs:         runs,
		historyLimit: historyLimit,
		runCtx:       runCtx,
		logger:       logger,
	}
}

func (u *Crawl) Start(ctx context.Context, trigger listing.TriggerKind) error {
	// The slot is claimed before Launch returns, so a duplicate trigger
	// is rejected here instead of from the background goroutine.
	return u.orch.Launch(u.runCtx, trigger)
}

func (u *Crawl) RunBlocking(ctx context.Context, trigger listing.TriggerKind) (crawl.RunSummary, error) {
	return u.orch.Run(ctx, trigger)
}

func (u *Crawl) Status(ctx context.Context) (CrawlStatus, error) {
	snap := u.state.Snapshot()
	now := time.Now().UTC()

	history, err := u.runs.ListRecent(ctx, u.historyLimit)
	if err != nil {
		// Status stays useful without history: the ETA falls back to the
		// in-flight estimate.
		u.logger.Printf("crawl=status status=history_unavailable error=%v", err)
		history = nil
	}

	st := CrawlStatus{
		IsRunning:     snap.IsRunning,
		SourcesTotal:  snap.SourcesTotal,
		SourcesDone:   snap.SourcesDone,
		CurrentSource: snap.CurrentSource,
		StartedAt:     snap.StartedAt,
		Outcomes:      snap.Outcomes,
		LastRun:       snap.LastRun,
	}
	if snap.IsRunning {
		st.ElapsedSeconds = now.Sub(snap.StartedAt).Seconds()
	}
	st.EtaMinutes = crawl.EstimateMinutes(snap, history, now)
	if avg, ok := crawl.HistoricalAverage(history); ok {
		secs := avg.Seconds()
		st.AvgDurationSeconds = &secs
	}
	return st, nil
}

func (u *Crawl) RecentRuns(ctx context.Context, limit int) ([]listing.CrawlRun, error) {
	if limit <= 0 {
		limit = u.historyLimit
	}
	if limit > 100 {
		return nil, ErrInvalidInput
	}
	return u.runs.ListRecent(ctx, limit)
}
