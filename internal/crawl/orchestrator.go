package crawl

import (
	"context"
	"fmt"
	"log"
	"time"

	"listing-radar/internal/domain/listing"
	"listing-radar/internal/domain/matching"
	"listing-radar/internal/repository"
	"listing-radar/internal/scraper"
)

// abortedRunWriteTimeout bounds the best-effort history write when the
// cycle's own context is already canceled.
const abortedRunWriteTimeout = 5 * time.Second

// Events receives progress notifications during a cycle. Implementations
// must be fast and non-blocking; the orchestrator calls them inline
// between sources.
type Events interface {
	CrawlStarted(total int)
	SourceDone(outcome SourceOutcome, done, total int)
	CrawlFinished(summary RunSummary, newMatches []listing.Match)
}

// NopEvents discards all notifications.
type NopEvents struct{}

func (NopEvents) CrawlStarted(int)                         {}
func (NopEvents) SourceDone(SourceOutcome, int, int)       {}
func (NopEvents) CrawlFinished(RunSummary, []listing.Match) {}

// Orchestrator runs crawl cycles sequentially over the enabled sources.
// Failures stay local to their source; only a canceled context or a
// failed config read ends a cycle early.
type Orchestrator struct {
	sources       repository.SourceRepository
	terms         repository.SearchTermRepository
	matches       repository.MatchRepository
	runs          repository.CrawlRunRepository
	adapters      *scraper.Registry
	state         *State
	events        Events
	sourceTimeout time.Duration
	log           *log.Logger
}

func NewOrchestrator(
	sources repository.SourceRepository,
	terms repository.SearchTermRepository,
	matches repository.MatchRepository,
	runs repository.CrawlRunRepository,
	adapters *scraper.Registry,
	state *State,
	events Events,
	sourceTimeout time.Duration,
	logger *log.Logger,
) *Orchestrator {
	if events == nil {
		events = NopEvents{}
	}
	if sourceTimeout <= 0 {
		sourceTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		sources:       sources,
		terms:         terms,
		matches:       matches,
		runs:          runs,
		adapters:      adapters,
		state:         state,
		events:        events,
		sourceTimeout: sourceTimeout,
		log:           logger,
	}
}

// Run executes one full crawl cycle and blocks until it finishes. It
// returns ErrAlreadyRunning when another cycle holds the slot, and an
// ErrPersistence-wrapped error when the history write fails. A summary
// is returned whenever a cycle actually ran.
func (o *Orchestrator) Run(ctx context.Context, trigger listing.TriggerKind) (RunSummary, error) {
	if !o.state.TryAcquire() {
		return RunSummary{}, ErrAlreadyRunning
	}
	return o.run(ctx, trigger)
}

// Launch claims the crawl slot synchronously and runs the cycle on its
// own goroutine, so a caller can reject a duplicate trigger before
// returning. Failures of the background cycle are logged.
func (o *Orchestrator) Launch(ctx context.Context, trigger listing.TriggerKind) error {
	if !o.state.TryAcquire() {
		return ErrAlreadyRunning
	}
	go func() {
		if _, err := o.run(ctx, trigger); err != nil {
			o.log.Printf("crawl=cycle trigger=%s status=error error=%v", trigger, err)
		}
	}()
	return nil
}

// run executes the cycle. The caller must hold the crawl slot.
func (o *Orchestrator) run(ctx context.Context, trigger listing.TriggerKind) (RunSummary, error) {
	defer o.state.Release()

	sources, err := o.sources.ListEnabled(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("%w: list enabled sources: %v", ErrPersistence, err)
	}
	terms, err := o.terms.ListActive(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("%w: list active search terms: %v", ErrPersistence, err)
	}

	startedAt := time.Now().UTC()
	o.state.Begin(len(sources), startedAt)
	o.events.CrawlStarted(len(sources))
	o.log.Printf("crawl=cycle trigger=%s sources=%d terms=%d status=started", trigger, len(sources), len(terms))

	var (
		summary    RunSummary
		newMatches []listing.Match
	)
	summary.StartedAt = startedAt
	summary.SourcesAttempted = len(sources)

	for _, src := range sources {
		if ctx.Err() != nil {
			summary.Aborted = true
			summary.SourcesAttempted = summary.SourcesSucceeded + summary.SourcesFailed
			break
		}

		o.state.SetCurrentSource(src.Name)
		outcome, hits := o.crawlSource(ctx, src, terms)

		summary.TotalListings += outcome.Listings
		summary.NewMatches += outcome.NewMatches
		summary.DuplicateMatches += len(hits) - outcome.NewMatches
		if outcome.Status == OutcomeSuccess {
			summary.SourcesSucceeded++
		} else {
			summary.SourcesFailed++
			summary.FailedSources = append(summary.FailedSources, src.Name)
		}
		newMatches = append(newMatches, hits[:outcome.NewMatches]...)

		o.state.CompleteSource(outcome)
		snap := o.state.Snapshot()
		o.events.SourceDone(outcome, snap.SourcesDone, snap.SourcesTotal)
		o.log.Printf("crawl=source source=%s status=%s listings=%d new_matches=%d elapsed=%s",
			src.Name, outcome.Status, outcome.Listings, outcome.NewMatches, outcome.Elapsed.Round(time.Millisecond))
	}

	summary.CompletedAt = time.Now().UTC()
	summary.DurationSeconds = summary.CompletedAt.Sub(summary.StartedAt).Seconds()

	runErr := o.saveRun(ctx, trigger, summary)

	o.state.Finish(summary)
	o.events.CrawlFinished(summary, newMatches)
	o.log.Printf("crawl=cycle trigger=%s status=finished aborted=%t succeeded=%d failed=%d new_matches=%d duration=%.1fs",
		trigger, summary.Aborted, summary.SourcesSucceeded, summary.SourcesFailed, summary.NewMatches, summary.DurationSeconds)

	if runErr != nil {
		return summary, fmt.Errorf("%w: save crawl run: %v", ErrPersistence, runErr)
	}
	return summary, nil
}

// crawlSource scrapes one source under its own deadline, matches the
// records, and persists the hits before the source is marked done. The
// returned hits slice is ordered with the newly inserted matches first.
func (o *Orchestrator) crawlSource(ctx context.Context, src listing.Source, terms []listing.SearchTerm) (SourceOutcome, []listing.Match) {
	begin := time.Now()
	outcome := SourceOutcome{Source: src.Name}

	adapter, ok := o.adapters.Lookup(src.Name)
	if !ok {
		outcome.Status = OutcomeFailed
		outcome.Error = "no adapter registered"
		outcome.Elapsed = time.Since(begin)
		o.recordSourceResult(ctx, src, &outcome.Error)
		return outcome, nil
	}

	srcCtx, cancel := context.WithTimeout(ctx, o.sourceTimeout)
	records, err := adapter.Scrape(srcCtx, src, terms)
	cancel()
	if err != nil {
		if scraper.KindOf(err) == scraper.KindTimeout {
			outcome.Status = OutcomeTimeout
		} else {
			outcome.Status = OutcomeFailed
		}
		outcome.Error = err.Error()
		outcome.Elapsed = time.Since(begin)
		o.recordSourceResult(ctx, src, &outcome.Error)
		return outcome, nil
	}

	outcome.Listings = len(records)
	hits := matching.Find(records, terms)

	fresh := make([]listing.Match, 0, len(hits))
	dup := make([]listing.Match, 0)
	for _, hit := range hits {
		m := listing.Match{
			SourceID:     src.ID,
			SearchTermID: hit.TermID,
			SourceName:   src.Name,
			Term:         hit.Term,
			ExternalKey:  hit.Record.ExternalKey(),
			Title:        hit.Record.Title,
			Price:        hit.Record.Price,
			URL:          hit.Record.URL,
			ImageURL:     hit.Record.ImageURL,
			IsNew:        true,
		}
		inserted, err := o.matches.InsertIfNew(ctx, m)
		if err != nil {
			outcome.Status = OutcomeFailed
			outcome.Error = fmt.Sprintf("persist matches: %v", err)
			outcome.NewMatches = len(fresh)
			outcome.Elapsed = time.Since(begin)
			o.recordSourceResult(ctx, src, &outcome.Error)
			return outcome, append(fresh, dup...)
		}
		if inserted {
			fresh = append(fresh, m)
		} else {
			dup = append(dup, m)
		}
	}

	outcome.Status = OutcomeSuccess
	outcome.NewMatches = len(fresh)
	outcome.Elapsed = time.Since(begin)
	o.recordSourceResult(ctx, src, nil)
	return outcome, append(fresh, dup...)
}

// recordSourceResult writes the last-crawl bookkeeping back onto the
// source row. Failures are logged and swallowed: bookkeeping must never
// fail a source that already produced its outcome.
func (o *Orchestrator) recordSourceResult(ctx context.Context, src listing.Source, lastError *string) {
	if err := o.sources.RecordCrawlResult(ctx, src.ID, time.Now().UTC(), lastError); err != nil {
		o.log.Printf("crawl=source source=%s status=bookkeeping_failed error=%v", src.Name, err)
	}
}

// saveRun persists the cycle's history row. When the cycle was aborted
// the triggering context is likely dead, so the write runs on a short
// detached deadline instead.
func (o *Orchestrator) saveRun(ctx context.Context, trigger listing.TriggerKind, summary RunSummary) error {
	writeCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(context.Background(), abortedRunWriteTimeout)
		defer cancel()
	}
	return o.runs.Insert(writeCtx, listing.CrawlRun{
		StartedAt:        summary.StartedAt,
		CompletedAt:      summary.CompletedAt,
		DurationSeconds:  summary.DurationSeconds,
		SourcesAttempted: summary.SourcesAttempted,
		SourcesSucceeded: summary.SourcesSucceeded,
		SourcesFailed:    summary.SourcesFailed,
		TotalListings:    summary.TotalListings,
		NewMatches:       summary.NewMatches,
		DuplicateMatches: summary.DuplicateMatches,
		IsSuccess:        summary.IsSuccess(),
		Trigger:          trigger,
	})
}
