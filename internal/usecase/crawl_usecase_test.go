package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"listing-radar/internal/crawl"
	"listing-radar/internal/domain/listing"
	"listing-radar/internal/repository"
	"listing-radar/internal/scraper"

	"github.com/google/uuid"
)

type stubSourceRepo struct{ sources []listing.Source }

func (s stubSourceRepo) List(context.Context) ([]listing.Source, error)        { return s.sources, nil }
func (s stubSourceRepo) ListEnabled(context.Context) ([]listing.Source, error) { return s.sources, nil }
func (s stubSourceRepo) SetEnabled(context.Context, uuid.UUID, bool) error     { return nil }
func (s stubSourceRepo) RecordCrawlResult(context.Context, uuid.UUID, time.Time, *string) error {
	return nil
}

type stubTermRepo struct{}

func (stubTermRepo) List(context.Context) ([]listing.SearchTerm, error)       { return nil, nil }
func (stubTermRepo) ListActive(context.Context) ([]listing.SearchTerm, error) { return nil, nil }
func (stubTermRepo) Create(context.Context, string, listing.MatchMode, []string) (listing.SearchTerm, error) {
	return listing.SearchTerm{}, nil
}
func (stubTermRepo) SetActive(context.Context, uuid.UUID, bool) error { return nil }
func (stubTermRepo) Delete(context.Context, uuid.UUID) error          { return nil }

type stubMatchRepo struct{}

func (stubMatchRepo) InsertIfNew(context.Context, listing.Match) (bool, error) { return true, nil }
func (stubMatchRepo) List(context.Context, repository.MatchListFilter) ([]listing.Match, error) {
	return nil, nil
}
func (stubMatchRepo) MarkAllSeen(context.Context) error { return nil }

type stubRunRepo struct {
	runs    []listing.CrawlRun
	listErr error
}

func (s *stubRunRepo) Insert(_ context.Context, run listing.CrawlRun) error {
	s.runs = append(s.runs, run)
	return nil
}

func (s *stubRunRepo) ListRecent(context.Context, int) ([]listing.CrawlRun, error) {
	return s.runs, s.listErr
}

func newCrawlUsecaseForTest(runs *stubRunRepo) (*Crawl, *crawl.State) {
	state := crawl.NewState()
	orch := crawl.NewOrchestrator(stubSourceRepo{}, stubTermRepo{}, stubMatchRepo{}, runs, scraper.NewRegistry(), state, nil, time.Second, nil)
	return NewCrawlUsecase(orch, state, runs, 10, context.Background(), nil), state
}

func TestCrawlUsecase_StatusIdle(t *testing.T) {
	runs := &stubRunRepo{runs: []listing.CrawlRun{
		{DurationSeconds: 100, IsSuccess: true},
		{DurationSeconds: 200, IsSuccess: true},
		{DurationSeconds: 300, IsSuccess: true},
	}}
	uc, _ := newCrawlUsecaseForTest(runs)

	st, err := uc.Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.IsRunning {
		t.Fatal("expected idle status")
	}
	if st.EtaMinutes != nil {
		t.Fatalf("idle status must not carry an ETA, got %d", *st.EtaMinutes)
	}
	if st.AvgDurationSeconds == nil || *st.AvgDurationSeconds != 200 {
		t.Fatalf("expected 200s historical average, got %v", st.AvgDurationSeconds)
	}
	if st.ElapsedSeconds != 0 {
		t.Fatalf("idle status must not report elapsed time, got %f", st.ElapsedSeconds)
	}
}

func TestCrawlUsecase_StatusRunningWithHistory(t *testing.T) {
	runs := &stubRunRepo{runs: []listing.CrawlRun{
		{DurationSeconds: 200, IsSuccess: true},
		{DurationSeconds: 200, IsSuccess: true},
		{DurationSeconds: 200, IsSuccess: true},
	}}
	uc, state := newCrawlUsecaseForTest(runs)

	state.Begin(4, time.Now().UTC().Add(-50*time.Second))
	state.SetCurrentSource("bietbox")

	st, err := uc.Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !st.IsRunning || st.CurrentSource != "bietbox" {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.EtaMinutes == nil || *st.EtaMinutes != 3 {
		t.Fatalf("expected 3 minute ETA from the 200s average, got %v", st.EtaMinutes)
	}
	if st.ElapsedSeconds < 49 || st.ElapsedSeconds > 55 {
		t.Fatalf("expected roughly 50s elapsed, got %f", st.ElapsedSeconds)
	}
}

func TestCrawlUsecase_StatusSurvivesHistoryFailure(t *testing.T) {
	runs := &stubRunRepo{listErr: errors.New("connection refused")}
	uc, state := newCrawlUsecaseForTest(runs)

	state.Begin(4, time.Now().UTC().Add(-40*time.Second))
	state.CompleteSource(crawl.SourceOutcome{Source: "a", Status: crawl.OutcomeSuccess})
	state.CompleteSource(crawl.SourceOutcome{Source: "b", Status: crawl.OutcomeSuccess})

	st, err := uc.Status(context.Background())
	if err != nil {
		t.Fatalf("status must degrade, not fail: %v", err)
	}

	// Without history the ETA falls back to the in-flight projection:
	// 40s for 2 of 4 sources leaves about 40s, one minute rounded up.
	if st.EtaMinutes == nil || *st.EtaMinutes != 1 {
		t.Fatalf("expected 1 minute in-flight ETA, got %v", st.EtaMinutes)
	}
	if st.AvgDurationSeconds != nil {
		t.Fatal("expected no average without history")
	}
}

func TestCrawlUsecase_RecentRunsLimit(t *testing.T) {
	uc, _ := newCrawlUsecaseForTest(&stubRunRepo{})

	if _, err := uc.RecentRuns(context.Background(), 101); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized limit, got %v", err)
	}
	if _, err := uc.RecentRuns(context.Background(), 0); err != nil {
		t.Fatalf("zero limit should use the default, got %v", err)
	}
}

func TestCrawlUsecase_StartRejectsConcurrent(t *testing.T) {
	uc, state := newCrawlUsecaseForTest(&stubRunRepo{})

	// Simulate an in-flight cycle holding the slot.
	if !state.TryAcquire() {
		t.Fatal("setup: could not acquire slot")
	}
	defer state.Release()

	if err := uc.Start(context.Background(), listing.TriggerManual); !errors.Is(err, crawl.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}
