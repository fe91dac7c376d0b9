package crawl

import (
	"sync/atomic"
	"time"
)

type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeTimeout OutcomeStatus = "timeout"
)

// SourceOutcome records how a single source fared within one cycle.
type SourceOutcome struct {
	Source     string        `json:"source"`
	Status     OutcomeStatus `json:"status"`
	Listings   int           `json:"listings"`
	NewMatches int           `json:"new_matches"`
	Error      string        `json:"error,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
}

// RunSummary aggregates a finished (or aborted) cycle.
type RunSummary struct {
	SourcesAttempted int
	SourcesSucceeded int
	SourcesFailed    int
	TotalListings    int
	NewMatches       int
	DuplicateMatches int
	FailedSources    []string
	StartedAt        time.Time
	CompletedAt      time.Time
	DurationSeconds  float64
	Aborted          bool
}

// IsSuccess reports whether every attempted source succeeded and the
// cycle ran to natural completion.
func (r RunSummary) IsSuccess() bool {
	return r.SourcesSucceeded == r.SourcesAttempted && !r.Aborted
}

// Snapshot is the immutable view of the current (or most recent) cycle
// handed to readers. Fields are never mutated after publication.
type Snapshot struct {
	IsRunning     bool
	SourcesTotal  int
	SourcesDone   int
	CurrentSource string
	StartedAt     time.Time
	Outcomes      []SourceOutcome
	LastRun       *RunSummary
}

// State tracks the live crawl. The orchestrator is its only writer;
// every mutation publishes a fresh Snapshot through an atomic pointer,
// so readers always observe a consistent state and never a torn
// mid-update view.
type State struct {
	running atomic.Bool
	snap    atomic.Pointer[Snapshot]
}

func NewState() *State {
	s := &State{}
	s.snap.Store(&Snapshot{Outcomes: []SourceOutcome{}})
	return s
}

// TryAcquire claims the single-crawl slot. It is the reentrancy guard:
// exactly one caller wins until Release.
func (s *State) TryAcquire() bool {
	return s.running.CompareAndSwap(false, true)
}

func (s *State) Release() {
	s.running.Store(false)
}

// Begin publishes the fresh state for a new cycle. Requires the slot to
// have been acquired.
func (s *State) Begin(total int, startedAt time.Time) {
	s.snap.Store(&Snapshot{
		IsRunning:    true,
		SourcesTotal: total,
		SourcesDone:  0,
		StartedAt:    startedAt,
		Outcomes:     []SourceOutcome{},
		LastRun:      s.snap.Load().LastRun,
	})
}

// SetCurrentSource publishes the name of the source about to be
// scraped.
func (s *State) SetCurrentSource(name string) {
	next := s.clone()
	next.CurrentSource = name
	s.snap.Store(next)
}

// CompleteSource appends the outcome for the current source and bumps
// sources_done in the same published snapshot, so readers can never see
// the counter ahead of its outcome.
func (s *State) CompleteSource(outcome SourceOutcome) {
	next := s.clone()
	next.Outcomes = append(next.Outcomes, outcome)
	next.SourcesDone = len(next.Outcomes)
	s.snap.Store(next)
}

// Finish publishes the terminal snapshot for the cycle.
func (s *State) Finish(summary RunSummary) {
	next := s.clone()
	next.IsRunning = false
	next.CurrentSource = ""
	next.LastRun = &summary
	s.snap.Store(next)
}

// Snapshot returns the latest published state. The outcomes slice is
// owned by the snapshot and must not be mutated by callers.
func (s *State) Snapshot() Snapshot {
	return *s.snap.Load()
}

func (s *State) clone() *Snapshot {
	cur := s.snap.Load()
	next := *cur
	next.Outcomes = make([]SourceOutcome, len(cur.Outcomes), len(cur.Outcomes)+1)
	copy(next.Outcomes, cur.Outcomes)
	return &next
}
