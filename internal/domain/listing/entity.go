package listing

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MatchMode string

const (
	MatchModeExact   MatchMode = "exact"
	MatchModePartial MatchMode = "partial"
)

// Source is one marketplace adapter configuration. Admin-owned; the
// crawler reads it at the start of a cycle and only writes back the
// last-crawl bookkeeping fields.
type Source struct {
	ID          uuid.UUID
	Name        string
	BaseURL     string
	IsEnabled   bool
	SortOrder   int
	LastCrawlAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SearchTerm is a user-defined filter. ExcludeTerms drop a record for
// this term even when the term text itself matches.
type SearchTerm struct {
	ID           uuid.UUID
	Term         string
	Mode         MatchMode
	IsActive     bool
	SortOrder    int
	ExcludeTerms []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Record is one scraped item. Transient: produced by a scraper adapter,
// consumed by the matcher; only matches are persisted.
type Record struct {
	Source     string
	ExternalID string
	Title      string
	Price      *float64
	URL        string
	ImageURL   string
	PostedAt   *time.Time
	FetchedAt  time.Time

	// FoundByTerm marks records returned by search-driven adapters. When
	// set, the record counts as a hit for that term even if the term text
	// does not appear in the title.
	FoundByTerm string
}

// ExternalKey is the deduplication key for a record: the source-assigned
// listing id when present, otherwise a stable digest of the URL.
func (r Record) ExternalKey() string {
	if id := strings.TrimSpace(r.ExternalID); id != "" {
		return id
	}
	u := strings.TrimSpace(r.URL)
	if u == "" {
		return ""
	}
	h := sha1.Sum([]byte(u))
	return "urlsha1-" + hex.EncodeToString(h[:])
}

// Match is a persisted (record, search term) pair. Unique per
// (source_id, external_key, search_term_id) so repeat crawls never
// duplicate a hit.
type Match struct {
	ID           uuid.UUID
	SourceID     uuid.UUID
	SearchTermID uuid.UUID
	SourceName   string
	Term         string
	ExternalKey  string
	Title        string
	Price        *float64
	URL          string
	ImageURL     string
	IsNew        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TriggerKind string

const (
	TriggerManual   TriggerKind = "manual"
	TriggerSchedule TriggerKind = "schedule"
)

// CrawlRun is the immutable history record of one completed or aborted
// crawl cycle. It is the only input to the ETA historical-average path.
type CrawlRun struct {
	ID               uuid.UUID
	StartedAt        time.Time
	CompletedAt      time.Time
	DurationSeconds  float64
	SourcesAttempted int
	SourcesSucceeded int
	SourcesFailed    int
	TotalListings    int
	NewMatches       int
	DuplicateMatches int
	IsSuccess        bool
	Trigger          TriggerKind
}
