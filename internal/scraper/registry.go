package scraper

import (
	"context"
	"sort"
	"strings"
	"sync"

	"listing-radar/internal/domain/listing"
)

// Adapter fetches and parses one marketplace into normalized listing
// records. Adapters do network I/O only and never touch shared state;
// the per-invocation timeout is enforced by the caller through ctx.
type Adapter interface {
	Scrape(ctx context.Context, source listing.Source, terms []listing.SearchTerm) ([]listing.Record, error)
}

// Registry maps source names to their adapters. Sources without a
// registered adapter fail their crawl outcome instead of aborting the
// cycle.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

func (r *Registry) Register(sourceName string, a Adapter) {
	if r == nil || a == nil {
		return
	}
	sourceName = strings.TrimSpace(sourceName)
	if sourceName == "" {
		return
	}
	r.mu.Lock()
	r.adapters[sourceName] = a
	r.mu.Unlock()
}

func (r *Registry) Lookup(sourceName string) (Adapter, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	a, ok := r.adapters[strings.TrimSpace(sourceName)]
	r.mu.RUnlock()
	return a, ok
}

func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	names := make([]string, 0, len(r.adapters))
	for n := range r.adapters {
		names = append(names, n)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
