package matching

import (
	"strings"

	"listing-radar/internal/domain/listing"

	"github.com/google/uuid"
)

// Hit is one (record, search term) pair produced by Find. A record can
// appear in several hits, one per term it satisfies.
type Hit struct {
	Record listing.Record
	TermID uuid.UUID
	Term   string
	Mode   listing.MatchMode
}

// Find matches records against active search terms. Pure and
// deterministic: same records and term config always produce the same
// hit set, in input order.
//
// Exact mode is a case-insensitive substring match of the verbatim term.
// Partial mode normalizes both sides (lowercase, spaces and hyphens
// stripped) before the containment check, so "VZ-61", "VZ 61" and
// "vz61" all find each other. A record whose title contains one of the
// term's exclude terms is dropped for that term only.
func Find(records []listing.Record, terms []listing.SearchTerm) []Hit {
	hits := make([]Hit, 0)
	if len(records) == 0 || len(terms) == 0 {
		return hits
	}

	for _, rec := range records {
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			continue
		}

		for _, term := range terms {
			if !term.IsActive || strings.TrimSpace(term.Term) == "" {
				continue
			}
			if containsAny(title, term.ExcludeTerms) {
				continue
			}
			if !matches(rec, term) {
				continue
			}
			hits = append(hits, Hit{
				Record: rec,
				TermID: term.ID,
				Term:   term.Term,
				Mode:   term.Mode,
			})
		}
	}

	return hits
}

func matches(rec listing.Record, term listing.SearchTerm) bool {
	if foundBy := strings.TrimSpace(rec.FoundByTerm); foundBy != "" {
		if strings.EqualFold(foundBy, term.Term) {
			return true
		}
	}

	switch term.Mode {
	case listing.MatchModePartial:
		return matchesPartial(rec.Title, term.Term)
	default:
		return matchesExact(rec.Title, term.Term)
	}
}

func matchesExact(title, term string) bool {
	if title == "" || term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(term))
}

func matchesPartial(title, term string) bool {
	nt := normalize(title)
	ns := normalize(term)
	if nt == "" || ns == "" {
		return false
	}
	return strings.Contains(nt, ns)
}

// normalize lowercases and strips spaces and hyphens so model-number
// variants compare equal.
func normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '\n', '-':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsAny(title string, excludes []string) bool {
	if title == "" || len(excludes) == 0 {
		return false
	}
	lower := strings.ToLower(title)
	for _, ex := range excludes {
		ex = strings.ToLower(strings.TrimSpace(ex))
		if ex == "" {
			continue
		}
		if strings.Contains(lower, ex) {
			return true
		}
	}
	return false
}
