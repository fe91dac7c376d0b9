package matching

import (
	"testing"

	"listing-radar/internal/domain/listing"

	"github.com/google/uuid"
)

func record(title string) listing.Record {
	return listing.Record{Source: "test", Title: title}
}

func term(text string, mode listing.MatchMode, excludes ...string) listing.SearchTerm {
	return listing.SearchTerm{
		ID:           uuid.New(),
		Term:         text,
		Mode:         mode,
		IsActive:     true,
		ExcludeTerms: excludes,
	}
}

func TestFind_ExactIsCaseInsensitiveSubstring(t *testing.T) {
	records := []listing.Record{
		record("LEICA M6 classic body"),
		record("Nikon F3 kit"),
	}
	terms := []listing.SearchTerm{term("leica m6", listing.MatchModeExact)}

	hits := Find(records, terms)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Record.Title != "LEICA M6 classic body" {
		t.Fatalf("unexpected hit: %+v", hits[0])
	}
}

func TestFind_ExactDoesNotNormalize(t *testing.T) {
	records := []listing.Record{record("Technics SL1200 turntable")}
	terms := []listing.SearchTerm{term("SL-1200", listing.MatchModeExact)}

	if hits := Find(records, terms); len(hits) != 0 {
		t.Fatalf("exact mode must not bridge hyphen variants, got %d hits", len(hits))
	}
}

func TestFind_PartialBridgesSpacingAndHyphens(t *testing.T) {
	records := []listing.Record{
		record("Technics SL-1200 MK2"),
		record("Technics SL 1200"),
		record("technics sl1200"),
		record("Technics SL-1300"),
	}
	terms := []listing.SearchTerm{term("SL-1200", listing.MatchModePartial)}

	hits := Find(records, terms)
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits across spelling variants, got %d", len(hits))
	}
}

func TestFind_ExcludeTermDropsRecordForThatTermOnly(t *testing.T) {
	records := []listing.Record{
		record("Leica M6 body defekt"),
		record("Leica M6 body mint"),
	}
	keep := term("Leica M6", listing.MatchModeExact, "defekt")
	broad := term("body", listing.MatchModeExact)

	hits := Find(records, []listing.SearchTerm{keep, broad})

	var keepHits, broadHits int
	for _, h := range hits {
		switch h.TermID {
		case keep.ID:
			keepHits++
		case broad.ID:
			broadHits++
		}
	}
	if keepHits != 1 {
		t.Fatalf("excluded record should be dropped for its term only, got %d", keepHits)
	}
	if broadHits != 2 {
		t.Fatalf("other terms keep matching the excluded record, got %d", broadHits)
	}
}

func TestFind_InactiveTermsAreSkipped(t *testing.T) {
	inactive := term("Leica", listing.MatchModeExact)
	inactive.IsActive = false

	if hits := Find([]listing.Record{record("Leica M6")}, []listing.SearchTerm{inactive}); len(hits) != 0 {
		t.Fatalf("inactive term must not match, got %d hits", len(hits))
	}
}

func TestFind_FoundByTermMatchesWithoutTitleText(t *testing.T) {
	rec := record("Vintage rangefinder, boxed")
	rec.FoundByTerm = "Leica M6"

	hits := Find([]listing.Record{rec}, []listing.SearchTerm{term("Leica M6", listing.MatchModeExact)})
	if len(hits) != 1 {
		t.Fatalf("search-driven record should match its term, got %d hits", len(hits))
	}
}

func TestFind_FoundByTermStillHonorsExcludes(t *testing.T) {
	rec := record("Leica M6 defekt, Bastler")
	rec.FoundByTerm = "Leica M6"

	hits := Find([]listing.Record{rec}, []listing.SearchTerm{term("Leica M6", listing.MatchModeExact, "defekt")})
	if len(hits) != 0 {
		t.Fatalf("excludes apply to search-driven records too, got %d hits", len(hits))
	}
}

func TestFind_OneRecordCanHitSeveralTerms(t *testing.T) {
	records := []listing.Record{record("Leica M6 with Summicron 50mm")}
	terms := []listing.SearchTerm{
		term("Leica M6", listing.MatchModeExact),
		term("Summicron", listing.MatchModeExact),
	}

	if hits := Find(records, terms); len(hits) != 2 {
		t.Fatalf("expected 2 hits for one record, got %d", len(hits))
	}
}

func TestFind_EmptyInputs(t *testing.T) {
	if hits := Find(nil, []listing.SearchTerm{term("x", listing.MatchModeExact)}); len(hits) != 0 {
		t.Fatal("no records means no hits")
	}
	if hits := Find([]listing.Record{record("x")}, nil); len(hits) != 0 {
		t.Fatal("no terms means no hits")
	}
	if hits := Find([]listing.Record{record("")}, []listing.SearchTerm{term("x", listing.MatchModeExact)}); len(hits) != 0 {
		t.Fatal("blank titles never match")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SL-1200", "sl1200"},
		{"SL 1200", "sl1200"},
		{"sl1200", "sl1200"},
		{" Leica  M6 ", "leicam6"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalize(tc.in); got != tc.want {
			t.Errorf("normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
