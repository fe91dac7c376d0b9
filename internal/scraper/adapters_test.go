package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"listing-radar/internal/domain/listing"
)

func TestOccasioAdapter_PagesUntilFeedEnds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"items":[{"id":1,"title":"Leica M6","price":"CHF 2'400.00","url":"/l/1"},{"id":2,"title":"Nikon F3","price":null,"url":"/l/2"}],"has_more":true}`)
		case "2":
			fmt.Fprint(w, `{"items":[{"id":3,"title":"Rolleiflex","price":"Auf Anfrage","url":"/l/3","posted_at":"2026-08-01T10:00:00Z"}],"has_more":false}`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
			http.Error(w, "bad page", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	a := NewOccasioAdapter(srv.URL)
	records, err := a.Scrape(context.Background(), listing.Source{Name: "occasio"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records over 2 pages, got %d", len(records))
	}
	if records[0].ExternalID != "1" || records[0].Title != "Leica M6" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[0].Price == nil || *records[0].Price != 2400 {
		t.Fatalf("unexpected first price: %v", records[0].Price)
	}
	if records[1].Price != nil {
		t.Fatalf("null feed price should stay nil, got %v", *records[1].Price)
	}
	if records[2].Price != nil {
		t.Fatal("price on request should stay nil")
	}
	if records[2].PostedAt == nil {
		t.Fatal("expected parsed posted_at")
	}
}

func TestOccasioAdapter_ServerErrorIsScrapeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewOccasioAdapter(srv.URL)
	_, err := a.Scrape(context.Background(), listing.Source{Name: "occasio"}, nil)

	var se *ScrapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected a ScrapeError, got %v", err)
	}
	if se.Kind != KindNetwork {
		t.Fatalf("expected network kind, got %s", se.Kind)
	}
	if se.Source != "occasio" {
		t.Fatalf("expected source occasio, got %s", se.Source)
	}
}

func TestOccasioAdapter_MalformedFeedIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"items": [`)
	}))
	defer srv.Close()

	a := NewOccasioAdapter(srv.URL)
	_, err := a.Scrape(context.Background(), listing.Source{Name: "occasio"}, nil)

	if KindOf(err) != KindParse {
		t.Fatalf("expected parse kind, got %v (%v)", KindOf(err), err)
	}
}

func TestTrouvailleAdapter_ParsesProductGrid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/occasionen" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>
			<div class="product-item">
				<a href="/p/1"><img src="/img/1.jpg"></a>
				<div class="product-title">Eames Lounge Chair</div>
				<div class="product-price">CHF 4'500.00</div>
			</div>
			<div class="product-item">
				<a href="/p/2"></a>
				<div class="product-title">Beistelltisch</div>
				<div class="product-price">Auf Anfrage</div>
			</div>
			<div class="product-item">
				<div class="product-title"></div>
			</div>
		</body></html>`)
	}))
	defer srv.Close()

	a := NewTrouvailleAdapter(srv.URL)
	records, err := a.Scrape(context.Background(), listing.Source{Name: "trouvaille"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, one skipped for missing title, got %d", len(records))
	}
	if records[0].Title != "Eames Lounge Chair" {
		t.Fatalf("unexpected first title: %q", records[0].Title)
	}
	if records[0].Price == nil || *records[0].Price != 4500 {
		t.Fatalf("unexpected first price: %v", records[0].Price)
	}
	if records[0].URL != srv.URL+"/p/1" {
		t.Fatalf("expected absolute URL, got %q", records[0].URL)
	}
	if records[1].Price != nil {
		t.Fatal("price on request should stay nil")
	}
}

func TestBietboxAdapter_SearchTagsRecordsWithTerm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("keyword") != "Leica M6" {
			t.Errorf("unexpected keyword %q", r.URL.Query().Get("keyword"))
		}
		if r.URL.Query().Get("page") != "" {
			// Later pages are empty so paging stops.
			fmt.Fprint(w, `<html><body><table></table></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body><table>
			<tr><td><a href="/markt/item.php?id=77">Leica M6 Set</a></td><td class="price">CHF 2'100.00</td></tr>
		</table></body></html>`)
	}))
	defer srv.Close()

	a := NewBietboxAdapter(srv.URL)
	terms := []listing.SearchTerm{{Term: "Leica M6", Mode: listing.MatchModeExact, IsActive: true}}
	records, err := a.Scrape(context.Background(), listing.Source{Name: "bietbox"}, terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.ExternalID != "77" {
		t.Fatalf("expected item id 77, got %q", rec.ExternalID)
	}
	if rec.FoundByTerm != "Leica M6" {
		t.Fatalf("expected record tagged with its search term, got %q", rec.FoundByTerm)
	}
	if rec.Price == nil || *rec.Price != 2100 {
		t.Fatalf("unexpected price: %v", rec.Price)
	}
}

func TestAdapterTimeoutClassifiedAsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	a := NewOccasioAdapter(srv.URL)
	_, err := a.Scrape(ctx, listing.Source{Name: "occasio"}, nil)
	if err == nil {
		t.Fatal("expected an error from the expired context")
	}
	if KindOf(err) != KindTimeout {
		t.Fatalf("expected timeout kind, got %v (%v)", KindOf(err), err)
	}
}
