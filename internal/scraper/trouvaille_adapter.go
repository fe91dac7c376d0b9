package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"listing-radar/internal/domain/listing"

	"github.com/PuerkitoBio/goquery"
)

// TrouvailleAdapter scrapes trouvaille.ch, a shop with a single
// second-hand product grid. One catalog fetch returns every current
// listing; matching against terms happens downstream.
type TrouvailleAdapter struct {
	baseURL string
	client  *http.Client
}

func NewTrouvailleAdapter(baseURL string) *TrouvailleAdapter {
	a := &TrouvailleAdapter{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"), client: newHTTPClient()}
	if a.baseURL == "" {
		a.baseURL = "https://www.trouvaille.ch"
	}
	return a
}

func (a *TrouvailleAdapter) Scrape(ctx context.Context, source listing.Source, _ []listing.SearchTerm) ([]listing.Record, error) {
	if a == nil {
		return nil, fmt.Errorf("nil adapter")
	}

	catalogURL := a.baseURL + "/occasionen"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, catalogURL, nil)
	if err != nil {
		return nil, networkErr(source.Name, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, networkErr(source.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, networkErr(source.Name, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, parseErr(source.Name, err)
	}

	now := time.Now().UTC()
	records := make([]listing.Record, 0)

	doc.Find(".product-item").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(".product-title").Text())
		href, _ := sel.Find("a").First().Attr("href")
		href = strings.TrimSpace(href)
		if title == "" || href == "" {
			return
		}

		img, _ := sel.Find("img").First().Attr("src")

		records = append(records, listing.Record{
			Source:    source.Name,
			Title:     title,
			Price:     parsePrice(sel.Find(".product-price").Text()),
			URL:       absoluteURL(a.baseURL, href),
			ImageURL:  absoluteURL(a.baseURL, img),
			FetchedAt: now,
		})
	})

	if len(records) == 0 {
		// An empty grid is legal, but a page without the grid markup at
		// all means the layout changed under us.
		if doc.Find(".product-item").Length() == 0 && doc.Find("body").Length() == 0 {
			return nil, parseErr(source.Name, fmt.Errorf("catalog markup not found"))
		}
	}

	return records, nil
}
