package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"listing-radar/internal/domain/listing"
)

// OccasioAdapter fetches occasio.ch listings through its public JSON
// feed, paging until the feed reports no next page.
type OccasioAdapter struct {
	baseURL   string
	client    *http.Client
	maxPages  int
	pageDelay time.Duration
}

func NewOccasioAdapter(baseURL string) *OccasioAdapter {
	a := &OccasioAdapter{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"), client: newHTTPClient(), maxPages: 10, pageDelay: 300 * time.Millisecond}
	if a.baseURL == "" {
		a.baseURL = "https://www.occasio.ch"
	}
	return a
}

type occasioFeed struct {
	Items   []occasioItem `json:"items"`
	HasMore bool          `json:"has_more"`
}

type occasioItem struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Price    *string `json:"price"`
	URL      string  `json:"url"`
	ImageURL string  `json:"image_url"`
	PostedAt *string `json:"posted_at"`
}

func (a *OccasioAdapter) Scrape(ctx context.Context, source listing.Source, _ []listing.SearchTerm) ([]listing.Record, error) {
	if a == nil {
		return nil, fmt.Errorf("nil adapter")
	}

	now := time.Now().UTC()
	records := make([]listing.Record, 0)

	for page := 1; page <= a.maxPages; page++ {
		feed, err := a.fetchPage(ctx, source.Name, page)
		if err != nil {
			return records, err
		}

		for _, it := range feed.Items {
			title := strings.TrimSpace(it.Title)
			if title == "" {
				continue
			}
			var price *float64
			if it.Price != nil {
				price = parsePrice(*it.Price)
			}
			records = append(records, listing.Record{
				Source:     source.Name,
				ExternalID: strconv.Itoa(it.ID),
				Title:      title,
				Price:      price,
				URL:        absoluteURL(a.baseURL, it.URL),
				ImageURL:   absoluteURL(a.baseURL, it.ImageURL),
				PostedAt:   parseRFC3339OrNil(it.PostedAt),
				FetchedAt:  now,
			})
		}

		if !feed.HasMore {
			break
		}
		politeSleep(ctx, a.pageDelay)
	}

	return records, nil
}

func (a *OccasioAdapter) fetchPage(ctx context.Context, sourceName string, page int) (occasioFeed, error) {
	feedURL := fmt.Sprintf("%s/api/listings?page=%d", a.baseURL, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return occasioFeed{}, networkErr(sourceName, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return occasioFeed{}, networkErr(sourceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return occasioFeed{}, networkErr(sourceName, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := readAllLimit(resp.Body, maxBodyBytes)
	if err != nil {
		return occasioFeed{}, networkErr(sourceName, err)
	}

	var feed occasioFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return occasioFeed{}, parseErr(sourceName, err)
	}
	return feed, nil
}

func parseRFC3339OrNil(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
