package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"listing-radar/internal/domain/listing"

	"github.com/gocolly/colly/v2"
)

// BietboxAdapter scrapes bietbox.ch, a table-based auction marketplace.
// The site has no browsable catalog worth paging through, so the
// adapter runs one search per active term and tags each record with the
// term that found it.
type BietboxAdapter struct {
	baseURL     string
	allowedHost string
	maxPages    int
}

func NewBietboxAdapter(baseURL string) *BietboxAdapter {
	a := &BietboxAdapter{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"), maxPages: 5}
	if a.baseURL == "" {
		a.baseURL = "https://www.bietbox.ch"
	}
	a.allowedHost = hostFromBaseURL(a.baseURL)
	return a
}

func (a *BietboxAdapter) Scrape(ctx context.Context, source listing.Source, terms []listing.SearchTerm) ([]listing.Record, error) {
	if a == nil {
		return nil, fmt.Errorf("nil adapter")
	}

	records := make([]listing.Record, 0)
	seen := map[string]struct{}{}

	for _, term := range terms {
		if !term.IsActive || strings.TrimSpace(term.Term) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return records, networkErr(source.Name, err)
		}

		for page := 1; page <= a.maxPages; page++ {
			if err := ctx.Err(); err != nil {
				return records, networkErr(source.Name, err)
			}

			found, err := a.searchPage(source.Name, term.Term, page)
			if err != nil {
				return records, err
			}
			if len(found) == 0 {
				break
			}

			for _, rec := range found {
				if _, ok := seen[rec.URL]; ok {
					continue
				}
				seen[rec.URL] = struct{}{}
				records = append(records, rec)
			}
		}
	}

	return records, nil
}

func (a *BietboxAdapter) searchPage(sourceName, term string, page int) ([]listing.Record, error) {
	searchURL := fmt.Sprintf("%s/markt/list_items.php?keyword=%s&type=1", a.baseURL, url.QueryEscape(term))
	if page > 1 {
		searchURL += fmt.Sprintf("&page=%d", page)
	}

	var c *colly.Collector
	if a.allowedHost == "" {
		c = colly.NewCollector()
	} else {
		c = colly.NewCollector(colly.AllowedDomains(a.allowedHost))
	}
	c.UserAgent = userAgent
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, RandomDelay: 600 * time.Millisecond, Delay: 300 * time.Millisecond})

	now := time.Now().UTC()
	records := make([]listing.Record, 0)

	// Listings are table rows whose first link points at the item page.
	c.OnHTML("tr", func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.ChildAttr("a[href*='item.php?id=']", "href"))
		if href == "" {
			return
		}
		title := strings.TrimSpace(e.ChildText("a[href*='item.php?id=']"))
		if title == "" {
			return
		}

		abs := e.Request.AbsoluteURL(href)
		records = append(records, listing.Record{
			Source:      sourceName,
			ExternalID:  itemIDFromURL(abs),
			Title:       title,
			Price:       parsePrice(e.ChildText("td.price")),
			URL:         abs,
			ImageURL:    e.Request.AbsoluteURL(e.ChildAttr("img", "src")),
			FetchedAt:   now,
			FoundByTerm: term,
		})
	})

	var reqErr error
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(searchURL); err != nil {
		return nil, networkErr(sourceName, err)
	}
	c.Wait()
	if reqErr != nil {
		return nil, networkErr(sourceName, reqErr)
	}

	return records, nil
}

func itemIDFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("id"))
}

// hostFromBaseURL returns the bare hostname. Colly matches allowed
// domains against URL.Hostname(), which never carries a port.
func hostFromBaseURL(base string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return ""
	}
	return u.Hostname()
}
