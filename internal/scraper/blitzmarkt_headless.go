package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"listing-radar/internal/domain/listing"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// BlitzmarktAdapter scrapes blitzmarkt.ch, whose listing grid is
// rendered client-side. A headless browser renders the grid and the
// resulting HTML is parsed like any other page.
type BlitzmarktAdapter struct {
	baseURL string
}

func NewBlitzmarktAdapter(baseURL string) *BlitzmarktAdapter {
	a := &BlitzmarktAdapter{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
	if a.baseURL == "" {
		a.baseURL = "https://www.blitzmarkt.ch"
	}
	return a
}

func (a *BlitzmarktAdapter) Scrape(ctx context.Context, source listing.Source, _ []listing.SearchTerm) ([]listing.Record, error) {
	if a == nil {
		return nil, fmt.Errorf("nil adapter")
	}

	html, err := a.renderGrid(ctx)
	if err != nil {
		return nil, networkErr(source.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, parseErr(source.Name, err)
	}

	now := time.Now().UTC()
	records := make([]listing.Record, 0)

	doc.Find("[data-listing-id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("data-listing-id")
		title := strings.TrimSpace(sel.Find(".listing-title").Text())
		href, _ := sel.Find("a").First().Attr("href")
		if title == "" || strings.TrimSpace(href) == "" {
			return
		}

		img, _ := sel.Find("img").First().Attr("src")

		records = append(records, listing.Record{
			Source:     source.Name,
			ExternalID: strings.TrimSpace(id),
			Title:      title,
			Price:      parsePrice(sel.Find(".listing-price").Text()),
			URL:        absoluteURL(a.baseURL, href),
			ImageURL:   absoluteURL(a.baseURL, img),
			FetchedAt:  now,
		})
	})

	if len(records) == 0 {
		return nil, parseErr(source.Name, fmt.Errorf("no listings rendered"))
	}

	return records, nil
}

func (a *BlitzmarktAdapter) renderGrid(ctx context.Context) (string, error) {
	gridURL := a.baseURL + "/angebote"

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(userAgent),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, requestTimeout)
	defer reqCancel()

	var html string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(gridURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
