package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	userAgent      = "Mozilla/5.0 (compatible; ListingRadar/1.0)"
	maxBodyBytes   = 8 << 20
	requestTimeout = 25 * time.Second
)

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: requestTimeout,
	}
}

func absoluteURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

var (
	priceCleanRe     = regexp.MustCompile(`[^\d.,']`)
	priceThousandsRe = regexp.MustCompile(`^(\d+)\.(\d{3})$`)
)

// parsePrice extracts a numeric price from marketplace price strings.
// Handles the apostrophe thousands separator ("CHF 1'234.50"), comma
// decimals ("1'234,50 CHF") and dot-as-thousands ("1.550CHF" = 1550).
// Returns nil for empty input, "Auf Anfrage" style strings, and
// anything unparseable.
func parsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.Contains(strings.ToLower(raw), "anfrage") {
		return nil
	}

	cleaned := priceCleanRe.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, "'", "")

	switch {
	case strings.Contains(cleaned, ",") && strings.Contains(cleaned, "."):
		// European "1.234,50": dot groups thousands, comma is decimal.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case strings.Contains(cleaned, ","):
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case strings.Contains(cleaned, "."):
		// A lone dot followed by exactly three digits is a thousands
		// separator ("1.550" = 1550), not a decimal point.
		if m := priceThousandsRe.FindStringSubmatch(cleaned); m != nil {
			cleaned = m[1] + m[2]
		}
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

func readAllLimit(r io.Reader, max int64) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: max}
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if lr.N <= 0 {
		return nil, fmt.Errorf("response too large")
	}
	return b, nil
}

// politeSleep waits d between paged requests to the same host,
// returning early when ctx is canceled.
func politeSleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func pickNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
