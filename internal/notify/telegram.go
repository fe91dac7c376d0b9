package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"listing-radar/internal/domain/listing"
)

const (
	telegramAPIBase = "https://api.telegram.org"
	maxShownMatches = 5
)

// Telegram pushes a summary message after a crawl cycle that found new
// matches. A notifier built without credentials silently skips every
// send, so the crawler works fine without a configured bot.
type Telegram struct {
	botToken string
	chatID   string
	client   *http.Client
	apiBase  string
	logger   *log.Logger
}

func NewTelegram(botToken, chatID string, logger *log.Logger) *Telegram {
	if logger == nil {
		logger = log.Default()
	}
	return &Telegram{
		botToken: strings.TrimSpace(botToken),
		chatID:   strings.TrimSpace(chatID),
		client:   &http.Client{Timeout: 15 * time.Second},
		apiBase:  telegramAPIBase,
		logger:   logger,
	}
}

func (t *Telegram) configured() bool {
	return t != nil && t.botToken != "" && t.chatID != ""
}

// NotifyNewMatches sends one HTML message listing up to five of the new
// matches plus the cycle duration. No-op when unconfigured or when the
// cycle produced nothing new.
func (t *Telegram) NotifyNewMatches(ctx context.Context, matches []listing.Match, duration time.Duration) error {
	if !t.configured() {
		return nil
	}
	if len(matches) == 0 {
		return nil
	}

	text := buildMessage(matches, duration)
	if err := t.sendMessage(ctx, text); err != nil {
		t.logger.Printf("notify=telegram status=failed error=%v", err)
		return err
	}
	t.logger.Printf("notify=telegram status=sent matches=%d", len(matches))
	return nil
}

func buildMessage(matches []listing.Match, duration time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%d new listing(s) found</b>\n\n", len(matches))

	shown := matches
	if len(shown) > maxShownMatches {
		shown = shown[:maxShownMatches]
	}
	for _, m := range shown {
		title := html.EscapeString(m.Title)
		if m.URL != "" {
			fmt.Fprintf(&b, "• <a href=\"%s\">%s</a>", html.EscapeString(m.URL), title)
		} else {
			fmt.Fprintf(&b, "• %s", title)
		}
		if m.Price != nil {
			fmt.Fprintf(&b, " - CHF %.2f", *m.Price)
		}
		fmt.Fprintf(&b, "\n  <i>%s · %s</i>\n", html.EscapeString(m.SourceName), html.EscapeString(m.Term))
	}
	if rest := len(matches) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\n…and %d more\n", rest)
	}

	fmt.Fprintf(&b, "\nCrawl took %s", formatDuration(duration))
	return b.String()
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) - mins*60
	return fmt.Sprintf("%dm %ds", mins, secs)
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	payload := map[string]any{
		"chat_id":                  t.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("telegram sendMessage: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}
