package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"listing-radar/internal/domain/listing"
)

func price(v float64) *float64 { return &v }

func TestTelegram_UnconfiguredIsNoop(t *testing.T) {
	n := NewTelegram("", "", nil)
	err := n.NotifyNewMatches(context.Background(), []listing.Match{{Title: "x"}}, time.Second)
	if err != nil {
		t.Fatalf("unconfigured notifier must be silent, got %v", err)
	}
}

func TestTelegram_NoMatchesIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected when there is nothing to report")
	}))
	defer srv.Close()

	n := NewTelegram("token", "chat", nil)
	n.apiBase = srv.URL
	if err := n.NotifyNewMatches(context.Background(), nil, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTelegram_SendsTopFiveWithDuration(t *testing.T) {
	var payload struct {
		ChatID    string `json:"chat_id"`
		Text      string `json:"text"`
		ParseMode string `json:"parse_mode"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken/sendMessage" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	matches := make([]listing.Match, 0, 7)
	for _, title := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
		matches = append(matches, listing.Match{
			Title:      title,
			SourceName: "bietbox",
			Term:       "Leica M6",
			URL:        "https://example.ch/" + title,
			Price:      price(100),
		})
	}

	n := NewTelegram("token", "chat42", nil)
	n.apiBase = srv.URL
	if err := n.NotifyNewMatches(context.Background(), matches, 95*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.ChatID != "chat42" {
		t.Fatalf("expected chat42, got %q", payload.ChatID)
	}
	if payload.ParseMode != "HTML" {
		t.Fatalf("expected HTML parse mode, got %q", payload.ParseMode)
	}
	if !strings.Contains(payload.Text, "7 new listing(s)") {
		t.Fatalf("expected total count in message: %q", payload.Text)
	}
	if !strings.Contains(payload.Text, "five") || strings.Contains(payload.Text, "six") {
		t.Fatalf("expected only the first five listed: %q", payload.Text)
	}
	if !strings.Contains(payload.Text, "and 2 more") {
		t.Fatalf("expected overflow note: %q", payload.Text)
	}
	if !strings.Contains(payload.Text, "1m 35s") {
		t.Fatalf("expected formatted duration: %q", payload.Text)
	}
}

func TestTelegram_EscapesHTMLInTitles(t *testing.T) {
	var text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		text = payload.Text
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegram("token", "chat", nil)
	n.apiBase = srv.URL
	err := n.NotifyNewMatches(context.Background(), []listing.Match{{
		Title:      `Bastler <defekt> & "rar"`,
		SourceName: "occasio",
		Term:       "x",
	}}, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(text, "<defekt>") {
		t.Fatalf("raw angle brackets leaked into the message: %q", text)
	}
	if !strings.Contains(text, "&lt;defekt&gt;") {
		t.Fatalf("expected escaped title: %q", text)
	}
}

func TestTelegram_APIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false,"description":"chat not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewTelegram("token", "chat", nil)
	n.apiBase = srv.URL
	err := n.NotifyNewMatches(context.Background(), []listing.Match{{Title: "x", SourceName: "s", Term: "t"}}, time.Second)
	if err == nil {
		t.Fatal("expected an error from the API failure")
	}
	if !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{60 * time.Second, "1m 0s"},
		{95 * time.Second, "1m 35s"},
		{10 * time.Minute, "10m 0s"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.in); got != tc.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
