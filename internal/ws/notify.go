package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

type CrawlStartedEvent struct {
	Type         string `json:"type"`
	SourcesTotal int    `json:"sources_total"`
	Timestamp    string `json:"timestamp"`
}

type SourceDoneEvent struct {
	Type         string `json:"type"`
	Source       string `json:"source"`
	Status       string `json:"status"`
	Listings     int    `json:"listings"`
	NewMatches   int    `json:"new_matches"`
	SourcesDone  int    `json:"sources_done"`
	SourcesTotal int    `json:"sources_total"`
	Timestamp    string `json:"timestamp"`
}

type CrawlFinishedEvent struct {
	Type             string  `json:"type"`
	IsSuccess        bool    `json:"is_success"`
	Aborted          bool    `json:"aborted"`
	SourcesSucceeded int     `json:"sources_succeeded"`
	SourcesFailed    int     `json:"sources_failed"`
	NewMatches       int     `json:"new_matches"`
	DurationSeconds  float64 `json:"duration_seconds"`
	Timestamp        string  `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

func NotifyCrawlStarted(total int) {
	publish(CrawlStartedEvent{
		Type:         "crawl_started",
		SourcesTotal: total,
		Timestamp:    now(),
	})
}

func NotifySourceDone(source, status string, listings, newMatches, done, total int) {
	publish(SourceDoneEvent{
		Type:         "source_done",
		Source:       source,
		Status:       status,
		Listings:     listings,
		NewMatches:   newMatches,
		SourcesDone:  done,
		SourcesTotal: total,
		Timestamp:    now(),
	})
}

func NotifyCrawlFinished(isSuccess, aborted bool, succeeded, failed, newMatches int, durationSeconds float64) {
	publish(CrawlFinishedEvent{
		Type:             "crawl_finished",
		IsSuccess:        isSuccess,
		Aborted:          aborted,
		SourcesSucceeded: succeeded,
		SourcesFailed:    failed,
		NewMatches:       newMatches,
		DurationSeconds:  durationSeconds,
		Timestamp:        now(),
	})
}

func publish(evt any) {
	h := defaultHub.Load()
	if h == nil {
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
