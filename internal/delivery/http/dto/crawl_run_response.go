package dto

import "github.com/google/uuid"

type CrawlRunResponse struct {
	ID               uuid.UUID `json:"id"`
	StartedAt        string    `json:"started_at"`
	CompletedAt      string    `json:"completed_at"`
	DurationSeconds  float64   `json:"duration_seconds"`
	SourcesAttempted int       `json:"sources_attempted"`
	SourcesSucceeded int       `json:"sources_succeeded"`
	SourcesFailed    int       `json:"sources_failed"`
	TotalListings    int       `json:"total_listings"`
	NewMatches       int       `json:"new_matches"`
	DuplicateMatches int       `json:"duplicate_matches"`
	IsSuccess        bool      `json:"is_success"`
	Trigger          string    `json:"trigger"`
}
