package dto

import "github.com/google/uuid"

type MatchResponse struct {
	ID          uuid.UUID `json:"id"`
	SourceName  string    `json:"source_name"`
	Term        string    `json:"term"`
	Title       string    `json:"title"`
	Price       *float64  `json:"price"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsNew       bool      `json:"is_new"`
	FirstSeenAt string    `json:"first_seen_at"`
}
