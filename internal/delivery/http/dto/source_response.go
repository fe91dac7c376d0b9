package dto

import "github.com/google/uuid"

type SourceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	BaseURL     string    `json:"base_url"`
	IsEnabled   bool      `json:"is_enabled"`
	SortOrder   int       `json:"sort_order"`
	LastCrawlAt string    `json:"last_crawl_at,omitempty"`
	LastError   *string   `json:"last_error"`
}

type SetSourceEnabledRequest struct {
	IsEnabled bool `json:"is_enabled"`
}
