package dto

import "github.com/google/uuid"

type SearchTermResponse struct {
	ID           uuid.UUID `json:"id"`
	Term         string    `json:"term"`
	Mode         string    `json:"mode"`
	IsActive     bool      `json:"is_active"`
	ExcludeTerms []string  `json:"exclude_terms"`
	CreatedAt    string    `json:"created_at"`
}

type CreateSearchTermRequest struct {
	Term         string   `json:"term"`
	Mode         string   `json:"mode"`
	ExcludeTerms []string `json:"exclude_terms"`
}

type SetSearchTermActiveRequest struct {
	IsActive bool `json:"is_active"`
}
