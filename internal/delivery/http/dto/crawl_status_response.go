package dto

type CrawlStatusResponse struct {
	IsRunning          bool                 `json:"is_running"`
	SourcesTotal       int                  `json:"sources_total"`
	SourcesDone        int                  `json:"sources_done"`
	CurrentSource      string               `json:"current_source,omitempty"`
	StartedAt          string               `json:"started_at,omitempty"`
	ElapsedSeconds     float64              `json:"elapsed_seconds"`
	EtaMinutes         *int                 `json:"eta_minutes"`
	AvgDurationSeconds *float64             `json:"avg_duration_seconds"`
	Outcomes           []SourceOutcomeItem  `json:"outcomes"`
	LastRun            *CrawlRunSummaryItem `json:"last_run,omitempty"`
}

type SourceOutcomeItem struct {
	Source         string  `json:"source"`
	Status         string  `json:"status"`
	Listings       int     `json:"listings"`
	NewMatches     int     `json:"new_matches"`
	Error          string  `json:"error,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

type CrawlRunSummaryItem struct {
	SourcesAttempted int      `json:"sources_attempted"`
	SourcesSucceeded int      `json:"sources_succeeded"`
	SourcesFailed    int      `json:"sources_failed"`
	TotalListings    int      `json:"total_listings"`
	NewMatches       int      `json:"new_matches"`
	DuplicateMatches int      `json:"duplicate_matches"`
	FailedSources    []string `json:"failed_sources,omitempty"`
	StartedAt        string   `json:"started_at"`
	CompletedAt      string   `json:"completed_at"`
	DurationSeconds  float64  `json:"duration_seconds"`
	IsSuccess        bool     `json:"is_success"`
	Aborted          bool     `json:"aborted"`
}
