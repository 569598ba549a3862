package models

// Pagination is the paging block of the backend response envelope.
type Pagination struct {
	Page        int `json:"page"`
	PageSize    int `json:"page_size"`
	TotalCounts int `json:"total_counts"`
	TotalPages  int `json:"total_pages"`
}

// DashboardCounts holds the per-stage counters rendered on the dashboard.
type DashboardCounts struct {
	TotalApplications int            `json:"total_applications"`
	TotalJobs         int            `json:"total_jobs"`
	TotalCandidates   int            `json:"total_candidates"`
	TotalInterviews   int            `json:"total_interviews"`
	ByStage           map[string]int `json:"by_stage"`
}
