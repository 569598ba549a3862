package models

// Application identifies a candidate's submission to a job. Stage and
// StatusID mirror the latest status-history entry; the backend does not
// guarantee the two stay consistent and the client tolerates divergence.
type Application struct {
	ID             string   `json:"id"`
	JobID          string   `json:"job_id"`
	CandidateID    string   `json:"candidate_id"`
	UserID         string   `json:"user_id"`
	CoverLetter    string   `json:"cover_letter"`
	Score          *float64 `json:"score"`
	MatchLevel     *string  `json:"match_level"`
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
	Stage          string   `json:"stage"`
	StatusID       int      `json:"status_id"`
	Priority       string   `json:"priority"`
	RecruiterID    string   `json:"recruiter_id"`
	AppliedAt      string   `json:"applied_at"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// StatusHistoryEntry is one immutable append-only record of a stage
// transition. The client never mutates or deletes these.
type StatusHistoryEntry struct {
	ID        string `json:"id"`
	StatusID  int    `json:"status_id"`
	Remark    string `json:"remark"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

// Remark is a free-text note attached to an application.
type Remark struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}
