package models

// Interview lifecycle statuses.
const (
	InterviewPending     = "pending"
	InterviewScheduled   = "scheduled"
	InterviewAccepted    = "accepted"
	InterviewDeclined    = "declined"
	InterviewCompleted   = "completed"
	InterviewExpired     = "expired"
	InterviewRescheduled = "rescheduled"
	InterviewCancelled   = "cancelled"
	InterviewShortlisted = "shortlisted"
	InterviewRejected    = "rejected"
)

// Interview types.
const (
	InterviewTypeTechnical = "technical"
	InterviewTypeHR        = "hr"
)

// Interview is tied to one candidate, one job and one HR owner, and
// optionally to one application.
type Interview struct {
	ID              string  `json:"id"`
	ApplicationID   *string `json:"application_id"`
	CandidateID     string  `json:"candidate_id"`
	JobID           string  `json:"job_id"`
	HRID            string  `json:"hr_id"`
	ScheduledAt     string  `json:"scheduled_at"`
	DurationMinutes int     `json:"duration_minutes"`
	MeetingLink     string  `json:"meeting_link"`
	Type            string  `json:"type"`
	Status          string  `json:"status"`
	IsAIInterview   bool    `json:"is_ai_interview"`
	AIInterviewLink string  `json:"ai_interview_link,omitempty"`
}
