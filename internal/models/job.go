package models

// Job is a posted position applications point at.
type Job struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Skills      []string `json:"skills"`
	Status      string   `json:"status"`
	IsTrending  bool     `json:"is_trending"`
	IsFeatured  bool     `json:"is_featured"`
	Deadline    string   `json:"deadline"`
	PostedBy    string   `json:"posted_by"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// Candidate is a job seeker's profile. A user may not have one yet; that is
// an expected state for new users, not a fault.
type Candidate struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	FullName  string   `json:"full_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Skills    []string `json:"skills"`
	ResumeURL string   `json:"resume_url,omitempty"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// User is an account in the system.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}
