// Package interviews is the query/mutation layer for interviews.
package interviews

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"hireflow/internal/api"
	"hireflow/internal/cache"
	"hireflow/internal/common/logger"
	"hireflow/internal/models"
	"hireflow/internal/resources/analytics"
)

const (
	ListPrefix       = "interviews:list"
	DetailPrefix     = "interviews:detail"
	StatusListPrefix = "interviews:status-list"
)

type Client struct {
	api    *api.Client
	cache  *cache.Cache
	ttl    time.Duration
	logger logger.Logger
}

func NewClient(apiClient *api.Client, c *cache.Cache, ttl time.Duration, log logger.Logger) *Client {
	return &Client{
		api:    apiClient,
		cache:  c,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"resource": "interviews"}),
	}
}

// ListFilter narrows the interview list. ApplicationID keys the per-
// application interview view that status changes invalidate.
type ListFilter struct {
	Page          int
	PageSize      int
	ApplicationID string
	CandidateID   string
	Status        string
}

func (f *ListFilter) params() map[string]string {
	if f == nil {
		return nil
	}
	p := map[string]string{
		"application_id": f.ApplicationID,
		"candidate_id":   f.CandidateID,
		"status":         f.Status,
	}
	if f.Page > 0 {
		p["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 {
		p["page_size"] = strconv.Itoa(f.PageSize)
	}
	return p
}

// ApplicationListKey is the invalidation target for one application's
// interview list view.
func ApplicationListKey(applicationID string) string {
	return cache.Key(ListPrefix, map[string]string{"application_id": applicationID})
}

// ListResult is the cached projection of one filtered list view.
type ListResult struct {
	Interviews []models.Interview `json:"interviews"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

func (c *Client) List(ctx context.Context, filter *ListFilter) (*ListResult, error) {
	key := cache.Key(ListPrefix, filter.params())

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		query := map[string][]string{}
		for k, v := range filter.params() {
			if v != "" {
				query[k] = []string{v}
			}
		}
		env, err := c.api.Get(ctx, "/interviews", query)
		if err != nil {
			return nil, err
		}
		result := &ListResult{Pagination: env.Pagination}
		if err := env.Decode(&result.Interviews); err != nil {
			return nil, err
		}
		return json.Marshal(result)
	})
	if err != nil {
		return nil, err
	}

	var result ListResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Interview, error) {
	key := cache.DetailKey(DetailPrefix, id)

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/interviews/"+id, nil)
		if err != nil {
			return nil, err
		}
		var interview models.Interview
		if err := env.Decode(&interview); err != nil {
			return nil, err
		}
		return json.Marshal(&interview)
	})
	if err != nil {
		return nil, err
	}

	var interview models.Interview
	if err := json.Unmarshal(raw, &interview); err != nil {
		return nil, err
	}
	return &interview, nil
}

// StatusList returns the interview status lookup, cached long-term.
func (c *Client) StatusList(ctx context.Context) ([]models.StatusListEntry, error) {
	raw, _, err := c.cache.Fetch(ctx, StatusListPrefix, 24*time.Hour, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/interviews/status-list", nil)
		if err != nil {
			return nil, err
		}
		var entries []models.StatusListEntry
		if err := env.Decode(&entries); err != nil {
			return nil, err
		}
		return json.Marshal(entries)
	})
	if err != nil {
		return nil, err
	}

	var entries []models.StatusListEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateInput is the schedule-interview payload.
type CreateInput struct {
	ApplicationID   *string `json:"application_id,omitempty"`
	CandidateID     string  `json:"candidate_id"`
	JobID           string  `json:"job_id"`
	HRID            string  `json:"hr_id"`
	ScheduledAt     string  `json:"scheduled_at"`
	DurationMinutes int     `json:"duration_minutes"`
	MeetingLink     string  `json:"meeting_link,omitempty"`
	Type            string  `json:"type"`
	IsAIInterview   bool    `json:"is_ai_interview,omitempty"`
}

// Create schedules an interview. Invalidation set: the list prefix plus the
// linked application's interview view.
func (c *Client) Create(ctx context.Context, input *CreateInput) (*models.Interview, error) {
	env, err := c.api.Post(ctx, "/interviews", input)
	if err != nil {
		return nil, err
	}

	var interview models.Interview
	if err := env.Decode(&interview); err != nil {
		return nil, err
	}

	prefixes := []string{ListPrefix, analytics.DashboardPrefix, analytics.FunnelPrefix}
	if input.ApplicationID != nil && *input.ApplicationID != "" {
		prefixes = append(prefixes, ApplicationListKey(*input.ApplicationID))
	}
	c.cache.Invalidate(ctx, prefixes...)
	return &interview, nil
}

// Update patches an interview. When the patch moves the interview to a
// different application, the interview-list views of BOTH the old and the
// new application are invalidated; the previous owner is read before the
// write so its view does not go stale.
func (c *Client) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Interview, error) {
	var oldApplicationID string
	if existing, err := c.Get(ctx, id); err == nil && existing.ApplicationID != nil {
		oldApplicationID = *existing.ApplicationID
	}

	env, err := c.api.Put(ctx, "/interviews/"+id, patch)
	if err != nil {
		return nil, err
	}

	var interview models.Interview
	if err := env.Decode(&interview); err != nil {
		return nil, err
	}

	prefixes := []string{ListPrefix, cache.DetailKey(DetailPrefix, id),
		analytics.DashboardPrefix, analytics.FunnelPrefix}
	if oldApplicationID != "" {
		prefixes = append(prefixes, ApplicationListKey(oldApplicationID))
	}
	if interview.ApplicationID != nil && *interview.ApplicationID != "" && *interview.ApplicationID != oldApplicationID {
		prefixes = append(prefixes, ApplicationListKey(*interview.ApplicationID))
	}
	c.cache.Invalidate(ctx, prefixes...)
	return &interview, nil
}

// Delete cancels and removes an interview.
func (c *Client) Delete(ctx context.Context, id string) error {
	var applicationID string
	if existing, err := c.Get(ctx, id); err == nil && existing.ApplicationID != nil {
		applicationID = *existing.ApplicationID
	}

	if _, err := c.api.Delete(ctx, "/interviews/"+id, nil); err != nil {
		return err
	}

	prefixes := []string{ListPrefix, cache.DetailKey(DetailPrefix, id),
		analytics.DashboardPrefix, analytics.FunnelPrefix}
	if applicationID != "" {
		prefixes = append(prefixes, ApplicationListKey(applicationID))
	}
	c.cache.Invalidate(ctx, prefixes...)
	return nil
}

// SendInvite asks the backend to deliver the interview invitation.
func (c *Client) SendInvite(ctx context.Context, id string) error {
	_, err := c.api.Post(ctx, "/interviews/"+id+"/send-invite", nil)
	return err
}

// UpdateStatus moves an interview through its lifecycle
// (pending → scheduled → accepted/declined → completed and the rest).
// Invalidation set: list, this detail, and the owning application's view.
func (c *Client) UpdateStatus(ctx context.Context, id, status string) error {
	var applicationID string
	if existing, err := c.Get(ctx, id); err == nil && existing.ApplicationID != nil {
		applicationID = *existing.ApplicationID
	}

	_, err := c.api.Post(ctx, "/interviews/"+id+"/status", map[string]interface{}{
		"status": status,
	})
	if err != nil {
		return err
	}

	prefixes := []string{ListPrefix, cache.DetailKey(DetailPrefix, id),
		analytics.DashboardPrefix, analytics.FunnelPrefix}
	if applicationID != "" {
		prefixes = append(prefixes, ApplicationListKey(applicationID))
	}
	c.cache.Invalidate(ctx, prefixes...)
	return nil
}
