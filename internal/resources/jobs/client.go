// Package jobs is the query/mutation layer for the jobs resource.
package jobs

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"hireflow/internal/api"
	"hireflow/internal/cache"
	"hireflow/internal/common/logger"
	"hireflow/internal/common/validation"
	"hireflow/internal/models"
)

const (
	ListPrefix   = "jobs:list"
	DetailPrefix = "jobs:detail"
)

var createSchema = validation.MustNew(`{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title":       {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"location":    {"type": "string"},
		"skills":      {"type": "array", "items": {"type": "string"}},
		"deadline":    {"type": "string"}
	}
}`)

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
		logger: log.WithFields(map[string]interface{}{"resource": "jobs"}),
	}
}

// ListFilter narrows the job listing. The listing endpoint takes its filters
// in a POST body, but it is a read: results are cached and keyed like any
// other filtered view.
type ListFilter struct {
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"page_size,omitempty"`
	Search     string `json:"search,omitempty"`
	Status     string `json:"status,omitempty"`
	IsTrending *bool  `json:"is_trending,omitempty"`
	IsFeatured *bool  `json:"is_featured,omitempty"`
}

func (f *ListFilter) params() map[string]string {
	if f == nil {
		return nil
	}
	p := map[string]string{
		"search": f.Search,
		"status": f.Status,
	}
	if f.Page > 0 {
		p["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 {
		p["page_size"] = strconv.Itoa(f.PageSize)
	}
	if f.IsTrending != nil {
		p["is_trending"] = strconv.FormatBool(*f.IsTrending)
	}
	if f.IsFeatured != nil {
		p["is_featured"] = strconv.FormatBool(*f.IsFeatured)
	}
	return p
}

// ListResult is the cached projection of one filtered listing.
type ListResult struct {
	Jobs       []models.Job       `json:"jobs"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// List returns jobs matching filter via POST /jobs/get-jobs.
func (c *Client) List(ctx context.Context, filter *ListFilter) (*ListResult, error) {
	key := cache.Key(ListPrefix, filter.params())

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		var body interface{}
		if filter != nil {
			body = filter
		} else {
			body = map[string]interface{}{}
		}
		env, err := c.api.PostRead(ctx, "/jobs/get-jobs", body)
		if err != nil {
			return nil, err
		}
		result := &ListResult{Pagination: env.Pagination}
		if err := env.Decode(&result.Jobs); err != nil {
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

// Get returns one job by id.
func (c *Client) Get(ctx context.Context, id string) (*models.Job, error) {
	key := cache.DetailKey(DetailPrefix, id)

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/jobs/"+id, nil)
		if err != nil {
			return nil, err
		}
		var job models.Job
		if err := env.Decode(&job); err != nil {
			return nil, err
		}
		return json.Marshal(&job)
	})
	if err != nil {
		return nil, err
	}

	var job models.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateInput is the create-job payload.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	IsTrending  bool     `json:"is_trending,omitempty"`
	IsFeatured  bool     `json:"is_featured,omitempty"`
}

// Create posts a new job. Invalidation set: the job list.
func (c *Client) Create(ctx context.Context, input *CreateInput) (*models.Job, error) {
	if err := createSchema.Validate(input); err != nil {
		return nil, err
	}

	env, err := c.api.Post(ctx, "/jobs/", input)
	if err != nil {
		return nil, err
	}

	var job models.Job
	if err := env.Decode(&job); err != nil {
		return nil, err
	}

	c.cache.Invalidate(ctx, ListPrefix)
	return &job, nil
}

// Update patches a job. Invalidation set: list + this detail.
func (c *Client) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Job, error) {
	env, err := c.api.Put(ctx, "/jobs/"+id, patch)
	if err != nil {
		return nil, err
	}

	var job models.Job
	if err := env.Decode(&job); err != nil {
		return nil, err
	}

	c.cache.Invalidate(ctx, ListPrefix, cache.DetailKey(DetailPrefix, id))
	return &job, nil
}

// Delete removes a job. Invalidation set: list + this detail.
func (c *Client) Delete(ctx context.Context, id string) error {
	if _, err := c.api.Delete(ctx, "/jobs/"+id, nil); err != nil {
		return err
	}

	c.cache.Invalidate(ctx, ListPrefix, cache.DetailKey(DetailPrefix, id))
	return nil
}

// AIGenerateInput seeds the AI job-description generator.
type AIGenerateInput struct {
	Title    string   `json:"title"`
	Skills   []string `json:"skills,omitempty"`
	Location string   `json:"location,omitempty"`
	Tone     string   `json:"tone,omitempty"`
}

// AIGenerate asks the backend for a generated job description. It produces a
// draft only, so no cached view goes stale.
func (c *Client) AIGenerate(ctx context.Context, input *AIGenerateInput) (string, error) {
	env, err := c.api.Post(ctx, "/jobs/ai-generate", input)
	if err != nil {
		return "", err
	}

	var out struct {
		Description string `json:"description"`
	}
	if err := env.Decode(&out); err != nil {
		return "", err
	}
	return out.Description, nil
}
