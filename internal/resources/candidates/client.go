// Package candidates is the query/mutation layer for candidate profiles.
package candidates

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"hireflow/internal/api"
	"hireflow/internal/cache"
	apierrors "hireflow/internal/common/errors"
	"hireflow/internal/common/logger"
	"hireflow/internal/models"
)

const (
	ListPrefix   = "candidates:list"
	DetailPrefix = "candidates:detail"
	ByUserPrefix = "candidates:by-user"
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
		logger: log.WithFields(map[string]interface{}{"resource": "candidates"}),
	}
}

// ListFilter narrows the candidate list.
type ListFilter struct {
	Page     int
	PageSize int
	Search   string
}

func (f *ListFilter) params() map[string]string {
	if f == nil {
		return nil
	}
	p := map[string]string{"search": f.Search}
	if f.Page > 0 {
		p["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 {
		p["page_size"] = strconv.Itoa(f.PageSize)
	}
	return p
}

// ListResult is the cached projection of one filtered list view.
type ListResult struct {
	Candidates []models.Candidate `json:"candidates"`
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
		env, err := c.api.Get(ctx, "/candidates/", query)
		if err != nil {
			return nil, err
		}
		result := &ListResult{Pagination: env.Pagination}
		if err := env.Decode(&result.Candidates); err != nil {
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

func (c *Client) Get(ctx context.Context, id string) (*models.Candidate, error) {
	key := cache.DetailKey(DetailPrefix, id)

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/candidates/"+id, nil)
		if err != nil {
			return nil, err
		}
		var candidate models.Candidate
		if err := env.Decode(&candidate); err != nil {
			return nil, err
		}
		return json.Marshal(&candidate)
	})
	if err != nil {
		return nil, err
	}

	var candidate models.Candidate
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// ByUserResult distinguishes "no profile yet" from a real profile. A missing
// profile is an expected state for new users, not a fault.
type ByUserResult struct {
	Success   bool              `json:"success"`
	Candidate *models.Candidate `json:"data"`
}

// ByUser looks up the candidate profile for a user id. A 404 is rewritten
// into a synthetic {success:false, data:nil} result instead of an error, and
// the synthetic result is cached so known-absent profiles are not re-queried.
func (c *Client) ByUser(ctx context.Context, userID string) (*ByUserResult, error) {
	key := cache.DetailKey(ByUserPrefix, userID)

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/candidates/by-user/"+userID, nil)
		if err != nil {
			if apierrors.IsNotFound(err) {
				return json.Marshal(&ByUserResult{Success: false, Candidate: nil})
			}
			return nil, err
		}

		result := &ByUserResult{Success: true}
		if err := env.Decode(&result.Candidate); err != nil {
			return nil, err
		}
		return json.Marshal(result)
	})
	if err != nil {
		return nil, err
	}

	var result ByUserResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateInput is the create-candidate payload.
type CreateInput struct {
	UserID   string   `json:"user_id"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

// Create posts a new candidate profile. Invalidation set: list + the
// owner's by-user lookup (it may hold a cached "no profile yet").
func (c *Client) Create(ctx context.Context, input *CreateInput) (*models.Candidate, error) {
	env, err := c.api.Post(ctx, "/candidates/", input)
	if err != nil {
		return nil, err
	}

	var candidate models.Candidate
	if err := env.Decode(&candidate); err != nil {
		return nil, err
	}

	c.cache.Invalidate(ctx, ListPrefix, cache.DetailKey(ByUserPrefix, input.UserID))
	return &candidate, nil
}

// Update patches a candidate. Invalidation set: list, this detail, and the
// owner's by-user lookup.
func (c *Client) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Candidate, error) {
	env, err := c.api.Put(ctx, "/candidates/"+id, patch)
	if err != nil {
		return nil, err
	}

	var candidate models.Candidate
	if err := env.Decode(&candidate); err != nil {
		return nil, err
	}

	prefixes := []string{ListPrefix, cache.DetailKey(DetailPrefix, id)}
	if candidate.UserID != "" {
		prefixes = append(prefixes, cache.DetailKey(ByUserPrefix, candidate.UserID))
	} else {
		prefixes = append(prefixes, ByUserPrefix)
	}
	c.cache.Invalidate(ctx, prefixes...)
	return &candidate, nil
}

// Delete removes a candidate. Invalidation set: list, this detail, and the
// whole by-user prefix since the owning user is no longer known.
func (c *Client) Delete(ctx context.Context, id string) error {
	if _, err := c.api.Delete(ctx, "/candidates/"+id, nil); err != nil {
		return err
	}

	c.cache.Invalidate(ctx, ListPrefix, cache.DetailKey(DetailPrefix, id), ByUserPrefix)
	return nil
}
