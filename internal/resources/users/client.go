// Package users is the admin-side account management surface.
package users

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"hireflow/internal/api"
	"hireflow/internal/cache"
	"hireflow/internal/common/logger"
	"hireflow/internal/models"
)

const (
	ListPrefix   = "users:list"
	DetailPrefix = "users:detail"
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
		logger: log.WithFields(map[string]interface{}{"resource": "users"}),
	}
}

type ListFilter struct {
	Page     int
	PageSize int
	Role     string
	Search   string
}

func (f *ListFilter) params() map[string]string {
	if f == nil {
		return nil
	}
	p := map[string]string{
		"role":   f.Role,
		"search": f.Search,
	}
	if f.Page > 0 {
		p["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 {
		p["page_size"] = strconv.Itoa(f.PageSize)
	}
	return p
}

type ListResult struct {
	Users      []models.User      `json:"users"`
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
		env, err := c.api.Get(ctx, "/users", query)
		if err != nil {
			return nil, err
		}
		result := &ListResult{Pagination: env.Pagination}
		if err := env.Decode(&result.Users); err != nil {
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

func (c *Client) Get(ctx context.Context, id string) (*models.User, error) {
	key := cache.DetailKey(DetailPrefix, id)

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/users/"+id, nil)
		if err != nil {
			return nil, err
		}
		var user models.User
		if err := env.Decode(&user); err != nil {
			return nil, err
		}
		return json.Marshal(&user)
	})
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update patches account fields (role, name). Invalidation set: user list
// plus this user's detail view.
func (c *Client) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.User, error) {
	env, err := c.api.Put(ctx, "/users/"+id, patch)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := env.Decode(&user); err != nil {
		return nil, err
	}
	c.cache.Invalidate(ctx, ListPrefix, cache.DetailKey(DetailPrefix, id))
	return &user, nil
}

// Deactivate disables an account without deleting it.
func (c *Client) Deactivate(ctx context.Context, id string) error {
	if _, err := c.api.Post(ctx, "/users/"+id+"/deactivate", nil); err != nil {
		return err
	}
	c.cache.Invalidate(ctx, ListPrefix, cache.DetailKey(DetailPrefix, id))
	return nil
}
