// Package compliance reads and acknowledges compliance records.
package compliance

import (
	"context"
	"encoding/json"
	"time"

	"hireflow/internal/api"
	"hireflow/internal/cache"
	"hireflow/internal/common/logger"
	"hireflow/internal/models"
)

const (
	ListPrefix   = "compliance:list"
	DetailPrefix = "compliance:detail"
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
		logger: log.WithFields(map[string]interface{}{"resource": "compliance"}),
	}
}

func (c *Client) List(ctx context.Context, status string) ([]models.ComplianceRecord, error) {
	key := cache.Key(ListPrefix, map[string]string{"status": status})

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		query := map[string][]string{}
		if status != "" {
			query["status"] = []string{status}
		}
		env, err := c.api.Get(ctx, "/compliance", query)
		if err != nil {
			return nil, err
		}
		var records []models.ComplianceRecord
		if err := env.Decode(&records); err != nil {
			return nil, err
		}
		return json.Marshal(records)
	})
	if err != nil {
		return nil, err
	}

	var records []models.ComplianceRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.ComplianceRecord, error) {
	key := cache.DetailKey(DetailPrefix, id)

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/compliance/"+id, nil)
		if err != nil {
			return nil, err
		}
		var record models.ComplianceRecord
		if err := env.Decode(&record); err != nil {
			return nil, err
		}
		return json.Marshal(&record)
	})
	if err != nil {
		return nil, err
	}

	var record models.ComplianceRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Acknowledge marks a record as reviewed by the given user.
func (c *Client) Acknowledge(ctx context.Context, id, userID string) error {
	_, err := c.api.Post(ctx, "/compliance/"+id+"/acknowledge", map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		return err
	}
	c.cache.Invalidate(ctx, ListPrefix, cache.DetailKey(DetailPrefix, id))
	return nil
}
