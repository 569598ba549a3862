// Package analytics serves the dashboard counters and the hiring funnel,
// plus the display values derived from them.
package analytics

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
	DashboardPrefix = "analytics:dashboard"
	FunnelPrefix    = "analytics:funnel"
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
		logger: log.WithFields(map[string]interface{}{"resource": "analytics"}),
	}
}

// Dashboard returns the headline counters, cached. Application and
// interview writes name DashboardPrefix in their invalidation sets, so a
// write anywhere in the hiring pipeline forces the next read to re-fetch.
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardCounts, error) {
	raw, _, err := c.cache.Fetch(ctx, DashboardPrefix, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/analytics/dashboard", nil)
		if err != nil {
			return nil, err
		}
		var counts models.DashboardCounts
		if err := env.Decode(&counts); err != nil {
			return nil, err
		}
		return json.Marshal(&counts)
	})
	if err != nil {
		return nil, err
	}

	var counts models.DashboardCounts
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// FunnelStage is one stage row of the hiring funnel.
type FunnelStage struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// Funnel returns the per-stage application counts, cached.
func (c *Client) Funnel(ctx context.Context) ([]FunnelStage, error) {
	raw, _, err := c.cache.Fetch(ctx, FunnelPrefix, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/analytics/funnel", nil)
		if err != nil {
			return nil, err
		}
		var stages []FunnelStage
		if err := env.Decode(&stages); err != nil {
			return nil, err
		}
		return json.Marshal(stages)
	})
	if err != nil {
		return nil, err
	}

	var stages []FunnelStage
	if err := json.Unmarshal(raw, &stages); err != nil {
		return nil, err
	}
	return stages, nil
}
