// Package statuslist fetches the global status lookup table. The table is
// effectively static reference data and is cached with a long TTL.
package statuslist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hireflow/internal/api"
	"hireflow/internal/cache"
	"hireflow/internal/common/logger"
	"hireflow/internal/models"
)

const keyPrefix = "status-list"

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
		logger: log.WithFields(map[string]interface{}{"resource": keyPrefix}),
	}
}

// List returns the status lookup table.
func (c *Client) List(ctx context.Context) ([]models.StatusListEntry, error) {
	raw, _, err := c.cache.Fetch(ctx, keyPrefix, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/status-list", nil)
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

// Label resolves a status id to its human-readable label. Status id 17 is
// always "Candidate Withdrawn", even when the lookup table lacks the row:
// the marker is reserved irrespective of what the table says.
func (c *Client) Label(ctx context.Context, statusID int) (string, error) {
	entries, err := c.List(ctx)
	if err != nil {
		if statusID == models.WithdrawnStatusID {
			return models.WithdrawnLabel, nil
		}
		return "", err
	}

	for _, entry := range entries {
		if entry.ID == statusID {
			return entry.Status, nil
		}
	}

	if statusID == models.WithdrawnStatusID {
		return models.WithdrawnLabel, nil
	}
	return fmt.Sprintf("Unknown (%d)", statusID), nil
}
