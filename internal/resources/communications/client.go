// Package communications covers email templates, delivery, and the
// per-application communication timeline.
package communications

import (
	"context"
	"encoding/json"
	"time"

	"hireflow/internal/api"
	"hireflow/internal/cache"
	"hireflow/internal/common/logger"
	"hireflow/internal/common/validation"
	"hireflow/internal/models"
)

const (
	TemplatesPrefix = "communications:templates"
	TimelinePrefix  = "communications:timeline"
)

var sendEmailSchema = validation.MustNew(`{
	"type": "object",
	"required": ["to", "subject", "body"],
	"properties": {
		"to":          {"type": "string", "minLength": 1},
		"subject":     {"type": "string", "minLength": 1},
		"body":        {"type": "string", "minLength": 1},
		"template_id":    {"type": "string"},
		"application_id": {"type": "string"},
		"candidate_id":   {"type": "string"}
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
		logger: log.WithFields(map[string]interface{}{"resource": "communications"}),
	}
}

// Templates lists the stored email templates, cached.
func (c *Client) Templates(ctx context.Context) ([]models.Template, error) {
	raw, _, err := c.cache.Fetch(ctx, TemplatesPrefix, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/communications/templates", nil)
		if err != nil {
			return nil, err
		}
		var templates []models.Template
		if err := env.Decode(&templates); err != nil {
			return nil, err
		}
		return json.Marshal(templates)
	})
	if err != nil {
		return nil, err
	}

	var templates []models.Template
	if err := json.Unmarshal(raw, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateTemplate stores a template and invalidates the template list.
func (c *Client) CreateTemplate(ctx context.Context, template *models.Template) (*models.Template, error) {
	env, err := c.api.Post(ctx, "/communications/templates", template)
	if err != nil {
		return nil, err
	}

	var created models.Template
	if err := env.Decode(&created); err != nil {
		return nil, err
	}
	c.cache.Invalidate(ctx, TemplatesPrefix)
	return &created, nil
}

// SendEmailInput is the delivery payload. ApplicationID links the entry into
// that application's timeline.
type SendEmailInput struct {
	To            string `json:"to"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	TemplateID    string `json:"template_id,omitempty"`
	ApplicationID string `json:"application_id,omitempty"`
	CandidateID   string `json:"candidate_id,omitempty"`
}

// SendEmail validates the payload before any network work, then delivers
// through the backend. A linked application's timeline view is invalidated.
func (c *Client) SendEmail(ctx context.Context, input *SendEmailInput) (*models.CommunicationEntry, error) {
	if err := sendEmailSchema.Validate(input); err != nil {
		return nil, err
	}

	env, err := c.api.Post(ctx, "/communications/send-email", input)
	if err != nil {
		return nil, err
	}

	var entry models.CommunicationEntry
	if err := env.Decode(&entry); err != nil {
		return nil, err
	}

	if input.ApplicationID != "" {
		c.cache.Invalidate(ctx, cache.DetailKey(TimelinePrefix, input.ApplicationID))
	}
	return &entry, nil
}

// PreviewTemplate renders a template with the given variables without
// sending anything. Not cached: variables vary per call.
func (c *Client) PreviewTemplate(ctx context.Context, templateID string, variables map[string]string) (string, error) {
	env, err := c.api.Post(ctx, "/communications/preview-template", map[string]interface{}{
		"template_id": templateID,
		"variables":   variables,
	})
	if err != nil {
		return "", err
	}

	var preview struct {
		Body string `json:"body"`
	}
	if err := env.Decode(&preview); err != nil {
		return "", err
	}
	return preview.Body, nil
}

// GenerateAIEmail drafts an email for a candidate in a given tone. The
// draft is a suggestion only, so nothing is invalidated.
func (c *Client) GenerateAIEmail(ctx context.Context, candidateID, purpose, tone string) (string, error) {
	env, err := c.api.Post(ctx, "/communications/generate-ai-email", map[string]interface{}{
		"candidate_id": candidateID,
		"purpose":      purpose,
		"tone":         tone,
	})
	if err != nil {
		return "", err
	}

	var draft struct {
		Body string `json:"body"`
	}
	if err := env.Decode(&draft); err != nil {
		return "", err
	}
	return draft.Body, nil
}

// Timeline returns an application's communication history, cached per
// application.
func (c *Client) Timeline(ctx context.Context, applicationID string) ([]models.CommunicationEntry, error) {
	key := cache.DetailKey(TimelinePrefix, applicationID)

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/communications/timeline/"+applicationID, nil)
		if err != nil {
			return nil, err
		}
		var entries []models.CommunicationEntry
		if err := env.Decode(&entries); err != nil {
			return nil, err
		}
		return json.Marshal(entries)
	})
	if err != nil {
		return nil, err
	}

	var entries []models.CommunicationEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
