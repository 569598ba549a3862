// Package api is the HTTP client adapter: it issues authenticated requests to
// the backend REST surface and surfaces structured errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"

	"hireflow/internal/common/config"
	apierrors "hireflow/internal/common/errors"
	"hireflow/internal/common/logger"
	"hireflow/internal/common/metrics"
	"hireflow/internal/common/observability"
)

// Client issues authenticated JSON requests against the backend.
type Client struct {
	baseURL       string
	token         string
	httpClient    *http.Client
	uploadTimeout time.Duration
	maxRetries    int
	retryDelay    time.Duration
	logger        logger.Logger
	tracing       *observability.Tracing
	obs           *observability.Observability
}

func NewClient(cfg config.APIConfig, log logger.Logger, tracing *observability.Tracing) *Client {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		// A request always gets one attempt, even with a zero-value config.
		maxRetries = 1
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: config.GetDuration(cfg.Timeout),
		},
		uploadTimeout: config.GetDuration(cfg.UploadTimeout),
		maxRetries:    maxRetries,
		retryDelay:    config.GetDuration(cfg.RetryDelay),
		logger:        log.WithFields(map[string]interface{}{"component": "api"}),
		tracing:       tracing,
	}
}

// WithObservability attaches the OTel instruments that count requests and
// record their durations. Safe to skip; a nil receiver records nothing.
func (c *Client) WithObservability(obs *observability.Observability) *Client {
	c.obs = obs
	return c
}

// Get issues a cached-read style GET. Transport and 5xx failures are retried
// with exponential backoff; 404 and 422 are known-absent results and are
// never retried.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	var env *Envelope
	err := c.retryWithBackoff(ctx, func() error {
		var reqErr error
		env, reqErr = c.do(ctx, http.MethodGet, path, query, nil)
		return reqErr
	})
	return env, err
}

// Post issues a POST with a JSON body. Mutations are not retried; failure is
// surfaced to the caller.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// PostRead issues a POST that semantically is a read (the jobs listing
// endpoint takes its filters in the body). It follows Get's retry policy.
func (c *Client) PostRead(ctx context.Context, path string, body interface{}) (*Envelope, error) {
	var env *Envelope
	err := c.retryWithBackoff(ctx, func() error {
		var reqErr error
		env, reqErr = c.do(ctx, http.MethodPost, path, nil, body)
		return reqErr
	})
	return env, err
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE, optionally with a JSON body.
func (c *Client) Delete(ctx context.Context, path string, body interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil, body)
}

// Upload posts a multipart file. It uses the explicit generous upload
// timeout: resume payloads are much larger than the JSON traffic.
func (c *Client) Upload(ctx context.Context, path, field, filename string, content io.Reader, extra map[string]string) (*Envelope, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, apierrors.NewUploadFailedError(err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, apierrors.NewUploadFailedError(err)
	}
	for k, v := range extra {
		if err := writer.WriteField(k, v); err != nil {
			return nil, apierrors.NewUploadFailedError(err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, apierrors.NewUploadFailedError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, apierrors.NewUploadFailedError(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setCommonHeaders(req)

	uploadClient := &http.Client{Timeout: c.uploadTimeout}
	return c.roundTrip(ctx, uploadClient, req, path)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*Envelope, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCommonHeaders(req)

	return c.roundTrip(ctx, c.httpClient, req, path)
}

func (c *Client) roundTrip(ctx context.Context, client *http.Client, req *http.Request, path string) (*Envelope, error) {
	resource := resourceFromPath(path)
	ctx, span := c.tracing.StartRequestSpan(ctx, req.Method, path)
	defer span.End()
	req = req.WithContext(ctx)

	metrics.RequestsTotal.WithLabelValues(resource, req.Method).Inc()
	start := time.Now()

	resp, err := client.Do(req)
	metrics.RequestDuration.WithLabelValues(resource, req.Method).Observe(time.Since(start).Seconds())
	c.obs.RecordRequestDuration(ctx, time.Since(start), resource)

	if err != nil {
		apiErr := apierrors.NewNetworkError(err)
		metrics.RequestErrors.WithLabelValues(resource, string(apiErr.Code)).Inc()
		c.obs.RecordRequest(ctx, resource, "error")
		span.SetStatus(codes.Error, apiErr.Message)
		return nil, apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := apierrors.NewNetworkError(err)
		metrics.RequestErrors.WithLabelValues(resource, string(apiErr.Code)).Inc()
		c.obs.RecordRequest(ctx, resource, "error")
		return nil, apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := extractErrorMessage(respBody)
		apiErr := apierrors.NewHTTPError(resp.StatusCode, message)
		metrics.RequestErrors.WithLabelValues(resource, string(apiErr.Code)).Inc()
		c.obs.RecordRequest(ctx, resource, "error")
		span.SetStatus(codes.Error, apiErr.Message)
		c.logger.Warn("request failed", map[string]interface{}{
			"method": req.Method,
			"path":   path,
			"status": resp.StatusCode,
		})
		return nil, apiErr
	}

	c.obs.RecordRequest(ctx, resource, "success")
	return ParseEnvelope(respBody)
}

func (c *Client) setCommonHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
}

// retryWithBackoff attempts a read with exponential backoff. Only errors the
// taxonomy marks retryable are attempted again.
func (c *Client) retryWithBackoff(ctx context.Context, operation func() error) error {
	var err error
	delay := c.retryDelay

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		err = operation()
		if err == nil {
			return nil
		}
		if !apierrors.IsRetryable(err) {
			return err
		}

		if attempt < c.maxRetries-1 {
			c.logger.WithError(err).Warn("read failed, retrying", map[string]interface{}{
				"attempt":     attempt + 1,
				"maxRetries":  c.maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}

	return err
}

// extractErrorMessage pulls the message out of a structured error body.
func extractErrorMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Detail
}

func resourceFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
