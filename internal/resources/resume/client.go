// Package resume handles resume upload, AI comparison, and deletion.
package resume

import (
	"context"
	"io"

	"hireflow/internal/api"
	"hireflow/internal/cache"
	"hireflow/internal/common/logger"
	"hireflow/internal/resources/candidates"
)

type Client struct {
	api    *api.Client
	cache  *cache.Cache
	logger logger.Logger
}

func NewClient(apiClient *api.Client, c *cache.Cache, log logger.Logger) *Client {
	return &Client{
		api:    apiClient,
		cache:  c,
		logger: log.WithFields(map[string]interface{}{"resource": "resume"}),
	}
}

// UploadResult is what the backend reports after parsing a resume.
type UploadResult struct {
	CandidateID string   `json:"candidate_id"`
	ResumeURL   string   `json:"resume_url"`
	Skills      []string `json:"skills,omitempty"`
}

// Upload sends a resume through the multipart endpoint. Uploads use the
// long timeout: backend parsing can take far longer than a plain read.
// A successful upload rewrites candidate fields, so candidate views are
// invalidated.
func (c *Client) Upload(ctx context.Context, candidateID, filename string, content io.Reader) (*UploadResult, error) {
	extra := map[string]string{}
	if candidateID != "" {
		extra["candidate_id"] = candidateID
	}

	env, err := c.api.Upload(ctx, "/resume/upload-resume", "file", filename, content, extra)
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := env.Decode(&result); err != nil {
		return nil, err
	}

	c.invalidateCandidate(ctx, firstNonEmpty(result.CandidateID, candidateID))
	return &result, nil
}

// CompareResult scores a resume against a job description.
type CompareResult struct {
	Score         *float64 `json:"score,omitempty"`
	MatchLevel    string   `json:"match_level,omitempty"`
	MatchingSkill []string `json:"matching_skills,omitempty"`
	MissingSkills []string `json:"missing_skills,omitempty"`
	Summary       string   `json:"summary,omitempty"`
}

// Compare runs the AI resume/job match. Read-only, never cached: the
// backend model is free to return different scores over time.
func (c *Client) Compare(ctx context.Context, candidateID, jobID string) (*CompareResult, error) {
	env, err := c.api.Post(ctx, "/resume/compare-resume-with-job-description", map[string]interface{}{
		"candidate_id": candidateID,
		"job_id":       jobID,
	})
	if err != nil {
		return nil, err
	}

	var result CompareResult
	if err := env.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a candidate's stored resume and invalidates their views.
// The endpoint takes the candidate in the body, not the path.
func (c *Client) Delete(ctx context.Context, candidateID string) error {
	if _, err := c.api.Delete(ctx, "/resume/delete-resume", map[string]interface{}{
		"candidate_id": candidateID,
	}); err != nil {
		return err
	}
	c.invalidateCandidate(ctx, candidateID)
	return nil
}

func (c *Client) invalidateCandidate(ctx context.Context, candidateID string) {
	prefixes := []string{candidates.ListPrefix}
	if candidateID != "" {
		prefixes = append(prefixes, cache.DetailKey(candidates.DetailPrefix, candidateID))
	}
	c.cache.Invalidate(ctx, prefixes...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
