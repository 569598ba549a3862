// Package applications is the query/mutation layer for the applications
// resource, including the application lifecycle and its cache invalidation
// protocol.
package applications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"hireflow/internal/api"
	"hireflow/internal/cache"
	"hireflow/internal/common/logger"
	"hireflow/internal/common/validation"
	"hireflow/internal/models"
	"hireflow/internal/resources/analytics"
)

// Cache key prefixes. Mutations declare which of these go stale; the set is
// declared per mutation, never inferred.
const (
	ListPrefix    = "applications:list"
	DetailPrefix  = "applications:detail"
	HistoryPrefix = "applications:status-history"
	StatusPrefix  = "applications:status"
	RemarksPrefix = "applications:remarks"
)

var createSchema = validation.MustNew(`{
	"type": "object",
	"required": ["job_id"],
	"properties": {
		"job_id":       {"type": "string", "minLength": 1},
		"candidate_id": {"type": "string"},
		"user_id":      {"type": "string"},
		"cover_letter": {"type": "string"},
		"priority":     {"type": "string", "enum": ["high", "medium", "low"]},
		"recruiter_id": {"type": "string"}
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
		logger: log.WithFields(map[string]interface{}{"resource": "applications"}),
	}
}

// ==========================
// 1. Read Operations
// ==========================

// ListFilter narrows the application list.
type ListFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	JobID    string
}

func (f *ListFilter) params() map[string]string {
	if f == nil {
		return nil
	}
	p := map[string]string{
		"search": f.Search,
		"status": f.Status,
		"job_id": f.JobID,
	}
	if f.Page > 0 {
		p["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 {
		p["page_size"] = strconv.Itoa(f.PageSize)
	}
	return p
}

func (f *ListFilter) query() map[string][]string {
	q := map[string][]string{}
	for k, v := range f.params() {
		if v != "" {
			q[k] = []string{v}
		}
	}
	return q
}

// ListResult is the cached projection of one filtered list view.
type ListResult struct {
	Applications []models.Application `json:"applications"`
	Pagination   *models.Pagination   `json:"pagination,omitempty"`
}

// List returns applications matching filter, served from cache when live.
func (c *Client) List(ctx context.Context, filter *ListFilter) (*ListResult, error) {
	key := cache.Key(ListPrefix, filter.params())

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/applications/", filter.query())
		if err != nil {
			return nil, err
		}
		result := &ListResult{Pagination: env.Pagination}
		if err := env.Decode(&result.Applications); err != nil {
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

// Get returns one application by id.
func (c *Client) Get(ctx context.Context, id string) (*models.Application, error) {
	key := cache.DetailKey(DetailPrefix, id)

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/applications/"+id, nil)
		if err != nil {
			return nil, err
		}
		var app models.Application
		if err := env.Decode(&app); err != nil {
			return nil, err
		}
		return json.Marshal(&app)
	})
	if err != nil {
		return nil, err
	}

	var app models.Application
	if err := json.Unmarshal(raw, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// CurrentStatus is the stage/status pair a detail view renders.
type CurrentStatus struct {
	Stage    string `json:"stage"`
	StatusID int    `json:"status_id"`
}

// Status returns the application's current stage and status id. It is cached
// independently of the detail view so a status change can invalidate it
// without touching the full record.
func (c *Client) Status(ctx context.Context, id string) (*CurrentStatus, error) {
	key := cache.DetailKey(StatusPrefix, id)

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/applications/"+id, nil)
		if err != nil {
			return nil, err
		}
		var app models.Application
		if err := env.Decode(&app); err != nil {
			return nil, err
		}
		return json.Marshal(&CurrentStatus{Stage: app.Stage, StatusID: app.StatusID})
	})
	if err != nil {
		return nil, err
	}

	var status CurrentStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// StatusHistory returns the immutable append-only transition log.
func (c *Client) StatusHistory(ctx context.Context, id string) ([]models.StatusHistoryEntry, error) {
	key := cache.DetailKey(HistoryPrefix, id)

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/applications/"+id+"/status-history", nil)
		if err != nil {
			return nil, err
		}
		var history []models.StatusHistoryEntry
		if err := env.Decode(&history); err != nil {
			return nil, err
		}
		return json.Marshal(history)
	})
	if err != nil {
		return nil, err
	}

	var history []models.StatusHistoryEntry
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Remarks returns the free-text notes on an application.
func (c *Client) Remarks(ctx context.Context, id string) ([]models.Remark, error) {
	key := cache.DetailKey(RemarksPrefix, id)

	raw, _, err := c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		env, err := c.api.Get(ctx, "/applications/"+id+"/remarks", nil)
		if err != nil {
			return nil, err
		}
		var remarks []models.Remark
		if err := env.Decode(&remarks); err != nil {
			return nil, err
		}
		return json.Marshal(remarks)
	})
	if err != nil {
		return nil, err
	}

	var remarks []models.Remark
	if err := json.Unmarshal(raw, &remarks); err != nil {
		return nil, err
	}
	return remarks, nil
}

// ==========================
// 2. Create + Initial-Status Protocol
// ==========================

// CreateInput is the create-application payload.
type CreateInput struct {
	JobID       string `json:"job_id"`
	CandidateID string `json:"candidate_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	CoverLetter string `json:"cover_letter,omitempty"`
	Priority    string `json:"priority,omitempty"`
	RecruiterID string `json:"recruiter_id,omitempty"`
}

// CreateResult reports the created application and how far the best-effort
// initial-status chain got. Warnings are user-facing; a non-empty warning is
// not an error.
type CreateResult struct {
	ApplicationID string
	StatusInit    *SagaResult
	Warnings      []string
}

// Create submits a new application, then chains the initial-status protocol:
// set status_id, append the first history entry. Creation and status
// initialization are separate backend endpoints with no transactional
// guarantee between them, so the chain is best-effort; a partial failure
// leaves the application in place and is surfaced as a warning only.
func (c *Client) Create(ctx context.Context, input *CreateInput) (*CreateResult, error) {
	if err := createSchema.Validate(input); err != nil {
		return nil, err
	}

	env, err := c.api.Post(ctx, "/applications/", input)
	if err != nil {
		return nil, err
	}

	result := &CreateResult{ApplicationID: ExtractApplicationID(env.Data)}

	if result.ApplicationID == "" {
		result.StatusInit = &SagaResult{Outcome: SagaSkipped}
		result.Warnings = append(result.Warnings, result.StatusInit.Warning(""))
		c.logger.Warn("create response carried no usable id, skipping status initialization", nil)
	} else {
		result.StatusInit = c.runInitialStatus(ctx, result.ApplicationID)
		if warning := result.StatusInit.Warning(result.ApplicationID); warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
	}

	c.invalidateAfterStatusChange(ctx, result.ApplicationID)
	c.refreshAfterCreate(ctx, result.ApplicationID)

	return result, nil
}

func (c *Client) runInitialStatus(ctx context.Context, id string) *SagaResult {
	return runSaga(ctx, c.logger, []SagaStep{
		{
			Name:     "set-status",
			Attempts: 2,
			Run: func(ctx context.Context) error {
				_, err := c.api.Put(ctx, "/applications/"+id, map[string]interface{}{
					"status_id": models.InitialStatusID,
				})
				return err
			},
		},
		{
			Name:     "append-history",
			Attempts: 2,
			Run: func(ctx context.Context) error {
				_, err := c.api.Post(ctx, "/applications/"+id+"/status", map[string]interface{}{
					"status_id": models.InitialStatusID,
					"remark":    models.InitialStatusRemark,
				})
				return err
			},
		},
	})
}

// invalidateAfterStatusChange fires the declared invalidation set for a
// status-affecting write: list, detail, status history, current status, and
// the dashboard/funnel counters derived from them.
func (c *Client) invalidateAfterStatusChange(ctx context.Context, id string) {
	if id == "" {
		// Without an id only the broad prefixes can be targeted.
		c.cache.Invalidate(ctx, ListPrefix, DetailPrefix, HistoryPrefix, StatusPrefix,
			analytics.DashboardPrefix, analytics.FunnelPrefix)
		return
	}
	c.cache.Invalidate(ctx,
		ListPrefix,
		cache.DetailKey(DetailPrefix, id),
		cache.DetailKey(HistoryPrefix, id),
		cache.DetailKey(StatusPrefix, id),
		analytics.DashboardPrefix,
		analytics.FunnelPrefix,
	)
}

// refreshAfterCreate eagerly re-fetches the invalidated views. Failures are
// logged only: the cache is already clean and the next read will re-fetch.
func (c *Client) refreshAfterCreate(ctx context.Context, id string) {
	if _, err := c.List(ctx, nil); err != nil {
		c.logger.WithError(err).Warn("list refresh after create failed", nil)
	}
	if id == "" {
		return
	}
	if _, err := c.Get(ctx, id); err != nil {
		c.logger.WithError(err).Warn("detail refresh after create failed", map[string]interface{}{"id": id})
	}
	if _, err := c.StatusHistory(ctx, id); err != nil {
		c.logger.WithError(err).Warn("history refresh after create failed", map[string]interface{}{"id": id})
	}
	if _, err := c.Status(ctx, id); err != nil {
		c.logger.WithError(err).Warn("status refresh after create failed", map[string]interface{}{"id": id})
	}
}

// ==========================
// 3. Other Write Operations
// ==========================

// Update patches an application. Invalidation set: list + this detail.
func (c *Client) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Application, error) {
	env, err := c.api.Put(ctx, "/applications/"+id, patch)
	if err != nil {
		return nil, err
	}

	var app models.Application
	if err := env.Decode(&app); err != nil {
		return nil, err
	}

	c.cache.Invalidate(ctx, ListPrefix, cache.DetailKey(DetailPrefix, id),
		analytics.DashboardPrefix, analytics.FunnelPrefix)
	return &app, nil
}

// Delete removes an application. Invalidation set: every view of it.
func (c *Client) Delete(ctx context.Context, id string) error {
	if _, err := c.api.Delete(ctx, "/applications/"+id, nil); err != nil {
		return err
	}

	c.cache.Invalidate(ctx,
		ListPrefix,
		cache.DetailKey(DetailPrefix, id),
		cache.DetailKey(HistoryPrefix, id),
		cache.DetailKey(StatusPrefix, id),
		cache.DetailKey(RemarksPrefix, id),
		analytics.DashboardPrefix,
		analytics.FunnelPrefix,
	)
	return nil
}

// CreateStatus appends one status-history entry. The log is append-only;
// entries are never mutated or deleted by the client.
func (c *Client) CreateStatus(ctx context.Context, id string, statusID int, remark string) error {
	_, err := c.api.Post(ctx, "/applications/"+id+"/status", map[string]interface{}{
		"status_id": statusID,
		"remark":    remark,
	})
	if err != nil {
		return err
	}

	c.invalidateAfterStatusChange(ctx, id)
	return nil
}

// ==========================
// 4. Stage Transitions
// ==========================

// TransitionResult reports a stage transition's two non-atomic writes.
type TransitionResult struct {
	Saga     *SagaResult
	Warnings []string
}

// Transition moves an application to a new stage. It writes one history
// entry and one stage/status_id mutation; the two writes are not atomic and
// divergence between them is tolerated, not reconciled.
func (c *Client) Transition(ctx context.Context, id, toStage string, statusID int, remark string) (*TransitionResult, error) {
	current, err := c.Status(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Stage, toStage) {
		return nil, fmt.Errorf("transition from %q to %q is not allowed", current.Stage, toStage)
	}

	saga := runSaga(ctx, c.logger, []SagaStep{
		{
			Name:     "append-history",
			Attempts: 2,
			Run: func(ctx context.Context) error {
				_, err := c.api.Post(ctx, "/applications/"+id+"/status", map[string]interface{}{
					"status_id": statusID,
					"remark":    remark,
				})
				return err
			},
		},
		{
			Name:     "update-stage",
			Attempts: 2,
			Run: func(ctx context.Context) error {
				_, err := c.api.Put(ctx, "/applications/"+id, map[string]interface{}{
					"stage":     toStage,
					"status_id": statusID,
				})
				return err
			},
		},
	})

	c.invalidateAfterStatusChange(ctx, id)

	result := &TransitionResult{Saga: saga}
	if saga.Outcome == SagaFailed {
		return result, saga.Err()
	}
	if warning := saga.Warning(id); warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	return result, nil
}

// CanWithdraw reports whether the candidate may still withdraw. Once any
// history entry carries the withdrawn marker the action is permanently
// disabled, whatever the current stage field says.
func (c *Client) CanWithdraw(ctx context.Context, id string) (bool, error) {
	history, err := c.StatusHistory(ctx, id)
	if err != nil {
		return false, err
	}
	if HistoryContainsWithdrawal(history) {
		return false, nil
	}

	status, err := c.Status(ctx, id)
	if err != nil {
		return false, err
	}
	return !IsTerminalStage(status.Stage), nil
}

// Withdraw performs the candidate-initiated withdrawal. The withdrawn state
// is absorbing.
func (c *Client) Withdraw(ctx context.Context, id, remark string) error {
	ok, err := c.CanWithdraw(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("application %s cannot be withdrawn", id)
	}

	if remark == "" {
		remark = models.WithdrawnLabel
	}
	return c.CreateStatus(ctx, id, models.WithdrawnStatusID, remark)
}
