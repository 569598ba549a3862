package applications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	apierrors "hireflow/internal/common/errors"
	"hireflow/internal/common/logger"
)

// ==========================
// 1. Response ID Extraction
// ==========================

// idFieldPaths is the documented priority order for locating the new
// application's id in the create response. The backend's envelope for this
// endpoint is not fully reliable, so several shapes are tried in order.
var idFieldPaths = [][]string{
	{"id"},
	{"application_id"},
	{"application", "id"},
	{"data", "id"},
	{"data", "application_id"},
}

// ExtractApplicationID normalizes the create-application response into an id.
// It returns "" when no usable id exists under any known shape.
func ExtractApplicationID(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ""
	}

	for _, path := range idFieldPaths {
		if id := lookupString(doc, path); id != "" {
			return id
		}
	}
	return ""
}

func lookupString(doc map[string]interface{}, path []string) string {
	current := doc
	for i, field := range path {
		value, ok := current[field]
		if !ok {
			return ""
		}
		if i == len(path)-1 {
			return stringify(value)
		}
		current, ok = value.(map[string]interface{})
		if !ok {
			return ""
		}
	}
	return ""
}

// stringify accepts string or numeric ids; the backend is not consistent.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

// ==========================
// 2. Two-Phase Status Saga
// ==========================

// SagaOutcome classifies how far the best-effort status chain got. Partial
// is a real state, distinct from success and failure: the application record
// stands either way and is never rolled back.
type SagaOutcome string

const (
	SagaSucceeded SagaOutcome = "succeeded"
	SagaPartial   SagaOutcome = "partial"
	SagaSkipped   SagaOutcome = "skipped"
	SagaFailed    SagaOutcome = "failed"
)

// SagaStep is one independently retryable network call in the chain.
type SagaStep struct {
	Name     string
	Attempts int
	Run      func(ctx context.Context) error
}

// StepResult records the outcome of one step.
type StepResult struct {
	Name     string `json:"name"`
	Attempts int    `json:"attempts"`
	Err      error  `json:"-"`
}

// SagaResult is the aggregate outcome of the chain.
type SagaResult struct {
	Outcome SagaOutcome  `json:"outcome"`
	Steps   []StepResult `json:"steps"`
}

// Err returns the representative error for a non-successful outcome.
func (r *SagaResult) Err() error {
	for _, step := range r.Steps {
		if step.Err != nil {
			return step.Err
		}
	}
	return nil
}

// runSaga executes steps in sequence. A failed step does not stop later
// steps: the calls are independent network operations with no transactional
// guarantee between them, and compensating by rollback is explicitly not the
// design. Steps retry individually on retryable errors.
func runSaga(ctx context.Context, log logger.Logger, steps []SagaStep) *SagaResult {
	result := &SagaResult{Steps: make([]StepResult, 0, len(steps))}
	succeeded := 0

	for _, step := range steps {
		attempts := step.Attempts
		if attempts < 1 {
			attempts = 1
		}

		var err error
		used := 0
		for used < attempts {
			used++
			err = step.Run(ctx)
			if err == nil || !apierrors.IsRetryable(err) {
				break
			}
			log.WithError(err).Warn("saga step failed, retrying", map[string]interface{}{
				"step":    step.Name,
				"attempt": used,
			})
		}

		result.Steps = append(result.Steps, StepResult{Name: step.Name, Attempts: used, Err: err})
		if err == nil {
			succeeded++
		} else {
			log.WithError(err).Warn("saga step failed", map[string]interface{}{
				"step": step.Name,
			})
		}
	}

	switch {
	case succeeded == len(steps):
		result.Outcome = SagaSucceeded
	case succeeded > 0:
		result.Outcome = SagaPartial
	default:
		result.Outcome = SagaFailed
	}
	return result
}

// Warning renders the user-facing warning for a non-successful outcome.
func (r *SagaResult) Warning(applicationID string) string {
	switch r.Outcome {
	case SagaSucceeded:
		return ""
	case SagaSkipped:
		return "application created, but no id could be read from the response; the backend must set the initial status itself"
	default:
		err := r.Err()
		detail := ""
		if err != nil {
			detail = ": " + err.Error()
		}
		return fmt.Sprintf("application %s created, but initial status assignment did not fully apply%s", applicationID, detail)
	}
}
