// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "hireflow/internal/common/errors"
)

var testSchema = MustNew(`{
	"type": "object",
	"required": ["job_id", "candidate_id"],
	"properties": {
		"job_id":       {"type": "string", "minLength": 1},
		"candidate_id": {"type": "string", "minLength": 1},
		"priority":     {"type": "string", "enum": ["high", "medium", "low"]}
	}
}`)

type payload struct {
	JobID       string `json:"job_id,omitempty"`
	CandidateID string `json:"candidate_id,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, testSchema.Validate(&payload{JobID: "j1", CandidateID: "c1", Priority: "high"}))
	assert.NoError(t, testSchema.Validate(&payload{JobID: "j1", CandidateID: "c1"}))
}

func TestValidate_MissingRequiredField(t *testing.T) {
	err := testSchema.Validate(&payload{CandidateID: "c1"})
	require.Error(t, err)

	var valErr *apierrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.NotEmpty(t, valErr.Fields)
	assert.Contains(t, err.Error(), "job_id")
}

func TestValidate_EnumViolation(t *testing.T) {
	err := testSchema.Validate(&payload{JobID: "j1", CandidateID: "c1", Priority: "urgent"})
	require.Error(t, err)

	var valErr *apierrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, err.Error(), "priority")
}

func TestMustNew_PanicsOnBadSchema(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(`{"type": nonsense}`)
	})
}
