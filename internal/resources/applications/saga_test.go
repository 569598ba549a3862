// internal/resources/applications/saga_test.go
package applications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "hireflow/internal/common/errors"
	"hireflow/internal/common/logger"
)

func TestExtractApplicationID(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"top-level id", `{"id":"a1"}`, "a1"},
		{"application_id", `{"application_id":"a2"}`, "a2"},
		{"nested application.id", `{"application":{"id":"a3"}}`, "a3"},
		{"nested data.id", `{"data":{"id":"a4"}}`, "a4"},
		{"nested data.application_id", `{"data":{"application_id":"a5"}}`, "a5"},
		{"numeric id", `{"id":42}`, "42"},
		{"id wins over application_id", `{"id":"a1","application_id":"a2"}`, "a1"},
		{"application_id wins over nested shapes", `{"application_id":"a2","data":{"id":"a4"}}`, "a2"},
		{"no usable id", `{"message":"created"}`, ""},
		{"null payload", `null`, ""},
		{"empty payload", ``, ""},
		{"array payload", `[{"id":"a1"}]`, ""},
		{"id of wrong type", `{"id":{"value":"a1"}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractApplicationID(json.RawMessage(tt.data)))
		})
	}
}

func TestRunSaga_AllSucceed(t *testing.T) {
	log := logger.NewTestLogger(t)

	var order []string
	result := runSaga(context.Background(), log, []SagaStep{
		{Name: "first", Run: func(ctx context.Context) error { order = append(order, "first"); return nil }},
		{Name: "second", Run: func(ctx context.Context) error { order = append(order, "second"); return nil }},
	})

	assert.Equal(t, SagaSucceeded, result.Outcome)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.NoError(t, result.Err())
	assert.Empty(t, result.Warning("a1"))
}

func TestRunSaga_PartialFailure(t *testing.T) {
	log := logger.NewTestLogger(t)
	stepErr := errors.New("history endpoint down")

	secondRan := false
	result := runSaga(context.Background(), log, []SagaStep{
		{Name: "set-status", Run: func(ctx context.Context) error { return stepErr }},
		{Name: "append-history", Run: func(ctx context.Context) error { secondRan = true; return nil }},
	})

	assert.Equal(t, SagaPartial, result.Outcome)
	assert.True(t, secondRan, "a failed step must not stop later steps")
	assert.Equal(t, stepErr, result.Err())
	assert.Contains(t, result.Warning("a1"), "a1")
}

func TestRunSaga_AllFail(t *testing.T) {
	log := logger.NewTestLogger(t)

	result := runSaga(context.Background(), log, []SagaStep{
		{Name: "one", Run: func(ctx context.Context) error { return errors.New("x") }},
		{Name: "two", Run: func(ctx context.Context) error { return errors.New("y") }},
	})

	assert.Equal(t, SagaFailed, result.Outcome)
	require.Error(t, result.Err())
}

func TestRunSaga_RetriesRetryableErrors(t *testing.T) {
	log := logger.NewTestLogger(t)

	calls := 0
	result := runSaga(context.Background(), log, []SagaStep{
		{
			Name:     "flaky",
			Attempts: 3,
			Run: func(ctx context.Context) error {
				calls++
				if calls < 3 {
					return apierrors.NewHTTPError(500, "transient")
				}
				return nil
			},
		},
	})

	assert.Equal(t, SagaSucceeded, result.Outcome)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, result.Steps[0].Attempts)
}

func TestRunSaga_DoesNotRetryNonRetryable(t *testing.T) {
	log := logger.NewTestLogger(t)

	calls := 0
	result := runSaga(context.Background(), log, []SagaStep{
		{
			Name:     "absent",
			Attempts: 3,
			Run: func(ctx context.Context) error {
				calls++
				return apierrors.NewHTTPError(404, "gone")
			},
		},
	})

	assert.Equal(t, SagaFailed, result.Outcome)
	assert.Equal(t, 1, calls, "404 must not be retried")
}

func TestSagaResult_SkippedWarning(t *testing.T) {
	result := &SagaResult{Outcome: SagaSkipped}
	assert.Contains(t, result.Warning(""), "no id could be read")
}
