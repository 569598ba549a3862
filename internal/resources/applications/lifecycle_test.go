// internal/resources/applications/lifecycle_test.go
package applications

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hireflow/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"applied to screening", models.StageApplied, models.StageScreening, true},
		{"applied cannot skip to offer", models.StageApplied, models.StageOfferSent, false},
		{"screening to hr interview", models.StageScreening, models.StageHRInterview, true},
		{"screening to technical interview", models.StageScreening, models.StageTechnicalInterview, true},
		{"hr to technical", models.StageHRInterview, models.StageTechnicalInterview, true},
		{"technical to final", models.StageTechnicalInterview, models.StageFinalInterview, true},
		{"final to in review", models.StageFinalInterview, models.StageInReview, true},
		{"final to offer", models.StageFinalInterview, models.StageOfferSent, true},
		{"final to rejected", models.StageFinalInterview, models.StageRejected, true},
		{"in review to offer", models.StageInReview, models.StageOfferSent, true},
		{"offer to hired", models.StageOfferSent, models.StageHired, true},
		{"offer to talent pool", models.StageOfferSent, models.StageTalentPool, true},
		{"rejected to talent pool", models.StageRejected, models.StageTalentPool, true},
		{"no backward moves", models.StageScreening, models.StageApplied, false},
		{"hired is terminal", models.StageHired, models.StageTalentPool, false},
		{"talent pool is terminal", models.StageTalentPool, models.StageApplied, false},
		{"unknown stage", "Mystery", models.StageScreening, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminalStage(t *testing.T) {
	assert.True(t, IsTerminalStage(models.StageHired))
	assert.True(t, IsTerminalStage(models.StageTalentPool))
	assert.False(t, IsTerminalStage(models.StageApplied))
	assert.False(t, IsTerminalStage(models.StageOfferSent))
}

func TestHistoryContainsWithdrawal(t *testing.T) {
	withdrawn := []models.StatusHistoryEntry{
		{StatusID: models.InitialStatusID, Remark: models.InitialStatusRemark},
		{StatusID: 3, Remark: "Moved to screening"},
		{StatusID: models.WithdrawnStatusID, Remark: "Candidate withdrew"},
		{StatusID: 5, Remark: "Entry written after withdrawal"},
	}
	assert.True(t, HistoryContainsWithdrawal(withdrawn))

	active := []models.StatusHistoryEntry{
		{StatusID: models.InitialStatusID, Remark: models.InitialStatusRemark},
		{StatusID: 3},
	}
	assert.False(t, HistoryContainsWithdrawal(active))

	assert.False(t, HistoryContainsWithdrawal(nil))
}

// The scan must look only at history, never at the stage field: the two are
// written by separate calls and may diverge.
func TestHistoryContainsWithdrawal_IgnoresStageDivergence(t *testing.T) {
	history := []models.StatusHistoryEntry{
		{StatusID: models.WithdrawnStatusID},
	}
	assert.True(t, HistoryContainsWithdrawal(history),
		"withdrawal marker in history wins regardless of what application.stage says")
}
