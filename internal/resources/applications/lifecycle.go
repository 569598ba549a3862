package applications

import (
	"hireflow/internal/models"
)

// stageTransitions is the forward edge set of the application lifecycle:
// Applied → Screening → {HR | Technical Interview} → Final Interview →
// {Offer Sent | Rejected} → {Hired | Talent Pool}, with In Review between
// the interviews and the offer decision.
var stageTransitions = map[string][]string{
	models.StageApplied:            {models.StageScreening},
	models.StageScreening:          {models.StageHRInterview, models.StageTechnicalInterview},
	models.StageHRInterview:        {models.StageTechnicalInterview, models.StageFinalInterview},
	models.StageTechnicalInterview: {models.StageFinalInterview},
	models.StageFinalInterview:     {models.StageInReview, models.StageOfferSent, models.StageRejected},
	models.StageInReview:           {models.StageOfferSent, models.StageRejected},
	models.StageOfferSent:          {models.StageHired, models.StageTalentPool},
	models.StageRejected:           {models.StageTalentPool},
	models.StageHired:              {},
	models.StageTalentPool:         {},
}

// CanTransition reports whether the lifecycle allows moving from one stage
// to another.
func CanTransition(from, to string) bool {
	for _, next := range stageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStage reports whether a stage has no outgoing transitions.
func IsTerminalStage(stage string) bool {
	return len(stageTransitions[stage]) == 0
}

// HistoryContainsWithdrawal scans the full status history for the reserved
// withdrawn marker. The scan deliberately ignores the application's current
// stage field: stage and history are written by separate non-atomic calls
// and may diverge.
func HistoryContainsWithdrawal(history []models.StatusHistoryEntry) bool {
	for _, entry := range history {
		if entry.StatusID == models.WithdrawnStatusID {
			return true
		}
	}
	return false
}
