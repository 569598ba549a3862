package models

// Application stages. The symbolic stage is mirrored by a numeric status id
// resolved via the status list lookup table.
const (
	StageApplied            = "Applied"
	StageScreening          = "Screening"
	StageHRInterview        = "HR Interview"
	StageTechnicalInterview = "Technical Interview"
	StageFinalInterview     = "Final Interview"
	StageInReview           = "In Review"
	StageOfferSent          = "Offer Sent"
	StageHired              = "Hired"
	StageRejected           = "Rejected"
	StageTalentPool         = "Talent Pool"
)

const (
	// InitialStatusID is assigned right after application creation.
	InitialStatusID = 1

	// WithdrawnStatusID is a reserved terminal marker. It is honored even
	// when the status list table has no row for it.
	WithdrawnStatusID = 17

	// WithdrawnLabel is the hardcoded fallback label for WithdrawnStatusID.
	WithdrawnLabel = "Candidate Withdrawn"

	// InitialStatusRemark is the fixed remark written with the first
	// status-history entry.
	InitialStatusRemark = "Application Received"
)

// StatusListEntry maps a small integer id to a human-readable status label.
// Fetched once and cached long-term; it changes rarely.
type StatusListEntry struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}
