package domain

import "time"

type AssignmentStatus string

const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentAccepted  AssignmentStatus = "accepted"
	AssignmentDeclined  AssignmentStatus = "declined"
	AssignmentCompleted AssignmentStatus = "completed"
)

// ReviewerAssignment binds a reviewer to an application for one phase. At most one
// exists per (reviewer, application, phase).
type ReviewerAssignment struct {
	ID              string           `json:"id"`
	ApplicationID   string           `json:"application_id"`
	ReviewerID      string           `json:"reviewer_id"`
	CampaignPhaseID string           `json:"campaign_phase_id"`
	Status          AssignmentStatus `json:"status"`
	AssignedBy      string           `json:"assigned_by"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "pending"
	ReviewSubmitted ReviewStatus = "submitted"
	ReviewReopened  ReviewStatus = "reopened"
)

// Review holds one reviewer's rubric scores, keyed by criterion id.
type Review struct {
	ID              string             `json:"id"`
	ApplicationID   string             `json:"application_id"`
	ReviewerID      string             `json:"reviewer_id"`
	CampaignPhaseID string             `json:"campaign_phase_id"`
	Score           map[string]float64 `json:"score"`
	Comments        string             `json:"comments"`
	Status          ReviewStatus       `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Total sums the criterion scores.
func (r Review) Total() float64 {
	var sum float64
	for _, v := range r.Score {
		sum += v
	}
	return sum
}

// Decision is a recorded outcome for an application at a phase. Decisions are
// append-only; the newest final one is authoritative.
type Decision struct {
	ID              string    `json:"id"`
	ApplicationID   string    `json:"application_id"`
	CampaignPhaseID string    `json:"campaign_phase_id"`
	DeciderID       string    `json:"decider_id"`
	Outcome         string    `json:"outcome"`
	Notes           string    `json:"notes"`
	IsFinal         bool      `json:"is_final"`
	CreatedAt       time.Time `json:"created_at"`
}
