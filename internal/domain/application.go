package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusDraft     ApplicationStatus = "draft"
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusInReview  ApplicationStatus = "in_review"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusOnHold    ApplicationStatus = "on_hold"
)

type ScreeningStatus string

const (
	ScreeningPending  ScreeningStatus = "Pending"
	ScreeningAccepted ScreeningStatus = "Accepted"
	ScreeningOnHold   ScreeningStatus = "On Hold"
	ScreeningDenied   ScreeningStatus = "Denied"
)

// ParseScreeningStatus validates a raw screening status.
func ParseScreeningStatus(s string) (ScreeningStatus, bool) {
	st := ScreeningStatus(s)
	switch st {
	case ScreeningPending, ScreeningAccepted, ScreeningOnHold, ScreeningDenied:
		return st, true
	}
	return "", false
}

// Application is an applicant's progress through a campaign's pathway.
// CurrentCampaignPhaseID is nil before submission and once the pathway is exhausted.
// Version is bumped by every write and guards phase transitions.
type Application struct {
	ID                     string            `json:"id"`
	CampaignID             string            `json:"campaign_id"`
	ApplicantID            string            `json:"applicant_id"`
	CurrentCampaignPhaseID *string           `json:"current_campaign_phase_id,omitempty"`
	Status                 ApplicationStatus `json:"status"`
	ScreeningStatus        ScreeningStatus   `json:"screening_status"`
	Data                   map[string]any    `json:"data"`
	Version                int64             `json:"version"`
	SubmittedAt            *time.Time        `json:"submitted_at,omitempty"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

// PhaseTransition is the audit row written with every phase pointer change.
type PhaseTransition struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	FromPhaseID   *string   `json:"from_phase_id,omitempty"`
	ToPhaseID     *string   `json:"to_phase_id,omitempty"`
	Outcome       string    `json:"outcome"`
	ActorID       string    `json:"actor_id"`
	CreatedAt     time.Time `json:"created_at"`
}
