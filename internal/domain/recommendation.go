package domain

import "time"

type RecommendationStatus string

const (
	RecommendationPending   RecommendationStatus = "pending"
	RecommendationSent      RecommendationStatus = "sent"
	RecommendationViewed    RecommendationStatus = "viewed"
	RecommendationSubmitted RecommendationStatus = "submitted"
	RecommendationOverdue   RecommendationStatus = "overdue"
)

// RecommendationRequest asks a third party for a letter. Only a digest of the
// capability token is stored; the raw token exists in the emailed link.
type RecommendationRequest struct {
	ID               string               `json:"id"`
	ApplicationID    string               `json:"application_id"`
	CampaignPhaseID  string               `json:"campaign_phase_id"`
	RecommenderEmail string               `json:"recommender_email"`
	RecommenderName  string               `json:"recommender_name"`
	TokenHash        string               `json:"-"`
	Status           RecommendationStatus `json:"status"`
	FormData         map[string]any       `json:"form_data,omitempty"`
	RequestSentAt    *time.Time           `json:"request_sent_at,omitempty"`
	LastReminderAt   *time.Time           `json:"last_reminder_at,omitempty"`
	SubmittedAt      *time.Time           `json:"submitted_at,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}
