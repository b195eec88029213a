package domain

import "time"

// CommunicationTemplate is reusable subject/body content. Email phases copy it in
// when selected.
type CommunicationTemplate struct {
	ID        string    `json:"id"`
	CreatorID string    `json:"creator_id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recipient of an outbound message.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
}

// OutboundMessage is what the workflow emits; delivery renders Subject and Body
// against Variables.
type OutboundMessage struct {
	Kind       string            `json:"kind"`
	Recipient  Recipient         `json:"recipient"`
	Subject    string            `json:"subject"`
	Body       string            `json:"body"`
	TemplateID string            `json:"template_id,omitempty"`
	Variables  map[string]string `json:"variables"`
}

// Message kinds.
const (
	MessageEmailPhase             = "email_phase"
	MessageRecommendationRequest  = "recommendation_request"
	MessageRecommendationReminder = "recommendation_reminder"
)

// EmailDispatch records that an Email phase message reached one recipient of an
// application.
type EmailDispatch struct {
	ID              string    `json:"id"`
	ApplicationID   string    `json:"application_id"`
	CampaignPhaseID string    `json:"campaign_phase_id"`
	RecipientEmail  string    `json:"recipient_email"`
	SentAt          time.Time `json:"sent_at"`
}
