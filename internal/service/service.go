package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/progression"
)

type TemplateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

// PhaseInput carries a raw config payload; it is decoded against Type and
// validated before anything is stored. Type cannot change on update.
// PhaseInput creates or patches a phase. On update, empty Name and Config and a
// nil Description keep the stored values; an empty Description clears it.
type PhaseInput struct {
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Type        phaseconfig.PhaseType `json:"type"`
	Config      json.RawMessage       `json:"config"`
}

type PathwayService interface {
	CreateTemplate(ctx context.Context, actor domain.Actor, in TemplateInput) (*domain.PathwayTemplate, error)
	GetTemplate(ctx context.Context, actor domain.Actor, id string) (*domain.PathwayTemplate, []domain.Phase, error)
	ListTemplates(ctx context.Context, actor domain.Actor) ([]domain.PathwayTemplate, error)
	UpdateTemplate(ctx context.Context, actor domain.Actor, id string, in TemplateInput) (*domain.PathwayTemplate, error)
	DeleteTemplate(ctx context.Context, actor domain.Actor, id string) error
	CloneTemplate(ctx context.Context, actor domain.Actor, id, newName string) (*domain.PathwayTemplate, []domain.Phase, error)

	ListPhases(ctx context.Context, actor domain.Actor, templateID string) ([]domain.Phase, error)
	CreatePhase(ctx context.Context, actor domain.Actor, templateID string, in PhaseInput) (*domain.Phase, error)
	UpdatePhase(ctx context.Context, actor domain.Actor, phaseID string, in PhaseInput) (*domain.Phase, error)
	DeletePhase(ctx context.Context, actor domain.Actor, phaseID string) error
	ReorderPhases(ctx context.Context, actor domain.Actor, templateID string, order []domain.PhaseOrder) ([]domain.Phase, error)
}

type CampaignInput struct {
	ProgramID         *string    `json:"program_id,omitempty"`
	PathwayTemplateID string     `json:"pathway_template_id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	IsPublic          bool       `json:"is_public"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
}

type CampaignService interface {
	CreateCampaign(ctx context.Context, actor domain.Actor, in CampaignInput) (*domain.Campaign, error)
	GetCampaign(ctx context.Context, actor domain.Actor, id string) (*domain.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, actor domain.Actor, id string, status domain.CampaignStatus) (*domain.Campaign, error)

	CreateApplication(ctx context.Context, actor domain.Actor, campaignID string, data map[string]any) (*domain.Application, error)
	UpdateApplicationData(ctx context.Context, actor domain.Actor, id string, data map[string]any) (*domain.Application, error)
	GetApplication(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error)
	ListApplications(ctx context.Context, actor domain.Actor, campaignID string) ([]domain.Application, error)
}

// AdvanceResult is the application after a phase transition and the step taken.
type AdvanceResult struct {
	Application *domain.Application `json:"application"`
	Step        progression.Step    `json:"step"`
}

type ProgressionService interface {
	SubmitApplication(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error)
	SetStatus(ctx context.Context, actor domain.Actor, id string, status domain.ApplicationStatus) (*domain.Application, error)
	SetScreeningStatus(ctx context.Context, actor domain.Actor, id string, status domain.ScreeningStatus) error
	// Advance moves the application off expectedPhaseID according to the outcome
	// recorded for that phase.
	Advance(ctx context.Context, actor domain.Actor, id, expectedPhaseID string) (*AdvanceResult, error)
	PhaseHistory(ctx context.Context, actor domain.Actor, id string) ([]domain.PhaseTransition, error)
}

type ReviewInput struct {
	ApplicationID string             `json:"application_id"`
	PhaseID       string             `json:"campaign_phase_id"`
	ReviewerID    string             `json:"reviewer_id,omitempty"`
	Score         map[string]float64 `json:"score"`
	Comments      string             `json:"comments"`
}

type DecisionInput struct {
	ApplicationID string `json:"application_id"`
	PhaseID       string `json:"campaign_phase_id"`
	Outcome       string `json:"outcome"`
	Notes         string `json:"notes"`
	IsFinal       bool   `json:"is_final"`
}

type EvaluationService interface {
	CreateAssignment(ctx context.Context, actor domain.Actor, applicationID, phaseID, reviewerID string) (*domain.ReviewerAssignment, error)
	DeleteAssignment(ctx context.Context, actor domain.Actor, id string) error
	RespondToAssignment(ctx context.Context, actor domain.Actor, id string, status domain.AssignmentStatus) (*domain.ReviewerAssignment, error)
	ListAssignmentsForReviewer(ctx context.Context, actor domain.Actor) ([]domain.ReviewerAssignment, error)

	SaveReview(ctx context.Context, actor domain.Actor, in ReviewInput) (*domain.Review, error)
	SetReviewStatus(ctx context.Context, actor domain.Actor, id string, status domain.ReviewStatus) (*domain.Review, error)
	ListReviews(ctx context.Context, actor domain.Actor, applicationID, phaseID string) ([]domain.Review, error)

	CreateDecision(ctx context.Context, actor domain.Actor, in DecisionInput) (*domain.Decision, error)
	ListDecisions(ctx context.Context, actor domain.Actor, applicationID, phaseID string) ([]domain.Decision, error)
}

type RecommendationInput struct {
	ApplicationID    string `json:"application_id"`
	PhaseID          string `json:"campaign_phase_id"`
	RecommenderEmail string `json:"recommender_email"`
	RecommenderName  string `json:"recommender_name"`
}

// RecommendationForm is what a recommender sees when opening their link.
type RecommendationForm struct {
	Request *domain.RecommendationRequest `json:"request"`
	Fields  []phaseconfig.FormField       `json:"fields"`
}

type RecommendationService interface {
	CreateRequest(ctx context.Context, actor domain.Actor, in RecommendationInput) (*domain.RecommendationRequest, error)
	ListRequests(ctx context.Context, actor domain.Actor, applicationID, phaseID string) ([]domain.RecommendationRequest, error)
	GetByToken(ctx context.Context, token string) (*RecommendationForm, error)
	Submit(ctx context.Context, token string, formData map[string]any) error

	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	SendReminders(ctx context.Context, now time.Time) (int, error)
}

type BookingInput struct {
	ApplicationID string    `json:"application_id"`
	PhaseID       string    `json:"campaign_phase_id"`
	HostID        string    `json:"host_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

type SchedulingService interface {
	AddAvailability(ctx context.Context, actor domain.Actor, hostID string, start, end time.Time) (*domain.HostAvailability, error)
	ListAvailability(ctx context.Context, actor domain.Actor, hostID string) ([]domain.HostAvailability, error)
	BookInterview(ctx context.Context, actor domain.Actor, in BookingInput) (*domain.ScheduledInterview, error)
	CancelInterview(ctx context.Context, actor domain.Actor, id string) error
	CompleteInterview(ctx context.Context, actor domain.Actor, id string) error
	ListInterviews(ctx context.Context, actor domain.Actor, applicationID, phaseID string) ([]domain.ScheduledInterview, error)
}

type CommunicationTemplateInput struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type CommunicationService interface {
	CreateTemplate(ctx context.Context, actor domain.Actor, in CommunicationTemplateInput) (*domain.CommunicationTemplate, error)
	GetTemplate(ctx context.Context, actor domain.Actor, id string) (*domain.CommunicationTemplate, error)
	ListTemplates(ctx context.Context, actor domain.Actor) ([]domain.CommunicationTemplate, error)
	UpdateTemplate(ctx context.Context, actor domain.Actor, id string, in CommunicationTemplateInput) (*domain.CommunicationTemplate, error)
	DeleteTemplate(ctx context.Context, actor domain.Actor, id string) error

	// SendPhaseEmail emits the Email phase message for app once per recipient.
	// Recipients already recorded are skipped. It reports whether every
	// recipient has been reached, now or earlier.
	SendPhaseEmail(ctx context.Context, app *domain.Application, phase domain.Phase) (bool, error)
}

// TokenPair is a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	RefreshToken(ctx context.Context, userID string) (*TokenPair, error)
}

// EmailService delivers a rendered outbound message.
type EmailService interface {
	Send(ctx context.Context, msg domain.OutboundMessage) error
}
