package grpc

import (
	"time"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

// Request and response messages of workbench.v1.WorkbenchService. They are
// exchanged as JSON.

type SuccessResponse struct {
	Success bool `json:"success"`
}

// Templates

type CreateTemplateRequest struct {
	service.TemplateInput
}

type GetTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

type ListTemplatesRequest struct{}

type UpdateTemplateRequest struct {
	TemplateID string `json:"template_id"`
	service.TemplateInput
}

type DeleteTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

type CloneTemplateRequest struct {
	TemplateID string `json:"template_id"`
	NewName    string `json:"new_name"`
}

type TemplateResponse struct {
	Template *domain.PathwayTemplate `json:"template"`
	Phases   []domain.Phase          `json:"phases,omitempty"`
}

type ListTemplatesResponse struct {
	Templates []domain.PathwayTemplate `json:"templates"`
}

type ListPhasesRequest struct {
	TemplateID string `json:"template_id"`
}

type CreatePhaseRequest struct {
	TemplateID string `json:"template_id"`
	service.PhaseInput
}

type UpdatePhaseRequest struct {
	PhaseID string `json:"phase_id"`
	service.PhaseInput
}

type DeletePhaseRequest struct {
	PhaseID string `json:"phase_id"`
}

type ReorderPhasesRequest struct {
	TemplateID string              `json:"template_id"`
	Order      []domain.PhaseOrder `json:"order"`
}

type PhaseResponse struct {
	Phase *domain.Phase `json:"phase"`
}

type PhasesResponse struct {
	Phases []domain.Phase `json:"phases"`
}

// Campaigns and applications

type CreateCampaignRequest struct {
	service.CampaignInput
}

type GetCampaignRequest struct {
	CampaignID string `json:"campaign_id"`
}

type UpdateCampaignStatusRequest struct {
	CampaignID string                `json:"campaign_id"`
	Status     domain.CampaignStatus `json:"status"`
}

type CampaignResponse struct {
	Campaign *domain.Campaign `json:"campaign"`
}

type CreateApplicationRequest struct {
	CampaignID string         `json:"campaign_id"`
	Data       map[string]any `json:"data"`
}

type UpdateApplicationDataRequest struct {
	ApplicationID string         `json:"application_id"`
	Data          map[string]any `json:"data"`
}

type GetApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

type ListApplicationsRequest struct {
	CampaignID string `json:"campaign_id"`
}

type SubmitApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

type SetApplicationStatusRequest struct {
	ApplicationID string                   `json:"application_id"`
	Status        domain.ApplicationStatus `json:"status"`
}

type SetScreeningStatusRequest struct {
	ApplicationID   string                 `json:"application_id"`
	ScreeningStatus domain.ScreeningStatus `json:"screening_status"`
}

type AdvanceApplicationRequest struct {
	ApplicationID   string `json:"application_id"`
	ExpectedPhaseID string `json:"expected_phase_id"`
}

type GetPhaseHistoryRequest struct {
	ApplicationID string `json:"application_id"`
}

type ApplicationResponse struct {
	Application *domain.Application `json:"application"`
}

type ListApplicationsResponse struct {
	Applications []domain.Application `json:"applications"`
}

type PhaseHistoryResponse struct {
	Transitions []domain.PhaseTransition `json:"transitions"`
}

// Evaluation

type CreateAssignmentRequest struct {
	ApplicationID string `json:"application_id"`
	PhaseID       string `json:"campaign_phase_id"`
	ReviewerID    string `json:"reviewer_id"`
}

type DeleteAssignmentRequest struct {
	AssignmentID string `json:"assignment_id"`
}

type RespondToAssignmentRequest struct {
	AssignmentID string                  `json:"assignment_id"`
	Status       domain.AssignmentStatus `json:"status"`
}

type ListMyAssignmentsRequest struct{}

type AssignmentResponse struct {
	Assignment *domain.ReviewerAssignment `json:"assignment"`
}

type AssignmentsResponse struct {
	Assignments []domain.ReviewerAssignment `json:"assignments"`
}

type SaveReviewRequest struct {
	service.ReviewInput
}

type SetReviewStatusRequest struct {
	ReviewID string              `json:"review_id"`
	Status   domain.ReviewStatus `json:"status"`
}

type ReviewResponse struct {
	Review *domain.Review `json:"review"`
}

// PhaseScopeRequest addresses the records of one application on one phase.
type PhaseScopeRequest struct {
	ApplicationID string `json:"application_id"`
	PhaseID       string `json:"campaign_phase_id"`
}

type ReviewsResponse struct {
	Reviews []domain.Review `json:"reviews"`
}

type CreateDecisionRequest struct {
	service.DecisionInput
}

type DecisionResponse struct {
	Decision *domain.Decision `json:"decision"`
}

type DecisionsResponse struct {
	Decisions []domain.Decision `json:"decisions"`
}

// Recommendations

type CreateRecommendationRequestRequest struct {
	service.RecommendationInput
}

type RecommendationResponse struct {
	Request *domain.RecommendationRequest `json:"request"`
}

type RecommendationsResponse struct {
	Requests []domain.RecommendationRequest `json:"requests"`
}

// Scheduling

type AddAvailabilityRequest struct {
	HostID    string    `json:"host_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type ListAvailabilityRequest struct {
	HostID string `json:"host_id"`
}

type AvailabilityResponse struct {
	Availability *domain.HostAvailability `json:"availability"`
}

type AvailabilitiesResponse struct {
	Availability []domain.HostAvailability `json:"availability"`
}

type BookInterviewRequest struct {
	service.BookingInput
}

type InterviewRequest struct {
	InterviewID string `json:"interview_id"`
}

type InterviewResponse struct {
	Interview *domain.ScheduledInterview `json:"interview"`
}

type InterviewsResponse struct {
	Interviews []domain.ScheduledInterview `json:"interviews"`
}

// Communication templates

type CreateCommunicationTemplateRequest struct {
	service.CommunicationTemplateInput
}

type CommunicationTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

type ListCommunicationTemplatesRequest struct{}

type UpdateCommunicationTemplateRequest struct {
	TemplateID string `json:"template_id"`
	service.CommunicationTemplateInput
}

type CommunicationTemplateResponse struct {
	Template *domain.CommunicationTemplate `json:"template"`
}

type CommunicationTemplatesResponse struct {
	Templates []domain.CommunicationTemplate `json:"templates"`
}

// Auth

type RefreshTokenRequest struct{}
