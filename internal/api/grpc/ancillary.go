package grpc

import (
	"context"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

// AncillaryHandler serves the phase types that reach outside the pathway:
// recommendations, interviews and the message templates of Email phases.
type AncillaryHandler struct {
	recommendationSvc service.RecommendationService
	schedulingSvc     service.SchedulingService
	communicationSvc  service.CommunicationService
}

func NewAncillaryHandler(recommendationSvc service.RecommendationService, schedulingSvc service.SchedulingService, communicationSvc service.CommunicationService) *AncillaryHandler {
	return &AncillaryHandler{
		recommendationSvc: recommendationSvc,
		schedulingSvc:     schedulingSvc,
		communicationSvc:  communicationSvc,
	}
}

func (h *AncillaryHandler) CreateRecommendationRequest(ctx context.Context, req *CreateRecommendationRequestRequest) (*RecommendationResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	r, err := h.recommendationSvc.CreateRequest(ctx, actor, req.RecommendationInput)
	if err != nil {
		return nil, err
	}
	return &RecommendationResponse{Request: r}, nil
}

func (h *AncillaryHandler) ListRecommendationRequests(ctx context.Context, req *PhaseScopeRequest) (*RecommendationsResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := h.recommendationSvc.ListRequests(ctx, actor, req.ApplicationID, req.PhaseID)
	if err != nil {
		return nil, err
	}
	return &RecommendationsResponse{Requests: requests}, nil
}

func (h *AncillaryHandler) AddAvailability(ctx context.Context, req *AddAvailabilityRequest) (*AvailabilityResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	hostID := req.HostID
	if hostID == "" {
		hostID = actor.UserID
	}
	a, err := h.schedulingSvc.AddAvailability(ctx, actor, hostID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{Availability: a}, nil
}

func (h *AncillaryHandler) ListAvailability(ctx context.Context, req *ListAvailabilityRequest) (*AvailabilitiesResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := h.schedulingSvc.ListAvailability(ctx, actor, req.HostID)
	if err != nil {
		return nil, err
	}
	return &AvailabilitiesResponse{Availability: slots}, nil
}

func (h *AncillaryHandler) BookInterview(ctx context.Context, req *BookInterviewRequest) (*InterviewResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	iv, err := h.schedulingSvc.BookInterview(ctx, actor, req.BookingInput)
	if err != nil {
		return nil, err
	}
	return &InterviewResponse{Interview: iv}, nil
}

func (h *AncillaryHandler) CancelInterview(ctx context.Context, req *InterviewRequest) (*SuccessResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.schedulingSvc.CancelInterview(ctx, actor, req.InterviewID); err != nil {
		return nil, err
	}
	return &SuccessResponse{Success: true}, nil
}

func (h *AncillaryHandler) CompleteInterview(ctx context.Context, req *InterviewRequest) (*SuccessResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.schedulingSvc.CompleteInterview(ctx, actor, req.InterviewID); err != nil {
		return nil, err
	}
	return &SuccessResponse{Success: true}, nil
}

func (h *AncillaryHandler) ListInterviews(ctx context.Context, req *PhaseScopeRequest) (*InterviewsResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	interviews, err := h.schedulingSvc.ListInterviews(ctx, actor, req.ApplicationID, req.PhaseID)
	if err != nil {
		return nil, err
	}
	return &InterviewsResponse{Interviews: interviews}, nil
}

func (h *AncillaryHandler) CreateCommunicationTemplate(ctx context.Context, req *CreateCommunicationTemplateRequest) (*CommunicationTemplateResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	t, err := h.communicationSvc.CreateTemplate(ctx, actor, req.CommunicationTemplateInput)
	if err != nil {
		return nil, err
	}
	return &CommunicationTemplateResponse{Template: t}, nil
}

func (h *AncillaryHandler) GetCommunicationTemplate(ctx context.Context, req *CommunicationTemplateRequest) (*CommunicationTemplateResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	t, err := h.communicationSvc.GetTemplate(ctx, actor, req.TemplateID)
	if err != nil {
		return nil, err
	}
	return &CommunicationTemplateResponse{Template: t}, nil
}

func (h *AncillaryHandler) ListCommunicationTemplates(ctx context.Context, req *ListCommunicationTemplatesRequest) (*CommunicationTemplatesResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := h.communicationSvc.ListTemplates(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &CommunicationTemplatesResponse{Templates: templates}, nil
}

func (h *AncillaryHandler) UpdateCommunicationTemplate(ctx context.Context, req *UpdateCommunicationTemplateRequest) (*CommunicationTemplateResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	t, err := h.communicationSvc.UpdateTemplate(ctx, actor, req.TemplateID, req.CommunicationTemplateInput)
	if err != nil {
		return nil, err
	}
	return &CommunicationTemplateResponse{Template: t}, nil
}

func (h *AncillaryHandler) DeleteCommunicationTemplate(ctx context.Context, req *CommunicationTemplateRequest) (*SuccessResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.communicationSvc.DeleteTemplate(ctx, actor, req.TemplateID); err != nil {
		return nil, err
	}
	return &SuccessResponse{Success: true}, nil
}
