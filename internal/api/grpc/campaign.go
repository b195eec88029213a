package grpc

import (
	"context"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

// CampaignHandler serves campaigns, applications and their progression.
type CampaignHandler struct {
	campaignSvc    service.CampaignService
	progressionSvc service.ProgressionService
}

func NewCampaignHandler(campaignSvc service.CampaignService, progressionSvc service.ProgressionService) *CampaignHandler {
	return &CampaignHandler{campaignSvc: campaignSvc, progressionSvc: progressionSvc}
}

func (h *CampaignHandler) CreateCampaign(ctx context.Context, req *CreateCampaignRequest) (*CampaignResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.campaignSvc.CreateCampaign(ctx, actor, req.CampaignInput)
	if err != nil {
		return nil, err
	}
	return &CampaignResponse{Campaign: c}, nil
}

func (h *CampaignHandler) GetCampaign(ctx context.Context, req *GetCampaignRequest) (*CampaignResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.campaignSvc.GetCampaign(ctx, actor, req.CampaignID)
	if err != nil {
		return nil, err
	}
	return &CampaignResponse{Campaign: c}, nil
}

func (h *CampaignHandler) UpdateCampaignStatus(ctx context.Context, req *UpdateCampaignStatusRequest) (*CampaignResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.campaignSvc.UpdateCampaignStatus(ctx, actor, req.CampaignID, req.Status)
	if err != nil {
		return nil, err
	}
	return &CampaignResponse{Campaign: c}, nil
}

func (h *CampaignHandler) CreateApplication(ctx context.Context, req *CreateApplicationRequest) (*ApplicationResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	app, err := h.campaignSvc.CreateApplication(ctx, actor, req.CampaignID, req.Data)
	if err != nil {
		return nil, err
	}
	return &ApplicationResponse{Application: app}, nil
}

func (h *CampaignHandler) UpdateApplicationData(ctx context.Context, req *UpdateApplicationDataRequest) (*ApplicationResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	app, err := h.campaignSvc.UpdateApplicationData(ctx, actor, req.ApplicationID, req.Data)
	if err != nil {
		return nil, err
	}
	return &ApplicationResponse{Application: app}, nil
}

func (h *CampaignHandler) GetApplication(ctx context.Context, req *GetApplicationRequest) (*ApplicationResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	app, err := h.campaignSvc.GetApplication(ctx, actor, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	return &ApplicationResponse{Application: app}, nil
}

func (h *CampaignHandler) ListApplications(ctx context.Context, req *ListApplicationsRequest) (*ListApplicationsResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := h.campaignSvc.ListApplications(ctx, actor, req.CampaignID)
	if err != nil {
		return nil, err
	}
	return &ListApplicationsResponse{Applications: apps}, nil
}

func (h *CampaignHandler) SubmitApplication(ctx context.Context, req *SubmitApplicationRequest) (*ApplicationResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	app, err := h.progressionSvc.SubmitApplication(ctx, actor, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	return &ApplicationResponse{Application: app}, nil
}

func (h *CampaignHandler) SetApplicationStatus(ctx context.Context, req *SetApplicationStatusRequest) (*ApplicationResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	app, err := h.progressionSvc.SetStatus(ctx, actor, req.ApplicationID, req.Status)
	if err != nil {
		return nil, err
	}
	return &ApplicationResponse{Application: app}, nil
}

func (h *CampaignHandler) SetScreeningStatus(ctx context.Context, req *SetScreeningStatusRequest) (*SuccessResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.progressionSvc.SetScreeningStatus(ctx, actor, req.ApplicationID, req.ScreeningStatus); err != nil {
		return nil, err
	}
	return &SuccessResponse{Success: true}, nil
}

func (h *CampaignHandler) AdvanceApplication(ctx context.Context, req *AdvanceApplicationRequest) (*service.AdvanceResult, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return h.progressionSvc.Advance(ctx, actor, req.ApplicationID, req.ExpectedPhaseID)
}

func (h *CampaignHandler) GetPhaseHistory(ctx context.Context, req *GetPhaseHistoryRequest) (*PhaseHistoryResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	transitions, err := h.progressionSvc.PhaseHistory(ctx, actor, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	return &PhaseHistoryResponse{Transitions: transitions}, nil
}
