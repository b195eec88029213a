package grpc

import (
	"context"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

type PathwayHandler struct {
	pathwaySvc service.PathwayService
}

func NewPathwayHandler(pathwaySvc service.PathwayService) *PathwayHandler {
	return &PathwayHandler{pathwaySvc: pathwaySvc}
}

func (h *PathwayHandler) CreateTemplate(ctx context.Context, req *CreateTemplateRequest) (*TemplateResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	t, err := h.pathwaySvc.CreateTemplate(ctx, actor, req.TemplateInput)
	if err != nil {
		return nil, err
	}
	return &TemplateResponse{Template: t}, nil
}

func (h *PathwayHandler) GetTemplate(ctx context.Context, req *GetTemplateRequest) (*TemplateResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	t, phases, err := h.pathwaySvc.GetTemplate(ctx, actor, req.TemplateID)
	if err != nil {
		return nil, err
	}
	return &TemplateResponse{Template: t, Phases: phases}, nil
}

func (h *PathwayHandler) ListTemplates(ctx context.Context, req *ListTemplatesRequest) (*ListTemplatesResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := h.pathwaySvc.ListTemplates(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &ListTemplatesResponse{Templates: templates}, nil
}

func (h *PathwayHandler) UpdateTemplate(ctx context.Context, req *UpdateTemplateRequest) (*TemplateResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	t, err := h.pathwaySvc.UpdateTemplate(ctx, actor, req.TemplateID, req.TemplateInput)
	if err != nil {
		return nil, err
	}
	return &TemplateResponse{Template: t}, nil
}

func (h *PathwayHandler) DeleteTemplate(ctx context.Context, req *DeleteTemplateRequest) (*SuccessResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.pathwaySvc.DeleteTemplate(ctx, actor, req.TemplateID); err != nil {
		return nil, err
	}
	return &SuccessResponse{Success: true}, nil
}

func (h *PathwayHandler) CloneTemplate(ctx context.Context, req *CloneTemplateRequest) (*TemplateResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	t, phases, err := h.pathwaySvc.CloneTemplate(ctx, actor, req.TemplateID, req.NewName)
	if err != nil {
		return nil, err
	}
	return &TemplateResponse{Template: t, Phases: phases}, nil
}

func (h *PathwayHandler) ListPhases(ctx context.Context, req *ListPhasesRequest) (*PhasesResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	phases, err := h.pathwaySvc.ListPhases(ctx, actor, req.TemplateID)
	if err != nil {
		return nil, err
	}
	return &PhasesResponse{Phases: phases}, nil
}

func (h *PathwayHandler) CreatePhase(ctx context.Context, req *CreatePhaseRequest) (*PhaseResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.pathwaySvc.CreatePhase(ctx, actor, req.TemplateID, req.PhaseInput)
	if err != nil {
		return nil, err
	}
	return &PhaseResponse{Phase: p}, nil
}

func (h *PathwayHandler) UpdatePhase(ctx context.Context, req *UpdatePhaseRequest) (*PhaseResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.pathwaySvc.UpdatePhase(ctx, actor, req.PhaseID, req.PhaseInput)
	if err != nil {
		return nil, err
	}
	return &PhaseResponse{Phase: p}, nil
}

func (h *PathwayHandler) DeletePhase(ctx context.Context, req *DeletePhaseRequest) (*SuccessResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.pathwaySvc.DeletePhase(ctx, actor, req.PhaseID); err != nil {
		return nil, err
	}
	return &SuccessResponse{Success: true}, nil
}

func (h *PathwayHandler) ReorderPhases(ctx context.Context, req *ReorderPhasesRequest) (*PhasesResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	phases, err := h.pathwaySvc.ReorderPhases(ctx, actor, req.TemplateID, req.Order)
	if err != nil {
		return nil, err
	}
	return &PhasesResponse{Phases: phases}, nil
}
