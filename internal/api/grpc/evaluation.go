package grpc

import (
	"context"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

type EvaluationHandler struct {
	evaluationSvc service.EvaluationService
}

func NewEvaluationHandler(evaluationSvc service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationSvc: evaluationSvc}
}

func (h *EvaluationHandler) CreateAssignment(ctx context.Context, req *CreateAssignmentRequest) (*AssignmentResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	a, err := h.evaluationSvc.CreateAssignment(ctx, actor, req.ApplicationID, req.PhaseID, req.ReviewerID)
	if err != nil {
		return nil, err
	}
	return &AssignmentResponse{Assignment: a}, nil
}

func (h *EvaluationHandler) DeleteAssignment(ctx context.Context, req *DeleteAssignmentRequest) (*SuccessResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.evaluationSvc.DeleteAssignment(ctx, actor, req.AssignmentID); err != nil {
		return nil, err
	}
	return &SuccessResponse{Success: true}, nil
}

func (h *EvaluationHandler) RespondToAssignment(ctx context.Context, req *RespondToAssignmentRequest) (*AssignmentResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	a, err := h.evaluationSvc.RespondToAssignment(ctx, actor, req.AssignmentID, req.Status)
	if err != nil {
		return nil, err
	}
	return &AssignmentResponse{Assignment: a}, nil
}

func (h *EvaluationHandler) ListMyAssignments(ctx context.Context, req *ListMyAssignmentsRequest) (*AssignmentsResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := h.evaluationSvc.ListAssignmentsForReviewer(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &AssignmentsResponse{Assignments: assignments}, nil
}

func (h *EvaluationHandler) SaveReview(ctx context.Context, req *SaveReviewRequest) (*ReviewResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	r, err := h.evaluationSvc.SaveReview(ctx, actor, req.ReviewInput)
	if err != nil {
		return nil, err
	}
	return &ReviewResponse{Review: r}, nil
}

func (h *EvaluationHandler) SetReviewStatus(ctx context.Context, req *SetReviewStatusRequest) (*ReviewResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	r, err := h.evaluationSvc.SetReviewStatus(ctx, actor, req.ReviewID, req.Status)
	if err != nil {
		return nil, err
	}
	return &ReviewResponse{Review: r}, nil
}

func (h *EvaluationHandler) ListReviews(ctx context.Context, req *PhaseScopeRequest) (*ReviewsResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := h.evaluationSvc.ListReviews(ctx, actor, req.ApplicationID, req.PhaseID)
	if err != nil {
		return nil, err
	}
	return &ReviewsResponse{Reviews: reviews}, nil
}

func (h *EvaluationHandler) CreateDecision(ctx context.Context, req *CreateDecisionRequest) (*DecisionResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	d, err := h.evaluationSvc.CreateDecision(ctx, actor, req.DecisionInput)
	if err != nil {
		return nil, err
	}
	return &DecisionResponse{Decision: d}, nil
}

func (h *EvaluationHandler) ListDecisions(ctx context.Context, req *PhaseScopeRequest) (*DecisionsResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	decisions, err := h.evaluationSvc.ListDecisions(ctx, actor, req.ApplicationID, req.PhaseID)
	if err != nil {
		return nil, err
	}
	return &DecisionsResponse{Decisions: decisions}, nil
}
