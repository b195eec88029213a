package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "workbench.v1.WorkbenchService"

// WorkbenchServer is the server API for workbench.v1.WorkbenchService.
type WorkbenchServer interface {
	CreateTemplate(context.Context, *CreateTemplateRequest) (*TemplateResponse, error)
	GetTemplate(context.Context, *GetTemplateRequest) (*TemplateResponse, error)
	ListTemplates(context.Context, *ListTemplatesRequest) (*ListTemplatesResponse, error)
	UpdateTemplate(context.Context, *UpdateTemplateRequest) (*TemplateResponse, error)
	DeleteTemplate(context.Context, *DeleteTemplateRequest) (*SuccessResponse, error)
	CloneTemplate(context.Context, *CloneTemplateRequest) (*TemplateResponse, error)
	ListPhases(context.Context, *ListPhasesRequest) (*PhasesResponse, error)
	CreatePhase(context.Context, *CreatePhaseRequest) (*PhaseResponse, error)
	UpdatePhase(context.Context, *UpdatePhaseRequest) (*PhaseResponse, error)
	DeletePhase(context.Context, *DeletePhaseRequest) (*SuccessResponse, error)
	ReorderPhases(context.Context, *ReorderPhasesRequest) (*PhasesResponse, error)

	CreateCampaign(context.Context, *CreateCampaignRequest) (*CampaignResponse, error)
	GetCampaign(context.Context, *GetCampaignRequest) (*CampaignResponse, error)
	UpdateCampaignStatus(context.Context, *UpdateCampaignStatusRequest) (*CampaignResponse, error)
	CreateApplication(context.Context, *CreateApplicationRequest) (*ApplicationResponse, error)
	UpdateApplicationData(context.Context, *UpdateApplicationDataRequest) (*ApplicationResponse, error)
	GetApplication(context.Context, *GetApplicationRequest) (*ApplicationResponse, error)
	ListApplications(context.Context, *ListApplicationsRequest) (*ListApplicationsResponse, error)
	SubmitApplication(context.Context, *SubmitApplicationRequest) (*ApplicationResponse, error)
	SetApplicationStatus(context.Context, *SetApplicationStatusRequest) (*ApplicationResponse, error)
	SetScreeningStatus(context.Context, *SetScreeningStatusRequest) (*SuccessResponse, error)
	AdvanceApplication(context.Context, *AdvanceApplicationRequest) (*service.AdvanceResult, error)
	GetPhaseHistory(context.Context, *GetPhaseHistoryRequest) (*PhaseHistoryResponse, error)

	CreateAssignment(context.Context, *CreateAssignmentRequest) (*AssignmentResponse, error)
	DeleteAssignment(context.Context, *DeleteAssignmentRequest) (*SuccessResponse, error)
	RespondToAssignment(context.Context, *RespondToAssignmentRequest) (*AssignmentResponse, error)
	ListMyAssignments(context.Context, *ListMyAssignmentsRequest) (*AssignmentsResponse, error)
	SaveReview(context.Context, *SaveReviewRequest) (*ReviewResponse, error)
	SetReviewStatus(context.Context, *SetReviewStatusRequest) (*ReviewResponse, error)
	ListReviews(context.Context, *PhaseScopeRequest) (*ReviewsResponse, error)
	CreateDecision(context.Context, *CreateDecisionRequest) (*DecisionResponse, error)
	ListDecisions(context.Context, *PhaseScopeRequest) (*DecisionsResponse, error)

	CreateRecommendationRequest(context.Context, *CreateRecommendationRequestRequest) (*RecommendationResponse, error)
	ListRecommendationRequests(context.Context, *PhaseScopeRequest) (*RecommendationsResponse, error)
	AddAvailability(context.Context, *AddAvailabilityRequest) (*AvailabilityResponse, error)
	ListAvailability(context.Context, *ListAvailabilityRequest) (*AvailabilitiesResponse, error)
	BookInterview(context.Context, *BookInterviewRequest) (*InterviewResponse, error)
	CancelInterview(context.Context, *InterviewRequest) (*SuccessResponse, error)
	CompleteInterview(context.Context, *InterviewRequest) (*SuccessResponse, error)
	ListInterviews(context.Context, *PhaseScopeRequest) (*InterviewsResponse, error)
	CreateCommunicationTemplate(context.Context, *CreateCommunicationTemplateRequest) (*CommunicationTemplateResponse, error)
	GetCommunicationTemplate(context.Context, *CommunicationTemplateRequest) (*CommunicationTemplateResponse, error)
	ListCommunicationTemplates(context.Context, *ListCommunicationTemplatesRequest) (*CommunicationTemplatesResponse, error)
	UpdateCommunicationTemplate(context.Context, *UpdateCommunicationTemplateRequest) (*CommunicationTemplateResponse, error)
	DeleteCommunicationTemplate(context.Context, *CommunicationTemplateRequest) (*SuccessResponse, error)

	RefreshToken(context.Context, *RefreshTokenRequest) (*service.TokenPair, error)
}

// WorkbenchHandler implements WorkbenchServer by composing the per-area handlers.
type WorkbenchHandler struct {
	*PathwayHandler
	*CampaignHandler
	*EvaluationHandler
	*AncillaryHandler
	*AuthHandler
}

var _ WorkbenchServer = (*WorkbenchHandler)(nil)

// unary builds the method descriptor of one RPC. Service errors are converted to
// gRPC statuses on the way out.
func unary[Req, Resp any](name string, call func(WorkbenchServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	invoke := func(srv any, ctx context.Context, req *Req) (any, error) {
		resp, err := call(srv.(WorkbenchServer), ctx, req)
		if err != nil {
			return nil, toStatus(fullMethod, err)
		}
		return resp, nil
	}
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return invoke(srv, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return invoke(srv, ctx, req.(*Req))
			})
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for workbench.v1.WorkbenchService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WorkbenchServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateTemplate", WorkbenchServer.CreateTemplate),
		unary("GetTemplate", WorkbenchServer.GetTemplate),
		unary("ListTemplates", WorkbenchServer.ListTemplates),
		unary("UpdateTemplate", WorkbenchServer.UpdateTemplate),
		unary("DeleteTemplate", WorkbenchServer.DeleteTemplate),
		unary("CloneTemplate", WorkbenchServer.CloneTemplate),
		unary("ListPhases", WorkbenchServer.ListPhases),
		unary("CreatePhase", WorkbenchServer.CreatePhase),
		unary("UpdatePhase", WorkbenchServer.UpdatePhase),
		unary("DeletePhase", WorkbenchServer.DeletePhase),
		unary("ReorderPhases", WorkbenchServer.ReorderPhases),

		unary("CreateCampaign", WorkbenchServer.CreateCampaign),
		unary("GetCampaign", WorkbenchServer.GetCampaign),
		unary("UpdateCampaignStatus", WorkbenchServer.UpdateCampaignStatus),
		unary("CreateApplication", WorkbenchServer.CreateApplication),
		unary("UpdateApplicationData", WorkbenchServer.UpdateApplicationData),
		unary("GetApplication", WorkbenchServer.GetApplication),
		unary("ListApplications", WorkbenchServer.ListApplications),
		unary("SubmitApplication", WorkbenchServer.SubmitApplication),
		unary("SetApplicationStatus", WorkbenchServer.SetApplicationStatus),
		unary("SetScreeningStatus", WorkbenchServer.SetScreeningStatus),
		unary("AdvanceApplication", WorkbenchServer.AdvanceApplication),
		unary("GetPhaseHistory", WorkbenchServer.GetPhaseHistory),

		unary("CreateAssignment", WorkbenchServer.CreateAssignment),
		unary("DeleteAssignment", WorkbenchServer.DeleteAssignment),
		unary("RespondToAssignment", WorkbenchServer.RespondToAssignment),
		unary("ListMyAssignments", WorkbenchServer.ListMyAssignments),
		unary("SaveReview", WorkbenchServer.SaveReview),
		unary("SetReviewStatus", WorkbenchServer.SetReviewStatus),
		unary("ListReviews", WorkbenchServer.ListReviews),
		unary("CreateDecision", WorkbenchServer.CreateDecision),
		unary("ListDecisions", WorkbenchServer.ListDecisions),

		unary("CreateRecommendationRequest", WorkbenchServer.CreateRecommendationRequest),
		unary("ListRecommendationRequests", WorkbenchServer.ListRecommendationRequests),
		unary("AddAvailability", WorkbenchServer.AddAvailability),
		unary("ListAvailability", WorkbenchServer.ListAvailability),
		unary("BookInterview", WorkbenchServer.BookInterview),
		unary("CancelInterview", WorkbenchServer.CancelInterview),
		unary("CompleteInterview", WorkbenchServer.CompleteInterview),
		unary("ListInterviews", WorkbenchServer.ListInterviews),
		unary("CreateCommunicationTemplate", WorkbenchServer.CreateCommunicationTemplate),
		unary("GetCommunicationTemplate", WorkbenchServer.GetCommunicationTemplate),
		unary("ListCommunicationTemplates", WorkbenchServer.ListCommunicationTemplates),
		unary("UpdateCommunicationTemplate", WorkbenchServer.UpdateCommunicationTemplate),
		unary("DeleteCommunicationTemplate", WorkbenchServer.DeleteCommunicationTemplate),

		unary("RefreshToken", WorkbenchServer.RefreshToken),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterWorkbenchServer registers srv on s.
func RegisterWorkbenchServer(s grpc.ServiceRegistrar, srv WorkbenchServer) {
	s.RegisterService(&ServiceDesc, srv)
}
