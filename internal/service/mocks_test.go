package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

// MockPathwayRepo
type MockPathwayRepo struct {
	mock.Mock
}

func (m *MockPathwayRepo) CreateTemplate(ctx context.Context, t *domain.PathwayTemplate) error {
	return m.Called(ctx, t).Error(0)
}
func (m *MockPathwayRepo) CreateTemplateWithPhases(ctx context.Context, t *domain.PathwayTemplate, phases []domain.Phase) error {
	return m.Called(ctx, t, phases).Error(0)
}
func (m *MockPathwayRepo) GetTemplate(ctx context.Context, id string) (*domain.PathwayTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PathwayTemplate), args.Error(1)
}
func (m *MockPathwayRepo) ListTemplates(ctx context.Context, viewerID string, includePrivate bool) ([]domain.PathwayTemplate, error) {
	args := m.Called(ctx, viewerID, includePrivate)
	return args.Get(0).([]domain.PathwayTemplate), args.Error(1)
}
func (m *MockPathwayRepo) UpdateTemplate(ctx context.Context, t *domain.PathwayTemplate) error {
	return m.Called(ctx, t).Error(0)
}
func (m *MockPathwayRepo) DeleteTemplate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockPathwayRepo) CreatePhase(ctx context.Context, p *domain.Phase) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockPathwayRepo) GetPhase(ctx context.Context, id string) (*domain.Phase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Phase), args.Error(1)
}
func (m *MockPathwayRepo) ListPhases(ctx context.Context, templateID string) ([]domain.Phase, error) {
	args := m.Called(ctx, templateID)
	return args.Get(0).([]domain.Phase), args.Error(1)
}
func (m *MockPathwayRepo) UpdatePhase(ctx context.Context, p *domain.Phase) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockPathwayRepo) DeletePhase(ctx context.Context, templateID, phaseID string) error {
	return m.Called(ctx, templateID, phaseID).Error(0)
}
func (m *MockPathwayRepo) ReorderPhases(ctx context.Context, templateID string, order []domain.PhaseOrder) error {
	return m.Called(ctx, templateID, order).Error(0)
}

// MockCampaignRepo
type MockCampaignRepo struct {
	mock.Mock
}

func (m *MockCampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCampaignRepo) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}
func (m *MockCampaignRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.Campaign, error) {
	args := m.Called(ctx, creatorID)
	return args.Get(0).([]domain.Campaign), args.Error(1)
}
func (m *MockCampaignRepo) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// MockApplicationRepo
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	return m.Called(ctx, a).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Services mutate what they load; hand out a copy so retries see fresh state.
	app := *args.Get(0).(*domain.Application)
	return &app, args.Error(1)
}
func (m *MockApplicationRepo) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Application, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) UpdateData(ctx context.Context, id string, data map[string]any, expectedVersion int64) (int64, error) {
	args := m.Called(ctx, id, data, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockApplicationRepo) Transition(ctx context.Context, a *domain.Application, expectedVersion int64, t *domain.PhaseTransition) error {
	return m.Called(ctx, a, expectedVersion, t).Error(0)
}
func (m *MockApplicationRepo) SetScreeningStatus(ctx context.Context, id string, status domain.ScreeningStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockApplicationRepo) ListTransitions(ctx context.Context, applicationID string) ([]domain.PhaseTransition, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]domain.PhaseTransition), args.Error(1)
}

// MockProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// MockAssignmentRepo
type MockAssignmentRepo struct {
	mock.Mock
}

func (m *MockAssignmentRepo) Create(ctx context.Context, a *domain.ReviewerAssignment) error {
	return m.Called(ctx, a).Error(0)
}
func (m *MockAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.ReviewerAssignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewerAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) Find(ctx context.Context, reviewerID, applicationID, phaseID string) (*domain.ReviewerAssignment, error) {
	args := m.Called(ctx, reviewerID, applicationID, phaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewerAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) UpdateStatus(ctx context.Context, id string, status domain.AssignmentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockAssignmentRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockAssignmentRepo) ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.ReviewerAssignment, error) {
	args := m.Called(ctx, applicationID, phaseID)
	return args.Get(0).([]domain.ReviewerAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) ListByReviewer(ctx context.Context, reviewerID string) ([]domain.ReviewerAssignment, error) {
	args := m.Called(ctx, reviewerID)
	return args.Get(0).([]domain.ReviewerAssignment), args.Error(1)
}

// MockReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, r *domain.Review) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}
func (m *MockReviewRepo) Find(ctx context.Context, reviewerID, applicationID, phaseID string) (*domain.Review, error) {
	args := m.Called(ctx, reviewerID, applicationID, phaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}
func (m *MockReviewRepo) Update(ctx context.Context, r *domain.Review, from domain.ReviewStatus) error {
	return m.Called(ctx, r, from).Error(0)
}
func (m *MockReviewRepo) ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.Review, error) {
	args := m.Called(ctx, applicationID, phaseID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

// MockDecisionRepo
type MockDecisionRepo struct {
	mock.Mock
}

func (m *MockDecisionRepo) Create(ctx context.Context, d *domain.Decision) error {
	return m.Called(ctx, d).Error(0)
}
func (m *MockDecisionRepo) ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.Decision, error) {
	args := m.Called(ctx, applicationID, phaseID)
	return args.Get(0).([]domain.Decision), args.Error(1)
}

// MockRecommendationRepo
type MockRecommendationRepo struct {
	mock.Mock
}

func (m *MockRecommendationRepo) Create(ctx context.Context, r *domain.RecommendationRequest) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockRecommendationRepo) GetByID(ctx context.Context, id string) (*domain.RecommendationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecommendationRequest), args.Error(1)
}
func (m *MockRecommendationRepo) GetByTokenHash(ctx context.Context, hash string) (*domain.RecommendationRequest, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	req := *args.Get(0).(*domain.RecommendationRequest)
	return &req, args.Error(1)
}
func (m *MockRecommendationRepo) MarkSent(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
func (m *MockRecommendationRepo) MarkViewed(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockRecommendationRepo) Submit(ctx context.Context, id string, formData map[string]any, at time.Time) error {
	return m.Called(ctx, id, formData, at).Error(0)
}
func (m *MockRecommendationRepo) ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.RecommendationRequest, error) {
	args := m.Called(ctx, applicationID, phaseID)
	return args.Get(0).([]domain.RecommendationRequest), args.Error(1)
}
func (m *MockRecommendationRepo) ListOpen(ctx context.Context) ([]domain.RecommendationRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.RecommendationRequest), args.Error(1)
}
func (m *MockRecommendationRepo) MarkOverdue(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRecommendationRepo) RevertReminder(ctx context.Context, id, rotatedHash, previousHash string, previousAt *time.Time) error {
	return m.Called(ctx, id, rotatedHash, previousHash, previousAt).Error(0)
}
func (m *MockRecommendationRepo) RecordReminder(ctx context.Context, id, tokenHash string, at time.Time) error {
	return m.Called(ctx, id, tokenHash, at).Error(0)
}

// MockSchedulingRepo
type MockSchedulingRepo struct {
	mock.Mock
}

func (m *MockSchedulingRepo) AddAvailability(ctx context.Context, a *domain.HostAvailability) error {
	return m.Called(ctx, a).Error(0)
}
func (m *MockSchedulingRepo) ListAvailability(ctx context.Context, hostID string) ([]domain.HostAvailability, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]domain.HostAvailability), args.Error(1)
}
func (m *MockSchedulingRepo) BookInterview(ctx context.Context, iv *domain.ScheduledInterview, buffer time.Duration) error {
	return m.Called(ctx, iv, buffer).Error(0)
}
func (m *MockSchedulingRepo) GetInterview(ctx context.Context, id string) (*domain.ScheduledInterview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduledInterview), args.Error(1)
}
func (m *MockSchedulingRepo) SetInterviewStatus(ctx context.Context, id string, status domain.InterviewStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockSchedulingRepo) ListInterviews(ctx context.Context, applicationID, phaseID string) ([]domain.ScheduledInterview, error) {
	args := m.Called(ctx, applicationID, phaseID)
	return args.Get(0).([]domain.ScheduledInterview), args.Error(1)
}

// MockCommunicationRepo
type MockCommunicationRepo struct {
	mock.Mock
}

func (m *MockCommunicationRepo) CreateTemplate(ctx context.Context, t *domain.CommunicationTemplate) error {
	return m.Called(ctx, t).Error(0)
}
func (m *MockCommunicationRepo) GetTemplate(ctx context.Context, id string) (*domain.CommunicationTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommunicationTemplate), args.Error(1)
}
func (m *MockCommunicationRepo) ListTemplates(ctx context.Context) ([]domain.CommunicationTemplate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CommunicationTemplate), args.Error(1)
}
func (m *MockCommunicationRepo) UpdateTemplate(ctx context.Context, t *domain.CommunicationTemplate) error {
	return m.Called(ctx, t).Error(0)
}
func (m *MockCommunicationRepo) DeleteTemplate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCommunicationRepo) RecordDispatch(ctx context.Context, d *domain.EmailDispatch) error {
	return m.Called(ctx, d).Error(0)
}
func (m *MockCommunicationRepo) ListDispatches(ctx context.Context, applicationID, phaseID string) ([]domain.EmailDispatch, error) {
	args := m.Called(ctx, applicationID, phaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmailDispatch), args.Error(1)
}

// MockCommunicationService
type MockCommunicationService struct {
	mock.Mock
}

func (m *MockCommunicationService) CreateTemplate(ctx context.Context, actor domain.Actor, in service.CommunicationTemplateInput) (*domain.CommunicationTemplate, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommunicationTemplate), args.Error(1)
}
func (m *MockCommunicationService) GetTemplate(ctx context.Context, actor domain.Actor, id string) (*domain.CommunicationTemplate, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommunicationTemplate), args.Error(1)
}
func (m *MockCommunicationService) ListTemplates(ctx context.Context, actor domain.Actor) ([]domain.CommunicationTemplate, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.CommunicationTemplate), args.Error(1)
}
func (m *MockCommunicationService) UpdateTemplate(ctx context.Context, actor domain.Actor, id string, in service.CommunicationTemplateInput) (*domain.CommunicationTemplate, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommunicationTemplate), args.Error(1)
}
func (m *MockCommunicationService) DeleteTemplate(ctx context.Context, actor domain.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}
func (m *MockCommunicationService) SendPhaseEmail(ctx context.Context, app *domain.Application, phase domain.Phase) (bool, error) {
	args := m.Called(ctx, app, phase)
	return args.Bool(0), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, msg domain.OutboundMessage) error {
	return m.Called(ctx, msg).Error(0)
}
