package grpc_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

// MockPathwayService
type MockPathwayService struct {
	mock.Mock
}

func (m *MockPathwayService) CreateTemplate(ctx context.Context, actor domain.Actor, in service.TemplateInput) (*domain.PathwayTemplate, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PathwayTemplate), args.Error(1)
}
func (m *MockPathwayService) GetTemplate(ctx context.Context, actor domain.Actor, id string) (*domain.PathwayTemplate, []domain.Phase, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.PathwayTemplate), args.Get(1).([]domain.Phase), args.Error(2)
}
func (m *MockPathwayService) ListTemplates(ctx context.Context, actor domain.Actor) ([]domain.PathwayTemplate, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.PathwayTemplate), args.Error(1)
}
func (m *MockPathwayService) UpdateTemplate(ctx context.Context, actor domain.Actor, id string, in service.TemplateInput) (*domain.PathwayTemplate, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PathwayTemplate), args.Error(1)
}
func (m *MockPathwayService) DeleteTemplate(ctx context.Context, actor domain.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}
func (m *MockPathwayService) CloneTemplate(ctx context.Context, actor domain.Actor, id, newName string) (*domain.PathwayTemplate, []domain.Phase, error) {
	args := m.Called(ctx, actor, id, newName)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.PathwayTemplate), args.Get(1).([]domain.Phase), args.Error(2)
}
func (m *MockPathwayService) ListPhases(ctx context.Context, actor domain.Actor, templateID string) ([]domain.Phase, error) {
	args := m.Called(ctx, actor, templateID)
	return args.Get(0).([]domain.Phase), args.Error(1)
}
func (m *MockPathwayService) CreatePhase(ctx context.Context, actor domain.Actor, templateID string, in service.PhaseInput) (*domain.Phase, error) {
	args := m.Called(ctx, actor, templateID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Phase), args.Error(1)
}
func (m *MockPathwayService) UpdatePhase(ctx context.Context, actor domain.Actor, phaseID string, in service.PhaseInput) (*domain.Phase, error) {
	args := m.Called(ctx, actor, phaseID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Phase), args.Error(1)
}
func (m *MockPathwayService) DeletePhase(ctx context.Context, actor domain.Actor, phaseID string) error {
	return m.Called(ctx, actor, phaseID).Error(0)
}
func (m *MockPathwayService) ReorderPhases(ctx context.Context, actor domain.Actor, templateID string, order []domain.PhaseOrder) ([]domain.Phase, error) {
	args := m.Called(ctx, actor, templateID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Phase), args.Error(1)
}

// MockCampaignService
type MockCampaignService struct {
	mock.Mock
}

func (m *MockCampaignService) CreateCampaign(ctx context.Context, actor domain.Actor, in service.CampaignInput) (*domain.Campaign, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}
func (m *MockCampaignService) GetCampaign(ctx context.Context, actor domain.Actor, id string) (*domain.Campaign, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}
func (m *MockCampaignService) UpdateCampaignStatus(ctx context.Context, actor domain.Actor, id string, status domain.CampaignStatus) (*domain.Campaign, error) {
	args := m.Called(ctx, actor, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}
func (m *MockCampaignService) CreateApplication(ctx context.Context, actor domain.Actor, campaignID string, data map[string]any) (*domain.Application, error) {
	args := m.Called(ctx, actor, campaignID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockCampaignService) UpdateApplicationData(ctx context.Context, actor domain.Actor, id string, data map[string]any) (*domain.Application, error) {
	args := m.Called(ctx, actor, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockCampaignService) GetApplication(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockCampaignService) ListApplications(ctx context.Context, actor domain.Actor, campaignID string) ([]domain.Application, error) {
	args := m.Called(ctx, actor, campaignID)
	return args.Get(0).([]domain.Application), args.Error(1)
}

// MockProgressionService
type MockProgressionService struct {
	mock.Mock
}

func (m *MockProgressionService) SubmitApplication(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockProgressionService) SetStatus(ctx context.Context, actor domain.Actor, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	args := m.Called(ctx, actor, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockProgressionService) SetScreeningStatus(ctx context.Context, actor domain.Actor, id string, status domain.ScreeningStatus) error {
	return m.Called(ctx, actor, id, status).Error(0)
}
func (m *MockProgressionService) Advance(ctx context.Context, actor domain.Actor, id, expectedPhaseID string) (*service.AdvanceResult, error) {
	args := m.Called(ctx, actor, id, expectedPhaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdvanceResult), args.Error(1)
}
func (m *MockProgressionService) PhaseHistory(ctx context.Context, actor domain.Actor, id string) ([]domain.PhaseTransition, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).([]domain.PhaseTransition), args.Error(1)
}

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RefreshToken(ctx context.Context, userID string) (*service.TokenPair, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}
