package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/policy"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

var campaignTransitions = map[domain.CampaignStatus][]domain.CampaignStatus{
	domain.CampaignStatusDraft:  {domain.CampaignStatusOpen, domain.CampaignStatusArchived},
	domain.CampaignStatusOpen:   {domain.CampaignStatusClosed},
	domain.CampaignStatusClosed: {domain.CampaignStatusOpen, domain.CampaignStatusArchived},
}

type campaignService struct {
	scope
	assignments repository.AssignmentRepository
}

func NewCampaignService(
	campaigns repository.CampaignRepository,
	apps repository.ApplicationRepository,
	pathways repository.PathwayRepository,
	assignments repository.AssignmentRepository,
) CampaignService {
	return &campaignService{
		scope:       scope{apps: apps, campaigns: campaigns, pathways: pathways},
		assignments: assignments,
	}
}

func (s *campaignService) CreateCampaign(ctx context.Context, actor domain.Actor, in CampaignInput) (*domain.Campaign, error) {
	if !policy.HasCapability(actor.Role, policy.CreateCampaign) {
		return nil, domain.ErrUnauthorized.With("role %q cannot create campaigns", actor.Role)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrValidation.WithFields(map[string]string{"name": "is required"})
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, domain.ErrValidation.WithFields(map[string]string{"end_date": "must not be before start_date"})
	}
	t, err := s.pathways.GetTemplate(ctx, in.PathwayTemplateID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewTemplate(actor, t) {
		return nil, domain.ErrNotFound.With("pathway template %s not found", in.PathwayTemplateID)
	}

	c := &domain.Campaign{
		ID:                uuid.NewString(),
		ProgramID:         in.ProgramID,
		PathwayTemplateID: t.ID,
		CreatorID:         actor.UserID,
		Name:              name,
		Description:       in.Description,
		IsPublic:          in.IsPublic,
		Status:            domain.CampaignStatusDraft,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Info("Campaign created", "campaign_id", c.ID, "template_id", t.ID, "user_id", actor.UserID)
	return c, nil
}

func canViewCampaign(actor domain.Actor, c *domain.Campaign) bool {
	return c.IsPublic || policy.CanManageCampaign(actor, c) || policy.HasCapability(actor.Role, policy.ViewAnyApplication)
}

func (s *campaignService) GetCampaign(ctx context.Context, actor domain.Actor, id string) (*domain.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canViewCampaign(actor, c) {
		return nil, domain.ErrNotFound.With("campaign %s not found", id)
	}
	return c, nil
}

func (s *campaignService) UpdateCampaignStatus(ctx context.Context, actor domain.Actor, id string, status domain.CampaignStatus) (*domain.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageCampaign(actor, c) {
		return nil, domain.ErrUnauthorized.With("only the creator or an admin can change campaign %s", id)
	}
	if c.Status == status {
		return c, nil
	}
	allowed := false
	for _, next := range campaignTransitions[c.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, domain.ErrInvalidStatusTransition.With("campaign cannot move from %s to %s", c.Status, status)
	}
	if err := s.campaigns.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	c.Status = status
	return c, nil
}

func (s *campaignService) CreateApplication(ctx context.Context, actor domain.Actor, campaignID string, data map[string]any) (*domain.Application, error) {
	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	manager := policy.CanManageCampaign(actor, c)
	if !manager && !policy.HasCapability(actor.Role, policy.ApplyToCampaign) {
		return nil, domain.ErrUnauthorized.With("role %q cannot apply", actor.Role)
	}
	if !manager {
		if !c.IsPublic {
			return nil, domain.ErrNotFound.With("campaign %s not found", campaignID)
		}
		if c.Status != domain.CampaignStatusOpen {
			return nil, domain.ErrValidation.With("campaign %s is not open for applications", campaignID)
		}
	}
	if data == nil {
		data = map[string]any{}
	}

	app := &domain.Application{
		ID:              uuid.NewString(),
		CampaignID:      c.ID,
		ApplicantID:     actor.UserID,
		Status:          domain.ApplicationStatusDraft,
		ScreeningStatus: domain.ScreeningPending,
		Data:            data,
		Version:         1,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *campaignService) UpdateApplicationData(ctx context.Context, actor domain.Actor, id string, data map[string]any) (*domain.Application, error) {
	app, c, err := s.application(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != actor.UserID {
		ok, err := canViewApplication(ctx, s.assignments, actor, app, c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNotFound.With("application %s not found", id)
		}
		return nil, domain.ErrUnauthorized.With("only the applicant can edit application %s", id)
	}
	if app.Status != domain.ApplicationStatusDraft {
		return nil, domain.ErrInvalidStatusTransition.With("application %s is %s and can no longer be edited", id, app.Status)
	}
	if data == nil {
		data = map[string]any{}
	}
	version, err := s.apps.UpdateData(ctx, id, data, app.Version)
	if err != nil {
		return nil, err
	}
	app.Data = data
	app.Version = version
	return app, nil
}

func (s *campaignService) GetApplication(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error) {
	app, c, err := s.application(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := canViewApplication(ctx, s.assignments, actor, app, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound.With("application %s not found", id)
	}
	return app, nil
}

func (s *campaignService) ListApplications(ctx context.Context, actor domain.Actor, campaignID string) ([]domain.Application, error) {
	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageCampaign(actor, c) && !policy.HasCapability(actor.Role, policy.ViewAnyApplication) {
		if !canViewCampaign(actor, c) {
			return nil, domain.ErrNotFound.With("campaign %s not found", campaignID)
		}
		return nil, domain.ErrUnauthorized.With("cannot list applications of campaign %s", campaignID)
	}
	return s.apps.ListByCampaign(ctx, campaignID)
}

// canViewApplication: the applicant, campaign managers, global viewers, and
// reviewers assigned to the application.
func canViewApplication(ctx context.Context, assignments repository.AssignmentRepository, actor domain.Actor, app *domain.Application, c *domain.Campaign) (bool, error) {
	if actor.UserID != "" && app.ApplicantID == actor.UserID {
		return true, nil
	}
	if policy.CanManageCampaign(actor, c) || policy.HasCapability(actor.Role, policy.ViewAnyApplication) {
		return true, nil
	}
	if actor.UserID == "" || !policy.HasCapability(actor.Role, policy.WriteOwnReview) {
		return false, nil
	}
	mine, err := assignments.ListByReviewer(ctx, actor.UserID)
	if err != nil {
		return false, err
	}
	for _, a := range mine {
		if a.ApplicationID == app.ID && a.Status != domain.AssignmentDeclined {
			return true, nil
		}
	}
	return false, nil
}
