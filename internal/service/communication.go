package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/policy"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type communicationService struct {
	comms     repository.CommunicationRepository
	campaigns repository.CampaignRepository
	profiles  repository.ProfileRepository
	email     EmailService
}

func NewCommunicationService(
	comms repository.CommunicationRepository,
	campaigns repository.CampaignRepository,
	profiles repository.ProfileRepository,
	email EmailService,
) CommunicationService {
	return &communicationService{comms: comms, campaigns: campaigns, profiles: profiles, email: email}
}

func validateTemplateInput(in CommunicationTemplateInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if strings.TrimSpace(in.Subject) == "" {
		fields["subject"] = "is required"
	}
	if strings.TrimSpace(in.Body) == "" {
		fields["body"] = "is required"
	}
	if len(fields) > 0 {
		return domain.ErrValidation.WithFields(fields)
	}
	return nil
}

func (s *communicationService) CreateTemplate(ctx context.Context, actor domain.Actor, in CommunicationTemplateInput) (*domain.CommunicationTemplate, error) {
	if !policy.HasCapability(actor.Role, policy.ManageCommunicationTemplates) {
		return nil, domain.ErrUnauthorized.With("role %q cannot manage communication templates", actor.Role)
	}
	if err := validateTemplateInput(in); err != nil {
		return nil, err
	}
	t := &domain.CommunicationTemplate{
		ID:        uuid.NewString(),
		CreatorID: actor.UserID,
		Name:      strings.TrimSpace(in.Name),
		Subject:   in.Subject,
		Body:      in.Body,
	}
	if err := s.comms.CreateTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *communicationService) GetTemplate(ctx context.Context, actor domain.Actor, id string) (*domain.CommunicationTemplate, error) {
	if !policy.HasCapability(actor.Role, policy.ManageCommunicationTemplates) {
		return nil, domain.ErrUnauthorized.With("role %q cannot read communication templates", actor.Role)
	}
	return s.comms.GetTemplate(ctx, id)
}

func (s *communicationService) ListTemplates(ctx context.Context, actor domain.Actor) ([]domain.CommunicationTemplate, error) {
	if !policy.HasCapability(actor.Role, policy.ManageCommunicationTemplates) {
		return nil, domain.ErrUnauthorized.With("role %q cannot read communication templates", actor.Role)
	}
	return s.comms.ListTemplates(ctx)
}

func (s *communicationService) ownedTemplate(ctx context.Context, actor domain.Actor, id string) (*domain.CommunicationTemplate, error) {
	if !policy.HasCapability(actor.Role, policy.ManageCommunicationTemplates) {
		return nil, domain.ErrUnauthorized.With("role %q cannot manage communication templates", actor.Role)
	}
	t, err := s.comms.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.CreatorID != actor.UserID && !policy.IsAdmin(actor) {
		return nil, domain.ErrUnauthorized.With("only the creator or an admin can change template %s", id)
	}
	return t, nil
}

func (s *communicationService) UpdateTemplate(ctx context.Context, actor domain.Actor, id string, in CommunicationTemplateInput) (*domain.CommunicationTemplate, error) {
	t, err := s.ownedTemplate(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validateTemplateInput(in); err != nil {
		return nil, err
	}
	t.Name = strings.TrimSpace(in.Name)
	t.Subject = in.Subject
	t.Body = in.Body
	if err := s.comms.UpdateTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *communicationService) DeleteTemplate(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.ownedTemplate(ctx, actor, id); err != nil {
		return err
	}
	return s.comms.DeleteTemplate(ctx, id)
}

func (s *communicationService) SendPhaseEmail(ctx context.Context, app *domain.Application, phase domain.Phase) (bool, error) {
	logger.EnterMethod("communicationService.SendPhaseEmail", "applicationID", app.ID, "phaseID", phase.ID)

	cfg, ok := phase.Config.(phaseconfig.EmailConfig)
	if !ok {
		return false, domain.ErrConfigValidation.With("phase %s is not an email phase", phase.ID)
	}
	c, err := s.campaigns.GetByID(ctx, app.CampaignID)
	if err != nil {
		logger.ExitMethodWithError("communicationService.SendPhaseEmail", err, "applicationID", app.ID)
		return false, err
	}
	applicant, err := s.profiles.GetByID(ctx, app.ApplicantID)
	if err != nil {
		logger.ExitMethodWithError("communicationService.SendPhaseEmail", err, "applicationID", app.ID)
		return false, err
	}
	vars := phaseVariables(app, applicant, c, phase)

	recipients, err := s.recipients(ctx, cfg.RecipientRoles, applicant, c)
	if err != nil {
		logger.ExitMethodWithError("communicationService.SendPhaseEmail", err, "applicationID", app.ID)
		return false, err
	}
	dispatched, err := s.comms.ListDispatches(ctx, app.ID, phase.ID)
	if err != nil {
		logger.ExitMethodWithError("communicationService.SendPhaseEmail", err, "applicationID", app.ID)
		return false, err
	}
	delivered := make(map[string]bool, len(dispatched))
	for _, d := range dispatched {
		delivered[strings.ToLower(d.RecipientEmail)] = true
	}

	sent := 0
	for _, r := range recipients {
		if delivered[strings.ToLower(r.Email)] {
			continue
		}
		msg := domain.OutboundMessage{
			Kind:       domain.MessageEmailPhase,
			Recipient:  r,
			Subject:    cfg.Subject,
			Body:       cfg.Body,
			TemplateID: cfg.SelectedTemplateID,
			Variables:  vars,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			logger.ExitMethodWithError("communicationService.SendPhaseEmail", err, "applicationID", app.ID, "recipient", r.Email)
			return false, err
		}
		d := &domain.EmailDispatch{
			ID:              uuid.NewString(),
			ApplicationID:   app.ID,
			CampaignPhaseID: phase.ID,
			RecipientEmail:  r.Email,
			SentAt:          time.Now(),
		}
		if err := s.comms.RecordDispatch(ctx, d); err != nil && !domain.IsKind(err, domain.KindConflict) {
			logger.ExitMethodWithError("communicationService.SendPhaseEmail", err, "applicationID", app.ID, "recipient", r.Email)
			return false, err
		}
		sent++
	}

	logger.ExitMethod("communicationService.SendPhaseEmail", "applicationID", app.ID, "recipients", len(recipients), "sent", sent)
	return true, nil
}

// recipients resolves recipient roles to addresses: "applicant" is the
// applicant, "coordinator" and "campaign_creator" the campaign creator.
func (s *communicationService) recipients(ctx context.Context, roles []string, applicant *domain.Profile, c *domain.Campaign) ([]domain.Recipient, error) {
	var out []domain.Recipient
	seen := map[string]bool{}
	add := func(p *domain.Profile, role string) {
		if p.Email == "" || seen[p.Email] {
			return
		}
		seen[p.Email] = true
		out = append(out, domain.Recipient{Email: p.Email, Name: p.FullName, Role: role})
	}
	for _, role := range roles {
		switch strings.ToLower(strings.TrimSpace(role)) {
		case domain.RoleApplicant:
			add(applicant, domain.RoleApplicant)
		case domain.RoleCoordinator, "campaign_creator":
			creator, err := s.profiles.GetByID(ctx, c.CreatorID)
			if err != nil {
				return nil, err
			}
			add(creator, domain.RoleCoordinator)
		default:
			logger.Warn("Email phase recipient role has no address", "role", role, "campaign_id", c.ID)
		}
	}
	return out, nil
}

// phaseVariables are the placeholder values of an Email phase. Scalar
// application answers are exposed as data.<label>.
func phaseVariables(app *domain.Application, applicant *domain.Profile, c *domain.Campaign, phase domain.Phase) map[string]string {
	vars := map[string]string{
		"application_id":     app.ID,
		"application_status": string(app.Status),
		"applicant_name":     applicant.FullName,
		"applicant_email":    applicant.Email,
		"campaign_name":      c.Name,
		"phase_name":         phase.Name,
	}
	for k, v := range app.Data {
		switch v.(type) {
		case string, float64, bool, int, int64:
			vars["data."+k] = fmt.Sprint(v)
		}
	}
	return vars
}
