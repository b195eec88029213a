package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/policy"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type pathwayService struct {
	pathways repository.PathwayRepository
	comms    repository.CommunicationRepository
}

func NewPathwayService(pathways repository.PathwayRepository, comms repository.CommunicationRepository) PathwayService {
	return &pathwayService{pathways: pathways, comms: comms}
}

func (s *pathwayService) CreateTemplate(ctx context.Context, actor domain.Actor, in TemplateInput) (*domain.PathwayTemplate, error) {
	if !policy.HasCapability(actor.Role, policy.CreateTemplate) {
		return nil, domain.ErrUnauthorized.With("role %q cannot create templates", actor.Role)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrValidation.WithFields(map[string]string{"name": "is required"})
	}
	t := &domain.PathwayTemplate{
		ID:          uuid.NewString(),
		CreatorID:   actor.UserID,
		Name:        name,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
	}
	if err := s.pathways.CreateTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// visibleTemplate hides templates the actor may not read behind NotFound.
func (s *pathwayService) visibleTemplate(ctx context.Context, actor domain.Actor, id string) (*domain.PathwayTemplate, error) {
	t, err := s.pathways.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewTemplate(actor, t) {
		return nil, domain.ErrNotFound.With("pathway template %s not found", id)
	}
	return t, nil
}

func (s *pathwayService) manageableTemplate(ctx context.Context, actor domain.Actor, id string) (*domain.PathwayTemplate, error) {
	t, err := s.visibleTemplate(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageTemplate(actor, t) {
		return nil, domain.ErrUnauthorized.With("only the creator or an admin can change template %s", id)
	}
	return t, nil
}

func (s *pathwayService) GetTemplate(ctx context.Context, actor domain.Actor, id string) (*domain.PathwayTemplate, []domain.Phase, error) {
	t, err := s.visibleTemplate(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	phases, err := s.pathways.ListPhases(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return t, phases, nil
}

func (s *pathwayService) ListTemplates(ctx context.Context, actor domain.Actor) ([]domain.PathwayTemplate, error) {
	return s.pathways.ListTemplates(ctx, actor.UserID, policy.HasCapability(actor.Role, policy.ViewPrivateTemplate))
}

func (s *pathwayService) UpdateTemplate(ctx context.Context, actor domain.Actor, id string, in TemplateInput) (*domain.PathwayTemplate, error) {
	t, err := s.manageableTemplate(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrValidation.WithFields(map[string]string{"name": "is required"})
	}
	t.Name = name
	t.Description = in.Description
	t.IsPrivate = in.IsPrivate
	if err := s.pathways.UpdateTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *pathwayService) DeleteTemplate(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.manageableTemplate(ctx, actor, id); err != nil {
		return err
	}
	return s.pathways.DeleteTemplate(ctx, id)
}

// CloneTemplate copies a template and its phases under new ids. Branch targets
// are rewritten through the old→new id map built before anything is written, so
// no cloned phase points back into the source template.
func (s *pathwayService) CloneTemplate(ctx context.Context, actor domain.Actor, id, newName string) (*domain.PathwayTemplate, []domain.Phase, error) {
	logger.EnterMethod("pathwayService.CloneTemplate", "templateID", id, "userID", actor.UserID)

	src, err := s.visibleTemplate(ctx, actor, id)
	if err != nil {
		logger.ExitMethodWithError("pathwayService.CloneTemplate", err, "templateID", id)
		return nil, nil, err
	}
	if !policy.HasCapability(actor.Role, policy.CreateTemplate) {
		err := domain.ErrUnauthorized.With("role %q cannot create templates", actor.Role)
		logger.ExitMethodWithError("pathwayService.CloneTemplate", err, "templateID", id)
		return nil, nil, err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, nil, domain.ErrValidation.WithFields(map[string]string{"new_name": "is required"})
	}

	phases, err := s.pathways.ListPhases(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("pathwayService.CloneTemplate", err, "templateID", id)
		return nil, nil, err
	}

	ids := make(map[string]string, len(phases))
	for _, p := range phases {
		ids[p.ID] = uuid.NewString()
	}

	clone := &domain.PathwayTemplate{
		ID:          uuid.NewString(),
		CreatorID:   actor.UserID,
		Name:        newName,
		Description: src.Description,
		IsPrivate:   src.IsPrivate,
	}
	cloned := make([]domain.Phase, 0, len(phases))
	for _, p := range phases {
		cfg, err := phaseconfig.Clone(p.Config)
		if err != nil {
			logger.ExitMethodWithError("pathwayService.CloneTemplate", err, "phaseID", p.ID)
			return nil, nil, configError(err)
		}
		cloned = append(cloned, domain.Phase{
			ID:                ids[p.ID],
			PathwayTemplateID: clone.ID,
			Name:              p.Name,
			Type:              p.Type,
			Description:       p.Description,
			OrderIndex:        p.OrderIndex,
			Config:            phaseconfig.RemapBranches(cfg, ids),
		})
	}

	if err := s.pathways.CreateTemplateWithPhases(ctx, clone, cloned); err != nil {
		logger.ExitMethodWithError("pathwayService.CloneTemplate", err, "templateID", id)
		return nil, nil, err
	}

	logger.ExitMethod("pathwayService.CloneTemplate", "templateID", id, "cloneID", clone.ID, "phases", len(cloned))
	return clone, cloned, nil
}

func (s *pathwayService) ListPhases(ctx context.Context, actor domain.Actor, templateID string) ([]domain.Phase, error) {
	if _, err := s.visibleTemplate(ctx, actor, templateID); err != nil {
		return nil, err
	}
	return s.pathways.ListPhases(ctx, templateID)
}

func (s *pathwayService) CreatePhase(ctx context.Context, actor domain.Actor, templateID string, in PhaseInput) (*domain.Phase, error) {
	if _, err := s.manageableTemplate(ctx, actor, templateID); err != nil {
		return nil, err
	}
	t, err := phaseconfig.ParsePhaseType(string(in.Type))
	if err != nil {
		return nil, domain.ErrValidation.WithFields(map[string]string{"type": err.Error()})
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrValidation.WithFields(map[string]string{"name": "is required"})
	}

	p := &domain.Phase{
		ID:                uuid.NewString(),
		PathwayTemplateID: templateID,
		Name:              name,
		Type:              t,
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	p.Config, err = s.buildConfig(ctx, t, in.Config, nil)
	if err != nil {
		return nil, err
	}
	if err := s.checkBranchTargets(ctx, p); err != nil {
		return nil, err
	}
	if err := s.pathways.CreatePhase(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *pathwayService) UpdatePhase(ctx context.Context, actor domain.Actor, phaseID string, in PhaseInput) (*domain.Phase, error) {
	p, err := s.pathways.GetPhase(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.manageableTemplate(ctx, actor, p.PathwayTemplateID); err != nil {
		return nil, err
	}
	if in.Type != "" && in.Type != p.Type {
		return nil, domain.ErrValidation.WithFields(map[string]string{"type": "phase type cannot change"})
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if len(in.Config) > 0 {
		p.Config, err = s.buildConfig(ctx, p.Type, in.Config, p.Config)
		if err != nil {
			return nil, err
		}
	}
	if err := s.checkBranchTargets(ctx, p); err != nil {
		return nil, err
	}
	if err := s.pathways.UpdatePhase(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *pathwayService) DeletePhase(ctx context.Context, actor domain.Actor, phaseID string) error {
	p, err := s.pathways.GetPhase(ctx, phaseID)
	if err != nil {
		return err
	}
	if _, err := s.manageableTemplate(ctx, actor, p.PathwayTemplateID); err != nil {
		return err
	}
	return s.pathways.DeletePhase(ctx, p.PathwayTemplateID, p.ID)
}

func (s *pathwayService) ReorderPhases(ctx context.Context, actor domain.Actor, templateID string, order []domain.PhaseOrder) ([]domain.Phase, error) {
	logger.EnterMethod("pathwayService.ReorderPhases", "templateID", templateID, "count", len(order))
	if _, err := s.manageableTemplate(ctx, actor, templateID); err != nil {
		logger.ExitMethodWithError("pathwayService.ReorderPhases", err, "templateID", templateID)
		return nil, err
	}
	if err := s.pathways.ReorderPhases(ctx, templateID, order); err != nil {
		logger.ExitMethodWithError("pathwayService.ReorderPhases", err, "templateID", templateID)
		return nil, err
	}
	logger.ExitMethod("pathwayService.ReorderPhases", "templateID", templateID)
	return s.pathways.ListPhases(ctx, templateID)
}

// buildConfig decodes raw for t. An Email config that newly selects a
// communication template gets the template's subject and body copied in before
// validation; later edits to the template do not reach the phase.
func (s *pathwayService) buildConfig(ctx context.Context, t phaseconfig.PhaseType, raw []byte, prev phaseconfig.Config) (phaseconfig.Config, error) {
	cfg, err := phaseconfig.Decode(t, raw)
	if err != nil {
		return nil, configError(err)
	}
	if ec, ok := cfg.(phaseconfig.EmailConfig); ok && ec.SelectedTemplateID != "" {
		var prevID string
		if pe, ok := prev.(phaseconfig.EmailConfig); ok {
			prevID = pe.SelectedTemplateID
		}
		if ec.SelectedTemplateID != prevID {
			tmpl, err := s.comms.GetTemplate(ctx, ec.SelectedTemplateID)
			if err != nil {
				if domain.IsKind(err, domain.KindNotFound) {
					return nil, domain.ErrConfigValidation.WithFields(map[string]string{
						"selectedTemplateId": "unknown communication template",
					})
				}
				return nil, err
			}
			ec.Subject = tmpl.Subject
			ec.Body = tmpl.Body
			cfg = ec
		}
	}
	if err := phaseconfig.Validate(cfg); err != nil {
		return nil, configError(err)
	}
	return cfg, nil
}

// checkBranchTargets requires every branch target of p to be another phase of
// the same template.
func (s *pathwayService) checkBranchTargets(ctx context.Context, p *domain.Phase) error {
	b, ok := phaseconfig.BranchingOf(p.Config)
	if !ok || !b.Declared() {
		return nil
	}
	if !p.Type.IsBranchCapable() {
		return domain.ErrConfigValidation.With("%s phases cannot branch", p.Type)
	}
	phases, err := s.pathways.ListPhases(ctx, p.PathwayTemplateID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(phases))
	for _, sib := range phases {
		known[sib.ID] = true
	}
	for _, target := range b.Targets() {
		if target == p.ID {
			return domain.ErrConfigValidation.With("phase %s cannot branch to itself", p.ID)
		}
		if !known[target] {
			return domain.ErrBrokenBranchReference.With("phase %s is not part of template %s", target, p.PathwayTemplateID)
		}
	}
	return nil
}
