package service

import (
	"context"
	"errors"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

// scope resolves the campaign and phase an application-level request refers to.
type scope struct {
	apps      repository.ApplicationRepository
	campaigns repository.CampaignRepository
	pathways  repository.PathwayRepository
}

func (s scope) application(ctx context.Context, id string) (*domain.Application, *domain.Campaign, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.campaigns.GetByID(ctx, app.CampaignID)
	if err != nil {
		return nil, nil, err
	}
	return app, c, nil
}

// phase loads phaseID and checks it belongs to the campaign's template.
func (s scope) phase(ctx context.Context, c *domain.Campaign, phaseID string) (*domain.Phase, error) {
	p, err := s.pathways.GetPhase(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	if p.PathwayTemplateID != c.PathwayTemplateID {
		return nil, domain.ErrNotFound.With("phase %s is not part of campaign %s", phaseID, c.ID)
	}
	return p, nil
}

// typedPhase is phase with a required phase type.
func (s scope) typedPhase(ctx context.Context, c *domain.Campaign, phaseID string, t phaseconfig.PhaseType) (*domain.Phase, error) {
	p, err := s.phase(ctx, c, phaseID)
	if err != nil {
		return nil, err
	}
	if p.Type != t {
		return nil, domain.ErrValidation.With("phase %s is a %s phase, not %s", p.ID, p.Type, t)
	}
	return p, nil
}

func configError(err error) error {
	var ve *phaseconfig.ValidationError
	if errors.As(err, &ve) {
		return domain.ErrConfigValidation.With("%s", ve.Error()).WithFields(ve.Fields())
	}
	return err
}

func issueError(base *domain.Error, issues []phaseconfig.Issue) error {
	fields := make(map[string]string, len(issues))
	for _, is := range issues {
		if _, ok := fields[is.Field]; !ok {
			fields[is.Field] = is.Message
		}
	}
	return base.WithFields(fields)
}
