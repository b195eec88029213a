package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/policy"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/progression"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

// maxTransitionAttempts bounds the compare-and-swap retries of one request.
const maxTransitionAttempts = 3

const outcomeSubmitted = "submitted"

// errVersionRace marks a lost compare-and-swap that is safe to retry.
var errVersionRace = errors.New("application version changed")

type progressionService struct {
	scope
	assignments     repository.AssignmentRepository
	reviews         repository.ReviewRepository
	decisions       repository.DecisionRepository
	recommendations repository.RecommendationRepository
	scheduling      repository.SchedulingRepository
	comms           CommunicationService
}

func NewProgressionService(
	apps repository.ApplicationRepository,
	campaigns repository.CampaignRepository,
	pathways repository.PathwayRepository,
	assignments repository.AssignmentRepository,
	reviews repository.ReviewRepository,
	decisions repository.DecisionRepository,
	recommendations repository.RecommendationRepository,
	scheduling repository.SchedulingRepository,
	comms CommunicationService,
) ProgressionService {
	return &progressionService{
		scope:           scope{apps: apps, campaigns: campaigns, pathways: pathways},
		assignments:     assignments,
		reviews:         reviews,
		decisions:       decisions,
		recommendations: recommendations,
		scheduling:      scheduling,
		comms:           comms,
	}
}

// SubmitApplication validates the applicant's data against the opening Form
// phase and places the application on the first phase of the pathway.
func (s *progressionService) SubmitApplication(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error) {
	logger.EnterMethod("progressionService.SubmitApplication", "applicationID", id, "userID", actor.UserID)

	app, c, err := s.application(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("progressionService.SubmitApplication", err, "applicationID", id)
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
		return nil, domain.ErrUnauthorized.With("only the applicant can submit application %s", id)
	}
	if !progression.IsTransitionAllowed(app.Status, domain.ApplicationStatusSubmitted) {
		return nil, domain.ErrInvalidStatusTransition.With("application %s is %s", id, app.Status)
	}

	phases, err := s.pathways.ListPhases(ctx, c.PathwayTemplateID)
	if err != nil {
		logger.ExitMethodWithError("progressionService.SubmitApplication", err, "applicationID", id)
		return nil, err
	}
	first, ok := progression.FirstPhase(phases)
	if !ok {
		return nil, domain.ErrValidation.With("pathway template %s has no phases", c.PathwayTemplateID)
	}
	if first.Type == phaseconfig.PhaseTypeForm {
		if _, err := progression.Classify(first, progression.Evidence{Data: app.Data}); err != nil {
			logger.ExitMethodWithError("progressionService.SubmitApplication", err, "applicationID", id)
			return nil, err
		}
	}

	now := time.Now()
	expected := app.Version
	firstID := first.ID
	app.Status = domain.ApplicationStatusSubmitted
	app.SubmittedAt = &now
	app.CurrentCampaignPhaseID = &firstID
	t := &domain.PhaseTransition{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		ToPhaseID:     &firstID,
		Outcome:       outcomeSubmitted,
		ActorID:       actor.UserID,
	}
	if err := s.apps.Transition(ctx, app, expected, t); err != nil {
		logger.ExitMethodWithError("progressionService.SubmitApplication", err, "applicationID", id)
		return nil, err
	}

	logger.Info("Application submitted", "application_id", app.ID, "from_phase", nil, "to_phase", firstID)
	logger.ExitMethod("progressionService.SubmitApplication", "applicationID", id)
	return app, nil
}

func (s *progressionService) managedApplication(ctx context.Context, actor domain.Actor, id string, c policy.Capability) (*domain.Application, *domain.Campaign, error) {
	app, campaign, err := s.application(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !policy.HasCapability(actor.Role, c) || !policy.CanManageCampaign(actor, campaign) {
		return nil, nil, domain.ErrUnauthorized.With("cannot manage application %s", id)
	}
	return app, campaign, nil
}

func (s *progressionService) SetStatus(ctx context.Context, actor domain.Actor, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	if _, err := progression.ParseStatus(string(status)); err != nil {
		return nil, domain.ErrValidation.WithFields(map[string]string{"status": err.Error()})
	}
	if status == domain.ApplicationStatusSubmitted {
		return nil, domain.ErrInvalidStatusTransition.With("applications are submitted by their applicant")
	}
	for attempt := 1; ; attempt++ {
		app, _, err := s.managedApplication(ctx, actor, id, policy.SetApplicationStatus)
		if err != nil {
			return nil, err
		}
		if !progression.IsTransitionAllowed(app.Status, status) {
			return nil, domain.ErrInvalidStatusTransition.With("application cannot move from %s to %s", app.Status, status)
		}
		expected := app.Version
		from := app.Status
		app.Status = status
		err = s.apps.Transition(ctx, app, expected, nil)
		if errors.Is(err, domain.ErrConcurrentTransition) && attempt < maxTransitionAttempts {
			continue
		}
		if err != nil {
			return nil, err
		}
		logger.WithActor(actor.UserID, actor.Role).Info("Application status changed",
			"application_id", id, "from_status", from, "to_status", status)
		return app, nil
	}
}

func (s *progressionService) SetScreeningStatus(ctx context.Context, actor domain.Actor, id string, status domain.ScreeningStatus) error {
	if _, ok := domain.ParseScreeningStatus(string(status)); !ok {
		return domain.ErrValidation.WithFields(map[string]string{"screening_status": "unknown screening status"})
	}
	// any coordinator or admin, not only the campaign owner
	if _, _, err := s.application(ctx, id); err != nil {
		return err
	}
	if !policy.HasCapability(actor.Role, policy.SetScreeningStatus) {
		return domain.ErrUnauthorized.With("cannot change screening status of application %s", id)
	}
	return s.apps.SetScreeningStatus(ctx, id, status)
}

// Advance classifies the outcome of the current phase and moves the phase
// pointer with a version compare-and-swap. A lost race is retried only while the
// application still sits on expectedPhaseID.
func (s *progressionService) Advance(ctx context.Context, actor domain.Actor, id, expectedPhaseID string) (*AdvanceResult, error) {
	logger.EnterMethod("progressionService.Advance", "applicationID", id, "expectedPhaseID", expectedPhaseID)

	for attempt := 1; ; attempt++ {
		res, err := s.advanceOnce(ctx, actor, id, expectedPhaseID)
		if errors.Is(err, errVersionRace) {
			if attempt < maxTransitionAttempts {
				logger.Warn("Retrying phase transition", "application_id", id, "attempt", attempt)
				continue
			}
			err = domain.ErrConcurrentTransition.With("application %s kept changing during the transition", id)
		}
		if err != nil {
			logger.ExitMethodWithError("progressionService.Advance", err, "applicationID", id)
			return nil, err
		}
		logger.ExitMethod("progressionService.Advance", "applicationID", id)
		return res, nil
	}
}

func (s *progressionService) advanceOnce(ctx context.Context, actor domain.Actor, id, expectedPhaseID string) (*AdvanceResult, error) {
	app, c, err := s.managedApplication(ctx, actor, id, policy.AdvanceApplication)
	if err != nil {
		return nil, err
	}
	if app.CurrentCampaignPhaseID == nil {
		return nil, domain.ErrInvalidStatusTransition.With("application %s is not on a phase", id)
	}
	if *app.CurrentCampaignPhaseID != expectedPhaseID {
		return nil, domain.ErrConcurrentTransition.With("application %s is now on phase %s", id, *app.CurrentCampaignPhaseID)
	}
	if !progression.CanAdvance(app.Status) {
		return nil, domain.ErrInvalidStatusTransition.With("application %s is %s", id, app.Status)
	}

	phases, err := s.pathways.ListPhases(ctx, c.PathwayTemplateID)
	if err != nil {
		return nil, err
	}
	var current *domain.Phase
	for i := range phases {
		if phases[i].ID == expectedPhaseID {
			current = &phases[i]
			break
		}
	}
	if current == nil {
		return nil, domain.ErrBrokenBranchReference.With("current phase %s no longer exists", expectedPhaseID)
	}

	ev, err := s.evidence(ctx, app, *current)
	if err != nil {
		return nil, err
	}
	outcome, err := progression.Classify(*current, ev)
	if err != nil {
		return nil, err
	}
	step, err := progression.NextPhase(*current, phases, outcome)
	if err != nil {
		return nil, err
	}

	expected := app.Version
	app.CurrentCampaignPhaseID = step.To
	if app.Status == domain.ApplicationStatusSubmitted {
		app.Status = domain.ApplicationStatusInReview
	}
	from := step.From
	t := &domain.PhaseTransition{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		FromPhaseID:   &from,
		ToPhaseID:     step.To,
		Outcome:       string(outcome),
		ActorID:       actor.UserID,
	}
	if err := s.apps.Transition(ctx, app, expected, t); err != nil {
		if errors.Is(err, domain.ErrConcurrentTransition) {
			return nil, errVersionRace
		}
		return nil, err
	}

	var to any
	if step.To != nil {
		to = *step.To
	}
	logger.Info("Application advanced",
		"application_id", app.ID, "from_phase", step.From, "to_phase", to, "outcome", outcome, "branched", step.Branched)
	return &AdvanceResult{Application: app, Step: step}, nil
}

// evidence loads what the phase type needs to classify its outcome. For Email
// phases the message is dispatched here if it has not gone out yet.
func (s *progressionService) evidence(ctx context.Context, app *domain.Application, phase domain.Phase) (progression.Evidence, error) {
	ev := progression.Evidence{Data: app.Data}
	var err error
	switch phase.Type {
	case phaseconfig.PhaseTypeReview:
		if ev.Assignments, err = s.assignments.ListByPhase(ctx, app.ID, phase.ID); err != nil {
			return ev, err
		}
		if ev.Reviews, err = s.reviews.ListByPhase(ctx, app.ID, phase.ID); err != nil {
			return ev, err
		}
		ev.Decisions, err = s.decisions.ListByPhase(ctx, app.ID, phase.ID)
	case phaseconfig.PhaseTypeDecision:
		ev.Decisions, err = s.decisions.ListByPhase(ctx, app.ID, phase.ID)
	case phaseconfig.PhaseTypeRecommendation:
		ev.Recommendations, err = s.recommendations.ListByPhase(ctx, app.ID, phase.ID)
	case phaseconfig.PhaseTypeScheduling:
		ev.Interviews, err = s.scheduling.ListInterviews(ctx, app.ID, phase.ID)
	case phaseconfig.PhaseTypeEmail:
		ev.EmailSent, err = s.comms.SendPhaseEmail(ctx, app, phase)
	}
	return ev, err
}

func (s *progressionService) PhaseHistory(ctx context.Context, actor domain.Actor, id string) ([]domain.PhaseTransition, error) {
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
	return s.apps.ListTransitions(ctx, id)
}
