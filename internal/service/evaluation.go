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

// reviewTransitions: pending → submitted → reopened → submitted. There is no way
// back to pending.
var reviewTransitions = map[domain.ReviewStatus]domain.ReviewStatus{
	domain.ReviewPending:   domain.ReviewSubmitted,
	domain.ReviewSubmitted: domain.ReviewReopened,
	domain.ReviewReopened:  domain.ReviewSubmitted,
}

type evaluationService struct {
	scope
	assignments repository.AssignmentRepository
	reviews     repository.ReviewRepository
	decisions   repository.DecisionRepository
	profiles    repository.ProfileRepository
}

func NewEvaluationService(
	apps repository.ApplicationRepository,
	campaigns repository.CampaignRepository,
	pathways repository.PathwayRepository,
	assignments repository.AssignmentRepository,
	reviews repository.ReviewRepository,
	decisions repository.DecisionRepository,
	profiles repository.ProfileRepository,
) EvaluationService {
	return &evaluationService{
		scope:       scope{apps: apps, campaigns: campaigns, pathways: pathways},
		assignments: assignments,
		reviews:     reviews,
		decisions:   decisions,
		profiles:    profiles,
	}
}

func (s *evaluationService) CreateAssignment(ctx context.Context, actor domain.Actor, applicationID, phaseID, reviewerID string) (*domain.ReviewerAssignment, error) {
	logger.EnterMethod("evaluationService.CreateAssignment", "applicationID", applicationID, "phaseID", phaseID, "reviewerID", reviewerID)

	_, c, err := s.application(ctx, applicationID)
	if err != nil {
		logger.ExitMethodWithError("evaluationService.CreateAssignment", err, "applicationID", applicationID)
		return nil, err
	}
	if !policy.CanManageCampaign(actor, c) {
		err := domain.ErrUnauthorized.With("only the campaign creator or an admin can assign reviewers")
		logger.ExitMethodWithError("evaluationService.CreateAssignment", err, "applicationID", applicationID)
		return nil, err
	}
	if _, err := s.typedPhase(ctx, c, phaseID, phaseconfig.PhaseTypeReview); err != nil {
		logger.ExitMethodWithError("evaluationService.CreateAssignment", err, "phaseID", phaseID)
		return nil, err
	}
	reviewer, err := s.profiles.GetByID(ctx, reviewerID)
	if err != nil {
		logger.ExitMethodWithError("evaluationService.CreateAssignment", err, "reviewerID", reviewerID)
		return nil, err
	}
	if !policy.HasCapability(reviewer.Role, policy.WriteOwnReview) {
		return nil, domain.ErrValidation.WithFields(map[string]string{"reviewer_id": "user cannot review applications"})
	}

	a := &domain.ReviewerAssignment{
		ID:              uuid.NewString(),
		ApplicationID:   applicationID,
		ReviewerID:      reviewerID,
		CampaignPhaseID: phaseID,
		Status:          domain.AssignmentAssigned,
		AssignedBy:      actor.UserID,
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		logger.ExitMethodWithError("evaluationService.CreateAssignment", err, "applicationID", applicationID)
		return nil, err
	}

	logger.ExitMethod("evaluationService.CreateAssignment", "assignmentID", a.ID)
	return a, nil
}

func (s *evaluationService) DeleteAssignment(ctx context.Context, actor domain.Actor, id string) error {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, c, err := s.application(ctx, a.ApplicationID)
	if err != nil {
		return err
	}
	if !policy.CanManageCampaign(actor, c) {
		return domain.ErrUnauthorized.With("only the campaign creator or an admin can remove reviewers")
	}
	return s.assignments.Delete(ctx, id)
}

func (s *evaluationService) RespondToAssignment(ctx context.Context, actor domain.Actor, id string, status domain.AssignmentStatus) (*domain.ReviewerAssignment, error) {
	if status != domain.AssignmentAccepted && status != domain.AssignmentDeclined {
		return nil, domain.ErrValidation.WithFields(map[string]string{"status": "must be accepted or declined"})
	}
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ReviewerID != actor.UserID {
		return nil, domain.ErrNotFound.With("assignment %s not found", id)
	}
	if a.Status != domain.AssignmentAssigned {
		return nil, domain.ErrInvalidStatusTransition.With("assignment is already %s", a.Status)
	}
	if err := s.assignments.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status
	return a, nil
}

func (s *evaluationService) ListAssignmentsForReviewer(ctx context.Context, actor domain.Actor) ([]domain.ReviewerAssignment, error) {
	return s.assignments.ListByReviewer(ctx, actor.UserID)
}

// SaveReview creates or edits the reviewer's draft. A submitted review must be
// reopened before it can change.
func (s *evaluationService) SaveReview(ctx context.Context, actor domain.Actor, in ReviewInput) (*domain.Review, error) {
	reviewerID := actor.UserID
	if in.ReviewerID != "" {
		reviewerID = in.ReviewerID
	}
	if !policy.CanWriteReview(actor, reviewerID) {
		return nil, domain.ErrUnauthorized.With("only the assigned reviewer or an admin can write this review")
	}

	_, c, err := s.application(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	phase, err := s.typedPhase(ctx, c, in.PhaseID, phaseconfig.PhaseTypeReview)
	if err != nil {
		return nil, err
	}
	if err := s.requireAssignment(ctx, actor, reviewerID, in.ApplicationID, in.PhaseID); err != nil {
		return nil, err
	}
	cfg, ok := phase.Config.(phaseconfig.ReviewConfig)
	if !ok {
		return nil, domain.ErrConfigValidation.With("phase %s has no review config", phase.ID)
	}
	if err := checkScores(cfg, in.Score); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Comments) != "" && !cfg.AllowComments {
		return nil, domain.ErrValidation.WithFields(map[string]string{"comments": "comments are disabled for this phase"})
	}

	existing, err := s.reviews.Find(ctx, reviewerID, in.ApplicationID, in.PhaseID)
	if err != nil && !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}
	if existing == nil {
		r := &domain.Review{
			ID:              uuid.NewString(),
			ApplicationID:   in.ApplicationID,
			ReviewerID:      reviewerID,
			CampaignPhaseID: in.PhaseID,
			Score:           in.Score,
			Comments:        in.Comments,
			Status:          domain.ReviewPending,
		}
		if err := s.reviews.Create(ctx, r); err != nil {
			return nil, err
		}
		return r, nil
	}
	if existing.Status == domain.ReviewSubmitted {
		return nil, domain.ErrInvalidStatusTransition.With("review %s is submitted; reopen it first", existing.ID)
	}
	existing.Score = in.Score
	existing.Comments = in.Comments
	if err := s.reviews.Update(ctx, existing, existing.Status); err != nil {
		return nil, err
	}
	return existing, nil
}

// requireAssignment: reviewers need a live assignment; admins write without one.
func (s *evaluationService) requireAssignment(ctx context.Context, actor domain.Actor, reviewerID, applicationID, phaseID string) error {
	a, err := s.assignments.Find(ctx, reviewerID, applicationID, phaseID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			if policy.HasCapability(actor.Role, policy.WriteAnyReview) {
				return nil
			}
			return domain.ErrUnauthorized.With("reviewer %s is not assigned to this phase", reviewerID)
		}
		return err
	}
	if a.Status == domain.AssignmentDeclined && !policy.HasCapability(actor.Role, policy.WriteAnyReview) {
		return domain.ErrUnauthorized.With("reviewer %s declined this assignment", reviewerID)
	}
	return nil
}

// checkScores rejects unknown criteria and values outside [0, maxScore].
func checkScores(cfg phaseconfig.ReviewConfig, score map[string]float64) error {
	for id, v := range score {
		limit, ok := cfg.MaxScore(id)
		if !ok {
			return domain.ErrValidation.WithFields(map[string]string{"score." + id: "unknown rubric criterion"})
		}
		if v < 0 || v > limit {
			return domain.ErrScoreOutOfRange.With("criterion %s scored %g, allowed 0..%g", id, v, limit).
				WithFields(map[string]string{"score." + id: "out of range"})
		}
	}
	return nil
}

func (s *evaluationService) SetReviewStatus(ctx context.Context, actor domain.Actor, id string, status domain.ReviewStatus) (*domain.Review, error) {
	logger.EnterMethod("evaluationService.SetReviewStatus", "reviewID", id, "status", status)

	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("evaluationService.SetReviewStatus", err, "reviewID", id)
		return nil, err
	}
	if !policy.CanWriteReview(actor, r.ReviewerID) {
		return nil, domain.ErrUnauthorized.With("only the reviewer or an admin can change review %s", id)
	}
	if reviewTransitions[r.Status] != status {
		err := domain.ErrInvalidStatusTransition.With("review cannot move from %s to %s", r.Status, status)
		logger.ExitMethodWithError("evaluationService.SetReviewStatus", err, "reviewID", id)
		return nil, err
	}

	if status == domain.ReviewSubmitted {
		phase, err := s.pathways.GetPhase(ctx, r.CampaignPhaseID)
		if err != nil {
			return nil, err
		}
		cfg, ok := phase.Config.(phaseconfig.ReviewConfig)
		if !ok {
			return nil, domain.ErrValidation.With("phase %s is not a review phase", phase.ID)
		}
		missing := map[string]string{}
		for _, rc := range cfg.RubricCriteria {
			if _, ok := r.Score[rc.ID]; !ok {
				missing["score."+rc.ID] = "is required"
			}
		}
		if len(missing) > 0 {
			return nil, domain.ErrValidation.With("every rubric criterion must be scored").WithFields(missing)
		}
		if err := checkScores(cfg, r.Score); err != nil {
			return nil, err
		}
	}

	from := r.Status
	r.Status = status
	if err := s.reviews.Update(ctx, r, from); err != nil {
		logger.ExitMethodWithError("evaluationService.SetReviewStatus", err, "reviewID", id)
		return nil, err
	}

	if status == domain.ReviewSubmitted {
		s.completeAssignment(ctx, r)
	}
	logger.ExitMethod("evaluationService.SetReviewStatus", "reviewID", id, "from", from, "to", status)
	return r, nil
}

// completeAssignment marks the reviewer's assignment completed. The review is
// already stored, so a failure here is only logged.
func (s *evaluationService) completeAssignment(ctx context.Context, r *domain.Review) {
	a, err := s.assignments.Find(ctx, r.ReviewerID, r.ApplicationID, r.CampaignPhaseID)
	if err != nil {
		if !domain.IsKind(err, domain.KindNotFound) {
			logger.Warn("Failed to load assignment for submitted review", "review_id", r.ID, "error", err)
		}
		return
	}
	if a.Status == domain.AssignmentCompleted {
		return
	}
	if err := s.assignments.UpdateStatus(ctx, a.ID, domain.AssignmentCompleted); err != nil {
		logger.Warn("Failed to complete assignment", "assignment_id", a.ID, "error", err)
	}
}

func (s *evaluationService) ListReviews(ctx context.Context, actor domain.Actor, applicationID, phaseID string) ([]domain.Review, error) {
	_, c, err := s.application(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageCampaign(actor, c) && !policy.HasCapability(actor.Role, policy.ViewAnyApplication) {
		reviews, err := s.reviews.ListByPhase(ctx, applicationID, phaseID)
		if err != nil {
			return nil, err
		}
		var own []domain.Review
		for _, r := range reviews {
			if r.ReviewerID == actor.UserID {
				own = append(own, r)
			}
		}
		return own, nil
	}
	return s.reviews.ListByPhase(ctx, applicationID, phaseID)
}

// CreateDecision records an outcome declared by the phase. The decision is final
// when the caller says so or when the declared outcome is itself final.
func (s *evaluationService) CreateDecision(ctx context.Context, actor domain.Actor, in DecisionInput) (*domain.Decision, error) {
	logger.EnterMethod("evaluationService.CreateDecision", "applicationID", in.ApplicationID, "phaseID", in.PhaseID, "outcome", in.Outcome)

	_, c, err := s.application(ctx, in.ApplicationID)
	if err != nil {
		logger.ExitMethodWithError("evaluationService.CreateDecision", err, "applicationID", in.ApplicationID)
		return nil, err
	}
	if !policy.CanManageCampaign(actor, c) {
		err := domain.ErrUnauthorized.With("only the campaign creator or an admin can record decisions")
		logger.ExitMethodWithError("evaluationService.CreateDecision", err, "applicationID", in.ApplicationID)
		return nil, err
	}
	phase, err := s.phase(ctx, c, in.PhaseID)
	if err != nil {
		logger.ExitMethodWithError("evaluationService.CreateDecision", err, "phaseID", in.PhaseID)
		return nil, err
	}
	outcomes := phaseconfig.Outcomes(phase.Config)
	if len(outcomes) == 0 {
		return nil, domain.ErrInvalidOutcome.With("phase %s declares no decision outcomes", phase.ID)
	}
	declared, ok := phaseconfig.FindOutcome(outcomes, in.Outcome)
	if !ok {
		err := domain.ErrInvalidOutcome.With("outcome %q is not declared by phase %s", in.Outcome, phase.ID)
		logger.ExitMethodWithError("evaluationService.CreateDecision", err, "phaseID", in.PhaseID)
		return nil, err
	}

	d := &domain.Decision{
		ID:              uuid.NewString(),
		ApplicationID:   in.ApplicationID,
		CampaignPhaseID: in.PhaseID,
		DeciderID:       actor.UserID,
		Outcome:         declared.Label,
		Notes:           in.Notes,
		IsFinal:         in.IsFinal || declared.IsFinal,
	}
	if err := s.decisions.Create(ctx, d); err != nil {
		logger.ExitMethodWithError("evaluationService.CreateDecision", err, "applicationID", in.ApplicationID)
		return nil, err
	}

	logger.ExitMethod("evaluationService.CreateDecision", "decisionID", d.ID, "isFinal", d.IsFinal)
	return d, nil
}

func (s *evaluationService) ListDecisions(ctx context.Context, actor domain.Actor, applicationID, phaseID string) ([]domain.Decision, error) {
	app, c, err := s.application(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	ok, err := canViewApplication(ctx, s.assignments, actor, app, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound.With("application %s not found", applicationID)
	}
	return s.decisions.ListByPhase(ctx, applicationID, phaseID)
}
