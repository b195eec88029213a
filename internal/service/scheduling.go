package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/policy"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type schedulingService struct {
	scope
	scheduling repository.SchedulingRepository
}

func NewSchedulingService(
	apps repository.ApplicationRepository,
	campaigns repository.CampaignRepository,
	pathways repository.PathwayRepository,
	scheduling repository.SchedulingRepository,
) SchedulingService {
	return &schedulingService{
		scope:      scope{apps: apps, campaigns: campaigns, pathways: pathways},
		scheduling: scheduling,
	}
}

func (s *schedulingService) AddAvailability(ctx context.Context, actor domain.Actor, hostID string, start, end time.Time) (*domain.HostAvailability, error) {
	if hostID == "" {
		hostID = actor.UserID
	}
	if !policy.HasCapability(actor.Role, policy.PublishAvailability) {
		return nil, domain.ErrUnauthorized.With("role %q cannot publish availability", actor.Role)
	}
	if hostID != actor.UserID && !policy.HasCapability(actor.Role, policy.PublishAnyAvailability) {
		return nil, domain.ErrUnauthorized.With("cannot publish availability for another host")
	}
	if !end.After(start) {
		return nil, domain.ErrValidation.WithFields(map[string]string{"end_time": "must be after start_time"})
	}
	a := &domain.HostAvailability{
		ID:        uuid.NewString(),
		HostID:    hostID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
	}
	if err := s.scheduling.AddAvailability(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *schedulingService) ListAvailability(ctx context.Context, actor domain.Actor, hostID string) ([]domain.HostAvailability, error) {
	if hostID == "" {
		hostID = actor.UserID
	}
	return s.scheduling.ListAvailability(ctx, hostID)
}

// BookInterview reserves [start, end) for the applicant of the application and
// the host. The slot length must match the phase's interview duration; the
// phase buffer widens the host overlap check.
func (s *schedulingService) BookInterview(ctx context.Context, actor domain.Actor, in BookingInput) (*domain.ScheduledInterview, error) {
	logger.EnterMethod("schedulingService.BookInterview", "applicationID", in.ApplicationID, "hostID", in.HostID)

	if !policy.HasCapability(actor.Role, policy.BookInterview) {
		return nil, domain.ErrUnauthorized.With("role %q cannot book interviews", actor.Role)
	}
	app, c, err := s.application(ctx, in.ApplicationID)
	if err != nil {
		logger.ExitMethodWithError("schedulingService.BookInterview", err, "applicationID", in.ApplicationID)
		return nil, err
	}
	if app.ApplicantID != actor.UserID && !policy.CanManageCampaign(actor, c) {
		return nil, domain.ErrNotFound.With("application %s not found", in.ApplicationID)
	}
	phase, err := s.typedPhase(ctx, c, in.PhaseID, phaseconfig.PhaseTypeScheduling)
	if err != nil {
		logger.ExitMethodWithError("schedulingService.BookInterview", err, "phaseID", in.PhaseID)
		return nil, err
	}
	cfg, ok := phase.Config.(phaseconfig.SchedulingConfig)
	if !ok {
		return nil, domain.ErrConfigValidation.With("phase %s has no scheduling config", phase.ID)
	}
	if in.HostID == "" {
		return nil, domain.ErrValidation.WithFields(map[string]string{"host_id": "is required"})
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, domain.ErrValidation.WithFields(map[string]string{"end_time": "must be after start_time"})
	}
	if got := in.EndTime.Sub(in.StartTime); got != cfg.Duration() {
		return nil, domain.ErrValidation.With("interviews last %s, got %s", cfg.Duration(), got).
			WithFields(map[string]string{"end_time": "does not match the interview duration"})
	}

	iv := &domain.ScheduledInterview{
		ID:              uuid.NewString(),
		ApplicationID:   app.ID,
		CampaignPhaseID: phase.ID,
		ApplicantID:     app.ApplicantID,
		HostID:          in.HostID,
		StartTime:       in.StartTime.UTC(),
		EndTime:         in.EndTime.UTC(),
		Status:          domain.InterviewBooked,
		MeetingLink:     cfg.AutomatedMeetingLink,
	}
	if err := s.scheduling.BookInterview(ctx, iv, cfg.Buffer()); err != nil {
		logger.ExitMethodWithError("schedulingService.BookInterview", err, "applicationID", in.ApplicationID)
		return nil, err
	}

	logger.ExitMethod("schedulingService.BookInterview", "interviewID", iv.ID)
	return iv, nil
}

// interviewActor may change iv: its applicant, its host, or a manager of the campaign.
func (s *schedulingService) interviewActor(ctx context.Context, actor domain.Actor, iv *domain.ScheduledInterview, allowApplicant bool) error {
	if allowApplicant && iv.ApplicantID == actor.UserID {
		return nil
	}
	if iv.HostID == actor.UserID && policy.HasCapability(actor.Role, policy.ManageInterviews) {
		return nil
	}
	_, c, err := s.application(ctx, iv.ApplicationID)
	if err != nil {
		return err
	}
	if policy.CanManageCampaign(actor, c) && policy.HasCapability(actor.Role, policy.ManageInterviews) {
		return nil
	}
	return domain.ErrUnauthorized.With("cannot change interview %s", iv.ID)
}

func (s *schedulingService) CancelInterview(ctx context.Context, actor domain.Actor, id string) error {
	iv, err := s.scheduling.GetInterview(ctx, id)
	if err != nil {
		return err
	}
	if err := s.interviewActor(ctx, actor, iv, true); err != nil {
		return err
	}
	return s.scheduling.SetInterviewStatus(ctx, id, domain.InterviewCanceled)
}

func (s *schedulingService) CompleteInterview(ctx context.Context, actor domain.Actor, id string) error {
	iv, err := s.scheduling.GetInterview(ctx, id)
	if err != nil {
		return err
	}
	if err := s.interviewActor(ctx, actor, iv, false); err != nil {
		return err
	}
	return s.scheduling.SetInterviewStatus(ctx, id, domain.InterviewCompleted)
}

func (s *schedulingService) ListInterviews(ctx context.Context, actor domain.Actor, applicationID, phaseID string) ([]domain.ScheduledInterview, error) {
	app, c, err := s.application(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != actor.UserID && !policy.CanManageCampaign(actor, c) &&
		!policy.HasCapability(actor.Role, policy.ManageInterviews) && !policy.HasCapability(actor.Role, policy.ViewAnyApplication) {
		return nil, domain.ErrNotFound.With("application %s not found", applicationID)
	}
	return s.scheduling.ListInterviews(ctx, applicationID, phaseID)
}
