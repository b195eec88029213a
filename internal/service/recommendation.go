package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/policy"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/security"
)

const (
	recommendationSubject = "Recommendation request for {{applicant_name}}"
	recommendationBody    = "Dear {{recommender_name}},\n\n" +
		"{{applicant_name}} has asked you to write a recommendation for {{campaign_name}}.\n\n" +
		"Please submit it here:\n{{link}}\n"

	reminderSubject = "Reminder: recommendation for {{applicant_name}}"
	reminderBody    = "Dear {{recommender_name}},\n\n" +
		"{{applicant_name}} is still waiting for your recommendation for {{campaign_name}}.\n" +
		"Links from earlier messages no longer work. Please use this one:\n{{link}}\n"
)

type recommendationService struct {
	scope
	requests   repository.RecommendationRepository
	profiles   repository.ProfileRepository
	email      EmailService
	tokenBytes int
	baseURL    string
}

func NewRecommendationService(
	apps repository.ApplicationRepository,
	campaigns repository.CampaignRepository,
	pathways repository.PathwayRepository,
	requests repository.RecommendationRepository,
	profiles repository.ProfileRepository,
	email EmailService,
	tokenBytes int,
	baseURL string,
) RecommendationService {
	return &recommendationService{
		scope:      scope{apps: apps, campaigns: campaigns, pathways: pathways},
		requests:   requests,
		profiles:   profiles,
		email:      email,
		tokenBytes: tokenBytes,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (s *recommendationService) CreateRequest(ctx context.Context, actor domain.Actor, in RecommendationInput) (*domain.RecommendationRequest, error) {
	logger.EnterMethod("recommendationService.CreateRequest", "applicationID", in.ApplicationID, "phaseID", in.PhaseID)

	app, c, err := s.application(ctx, in.ApplicationID)
	if err != nil {
		logger.ExitMethodWithError("recommendationService.CreateRequest", err, "applicationID", in.ApplicationID)
		return nil, err
	}
	owner := app.ApplicantID == actor.UserID && policy.HasCapability(actor.Role, policy.RequestRecommendation)
	if !owner && !policy.CanManageCampaign(actor, c) {
		return nil, domain.ErrNotFound.With("application %s not found", in.ApplicationID)
	}
	if _, err := s.typedPhase(ctx, c, in.PhaseID, phaseconfig.PhaseTypeRecommendation); err != nil {
		logger.ExitMethodWithError("recommendationService.CreateRequest", err, "phaseID", in.PhaseID)
		return nil, err
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(in.RecommenderEmail))
	if err != nil {
		return nil, domain.ErrValidation.WithFields(map[string]string{"recommender_email": "must be a valid email address"})
	}
	name := strings.TrimSpace(in.RecommenderName)
	if name == "" {
		name = addr.Name
	}
	if name == "" {
		return nil, domain.ErrValidation.WithFields(map[string]string{"recommender_name": "is required"})
	}

	token, digest, err := security.NewRecommendationToken(s.tokenBytes)
	if err != nil {
		logger.ExitMethodWithError("recommendationService.CreateRequest", err, "applicationID", in.ApplicationID)
		return nil, err
	}
	req := &domain.RecommendationRequest{
		ID:               uuid.NewString(),
		ApplicationID:    app.ID,
		CampaignPhaseID:  in.PhaseID,
		RecommenderEmail: addr.Address,
		RecommenderName:  name,
		TokenHash:        digest,
		Status:           domain.RecommendationPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		logger.ExitMethodWithError("recommendationService.CreateRequest", err, "applicationID", in.ApplicationID)
		return nil, err
	}

	msg := s.message(ctx, req, app, c, token, domain.MessageRecommendationRequest)
	if err := s.email.Send(ctx, msg); err != nil {
		// The request stays pending and the reminder job sends it again.
		logger.Warn("Recommendation request email failed", "request_id", req.ID, "error", err)
		logger.ExitMethod("recommendationService.CreateRequest", "requestID", req.ID, "sent", false)
		return req, nil
	}
	now := time.Now()
	if err := s.requests.MarkSent(ctx, req.ID, now); err != nil {
		logger.ExitMethodWithError("recommendationService.CreateRequest", err, "requestID", req.ID)
		return nil, err
	}
	req.Status = domain.RecommendationSent
	req.RequestSentAt = &now

	logger.ExitMethod("recommendationService.CreateRequest", "requestID", req.ID, "sent", true)
	return req, nil
}

func (s *recommendationService) message(ctx context.Context, req *domain.RecommendationRequest, app *domain.Application, c *domain.Campaign, token, kind string) domain.OutboundMessage {
	applicant := "An applicant"
	if p, err := s.profiles.GetByID(ctx, app.ApplicantID); err == nil && p.FullName != "" {
		applicant = p.FullName
	}
	subject, body := recommendationSubject, recommendationBody
	if kind == domain.MessageRecommendationReminder {
		subject, body = reminderSubject, reminderBody
	}
	return domain.OutboundMessage{
		Kind:      kind,
		Recipient: domain.Recipient{Email: req.RecommenderEmail, Name: req.RecommenderName, Role: "recommender"},
		Subject:   subject,
		Body:      body,
		Variables: map[string]string{
			"recommender_name": req.RecommenderName,
			"applicant_name":   applicant,
			"campaign_name":    c.Name,
			"link":             s.baseURL + "/recommendations/" + token,
		},
	}
}

func (s *recommendationService) ListRequests(ctx context.Context, actor domain.Actor, applicationID, phaseID string) ([]domain.RecommendationRequest, error) {
	app, c, err := s.application(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != actor.UserID && !policy.CanManageCampaign(actor, c) && !policy.HasCapability(actor.Role, policy.ViewAnyApplication) {
		return nil, domain.ErrNotFound.With("application %s not found", applicationID)
	}
	return s.requests.ListByPhase(ctx, applicationID, phaseID)
}

func (s *recommendationService) byToken(ctx context.Context, token string) (*domain.RecommendationRequest, phaseconfig.RecommendationConfig, error) {
	if strings.TrimSpace(token) == "" {
		return nil, phaseconfig.RecommendationConfig{}, domain.ErrNotFound.With("unknown recommendation link")
	}
	req, err := s.requests.GetByTokenHash(ctx, security.HashRecommendationToken(token))
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, phaseconfig.RecommendationConfig{}, domain.ErrNotFound.With("unknown recommendation link")
		}
		return nil, phaseconfig.RecommendationConfig{}, err
	}
	cfg, err := s.config(ctx, req.CampaignPhaseID)
	if err != nil {
		return nil, phaseconfig.RecommendationConfig{}, err
	}
	return req, cfg, nil
}

func (s *recommendationService) config(ctx context.Context, phaseID string) (phaseconfig.RecommendationConfig, error) {
	phase, err := s.pathways.GetPhase(ctx, phaseID)
	if err != nil {
		return phaseconfig.RecommendationConfig{}, err
	}
	cfg, ok := phase.Config.(phaseconfig.RecommendationConfig)
	if !ok {
		return phaseconfig.RecommendationConfig{}, domain.ErrConfigValidation.With("phase %s is not a recommendation phase", phaseID)
	}
	return cfg, nil
}

// GetByToken returns the form a recommender fills in. Opening a sent request
// marks it viewed.
func (s *recommendationService) GetByToken(ctx context.Context, token string) (*RecommendationForm, error) {
	req, cfg, err := s.byToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if req.Status == domain.RecommendationSent {
		if err := s.requests.MarkViewed(ctx, req.ID); err != nil {
			return nil, err
		}
		req.Status = domain.RecommendationViewed
	}
	return &RecommendationForm{Request: req, Fields: cfg.RecommenderInformationFields}, nil
}

// Submit stores the recommender's answers once. A second submission fails with
// RecommendationAlreadySubmitted and leaves the first answers in place.
func (s *recommendationService) Submit(ctx context.Context, token string, formData map[string]any) error {
	req, cfg, err := s.byToken(ctx, token)
	if err != nil {
		return err
	}
	if req.Status == domain.RecommendationSubmitted {
		return domain.ErrRecommendationAlreadySubmitted.With("recommendation %s was already submitted", req.ID)
	}
	if formData == nil {
		formData = map[string]any{}
	}
	if issues := phaseconfig.ValidateSubmission(cfg.RecommenderInformationFields, formData); len(issues) > 0 {
		return issueError(domain.ErrValidation, issues)
	}
	if err := s.requests.Submit(ctx, req.ID, formData, time.Now()); err != nil {
		return err
	}
	logger.Info("Recommendation submitted", "request_id", req.ID, "application_id", req.ApplicationID)
	return nil
}

// MarkOverdue flags sent or viewed requests whose reminder interval has elapsed
// since the request went out.
func (s *recommendationService) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	open, err := s.requests.ListOpen(ctx)
	if err != nil {
		return 0, err
	}
	configs := map[string]phaseconfig.RecommendationConfig{}
	var ids []string
	for _, req := range open {
		if req.Status != domain.RecommendationSent && req.Status != domain.RecommendationViewed {
			continue
		}
		if req.RequestSentAt == nil {
			continue
		}
		cfg, err := s.cachedConfig(ctx, configs, req.CampaignPhaseID)
		if err != nil {
			logger.Warn("Skipping recommendation with unreadable phase", "request_id", req.ID, "error", err)
			continue
		}
		interval, ok := cfg.ReminderSchedule.Interval()
		if !ok {
			continue
		}
		if now.Sub(*req.RequestSentAt) >= interval {
			ids = append(ids, req.ID)
		}
	}
	n, err := s.requests.MarkOverdue(ctx, ids)
	if err != nil {
		return 0, err
	}
	logger.Info("Recommendations marked overdue", "count", n)
	return n, nil
}

func (s *recommendationService) cachedConfig(ctx context.Context, cache map[string]phaseconfig.RecommendationConfig, phaseID string) (phaseconfig.RecommendationConfig, error) {
	if cfg, ok := cache[phaseID]; ok {
		return cfg, nil
	}
	cfg, err := s.config(ctx, phaseID)
	if err != nil {
		return cfg, err
	}
	cache[phaseID] = cfg
	return cfg, nil
}

// SendReminders re-sends the request link. Pending requests (the first email
// failed) are always retried; others are chased once per reminder interval.
// Every send rotates the token because only its digest is stored.
func (s *recommendationService) SendReminders(ctx context.Context, now time.Time) (int, error) {
	open, err := s.requests.ListOpen(ctx)
	if err != nil {
		return 0, err
	}
	configs := map[string]phaseconfig.RecommendationConfig{}
	sent := 0
	for i := range open {
		req := &open[i]
		kind := domain.MessageRecommendationReminder
		if req.Status == domain.RecommendationPending {
			kind = domain.MessageRecommendationRequest
		} else {
			cfg, err := s.cachedConfig(ctx, configs, req.CampaignPhaseID)
			if err != nil {
				logger.Warn("Skipping recommendation with unreadable phase", "request_id", req.ID, "error", err)
				continue
			}
			interval, ok := cfg.ReminderSchedule.Interval()
			if !ok {
				continue
			}
			last := req.LastReminderAt
			if last == nil {
				last = req.RequestSentAt
			}
			if last == nil || now.Sub(*last) < interval {
				continue
			}
		}

		if err := s.remind(ctx, req, kind, now); err != nil {
			logger.Error("Failed to send recommendation reminder", "request_id", req.ID, "error", err)
			continue
		}
		sent++
	}
	logger.Info("Recommendation reminders sent", "count", sent)
	return sent, nil
}

func (s *recommendationService) remind(ctx context.Context, req *domain.RecommendationRequest, kind string, now time.Time) error {
	app, c, err := s.application(ctx, req.ApplicationID)
	if err != nil {
		return err
	}
	token, digest, err := security.NewRecommendationToken(s.tokenBytes)
	if err != nil {
		return err
	}
	if err := s.requests.RecordReminder(ctx, req.ID, digest, now); err != nil {
		return err
	}
	if err := s.email.Send(ctx, s.message(ctx, req, app, c, token, kind)); err != nil {
		// The new link never went out; keep the old one working and the request due.
		if rerr := s.requests.RevertReminder(ctx, req.ID, digest, req.TokenHash, req.LastReminderAt); rerr != nil {
			logger.Error("Failed to restore recommendation token", "request_id", req.ID, "error", rerr)
		}
		return err
	}
	if req.Status == domain.RecommendationPending {
		return s.requests.MarkSent(ctx, req.ID, now)
	}
	return nil
}
