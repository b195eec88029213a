package repository

import (
	"context"
	"time"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
)

// PathwayRepository persists templates and their phase lists. Multi-row writes
// (clone, reorder, phase deletion) are applied in a single transaction.
type PathwayRepository interface {
	CreateTemplate(ctx context.Context, t *domain.PathwayTemplate) error
	// CreateTemplateWithPhases inserts a template and all of its phases atomically.
	CreateTemplateWithPhases(ctx context.Context, t *domain.PathwayTemplate, phases []domain.Phase) error
	GetTemplate(ctx context.Context, id string) (*domain.PathwayTemplate, error)
	// ListTemplates returns public templates plus the viewer's own. includePrivate
	// adds every private template.
	ListTemplates(ctx context.Context, viewerID string, includePrivate bool) ([]domain.PathwayTemplate, error)
	UpdateTemplate(ctx context.Context, t *domain.PathwayTemplate) error
	DeleteTemplate(ctx context.Context, id string) error

	// CreatePhase appends p after the template's last phase and sets p.OrderIndex.
	CreatePhase(ctx context.Context, p *domain.Phase) error
	GetPhase(ctx context.Context, id string) (*domain.Phase, error)
	// ListPhases returns the template's phases ordered by orderIndex.
	ListPhases(ctx context.Context, templateID string) ([]domain.Phase, error)
	UpdatePhase(ctx context.Context, p *domain.Phase) error
	// DeletePhase removes a phase no application occupies and clears sibling
	// branch targets that point at it. Remaining indices are not compacted.
	DeletePhase(ctx context.Context, templateID, phaseID string) error
	// ReorderPhases replaces every orderIndex of the template in one statement.
	ReorderPhases(ctx context.Context, templateID string, order []domain.PhaseOrder) error
}

type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Campaign, error)
	UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.Application, error)
	// UpdateData replaces the data payload when the stored version still matches.
	UpdateData(ctx context.Context, id string, data map[string]any, expectedVersion int64) (int64, error)
	// Transition writes the phase pointer, status and submittedAt of a when the
	// stored version equals expectedVersion, and records t (if non-nil) in the same
	// transaction. On success a.Version and a.UpdatedAt hold the new values.
	Transition(ctx context.Context, a *domain.Application, expectedVersion int64, t *domain.PhaseTransition) error
	SetScreeningStatus(ctx context.Context, id string, status domain.ScreeningStatus) error
	ListTransitions(ctx context.Context, applicationID string) ([]domain.PhaseTransition, error)
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}

type AssignmentRepository interface {
	// Create fails with DuplicateAssignment when the (reviewer, application,
	// phase) tuple already exists.
	Create(ctx context.Context, a *domain.ReviewerAssignment) error
	GetByID(ctx context.Context, id string) (*domain.ReviewerAssignment, error)
	Find(ctx context.Context, reviewerID, applicationID, phaseID string) (*domain.ReviewerAssignment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AssignmentStatus) error
	Delete(ctx context.Context, id string) error
	ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.ReviewerAssignment, error)
	ListByReviewer(ctx context.Context, reviewerID string) ([]domain.ReviewerAssignment, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	Find(ctx context.Context, reviewerID, applicationID, phaseID string) (*domain.Review, error)
	// Update writes score, comments and status only while the stored status is
	// still from.
	Update(ctx context.Context, r *domain.Review, from domain.ReviewStatus) error
	ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.Review, error)
}

type DecisionRepository interface {
	Create(ctx context.Context, d *domain.Decision) error
	ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.Decision, error)
}

type RecommendationRepository interface {
	Create(ctx context.Context, r *domain.RecommendationRequest) error
	GetByID(ctx context.Context, id string) (*domain.RecommendationRequest, error)
	GetByTokenHash(ctx context.Context, hash string) (*domain.RecommendationRequest, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	// MarkViewed moves a sent request to viewed; other statuses are left alone.
	MarkViewed(ctx context.Context, id string) error
	// Submit stores formData unless the request is already submitted, in which
	// case it fails with RecommendationAlreadySubmitted.
	Submit(ctx context.Context, id string, formData map[string]any, at time.Time) error
	ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.RecommendationRequest, error)
	// ListOpen returns every request that has not been submitted.
	ListOpen(ctx context.Context) ([]domain.RecommendationRequest, error)
	MarkOverdue(ctx context.Context, ids []string) (int64, error)
	// RecordReminder replaces the token digest of an unsubmitted request and
	// stamps lastReminderAt.
	RecordReminder(ctx context.Context, id, tokenHash string, at time.Time) error
	// RevertReminder puts back the digest and lastReminderAt a failed reminder
	// replaced. It only applies while the stored digest is still rotatedHash.
	RevertReminder(ctx context.Context, id, rotatedHash, previousHash string, previousAt *time.Time) error
}

type SchedulingRepository interface {
	// AddAvailability rejects a window overlapping another window of the same host.
	AddAvailability(ctx context.Context, a *domain.HostAvailability) error
	ListAvailability(ctx context.Context, hostID string) ([]domain.HostAvailability, error)
	// BookInterview checks availability and host and applicant overlaps (widened by
	// buffer) and inserts the interview in one serializable transaction.
	BookInterview(ctx context.Context, iv *domain.ScheduledInterview, buffer time.Duration) error
	GetInterview(ctx context.Context, id string) (*domain.ScheduledInterview, error)
	// SetInterviewStatus moves a booked interview to status. It fails with
	// InterviewNotCancelable when the interview is not booked.
	SetInterviewStatus(ctx context.Context, id string, status domain.InterviewStatus) error
	ListInterviews(ctx context.Context, applicationID, phaseID string) ([]domain.ScheduledInterview, error)
}

type CommunicationRepository interface {
	CreateTemplate(ctx context.Context, t *domain.CommunicationTemplate) error
	GetTemplate(ctx context.Context, id string) (*domain.CommunicationTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.CommunicationTemplate, error)
	UpdateTemplate(ctx context.Context, t *domain.CommunicationTemplate) error
	DeleteTemplate(ctx context.Context, id string) error

	// RecordDispatch fails with Conflict when the recipient was already recorded.
	RecordDispatch(ctx context.Context, d *domain.EmailDispatch) error
	ListDispatches(ctx context.Context, applicationID, phaseID string) ([]domain.EmailDispatch, error)
}
