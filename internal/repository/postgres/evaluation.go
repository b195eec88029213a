package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `id, application_id, reviewer_id, campaign_phase_id, status, assigned_by, created_at, updated_at`

func scanAssignment(row rowScanner) (*domain.ReviewerAssignment, error) {
	a := &domain.ReviewerAssignment{}
	if err := row.Scan(&a.ID, &a.ApplicationID, &a.ReviewerID, &a.CampaignPhaseID, &a.Status, &a.AssignedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assignmentRepository) Create(ctx context.Context, a *domain.ReviewerAssignment) error {
	logger.EnterMethod("assignmentRepository.Create", "applicationID", a.ApplicationID, "reviewerID", a.ReviewerID, "phaseID", a.CampaignPhaseID)

	query := `
		INSERT INTO reviewer_assignments (id, application_id, reviewer_id, campaign_phase_id, status, assigned_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, a.ID, a.ApplicationID, a.ReviewerID, a.CampaignPhaseID, a.Status, a.AssignedBy, time.Now()).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		logger.ExitMethodWithError("assignmentRepository.Create", err, "applicationID", a.ApplicationID)
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAssignment.With("reviewer %s is already assigned to application %s on phase %s", a.ReviewerID, a.ApplicationID, a.CampaignPhaseID)
		}
		return mapError(err)
	}

	logger.ExitMethod("assignmentRepository.Create", "assignmentID", a.ID)
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*domain.ReviewerAssignment, error) {
	a, err := scanAssignment(r.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM reviewer_assignments WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *assignmentRepository) Find(ctx context.Context, reviewerID, applicationID, phaseID string) (*domain.ReviewerAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM reviewer_assignments
	          WHERE reviewer_id = $1 AND application_id = $2 AND campaign_phase_id = $3`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, reviewerID, applicationID, phaseID))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *assignmentRepository) UpdateStatus(ctx context.Context, id string, status domain.AssignmentStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reviewer_assignments SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res, domain.ErrNotFound)
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviewer_assignments WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res, domain.ErrNotFound)
}

func (r *assignmentRepository) ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.ReviewerAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM reviewer_assignments
	          WHERE application_id = $1 AND campaign_phase_id = $2 ORDER BY created_at`
	return r.list(ctx, query, applicationID, phaseID)
}

func (r *assignmentRepository) ListByReviewer(ctx context.Context, reviewerID string) ([]domain.ReviewerAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM reviewer_assignments
	          WHERE reviewer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, reviewerID)
}

func (r *assignmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.ReviewerAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.ReviewerAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, application_id, reviewer_id, campaign_phase_id, score, COALESCE(comments, ''), status, created_at, updated_at`

func scanReview(row rowScanner) (*domain.Review, error) {
	rv := &domain.Review{}
	var raw []byte
	if err := row.Scan(&rv.ID, &rv.ApplicationID, &rv.ReviewerID, &rv.CampaignPhaseID, &raw, &rv.Comments, &rv.Status, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return nil, err
	}
	rv.Score = map[string]float64{}
	if err := fromJSON(raw, &rv.Score); err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	raw, err := toJSON(rv.Score)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO reviews (id, application_id, reviewer_id, campaign_phase_id, score, comments, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query, rv.ID, rv.ApplicationID, rv.ReviewerID, rv.CampaignPhaseID, raw, rv.Comments, rv.Status, time.Now()).
		Scan(&rv.CreatedAt, &rv.UpdatedAt)
	return mapError(err)
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return rv, nil
}

func (r *reviewRepository) Find(ctx context.Context, reviewerID, applicationID, phaseID string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews
	          WHERE reviewer_id = $1 AND application_id = $2 AND campaign_phase_id = $3`
	rv, err := scanReview(r.db.QueryRowContext(ctx, query, reviewerID, applicationID, phaseID))
	if err != nil {
		return nil, mapError(err)
	}
	return rv, nil
}

func (r *reviewRepository) Update(ctx context.Context, rv *domain.Review, from domain.ReviewStatus) error {
	raw, err := toJSON(rv.Score)
	if err != nil {
		return err
	}
	query := `UPDATE reviews SET score = $1, comments = $2, status = $3, updated_at = $4
	          WHERE id = $5 AND status = $6 RETURNING updated_at`
	err = r.db.QueryRowContext(ctx, query, raw, rv.Comments, rv.Status, time.Now(), rv.ID, from).Scan(&rv.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.ErrInvalidStatusTransition.With("review %s is no longer %s", rv.ID, from)
	}
	return mapError(err)
}

func (r *reviewRepository) ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE application_id = $1 AND campaign_phase_id = $2 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, applicationID, phaseID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

type decisionRepository struct {
	db *sql.DB
}

func NewDecisionRepository(db *sql.DB) repository.DecisionRepository {
	return &decisionRepository{db: db}
}

func (r *decisionRepository) Create(ctx context.Context, d *domain.Decision) error {
	query := `
		INSERT INTO decisions (id, application_id, campaign_phase_id, decider_id, outcome, notes, is_final, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, d.ID, d.ApplicationID, d.CampaignPhaseID, d.DeciderID, d.Outcome, d.Notes, d.IsFinal, time.Now()).
		Scan(&d.CreatedAt)
	return mapError(err)
}

func (r *decisionRepository) ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.Decision, error) {
	query := `SELECT id, application_id, campaign_phase_id, decider_id, outcome, COALESCE(notes, ''), is_final, created_at
	          FROM decisions WHERE application_id = $1 AND campaign_phase_id = $2 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, applicationID, phaseID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.Decision
	for rows.Next() {
		var d domain.Decision
		if err := rows.Scan(&d.ID, &d.ApplicationID, &d.CampaignPhaseID, &d.DeciderID, &d.Outcome, &d.Notes, &d.IsFinal, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
