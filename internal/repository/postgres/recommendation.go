package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type recommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) repository.RecommendationRepository {
	return &recommendationRepository{db: db}
}

const recommendationColumns = `id, application_id, campaign_phase_id, recommender_email, COALESCE(recommender_name, ''), token_hash, status,
	form_data, request_sent_at, last_reminder_at, submitted_at, created_at, updated_at`

func scanRecommendation(row rowScanner) (*domain.RecommendationRequest, error) {
	rr := &domain.RecommendationRequest{}
	var raw []byte
	if err := row.Scan(&rr.ID, &rr.ApplicationID, &rr.CampaignPhaseID, &rr.RecommenderEmail, &rr.RecommenderName, &rr.TokenHash, &rr.Status,
		&raw, &rr.RequestSentAt, &rr.LastReminderAt, &rr.SubmittedAt, &rr.CreatedAt, &rr.UpdatedAt); err != nil {
		return nil, err
	}
	if len(raw) > 0 && string(raw) != "null" {
		if err := fromJSON(raw, &rr.FormData); err != nil {
			return nil, err
		}
	}
	return rr, nil
}

func (r *recommendationRepository) Create(ctx context.Context, rr *domain.RecommendationRequest) error {
	query := `
		INSERT INTO recommendation_requests (id, application_id, campaign_phase_id, recommender_email, recommender_name, token_hash, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, rr.ID, rr.ApplicationID, rr.CampaignPhaseID, rr.RecommenderEmail, rr.RecommenderName, rr.TokenHash, rr.Status, time.Now()).
		Scan(&rr.CreatedAt, &rr.UpdatedAt)
	return mapError(err)
}

func (r *recommendationRepository) GetByID(ctx context.Context, id string) (*domain.RecommendationRequest, error) {
	rr, err := scanRecommendation(r.db.QueryRowContext(ctx, `SELECT `+recommendationColumns+` FROM recommendation_requests WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return rr, nil
}

func (r *recommendationRepository) GetByTokenHash(ctx context.Context, hash string) (*domain.RecommendationRequest, error) {
	rr, err := scanRecommendation(r.db.QueryRowContext(ctx, `SELECT `+recommendationColumns+` FROM recommendation_requests WHERE token_hash = $1`, hash))
	if err != nil {
		return nil, mapError(err)
	}
	return rr, nil
}

func (r *recommendationRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recommendation_requests SET status = $1, request_sent_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4`,
		domain.RecommendationSent, at, id, domain.RecommendationPending)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res, domain.ErrConflict.With("recommendation request %s is not pending", id))
}

func (r *recommendationRepository) MarkViewed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE recommendation_requests SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`,
		domain.RecommendationViewed, time.Now(), id, domain.RecommendationSent)
	return mapError(err)
}

func (r *recommendationRepository) Submit(ctx context.Context, id string, formData map[string]any, at time.Time) error {
	logger.EnterMethod("recommendationRepository.Submit", "requestID", id)

	raw, err := toJSON(formData)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE recommendation_requests SET status = $1, form_data = $2, submitted_at = $3, updated_at = $3
		WHERE id = $4 AND status <> $1`,
		domain.RecommendationSubmitted, raw, at, id)
	if err != nil {
		logger.ExitMethodWithError("recommendationRepository.Submit", err, "requestID", id)
		return mapError(err)
	}
	if err := expectOne(res, domain.ErrRecommendationAlreadySubmitted); err != nil {
		logger.ExitMethodWithError("recommendationRepository.Submit", err, "requestID", id)
		return err
	}

	logger.ExitMethod("recommendationRepository.Submit", "requestID", id)
	return nil
}

func (r *recommendationRepository) ListByPhase(ctx context.Context, applicationID, phaseID string) ([]domain.RecommendationRequest, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendation_requests
	          WHERE application_id = $1 AND campaign_phase_id = $2 ORDER BY created_at`
	return r.list(ctx, query, applicationID, phaseID)
}

func (r *recommendationRepository) ListOpen(ctx context.Context) ([]domain.RecommendationRequest, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendation_requests
	          WHERE status = ANY($1) ORDER BY created_at`
	open := []string{
		string(domain.RecommendationPending),
		string(domain.RecommendationSent),
		string(domain.RecommendationViewed),
		string(domain.RecommendationOverdue),
	}
	return r.list(ctx, query, pq.Array(open))
}

func (r *recommendationRepository) list(ctx context.Context, query string, args ...any) ([]domain.RecommendationRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.RecommendationRequest
	for rows.Next() {
		rr, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rr)
	}
	return out, rows.Err()
}

func (r *recommendationRepository) MarkOverdue(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE recommendation_requests SET status = $1, updated_at = $2
	          WHERE id = ANY($3) AND status IN ($4, $5)`
	logger.DatabaseCall("mark_overdue", query, "count", len(ids))
	res, err := r.db.ExecContext(ctx, query, domain.RecommendationOverdue, time.Now(), pq.Array(ids), domain.RecommendationSent, domain.RecommendationViewed)
	if err != nil {
		logger.DatabaseResult("mark_overdue", 0, err)
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("mark_overdue", n, err)
	return n, err
}

func (r *recommendationRepository) RevertReminder(ctx context.Context, id, rotatedHash, previousHash string, previousAt *time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recommendation_requests SET token_hash = $1, last_reminder_at = $2, updated_at = NOW()
		WHERE id = $3 AND token_hash = $4`,
		previousHash, previousAt, id, rotatedHash)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res, domain.ErrConflict.With("reminder token already replaced"))
}

func (r *recommendationRepository) RecordReminder(ctx context.Context, id, tokenHash string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recommendation_requests SET token_hash = $1, last_reminder_at = $2, updated_at = $2
		WHERE id = $3 AND status <> $4`,
		tokenHash, at, id, domain.RecommendationSubmitted)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res, domain.ErrRecommendationAlreadySubmitted)
}
