package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type communicationRepository struct {
	db *sql.DB
}

func NewCommunicationRepository(db *sql.DB) repository.CommunicationRepository {
	return &communicationRepository{db: db}
}

const commTemplateColumns = `id, creator_id, name, subject, body, created_at, updated_at`

func scanCommTemplate(row rowScanner) (*domain.CommunicationTemplate, error) {
	t := &domain.CommunicationTemplate{}
	if err := row.Scan(&t.ID, &t.CreatorID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *communicationRepository) CreateTemplate(ctx context.Context, t *domain.CommunicationTemplate) error {
	query := `INSERT INTO communication_templates (id, creator_id, name, subject, body, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, t.ID, t.CreatorID, t.Name, t.Subject, t.Body, time.Now()).Scan(&t.CreatedAt, &t.UpdatedAt)
	return mapError(err)
}

func (r *communicationRepository) GetTemplate(ctx context.Context, id string) (*domain.CommunicationTemplate, error) {
	t, err := scanCommTemplate(r.db.QueryRowContext(ctx, `SELECT `+commTemplateColumns+` FROM communication_templates WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *communicationRepository) ListTemplates(ctx context.Context) ([]domain.CommunicationTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+commTemplateColumns+` FROM communication_templates ORDER BY name`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.CommunicationTemplate
	for rows.Next() {
		t, err := scanCommTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *communicationRepository) UpdateTemplate(ctx context.Context, t *domain.CommunicationTemplate) error {
	query := `UPDATE communication_templates SET name = $1, subject = $2, body = $3, updated_at = $4 WHERE id = $5 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, t.Name, t.Subject, t.Body, time.Now(), t.ID).Scan(&t.UpdatedAt)
	return mapError(err)
}

func (r *communicationRepository) DeleteTemplate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM communication_templates WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res, domain.ErrNotFound)
}

func (r *communicationRepository) RecordDispatch(ctx context.Context, d *domain.EmailDispatch) error {
	query := `INSERT INTO email_dispatches (id, application_id, campaign_phase_id, recipient_email, sent_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, d.ID, d.ApplicationID, d.CampaignPhaseID, d.RecipientEmail, d.SentAt)
	return mapError(err)
}

func (r *communicationRepository) ListDispatches(ctx context.Context, applicationID, phaseID string) ([]domain.EmailDispatch, error) {
	query := `SELECT id, application_id, campaign_phase_id, recipient_email, sent_at
	          FROM email_dispatches WHERE application_id = $1 AND campaign_phase_id = $2
	          ORDER BY sent_at`
	rows, err := r.db.QueryContext(ctx, query, applicationID, phaseID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.EmailDispatch
	for rows.Next() {
		var d domain.EmailDispatch
		if err := rows.Scan(&d.ID, &d.ApplicationID, &d.CampaignPhaseID, &d.RecipientEmail, &d.SentAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
