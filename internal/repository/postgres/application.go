package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, campaign_id, applicant_id, current_campaign_phase_id, status, screening_status, data, version, submitted_at, created_at, updated_at`

func scanApplication(row rowScanner) (*domain.Application, error) {
	a := &domain.Application{}
	var (
		phase sql.NullString
		raw   []byte
	)
	if err := row.Scan(&a.ID, &a.CampaignID, &a.ApplicantID, &phase, &a.Status, &a.ScreeningStatus, &raw, &a.Version, &a.SubmittedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.CurrentCampaignPhaseID = stringPtr(phase)
	a.Data = map[string]any{}
	if err := fromJSON(raw, &a.Data); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *applicationRepository) Create(ctx context.Context, a *domain.Application) error {
	logger.EnterMethod("applicationRepository.Create", "campaignID", a.CampaignID, "applicantID", a.ApplicantID)

	raw, err := toJSON(a.Data)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO applications (id, campaign_id, applicant_id, current_campaign_phase_id, status, screening_status, data, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $8)
		RETURNING version, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query, a.ID, a.CampaignID, a.ApplicantID, nullString(a.CurrentCampaignPhaseID), a.Status, a.ScreeningStatus, raw, time.Now()).
		Scan(&a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		logger.ExitMethodWithError("applicationRepository.Create", err, "campaignID", a.CampaignID)
		return mapError(err)
	}

	logger.ExitMethod("applicationRepository.Create", "applicationID", a.ID)
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	a, err := scanApplication(r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *applicationRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE campaign_id = $1 ORDER BY created_at`, campaignID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

func (r *applicationRepository) UpdateData(ctx context.Context, id string, data map[string]any, expectedVersion int64) (int64, error) {
	raw, err := toJSON(data)
	if err != nil {
		return 0, err
	}
	var version int64
	query := `UPDATE applications SET data = $1, version = version + 1, updated_at = $2
	          WHERE id = $3 AND version = $4 RETURNING version`
	err = r.db.QueryRowContext(ctx, query, raw, time.Now(), id, expectedVersion).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, domain.ErrConflict.With("application %s changed since version %d", id, expectedVersion)
	}
	return version, mapError(err)
}

func (r *applicationRepository) Transition(ctx context.Context, a *domain.Application, expectedVersion int64, t *domain.PhaseTransition) error {
	logger.EnterMethod("applicationRepository.Transition", "applicationID", a.ID, "expectedVersion", expectedVersion)

	err := withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		now := time.Now()
		query := `
			UPDATE applications
			SET current_campaign_phase_id = $1, status = $2, submitted_at = $3, version = version + 1, updated_at = $4
			WHERE id = $5 AND version = $6
			RETURNING version, updated_at
		`
		err := tx.QueryRowContext(ctx, query, nullString(a.CurrentCampaignPhaseID), a.Status, a.SubmittedAt, now, a.ID, expectedVersion).
			Scan(&a.Version, &a.UpdatedAt)
		if err == sql.ErrNoRows {
			return domain.ErrConcurrentTransition.With("application %s is no longer at version %d", a.ID, expectedVersion)
		}
		if err != nil {
			return err
		}
		if t == nil {
			return nil
		}
		t.CreatedAt = now
		_, err = tx.ExecContext(ctx, `
			INSERT INTO application_phase_transitions (id, application_id, from_phase_id, to_phase_id, outcome, actor_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, a.ID, nullString(t.FromPhaseID), nullString(t.ToPhaseID), t.Outcome, t.ActorID, now)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("applicationRepository.Transition", err, "applicationID", a.ID)
		return mapError(err)
	}

	logger.ExitMethod("applicationRepository.Transition", "applicationID", a.ID, "version", a.Version)
	return nil
}

func (r *applicationRepository) SetScreeningStatus(ctx context.Context, id string, status domain.ScreeningStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE applications SET screening_status = $1, version = version + 1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res, domain.ErrNotFound)
}

func (r *applicationRepository) ListTransitions(ctx context.Context, applicationID string) ([]domain.PhaseTransition, error) {
	query := `SELECT id, application_id, from_phase_id, to_phase_id, outcome, actor_id, created_at
	          FROM application_phase_transitions WHERE application_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.PhaseTransition
	for rows.Next() {
		var (
			t        domain.PhaseTransition
			from, to sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.ApplicationID, &from, &to, &t.Outcome, &t.ActorID, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.FromPhaseID = stringPtr(from)
		t.ToPhaseID = stringPtr(to)
		out = append(out, t)
	}
	return out, rows.Err()
}
