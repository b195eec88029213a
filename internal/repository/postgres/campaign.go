package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type campaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) repository.CampaignRepository {
	return &campaignRepository{db: db}
}

const campaignColumns = `id, program_id, pathway_template_id, creator_id, name, COALESCE(description, ''), is_public, status, start_date, end_date, created_at, updated_at`

func scanCampaign(row rowScanner) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	var program sql.NullString
	if err := row.Scan(&c.ID, &program, &c.PathwayTemplateID, &c.CreatorID, &c.Name, &c.Description, &c.IsPublic, &c.Status, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ProgramID = stringPtr(program)
	return c, nil
}

func (r *campaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	query := `INSERT INTO campaigns (id, program_id, pathway_template_id, creator_id, name, description, is_public, status, start_date, end_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, c.ID, nullString(c.ProgramID), c.PathwayTemplateID, c.CreatorID, c.Name, c.Description, c.IsPublic, c.Status, c.StartDate, c.EndDate, time.Now()).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return mapError(err)
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *campaignRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE creator_id = $1 ORDER BY created_at DESC`, creatorID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

func (r *campaignRepository) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE campaigns SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res, domain.ErrNotFound)
}
