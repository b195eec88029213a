package postgres

import (
	"context"
	"database/sql"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	p := &domain.Profile{}
	query := `SELECT id, email, COALESCE(full_name, ''), role FROM profiles WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Email, &p.FullName, &p.Role); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}
