package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type pathwayRepository struct {
	db *sql.DB
}

func NewPathwayRepository(db *sql.DB) repository.PathwayRepository {
	return &pathwayRepository{db: db}
}

const templateColumns = `id, creator_id, name, COALESCE(description, ''), is_private, created_at, updated_at`

const phaseColumns = `id, pathway_template_id, name, type, COALESCE(description, ''), order_index, config, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*domain.PathwayTemplate, error) {
	t := &domain.PathwayTemplate{}
	if err := row.Scan(&t.ID, &t.CreatorID, &t.Name, &t.Description, &t.IsPrivate, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func scanPhase(row rowScanner) (*domain.Phase, error) {
	p := &domain.Phase{}
	var (
		typ string
		raw []byte
	)
	if err := row.Scan(&p.ID, &p.PathwayTemplateID, &p.Name, &typ, &p.Description, &p.OrderIndex, &raw, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Type = phaseconfig.PhaseType(typ)
	cfg, err := phaseconfig.Decode(p.Type, raw)
	if err != nil {
		return nil, fmt.Errorf("phase %s: stored config: %w", p.ID, err)
	}
	p.Config = cfg
	return p, nil
}

func (r *pathwayRepository) CreateTemplate(ctx context.Context, t *domain.PathwayTemplate) error {
	logger.EnterMethod("pathwayRepository.CreateTemplate", "templateID", t.ID, "creatorID", t.CreatorID)

	err := insertTemplate(ctx, r.db, t)
	if err != nil {
		logger.ExitMethodWithError("pathwayRepository.CreateTemplate", err, "templateID", t.ID)
		return mapError(err)
	}

	logger.ExitMethod("pathwayRepository.CreateTemplate", "templateID", t.ID)
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertTemplate(ctx context.Context, q queryRower, t *domain.PathwayTemplate) error {
	query := `
		INSERT INTO pathway_templates (id, creator_id, name, description, is_private, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING created_at, updated_at
	`
	return q.QueryRowContext(ctx, query, t.ID, t.CreatorID, t.Name, t.Description, t.IsPrivate, time.Now()).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *pathwayRepository) CreateTemplateWithPhases(ctx context.Context, t *domain.PathwayTemplate, phases []domain.Phase) error {
	logger.EnterMethod("pathwayRepository.CreateTemplateWithPhases", "templateID", t.ID, "phases", len(phases))

	err := withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		if err := insertTemplate(ctx, tx, t); err != nil {
			return err
		}
		query := `
			INSERT INTO phases (id, pathway_template_id, name, type, description, order_index, config, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING created_at, updated_at
		`
		for i := range phases {
			p := &phases[i]
			raw, err := phaseconfig.Encode(p.Config)
			if err != nil {
				return err
			}
			if err := tx.QueryRowContext(ctx, query, p.ID, t.ID, p.Name, string(p.Type), p.Description, p.OrderIndex, raw, t.CreatedAt).
				Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("pathwayRepository.CreateTemplateWithPhases", err, "templateID", t.ID)
		return mapError(err)
	}

	logger.ExitMethod("pathwayRepository.CreateTemplateWithPhases", "templateID", t.ID)
	return nil
}

func (r *pathwayRepository) GetTemplate(ctx context.Context, id string) (*domain.PathwayTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM pathway_templates WHERE id = $1`
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *pathwayRepository) ListTemplates(ctx context.Context, viewerID string, includePrivate bool) ([]domain.PathwayTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM pathway_templates
	          WHERE is_private = false OR creator_id = $1 OR $2
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, viewerID, includePrivate)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var templates []domain.PathwayTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (r *pathwayRepository) UpdateTemplate(ctx context.Context, t *domain.PathwayTemplate) error {
	query := `UPDATE pathway_templates SET name = $1, description = $2, is_private = $3, updated_at = $4
	          WHERE id = $5 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, t.Name, t.Description, t.IsPrivate, time.Now(), t.ID).Scan(&t.UpdatedAt)
	return mapError(err)
}

func (r *pathwayRepository) DeleteTemplate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pathway_templates WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res, domain.ErrNotFound)
}

func (r *pathwayRepository) CreatePhase(ctx context.Context, p *domain.Phase) error {
	logger.EnterMethod("pathwayRepository.CreatePhase", "templateID", p.PathwayTemplateID, "type", p.Type)

	raw, err := phaseconfig.Encode(p.Config)
	if err != nil {
		return err
	}
	err = withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		var locked string
		if err := tx.QueryRowContext(ctx, `SELECT id FROM pathway_templates WHERE id = $1 FOR UPDATE`, p.PathwayTemplateID).Scan(&locked); err != nil {
			return err
		}
		query := `
			INSERT INTO phases (id, pathway_template_id, name, type, description, order_index, config, created_at, updated_at)
			SELECT $1, $2, $3, $4, $5, COALESCE(MAX(order_index) + 1, 0), $6, $7, $7
			FROM phases WHERE pathway_template_id = $2
			RETURNING order_index, created_at, updated_at
		`
		return tx.QueryRowContext(ctx, query, p.ID, p.PathwayTemplateID, p.Name, string(p.Type), p.Description, raw, time.Now()).
			Scan(&p.OrderIndex, &p.CreatedAt, &p.UpdatedAt)
	})
	if err != nil {
		logger.ExitMethodWithError("pathwayRepository.CreatePhase", err, "templateID", p.PathwayTemplateID)
		return mapError(err)
	}

	logger.ExitMethod("pathwayRepository.CreatePhase", "phaseID", p.ID, "orderIndex", p.OrderIndex)
	return nil
}

func (r *pathwayRepository) GetPhase(ctx context.Context, id string) (*domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE id = $1`
	p, err := scanPhase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *pathwayRepository) ListPhases(ctx context.Context, templateID string) ([]domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE pathway_template_id = $1 ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var phases []domain.Phase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		phases = append(phases, *p)
	}
	return phases, rows.Err()
}

func (r *pathwayRepository) UpdatePhase(ctx context.Context, p *domain.Phase) error {
	raw, err := phaseconfig.Encode(p.Config)
	if err != nil {
		return err
	}
	query := `UPDATE phases SET name = $1, description = $2, config = $3, updated_at = $4
	          WHERE id = $5 AND pathway_template_id = $6 RETURNING updated_at`
	err = r.db.QueryRowContext(ctx, query, p.Name, p.Description, raw, time.Now(), p.ID, p.PathwayTemplateID).Scan(&p.UpdatedAt)
	return mapError(err)
}

func (r *pathwayRepository) DeletePhase(ctx context.Context, templateID, phaseID string) error {
	logger.EnterMethod("pathwayRepository.DeletePhase", "templateID", templateID, "phaseID", phaseID)

	err := withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		var occupied int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM applications WHERE current_campaign_phase_id = $1`, phaseID).Scan(&occupied); err != nil {
			return err
		}
		if occupied > 0 {
			return domain.ErrPhaseInUse.With("%d applications are on phase %s", occupied, phaseID)
		}

		rows, err := tx.QueryContext(ctx, `SELECT `+phaseColumns+` FROM phases WHERE pathway_template_id = $1 AND id <> $2 FOR UPDATE`, templateID, phaseID)
		if err != nil {
			return err
		}
		var patched []domain.Phase
		for rows.Next() {
			p, err := scanPhase(rows)
			if err != nil {
				rows.Close()
				return err
			}
			if cfg, changed := phaseconfig.ClearBranchTarget(p.Config, phaseID); changed {
				p.Config = cfg
				patched = append(patched, *p)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		now := time.Now()
		for _, p := range patched {
			raw, err := phaseconfig.Encode(p.Config)
			if err != nil {
				return err
			}
			logger.DatabaseCall("clear_branch_target", "UPDATE phases SET config", "phaseID", p.ID)
			if _, err := tx.ExecContext(ctx, `UPDATE phases SET config = $1, updated_at = $2 WHERE id = $3`, raw, now, p.ID); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM phases WHERE id = $1 AND pathway_template_id = $2`, phaseID, templateID)
		if err != nil {
			return err
		}
		return expectOne(res, domain.ErrNotFound)
	})
	if err != nil {
		logger.ExitMethodWithError("pathwayRepository.DeletePhase", err, "phaseID", phaseID)
		return mapError(err)
	}

	logger.ExitMethod("pathwayRepository.DeletePhase", "phaseID", phaseID)
	return nil
}

func (r *pathwayRepository) ReorderPhases(ctx context.Context, templateID string, order []domain.PhaseOrder) error {
	logger.EnterMethod("pathwayRepository.ReorderPhases", "templateID", templateID, "phases", len(order))

	err := withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM phases WHERE pathway_template_id = $1 FOR UPDATE`, templateID)
		if err != nil {
			return err
		}
		var existing []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			existing = append(existing, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if err := checkPermutation(existing, order); err != nil {
			return err
		}

		ids := make([]string, len(order))
		indices := make([]int64, len(order))
		for i, o := range order {
			ids[i] = o.ID
			indices[i] = int64(o.OrderIndex)
		}
		query := `
			UPDATE phases AS p SET order_index = v.idx, updated_at = $4
			FROM unnest($2::uuid[], $3::int[]) AS v(id, idx)
			WHERE p.id = v.id AND p.pathway_template_id = $1
		`
		logger.DatabaseCall("reorder_phases", query, "templateID", templateID)
		res, err := tx.ExecContext(ctx, query, templateID, pq.Array(ids), pq.Array(indices), time.Now())
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		logger.DatabaseResult("reorder_phases", n, err, "templateID", templateID)
		if err != nil {
			return err
		}
		if int(n) != len(order) {
			return domain.ErrInvalidReorder.With("updated %d of %d phases", n, len(order))
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("pathwayRepository.ReorderPhases", err, "templateID", templateID)
		return mapError(err)
	}

	logger.ExitMethod("pathwayRepository.ReorderPhases", "templateID", templateID)
	return nil
}

// checkPermutation accepts order only when it names every existing phase exactly
// once and its indices are exactly 0..N-1.
func checkPermutation(existing []string, order []domain.PhaseOrder) error {
	if len(order) != len(existing) {
		return domain.ErrInvalidReorder.With("got %d phases, template has %d", len(order), len(existing))
	}
	known := make(map[string]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	seenID := make(map[string]bool, len(order))
	seenIdx := make([]bool, len(order))
	for _, o := range order {
		if !known[o.ID] {
			return domain.ErrInvalidReorder.With("phase %s is not part of the template", o.ID)
		}
		if seenID[o.ID] {
			return domain.ErrInvalidReorder.With("phase %s listed twice", o.ID)
		}
		seenID[o.ID] = true
		if o.OrderIndex < 0 || o.OrderIndex >= len(order) || seenIdx[o.OrderIndex] {
			return domain.ErrInvalidReorder.With("orderIndex %d is out of range or repeated", o.OrderIndex)
		}
		seenIdx[o.OrderIndex] = true
	}
	return nil
}
