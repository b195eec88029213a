package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.PathwayRepository
	repository.CampaignRepository
	repository.ApplicationRepository
	repository.ProfileRepository
	repository.AssignmentRepository
	repository.ReviewRepository
	repository.DecisionRepository
	repository.RecommendationRepository
	repository.SchedulingRepository
	repository.CommunicationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                       db,
		PathwayRepository:        NewPathwayRepository(db),
		CampaignRepository:       NewCampaignRepository(db),
		ApplicationRepository:    NewApplicationRepository(db),
		ProfileRepository:        NewProfileRepository(db),
		AssignmentRepository:     NewAssignmentRepository(db),
		ReviewRepository:         NewReviewRepository(db),
		DecisionRepository:       NewDecisionRepository(db),
		RecommendationRepository: NewRecommendationRepository(db),
		SchedulingRepository:     NewSchedulingRepository(db),
		CommunicationRepository:  NewCommunicationRepository(db),
	}
}

// PostgreSQL error codes translated into domain conflicts.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeExclusionViolation   = "23P01"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// mapError converts driver errors into domain errors. Unknown errors pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if de, ok := constraintErrors[pqErr.Constraint]; ok {
			return de
		}
		switch pqErr.Code {
		case codeUniqueViolation, codeExclusionViolation:
			return domain.ErrConflict.With("%s", pqErr.Message)
		case codeForeignKeyViolation:
			return domain.ErrConflict.With("referenced by other records: %s", pqErr.Constraint)
		case codeSerializationFailure, codeDeadlockDetected:
			return domain.ErrConflict.With("concurrent write, retry the request")
		}
	}
	return err
}

// constraintErrors names the constraints whose violation has a specific domain error.
var constraintErrors = map[string]*domain.Error{
	"scheduled_interviews_host_overlap":      domain.ErrHostUnavailable,
	"scheduled_interviews_applicant_overlap": domain.ErrApplicantDoubleBooked,
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && (pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation
}

// withTx runs fn inside a transaction. fn's error, or a commit failure, rolls the
// transaction back.
func withTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// expectOne turns a zero-row update into err.
func expectOne(res sql.Result, err error) error {
	n, rerr := res.RowsAffected()
	if rerr != nil {
		return rerr
	}
	if n == 0 {
		return err
	}
	return nil
}

func toJSON(v any) ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb column: %w", err)
	}
	return raw, nil
}

func fromJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode jsonb column: %w", err)
	}
	return nil
}

// nullString maps "" to NULL for optional text references.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
