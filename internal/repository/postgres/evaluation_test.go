package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
)

func TestAssignmentRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()
	now := time.Now()

	a := &domain.ReviewerAssignment{ID: "as-1", ApplicationID: "app-1", ReviewerID: "r1", CampaignPhaseID: "review", Status: domain.AssignmentAssigned, AssignedBy: "coord"}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO reviewer_assignments").
			WithArgs("as-1", "app-1", "r1", "review", domain.AssignmentAssigned, "coord", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, repo.Create(ctx, a))
	})

	t.Run("second assignment for the same tuple", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO reviewer_assignments").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "reviewer_assignments_unique"})

		err := repo.Create(ctx, a)
		assert.True(t, errors.Is(err, domain.ErrDuplicateAssignment))
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	rv := &domain.Review{ID: "rv-1", Score: map[string]float64{"fit": 7}, Status: domain.ReviewPending}

	t.Run("guarded on prior status", func(t *testing.T) {
		mock.ExpectQuery("UPDATE reviews SET score").
			WithArgs(sqlmock.AnyArg(), "", domain.ReviewPending, sqlmock.AnyArg(), "rv-1", domain.ReviewSubmitted).
			WillReturnError(sql.ErrNoRows)

		err := repo.Update(ctx, rv, domain.ReviewSubmitted)
		assert.True(t, errors.Is(err, domain.ErrInvalidStatusTransition))
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecisionRepository_ListByPhase(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDecisionRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM decisions WHERE application_id = \\$1 AND campaign_phase_id = \\$2").
		WithArgs("app-1", "decision").
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "campaign_phase_id", "decider_id", "outcome", "notes", "is_final", "created_at"}).
			AddRow("d1", "app-1", "decision", "coord", "Waitlist", "", false, now).
			AddRow("d2", "app-1", "decision", "coord", "Admit", "strong", true, now.Add(time.Minute)))

	out, err := repo.ListByPhase(context.Background(), "app-1", "decision")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[1].IsFinal)
	assert.Equal(t, "Admit", out[1].Outcome)
}

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil))
	assert.True(t, errors.Is(mapError(sql.ErrNoRows), domain.ErrNotFound))
	assert.True(t, errors.Is(mapError(&pq.Error{Code: "40001"}), domain.ErrConflict))
	assert.True(t, errors.Is(mapError(&pq.Error{Code: "23P01"}), domain.ErrConflict))
	assert.True(t, errors.Is(mapError(&pq.Error{Code: "23503"}), domain.ErrConflict))

	plain := errors.New("boom")
	assert.Equal(t, plain, mapError(plain))
	assert.Equal(t, domain.ErrPhaseInUse, mapError(domain.ErrPhaseInUse))
}
