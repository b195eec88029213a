package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
)

func TestRecommendationRepository_Submit(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRecommendationRepository(db)
	ctx := context.Background()
	at := time.Now()

	t.Run("first submission", func(t *testing.T) {
		mock.ExpectExec("UPDATE recommendation_requests SET status = \\$1, form_data").
			WithArgs(domain.RecommendationSubmitted, sqlmock.AnyArg(), at, "rr-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Submit(ctx, "rr-1", map[string]any{"Relationship": "Advisor"}, at))
	})

	t.Run("second submission", func(t *testing.T) {
		mock.ExpectExec("UPDATE recommendation_requests SET status = \\$1, form_data").
			WithArgs(domain.RecommendationSubmitted, sqlmock.AnyArg(), at, "rr-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Submit(ctx, "rr-1", map[string]any{"Relationship": "Friend"}, at)
		assert.True(t, errors.Is(err, domain.ErrRecommendationAlreadySubmitted))
		assert.Equal(t, domain.KindAlreadyFinalized, domain.KindOf(err))
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_MarkOverdue(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRecommendationRepository(db)

	n, err := repo.MarkOverdue(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	mock.ExpectExec("UPDATE recommendation_requests SET status = \\$1").
		WithArgs(domain.RecommendationOverdue, sqlmock.AnyArg(), sqlmock.AnyArg(), domain.RecommendationSent, domain.RecommendationViewed).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err = repo.MarkOverdue(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_GetByTokenHash(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRecommendationRepository(db)
	now := time.Now()

	cols := []string{"id", "application_id", "campaign_phase_id", "recommender_email", "recommender_name", "token_hash", "status",
		"form_data", "request_sent_at", "last_reminder_at", "submitted_at", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT (.+) FROM recommendation_requests WHERE token_hash = \\$1").
		WithArgs("digest").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("rr-1", "app-1", "rec", "prof@example.org", "Prof", "digest", "sent", nil, now, nil, nil, now, now))

	rr, err := repo.GetByTokenHash(context.Background(), "digest")
	require.NoError(t, err)
	assert.Equal(t, domain.RecommendationSent, rr.Status)
	assert.Nil(t, rr.FormData)
	require.NotNil(t, rr.RequestSentAt)
}

func TestRecommendationRepository_RecordReminder(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRecommendationRepository(db)
	now := time.Now()

	mock.ExpectExec("UPDATE recommendation_requests SET token_hash = \\$1").
		WithArgs("new-digest", now, "rr-1", domain.RecommendationSubmitted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.RecordReminder(context.Background(), "rr-1", "new-digest", now))

	mock.ExpectExec("UPDATE recommendation_requests SET token_hash = \\$1").
		WithArgs("other", now, "rr-2", domain.RecommendationSubmitted).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.RecordReminder(context.Background(), "rr-2", "other", now)
	assert.ErrorIs(t, err, domain.ErrRecommendationAlreadySubmitted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_RevertReminder(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRecommendationRepository(db)
	previous := time.Now().Add(-25 * time.Hour)

	mock.ExpectExec("UPDATE recommendation_requests SET token_hash = \\$1, last_reminder_at = \\$2").
		WithArgs("live-hash", &previous, "rr-1", "rotated").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.RevertReminder(context.Background(), "rr-1", "rotated", "live-hash", &previous))

	mock.ExpectExec("UPDATE recommendation_requests SET token_hash = \\$1, last_reminder_at = \\$2").
		WithArgs("live-hash", nil, "rr-2", "rotated").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.RevertReminder(context.Background(), "rr-2", "rotated", "live-hash", nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
