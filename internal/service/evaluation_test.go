package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

func newEvaluationService(w *world) service.EvaluationService {
	return service.NewEvaluationService(w.apps, w.campaigns, w.pathways, w.assignments, w.reviews, w.decisions, w.profiles)
}

func TestEvaluationService_CreateAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		w := newWorld()
		w.assignments.On("Create", ctx, mock.AnythingOfType("*domain.ReviewerAssignment")).Return(nil)

		a, err := newEvaluationService(w).CreateAssignment(ctx, coordinator, "app-1", "p-review", reviewer.UserID)
		require.NoError(t, err)
		assert.Equal(t, domain.AssignmentAssigned, a.Status)
		assert.Equal(t, coordinator.UserID, a.AssignedBy)
	})

	t.Run("Duplicate", func(t *testing.T) {
		w := newWorld()
		w.assignments.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateAssignment.With("reviewer %s", reviewer.UserID))

		_, err := newEvaluationService(w).CreateAssignment(ctx, coordinator, "app-1", "p-review", reviewer.UserID)
		assert.ErrorIs(t, err, domain.ErrDuplicateAssignment)
	})

	t.Run("Not a review phase", func(t *testing.T) {
		w := newWorld()
		_, err := newEvaluationService(w).CreateAssignment(ctx, coordinator, "app-1", "p-decision", reviewer.UserID)
		assert.ErrorIs(t, err, domain.ErrValidation)
		w.assignments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Assignee cannot review", func(t *testing.T) {
		w := newWorld()
		_, err := newEvaluationService(w).CreateAssignment(ctx, coordinator, "app-1", "p-review", applicant.UserID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Not the campaign manager", func(t *testing.T) {
		w := newWorld()
		other := domain.Actor{UserID: "coord-2", Role: domain.RoleCoordinator}
		_, err := newEvaluationService(w).CreateAssignment(ctx, other, "app-1", "p-review", reviewer.UserID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestEvaluationService_RespondToAssignment(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	w.assignments.On("GetByID", ctx, "as-1").Return(&domain.ReviewerAssignment{
		ID: "as-1", ReviewerID: reviewer.UserID, ApplicationID: "app-1", CampaignPhaseID: "p-review", Status: domain.AssignmentAssigned,
	}, nil)
	w.assignments.On("UpdateStatus", ctx, "as-1", domain.AssignmentAccepted).Return(nil)
	svc := newEvaluationService(w)

	_, err := svc.RespondToAssignment(ctx, domain.Actor{UserID: "rev-2", Role: domain.RoleReviewer}, "as-1", domain.AssignmentAccepted)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	a, err := svc.RespondToAssignment(ctx, reviewer, "as-1", domain.AssignmentAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentAccepted, a.Status)
}

func TestEvaluationService_SaveReview_ScoreBounds(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		score   map[string]float64
		wantErr *domain.Error
	}{
		{"Zero", map[string]float64{"impact": 0}, nil},
		{"Exactly max", map[string]float64{"impact": 10, "fit": 5}, nil},
		{"Above max", map[string]float64{"impact": 10.5}, domain.ErrScoreOutOfRange},
		{"Negative", map[string]float64{"fit": -1}, domain.ErrScoreOutOfRange},
		{"Unknown criterion", map[string]float64{"charisma": 3}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			w.assignments.On("Find", ctx, reviewer.UserID, "app-1", "p-review").
				Return(&domain.ReviewerAssignment{ID: "as-1", Status: domain.AssignmentAccepted}, nil)
			w.reviews.On("Find", ctx, reviewer.UserID, "app-1", "p-review").Return(nil, domain.ErrNotFound)
			w.reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)

			r, err := newEvaluationService(w).SaveReview(ctx, reviewer, service.ReviewInput{
				ApplicationID: "app-1",
				PhaseID:       "p-review",
				Score:         tt.score,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				w.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ReviewPending, r.Status)
			assert.Equal(t, tt.score, r.Score)
		})
	}
}

func TestEvaluationService_SaveReview_Guards(t *testing.T) {
	ctx := context.Background()
	in := service.ReviewInput{ApplicationID: "app-1", PhaseID: "p-review", Score: map[string]float64{"impact": 7}}

	t.Run("Submitted review is frozen", func(t *testing.T) {
		w := newWorld()
		w.assignments.On("Find", ctx, reviewer.UserID, "app-1", "p-review").
			Return(&domain.ReviewerAssignment{ID: "as-1", Status: domain.AssignmentAccepted}, nil)
		w.reviews.On("Find", ctx, reviewer.UserID, "app-1", "p-review").
			Return(&domain.Review{ID: "r-1", ReviewerID: reviewer.UserID, Status: domain.ReviewSubmitted}, nil)

		_, err := newEvaluationService(w).SaveReview(ctx, reviewer, in)
		assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
		w.reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Reopened review is editable", func(t *testing.T) {
		w := newWorld()
		w.assignments.On("Find", ctx, reviewer.UserID, "app-1", "p-review").
			Return(&domain.ReviewerAssignment{ID: "as-1", Status: domain.AssignmentCompleted}, nil)
		w.reviews.On("Find", ctx, reviewer.UserID, "app-1", "p-review").
			Return(&domain.Review{ID: "r-1", ReviewerID: reviewer.UserID, Status: domain.ReviewReopened}, nil)
		w.reviews.On("Update", ctx, mock.AnythingOfType("*domain.Review"), domain.ReviewReopened).Return(nil)

		r, err := newEvaluationService(w).SaveReview(ctx, reviewer, in)
		require.NoError(t, err)
		assert.Equal(t, 7.0, r.Score["impact"])
	})

	t.Run("Declined assignment", func(t *testing.T) {
		w := newWorld()
		w.assignments.On("Find", ctx, reviewer.UserID, "app-1", "p-review").
			Return(&domain.ReviewerAssignment{ID: "as-1", Status: domain.AssignmentDeclined}, nil)

		_, err := newEvaluationService(w).SaveReview(ctx, reviewer, in)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Other reviewer's review", func(t *testing.T) {
		w := newWorld()
		_, err := newEvaluationService(w).SaveReview(ctx, reviewer, service.ReviewInput{
			ApplicationID: "app-1", PhaseID: "p-review", ReviewerID: "rev-2", Score: map[string]float64{"impact": 1},
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Admin writes without assignment", func(t *testing.T) {
		w := newWorld()
		w.assignments.On("Find", ctx, admin.UserID, "app-1", "p-review").Return(nil, domain.ErrNotFound)
		w.reviews.On("Find", ctx, admin.UserID, "app-1", "p-review").Return(nil, domain.ErrNotFound)
		w.reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)

		r, err := newEvaluationService(w).SaveReview(ctx, admin, in)
		require.NoError(t, err)
		assert.Equal(t, admin.UserID, r.ReviewerID)
	})
}

func TestEvaluationService_SetReviewStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Submit requires every criterion", func(t *testing.T) {
		w := newWorld()
		w.reviews.On("GetByID", ctx, "r-1").Return(&domain.Review{
			ID: "r-1", ReviewerID: reviewer.UserID, ApplicationID: "app-1", CampaignPhaseID: "p-review",
			Score: map[string]float64{"impact": 8}, Status: domain.ReviewPending,
		}, nil)

		_, err := newEvaluationService(w).SetReviewStatus(ctx, reviewer, "r-1", domain.ReviewSubmitted)
		require.ErrorIs(t, err, domain.ErrValidation)
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Contains(t, de.Fields, "score.fit")
	})

	t.Run("Submit completes the assignment", func(t *testing.T) {
		w := newWorld()
		w.reviews.On("GetByID", ctx, "r-1").Return(&domain.Review{
			ID: "r-1", ReviewerID: reviewer.UserID, ApplicationID: "app-1", CampaignPhaseID: "p-review",
			Score: map[string]float64{"impact": 8, "fit": 4}, Status: domain.ReviewPending,
		}, nil)
		w.reviews.On("Update", ctx, mock.AnythingOfType("*domain.Review"), domain.ReviewPending).Return(nil)
		w.assignments.On("Find", ctx, reviewer.UserID, "app-1", "p-review").
			Return(&domain.ReviewerAssignment{ID: "as-1", Status: domain.AssignmentAccepted}, nil)
		w.assignments.On("UpdateStatus", ctx, "as-1", domain.AssignmentCompleted).Return(nil)

		r, err := newEvaluationService(w).SetReviewStatus(ctx, reviewer, "r-1", domain.ReviewSubmitted)
		require.NoError(t, err)
		assert.Equal(t, domain.ReviewSubmitted, r.Status)
		w.assignments.AssertExpectations(t)
	})

	t.Run("Reopen then resubmit", func(t *testing.T) {
		w := newWorld()
		w.reviews.On("GetByID", ctx, "r-1").Return(&domain.Review{
			ID: "r-1", ReviewerID: reviewer.UserID, ApplicationID: "app-1", CampaignPhaseID: "p-review",
			Score: map[string]float64{"impact": 8, "fit": 4}, Status: domain.ReviewSubmitted,
		}, nil)
		w.reviews.On("Update", ctx, mock.AnythingOfType("*domain.Review"), domain.ReviewSubmitted).Return(nil)

		r, err := newEvaluationService(w).SetReviewStatus(ctx, reviewer, "r-1", domain.ReviewReopened)
		require.NoError(t, err)
		assert.Equal(t, domain.ReviewReopened, r.Status)
	})

	t.Run("No way back to pending", func(t *testing.T) {
		w := newWorld()
		w.reviews.On("GetByID", ctx, "r-1").Return(&domain.Review{
			ID: "r-1", ReviewerID: reviewer.UserID, Status: domain.ReviewSubmitted,
		}, nil)

		_, err := newEvaluationService(w).SetReviewStatus(ctx, reviewer, "r-1", domain.ReviewPending)
		assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
		w.reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEvaluationService_ListReviews_OwnOnly(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	w.reviews.On("ListByPhase", ctx, "app-1", "p-review").Return([]domain.Review{
		{ID: "r-1", ReviewerID: reviewer.UserID},
		{ID: "r-2", ReviewerID: "rev-2"},
	}, nil)
	svc := newEvaluationService(w)

	own, err := svc.ListReviews(ctx, reviewer, "app-1", "p-review")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "r-1", own[0].ID)

	all, err := svc.ListReviews(ctx, coordinator, "app-1", "p-review")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEvaluationService_CreateDecision(t *testing.T) {
	ctx := context.Background()

	t.Run("Undeclared outcome", func(t *testing.T) {
		w := newWorld()
		_, err := newEvaluationService(w).CreateDecision(ctx, coordinator, service.DecisionInput{
			ApplicationID: "app-1", PhaseID: "p-decision", Outcome: "Maybe",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidOutcome)
		w.decisions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Phase without outcomes", func(t *testing.T) {
		w := newWorld()
		_, err := newEvaluationService(w).CreateDecision(ctx, coordinator, service.DecisionInput{
			ApplicationID: "app-1", PhaseID: "p-form", Outcome: "Admit",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidOutcome)
	})

	t.Run("Final outcome is final", func(t *testing.T) {
		w := newWorld()
		w.decisions.On("Create", ctx, mock.AnythingOfType("*domain.Decision")).Return(nil)

		d, err := newEvaluationService(w).CreateDecision(ctx, coordinator, service.DecisionInput{
			ApplicationID: "app-1", PhaseID: "p-decision", Outcome: "Admit", Notes: "strong",
		})
		require.NoError(t, err)
		assert.True(t, d.IsFinal)
		assert.Equal(t, "Admit", d.Outcome)
		assert.Equal(t, coordinator.UserID, d.DeciderID)
	})

	t.Run("Applicant cannot decide", func(t *testing.T) {
		w := newWorld()
		_, err := newEvaluationService(w).CreateDecision(ctx, applicant, service.DecisionInput{
			ApplicationID: "app-1", PhaseID: "p-decision", Outcome: "Admit",
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
