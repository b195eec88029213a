package progression

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
)

func reviewPhase(passing *float64) domain.Phase {
	return domain.Phase{
		ID: "review", PathwayTemplateID: "t", Type: phaseconfig.PhaseTypeReview,
		Config: phaseconfig.ReviewConfig{
			RubricCriteria: []phaseconfig.RubricCriterion{
				{ID: "a", Name: "A", MaxScore: 10},
				{ID: "b", Name: "B", MaxScore: 10},
			},
			PassingScore: passing,
		},
	}
}

func TestClassify_Review(t *testing.T) {
	pass := 12.0
	assignments := []domain.ReviewerAssignment{
		{ReviewerID: "r1", Status: domain.AssignmentAccepted},
		{ReviewerID: "r2", Status: domain.AssignmentAssigned},
		{ReviewerID: "r3", Status: domain.AssignmentDeclined},
	}

	t.Run("incomplete until every active reviewer submits", func(t *testing.T) {
		ev := Evidence{Assignments: assignments, Reviews: []domain.Review{
			{ReviewerID: "r1", Status: domain.ReviewSubmitted, Score: map[string]float64{"a": 8, "b": 8}},
			{ReviewerID: "r2", Status: domain.ReviewReopened, Score: map[string]float64{"a": 8, "b": 8}},
		}}
		_, err := Classify(reviewPhase(&pass), ev)
		assert.True(t, errors.Is(err, domain.ErrPhaseIncomplete))
	})

	t.Run("mean at threshold passes", func(t *testing.T) {
		ev := Evidence{Assignments: assignments, Reviews: []domain.Review{
			{ReviewerID: "r1", Status: domain.ReviewSubmitted, Score: map[string]float64{"a": 8, "b": 8}},
			{ReviewerID: "r2", Status: domain.ReviewSubmitted, Score: map[string]float64{"a": 4, "b": 4}},
		}}
		outcome, err := Classify(reviewPhase(&pass), ev)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSuccess, outcome)
	})

	t.Run("mean below threshold fails", func(t *testing.T) {
		ev := Evidence{Assignments: assignments, Reviews: []domain.Review{
			{ReviewerID: "r1", Status: domain.ReviewSubmitted, Score: map[string]float64{"a": 5, "b": 5}},
			{ReviewerID: "r2", Status: domain.ReviewSubmitted, Score: map[string]float64{"a": 5, "b": 6}},
		}}
		outcome, err := Classify(reviewPhase(&pass), ev)
		require.NoError(t, err)
		assert.Equal(t, OutcomeFailure, outcome)
	})

	t.Run("no passing score succeeds once complete", func(t *testing.T) {
		ev := Evidence{Assignments: assignments[:1], Reviews: []domain.Review{
			{ReviewerID: "r1", Status: domain.ReviewSubmitted, Score: map[string]float64{"a": 0, "b": 0}},
		}}
		outcome, err := Classify(reviewPhase(nil), ev)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSuccess, outcome)
	})

	t.Run("no reviewers", func(t *testing.T) {
		_, err := Classify(reviewPhase(nil), Evidence{})
		assert.True(t, errors.Is(err, domain.ErrPhaseIncomplete))
	})
}

func TestClassify_Decision(t *testing.T) {
	phase := domain.Phase{
		ID: "d", Type: phaseconfig.PhaseTypeDecision,
		Config: phaseconfig.DecisionConfig{
			DecisionOutcomes: []phaseconfig.DecisionOutcome{
				{ID: "y", Label: "Admit", IsFinal: true, BranchCategory: phaseconfig.BranchSuccess},
				{ID: "n", Label: "Decline", IsFinal: true, BranchCategory: phaseconfig.BranchFailure},
				{ID: "w", Label: "Waitlist"},
			},
		},
	}
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	_, err := Classify(phase, Evidence{Decisions: []domain.Decision{{Outcome: "Waitlist", CreatedAt: t0}}})
	assert.True(t, errors.Is(err, domain.ErrPhaseIncomplete), "non-final decisions carry no signal")

	outcome, err := Classify(phase, Evidence{Decisions: []domain.Decision{
		{Outcome: "Admit", IsFinal: true, CreatedAt: t0},
		{Outcome: "Decline", IsFinal: true, CreatedAt: t0.Add(time.Hour)},
		{Outcome: "Waitlist", CreatedAt: t0.Add(2 * time.Hour)},
	}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, outcome, "newest final decision wins")

	_, err = Classify(phase, Evidence{Decisions: []domain.Decision{{Outcome: "Maybe", IsFinal: true, CreatedAt: t0}}})
	assert.True(t, errors.Is(err, domain.ErrInvalidOutcome))
}

func TestClassify_Ancillary(t *testing.T) {
	rec := domain.Phase{ID: "r", Type: phaseconfig.PhaseTypeRecommendation,
		Config: phaseconfig.RecommendationConfig{NumRecommendersRequired: 2}}
	_, err := Classify(rec, Evidence{Recommendations: []domain.RecommendationRequest{
		{Status: domain.RecommendationSubmitted}, {Status: domain.RecommendationViewed},
	}})
	assert.True(t, errors.Is(err, domain.ErrPhaseIncomplete))
	outcome, err := Classify(rec, Evidence{Recommendations: []domain.RecommendationRequest{
		{Status: domain.RecommendationSubmitted}, {Status: domain.RecommendationSubmitted},
	}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)

	sched := domain.Phase{ID: "s", Type: phaseconfig.PhaseTypeScheduling,
		Config: phaseconfig.SchedulingConfig{InterviewDuration: 30, HostSelection: "h"}}
	_, err = Classify(sched, Evidence{Interviews: []domain.ScheduledInterview{{Status: domain.InterviewBooked}}})
	assert.True(t, errors.Is(err, domain.ErrPhaseIncomplete))
	outcome, err = Classify(sched, Evidence{Interviews: []domain.ScheduledInterview{{Status: domain.InterviewCompleted}}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)

	email := domain.Phase{ID: "e", Type: phaseconfig.PhaseTypeEmail, Config: phaseconfig.EmailConfig{}}
	_, err = Classify(email, Evidence{})
	assert.True(t, errors.Is(err, domain.ErrPhaseIncomplete))
	outcome, err = Classify(email, Evidence{EmailSent: true})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
}

func TestClassify_Form(t *testing.T) {
	form := domain.Phase{ID: "f", Name: "Intake", Type: phaseconfig.PhaseTypeForm,
		Config: phaseconfig.FormConfig{Fields: []phaseconfig.FormField{{Label: "Name", Type: phaseconfig.FieldText, Required: true}}}}

	_, err := Classify(form, Evidence{Data: map[string]any{}})
	require.Error(t, err)
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.ErrValidation.Code, de.Code)
	assert.Contains(t, de.Fields, "Name")

	outcome, err := Classify(form, Evidence{Data: map[string]any{"Name": "Ada"}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
}
