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

func strPtr(s string) *string { return &s }

func fellowship() []domain.Phase {
	outcomes := []phaseconfig.DecisionOutcome{
		{ID: "accept", Label: "Accept", IsFinal: true, BranchCategory: phaseconfig.BranchSuccess},
		{ID: "reject", Label: "Reject", IsFinal: true, BranchCategory: phaseconfig.BranchFailure},
	}
	return []domain.Phase{
		{ID: "form", PathwayTemplateID: "fellowship", Type: phaseconfig.PhaseTypeForm, OrderIndex: 0,
			Config: phaseconfig.FormConfig{Fields: []phaseconfig.FormField{{Label: "Name", Type: phaseconfig.FieldText, Required: true}}}},
		{ID: "review", PathwayTemplateID: "fellowship", Type: phaseconfig.PhaseTypeReview, OrderIndex: 1,
			Config: phaseconfig.ReviewConfig{
				RubricCriteria:   []phaseconfig.RubricCriterion{{ID: "fit", Name: "Fit", MaxScore: 10}},
				DecisionOutcomes: outcomes,
				Branching:        phaseconfig.Branching{NextPhaseIDOnSuccess: strPtr("decision")},
			}},
		{ID: "decision", PathwayTemplateID: "fellowship", Type: phaseconfig.PhaseTypeDecision, OrderIndex: 3,
			Config: phaseconfig.DecisionConfig{DecisionOutcomes: outcomes}},
	}
}

func phaseByID(phases []domain.Phase, id string) domain.Phase {
	for _, p := range phases {
		if p.ID == id {
			return p
		}
	}
	panic("no phase " + id)
}

func TestFellowshipScenario(t *testing.T) {
	phases := fellowship()
	review := phaseByID(phases, "review")
	now := time.Now()

	t.Run("accept routes to decision", func(t *testing.T) {
		ev := Evidence{Decisions: []domain.Decision{{Outcome: "Accept", IsFinal: true, CreatedAt: now}}}
		outcome, err := Classify(review, ev)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSuccess, outcome)

		step, err := NextPhase(review, phases, outcome)
		require.NoError(t, err)
		require.NotNil(t, step.To)
		assert.Equal(t, "decision", *step.To)
		assert.True(t, step.Branched)
	})

	t.Run("reject ends the pathway", func(t *testing.T) {
		ev := Evidence{Decisions: []domain.Decision{{Outcome: "Reject", IsFinal: true, CreatedAt: now}}}
		outcome, err := Classify(review, ev)
		require.NoError(t, err)
		assert.Equal(t, OutcomeFailure, outcome)

		step, err := NextPhase(review, phases, outcome)
		require.NoError(t, err)
		assert.Nil(t, step.To)
		assert.True(t, step.Completed())
	})
}

func TestNextPhase_Linear(t *testing.T) {
	phases := fellowship()

	step, err := NextPhase(phaseByID(phases, "form"), phases, OutcomeSuccess)
	require.NoError(t, err)
	require.NotNil(t, step.To)
	assert.Equal(t, "review", *step.To)
	assert.False(t, step.Branched)

	// skips the gap left at orderIndex 2
	noBranch := phaseByID(phases, "review")
	noBranch.Config = phaseconfig.WithBranching(noBranch.Config, phaseconfig.Branching{})
	phases[1] = noBranch
	step, err = NextPhase(noBranch, phases, OutcomeSuccess)
	require.NoError(t, err)
	require.NotNil(t, step.To)
	assert.Equal(t, "decision", *step.To)

	step, err = NextPhase(phaseByID(phases, "decision"), phases, OutcomeSuccess)
	require.NoError(t, err)
	assert.True(t, step.Completed())
}

func TestNextPhase_FailureWithoutRoute(t *testing.T) {
	phases := fellowship()
	_, err := NextPhase(phaseByID(phases, "form"), phases, OutcomeFailure)
	assert.True(t, errors.Is(err, domain.ErrPhaseIncomplete))
}

func TestNextPhase_BrokenBranch(t *testing.T) {
	phases := fellowship()
	review := phaseByID(phases, "review")
	review.Config = phaseconfig.WithBranching(review.Config, phaseconfig.Branching{NextPhaseIDOnSuccess: strPtr("gone")})

	_, err := NextPhase(review, phases, OutcomeSuccess)
	assert.True(t, errors.Is(err, domain.ErrBrokenBranchReference))

	stranger := domain.Phase{ID: "elsewhere", PathwayTemplateID: "other", Type: phaseconfig.PhaseTypeForm}
	_, err = NextPhase(stranger, phases, OutcomeSuccess)
	assert.True(t, errors.Is(err, domain.ErrBrokenBranchReference))
}

func TestNextPhase_Deterministic(t *testing.T) {
	phases := fellowship()
	review := phaseByID(phases, "review")
	first, err := NextPhase(review, phases, OutcomeSuccess)
	require.NoError(t, err)

	reversed := []domain.Phase{phases[2], phases[1], phases[0]}
	for i := 0; i < 5; i++ {
		again, err := NextPhase(review, reversed, OutcomeSuccess)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFirstPhase(t *testing.T) {
	_, ok := FirstPhase(nil)
	assert.False(t, ok)

	phases := fellowship()
	first, ok := FirstPhase([]domain.Phase{phases[2], phases[0], phases[1]})
	require.True(t, ok)
	assert.Equal(t, "form", first.ID)
}
