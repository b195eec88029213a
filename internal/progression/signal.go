package progression

import (
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
)

// Evidence is everything recorded against an application for one phase.
type Evidence struct {
	Data            map[string]any
	Decisions       []domain.Decision
	Assignments     []domain.ReviewerAssignment
	Reviews         []domain.Review
	Recommendations []domain.RecommendationRequest
	Interviews      []domain.ScheduledInterview
	EmailSent       bool
}

// Classify turns the evidence for phase into an outcome. A phase that has not
// produced its authoritative signal yet yields ErrPhaseIncomplete.
func Classify(phase domain.Phase, ev Evidence) (Outcome, error) {
	switch cfg := phase.Config.(type) {
	case phaseconfig.FormConfig:
		if issues := phaseconfig.ValidateSubmission(cfg.Fields, ev.Data); len(issues) > 0 {
			return "", domain.ErrValidation.With("application data does not satisfy form %s", phase.Name).WithFields(issueMap(issues))
		}
		return OutcomeSuccess, nil
	case phaseconfig.ReviewConfig:
		return classifyReview(cfg, ev)
	case phaseconfig.DecisionConfig:
		return classifyDecision(cfg.DecisionOutcomes, cfg.Branching, AuthoritativeDecision(ev.Decisions))
	case phaseconfig.RecommendationConfig:
		submitted := 0
		for _, r := range ev.Recommendations {
			if r.Status == domain.RecommendationSubmitted {
				submitted++
			}
		}
		if submitted < cfg.NumRecommendersRequired {
			return "", domain.ErrPhaseIncomplete.With("%d of %d recommendations submitted", submitted, cfg.NumRecommendersRequired)
		}
		return OutcomeSuccess, nil
	case phaseconfig.SchedulingConfig:
		for _, iv := range ev.Interviews {
			if iv.Status == domain.InterviewCompleted {
				return OutcomeSuccess, nil
			}
		}
		return "", domain.ErrPhaseIncomplete.With("no completed interview")
	case phaseconfig.EmailConfig:
		if !ev.EmailSent {
			return "", domain.ErrPhaseIncomplete.With("phase email not sent")
		}
		return OutcomeSuccess, nil
	}
	return "", domain.ErrConfigValidation.With("phase %s has no usable config", phase.ID)
}

// AuthoritativeDecision returns the most recently created final decision.
func AuthoritativeDecision(decisions []domain.Decision) *domain.Decision {
	var best *domain.Decision
	for i := range decisions {
		d := &decisions[i]
		if !d.IsFinal {
			continue
		}
		if best == nil || !d.CreatedAt.Before(best.CreatedAt) {
			best = d
		}
	}
	return best
}

func classifyDecision(outcomes []phaseconfig.DecisionOutcome, b phaseconfig.Branching, d *domain.Decision) (Outcome, error) {
	if d == nil {
		return "", domain.ErrPhaseIncomplete.With("no final decision recorded")
	}
	o, ok := phaseconfig.FindOutcome(outcomes, d.Outcome)
	if !ok {
		return "", domain.ErrInvalidOutcome.With("decision outcome %q is no longer declared", d.Outcome)
	}
	switch o.BranchCategory {
	case phaseconfig.BranchSuccess:
		return OutcomeSuccess, nil
	case phaseconfig.BranchFailure:
		return OutcomeFailure, nil
	}
	if b.Declared() {
		return "", domain.ErrPhaseIncomplete.With("outcome %q has no branch category", o.Label)
	}
	return OutcomeSuccess, nil
}

func classifyReview(cfg phaseconfig.ReviewConfig, ev Evidence) (Outcome, error) {
	if len(cfg.DecisionOutcomes) > 0 {
		if d := AuthoritativeDecision(ev.Decisions); d != nil {
			return classifyDecision(cfg.DecisionOutcomes, cfg.Branching, d)
		}
	}

	submitted := make(map[string]domain.Review, len(ev.Reviews))
	for _, r := range ev.Reviews {
		if r.Status == domain.ReviewSubmitted {
			submitted[r.ReviewerID] = r
		}
	}

	var (
		active int
		total  float64
	)
	for _, a := range ev.Assignments {
		if a.Status == domain.AssignmentDeclined {
			continue
		}
		active++
		r, ok := submitted[a.ReviewerID]
		if !ok {
			return "", domain.ErrPhaseIncomplete.With("reviewer %s has not submitted", a.ReviewerID)
		}
		total += r.Total()
	}
	if active == 0 {
		return "", domain.ErrPhaseIncomplete.With("no active reviewer assignments")
	}
	if cfg.PassingScore == nil {
		return OutcomeSuccess, nil
	}
	if total/float64(active) >= *cfg.PassingScore {
		return OutcomeSuccess, nil
	}
	return OutcomeFailure, nil
}

func issueMap(issues []phaseconfig.Issue) map[string]string {
	m := make(map[string]string, len(issues))
	for _, is := range issues {
		if _, ok := m[is.Field]; !ok {
			m[is.Field] = is.Message
		}
	}
	return m
}
