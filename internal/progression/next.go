package progression

import (
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
)

// Outcome is the success/failure classification of a finished phase.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Step is the resolved move away from a phase.
type Step struct {
	From     string  `json:"from"`
	To       *string `json:"to"`
	Outcome  Outcome `json:"outcome"`
	Branched bool    `json:"branched"`
}

// Completed reports whether the step leaves the pathway.
func (s Step) Completed() bool { return s.To == nil }

// NextPhase resolves where an application on current goes after outcome. phases is
// the full phase list of current's template, in any order.
//
// Branch-capable phases with declared branches route by outcome; a nil target ends
// the pathway. Every other phase moves to the phase with the next higher
// orderIndex, or ends the pathway when current is the last one. A failure on a
// phase without a failure route leaves the application where it is.
func NextPhase(current domain.Phase, phases []domain.Phase, outcome Outcome) (Step, error) {
	byID := make(map[string]domain.Phase, len(phases))
	for _, p := range phases {
		byID[p.ID] = p
	}
	if _, ok := byID[current.ID]; !ok {
		return Step{}, domain.ErrBrokenBranchReference.With("phase %s is not part of its template", current.ID)
	}

	step := Step{From: current.ID, Outcome: outcome}

	if current.Type.IsBranchCapable() {
		if b, ok := phaseconfig.BranchingOf(current.Config); ok && b.Declared() {
			target := b.NextPhaseIDOnSuccess
			if outcome == OutcomeFailure {
				target = b.NextPhaseIDOnFailure
			}
			step.Branched = true
			if target == nil {
				return step, nil
			}
			next, ok := byID[*target]
			if !ok || next.PathwayTemplateID != current.PathwayTemplateID {
				return Step{}, domain.ErrBrokenBranchReference.With("phase %s routes %s to missing phase %s", current.ID, outcome, *target)
			}
			id := next.ID
			step.To = &id
			return step, nil
		}
	}

	if outcome == OutcomeFailure {
		return Step{}, domain.ErrPhaseIncomplete.With("phase %s failed and declares no failure route", current.ID)
	}

	var next *domain.Phase
	for i := range phases {
		p := &phases[i]
		if p.OrderIndex <= current.OrderIndex {
			continue
		}
		if next == nil || p.OrderIndex < next.OrderIndex {
			next = p
		}
	}
	if next != nil {
		id := next.ID
		step.To = &id
	}
	return step, nil
}

// FirstPhase returns the phase with the lowest orderIndex.
func FirstPhase(phases []domain.Phase) (domain.Phase, bool) {
	if len(phases) == 0 {
		return domain.Phase{}, false
	}
	first := phases[0]
	for _, p := range phases[1:] {
		if p.OrderIndex < first.OrderIndex {
			first = p
		}
	}
	return first, true
}
