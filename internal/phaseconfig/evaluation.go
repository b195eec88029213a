package phaseconfig

import "fmt"

// RubricCriterion is one scored dimension of a Review phase.
type RubricCriterion struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MaxScore    float64 `json:"maxScore"`
	Description string  `json:"description,omitempty"`
}

// ReviewConfig is the payload of a Review phase.
//
// PassingScore, when set, classifies a completed review round: the mean of the
// reviewers' total scores must reach it for the success branch. DecisionOutcomes lets
// coordinators record an authoritative verdict directly on the review phase; such a
// decision takes precedence over the score.
type ReviewConfig struct {
	RubricCriteria   []RubricCriterion `json:"rubricCriteria"`
	AllowComments    bool              `json:"allowComments"`
	PassingScore     *float64          `json:"passingScore,omitempty"`
	DecisionOutcomes []DecisionOutcome `json:"decisionOutcomes,omitempty"`
	Branching
}

func (ReviewConfig) PhaseType() PhaseType { return PhaseTypeReview }

func (c ReviewConfig) validate(v *validator) {
	if len(c.RubricCriteria) == 0 {
		v.add("rubricCriteria", "at least one criterion is required")
	}
	ids := make(map[string]bool, len(c.RubricCriteria))
	var total float64
	for i, rc := range c.RubricCriteria {
		p := fmt.Sprintf("rubricCriteria[%d]", i)
		v.required(p+".id", rc.ID)
		v.required(p+".name", rc.Name)
		if rc.ID != "" {
			if ids[rc.ID] {
				v.add(p+".id", "duplicate criterion id %q", rc.ID)
			}
			ids[rc.ID] = true
		}
		if rc.MaxScore <= 0 {
			v.add(p+".maxScore", "must be greater than 0")
		}
		total += rc.MaxScore
	}
	if c.PassingScore != nil && (*c.PassingScore < 0 || *c.PassingScore > total) {
		v.add("passingScore", "must be between 0 and %g", total)
	}
	if len(c.DecisionOutcomes) > 0 {
		validateOutcomes(v, c.DecisionOutcomes, c.Branching.Declared())
	}
	v.branching(c.Branching)
}

// MaxScore returns the maximum score of the criterion with the given id.
func (c ReviewConfig) MaxScore(criterionID string) (float64, bool) {
	for _, rc := range c.RubricCriteria {
		if rc.ID == criterionID {
			return rc.MaxScore, true
		}
	}
	return 0, false
}

// DecisionOutcome is one selectable verdict. BranchCategory decides which branch a
// final decision with this label follows.
type DecisionOutcome struct {
	ID             string         `json:"id"`
	Label          string         `json:"label"`
	IsFinal        bool           `json:"isFinal"`
	BranchCategory BranchCategory `json:"branchCategory,omitempty"`
}

// DecisionConfig is the payload of a Decision phase.
type DecisionConfig struct {
	DecisionOutcomes        []DecisionOutcome `json:"decisionOutcomes"`
	AssociatedEmailTemplate string            `json:"associatedEmailTemplate,omitempty"`
	AutomatedNextStep       string            `json:"automatedNextStep,omitempty"`
	Branching
}

func (DecisionConfig) PhaseType() PhaseType { return PhaseTypeDecision }

func (c DecisionConfig) validate(v *validator) {
	if len(c.DecisionOutcomes) == 0 {
		v.add("decisionOutcomes", "at least one outcome is required")
	}
	validateOutcomes(v, c.DecisionOutcomes, c.Branching.Declared())
	v.branching(c.Branching)
}

func validateOutcomes(v *validator, outcomes []DecisionOutcome, branched bool) {
	ids := make(map[string]bool, len(outcomes))
	labels := make(map[string]bool, len(outcomes))
	for i, o := range outcomes {
		p := fmt.Sprintf("decisionOutcomes[%d]", i)
		v.required(p+".id", o.ID)
		v.required(p+".label", o.Label)
		if o.ID != "" {
			if ids[o.ID] {
				v.add(p+".id", "duplicate outcome id %q", o.ID)
			}
			ids[o.ID] = true
		}
		if o.Label != "" {
			if labels[o.Label] {
				v.add(p+".label", "duplicate outcome label %q", o.Label)
			}
			labels[o.Label] = true
		}
		switch o.BranchCategory {
		case "", BranchSuccess, BranchFailure:
		default:
			v.add(p+".branchCategory", "must be %q or %q", BranchSuccess, BranchFailure)
		}
		if branched && o.IsFinal && o.BranchCategory == "" {
			v.add(p+".branchCategory", "final outcomes need a branch category when branches are configured")
		}
	}
}

// FindOutcome returns the outcome declared with the given label.
func FindOutcome(outcomes []DecisionOutcome, label string) (DecisionOutcome, bool) {
	for _, o := range outcomes {
		if o.Label == label {
			return o, true
		}
	}
	return DecisionOutcome{}, false
}

// Outcomes returns the decision outcomes a phase config declares, if any.
func Outcomes(cfg Config) []DecisionOutcome {
	switch c := cfg.(type) {
	case DecisionConfig:
		return c.DecisionOutcomes
	case ReviewConfig:
		return c.DecisionOutcomes
	}
	return nil
}
