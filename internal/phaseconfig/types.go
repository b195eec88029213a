// Package phaseconfig defines the type-specific configuration payload carried by every
// pathway phase.
//
// A phase's config is a closed tagged union: the phase Type selects exactly one of
// FormConfig, ReviewConfig, DecisionConfig, RecommendationConfig, SchedulingConfig or
// EmailConfig. Each variant knows how to validate itself; Decode is the only way a raw
// JSON payload becomes a Config, so shape checks run at every write boundary.
package phaseconfig

import "fmt"

// PhaseType values mirror the phase_type column in PostgreSQL.
type PhaseType string

const (
	PhaseTypeForm           PhaseType = "Form"
	PhaseTypeReview         PhaseType = "Review"
	PhaseTypeEmail          PhaseType = "Email"
	PhaseTypeScheduling     PhaseType = "Scheduling"
	PhaseTypeDecision       PhaseType = "Decision"
	PhaseTypeRecommendation PhaseType = "Recommendation"
)

// AllPhaseTypes lists every phase type in display order.
var AllPhaseTypes = []PhaseType{
	PhaseTypeForm,
	PhaseTypeReview,
	PhaseTypeEmail,
	PhaseTypeScheduling,
	PhaseTypeDecision,
	PhaseTypeRecommendation,
}

// ParsePhaseType converts a raw string to a PhaseType, returning an error for
// unknown values.
func ParsePhaseType(s string) (PhaseType, error) {
	t := PhaseType(s)
	switch t {
	case PhaseTypeForm, PhaseTypeReview, PhaseTypeEmail, PhaseTypeScheduling, PhaseTypeDecision, PhaseTypeRecommendation:
		return t, nil
	}
	return "", fmt.Errorf("unknown phase type %q", s)
}

// IsBranchCapable reports whether phases of this type may declare
// nextPhaseIdOnSuccess / nextPhaseIdOnFailure.
func (t PhaseType) IsBranchCapable() bool {
	return t == PhaseTypeDecision || t == PhaseTypeReview
}

// Config is implemented by the six phase configuration variants only.
type Config interface {
	PhaseType() PhaseType
	validate(v *validator)
}

// Branching holds the optional routing targets of branch-capable phases.
// A nil target means the pathway ends on that outcome.
type Branching struct {
	NextPhaseIDOnSuccess *string `json:"nextPhaseIdOnSuccess,omitempty"`
	NextPhaseIDOnFailure *string `json:"nextPhaseIdOnFailure,omitempty"`
}

// Declared reports whether at least one branch target is configured.
func (b Branching) Declared() bool {
	return b.NextPhaseIDOnSuccess != nil || b.NextPhaseIDOnFailure != nil
}

// Targets returns the configured, non-nil branch targets.
func (b Branching) Targets() []string {
	var out []string
	if b.NextPhaseIDOnSuccess != nil {
		out = append(out, *b.NextPhaseIDOnSuccess)
	}
	if b.NextPhaseIDOnFailure != nil {
		out = append(out, *b.NextPhaseIDOnFailure)
	}
	return out
}

// FieldType enumerates the input kinds available to Form and Recommendation fields.
type FieldType string

const (
	FieldText          FieldType = "Text"
	FieldNumber        FieldType = "Number"
	FieldDate          FieldType = "Date"
	FieldCheckbox      FieldType = "Checkbox"
	FieldRadioGroup    FieldType = "RadioGroup"
	FieldFileUpload    FieldType = "FileUpload"
	FieldRichTextArea  FieldType = "RichTextArea"
	FieldEmail         FieldType = "Email"
	FieldURL           FieldType = "URL"
	FieldSectionHeader FieldType = "SectionHeader"
)

func (t FieldType) known() bool {
	switch t {
	case FieldText, FieldNumber, FieldDate, FieldCheckbox, FieldRadioGroup, FieldFileUpload,
		FieldRichTextArea, FieldEmail, FieldURL, FieldSectionHeader:
		return true
	}
	return false
}

// BranchCategory tags a decision outcome as a success or a failure for routing.
type BranchCategory string

const (
	BranchSuccess BranchCategory = "success"
	BranchFailure BranchCategory = "failure"
)

// ReminderSchedule is how often an unanswered recommendation request is chased.
type ReminderSchedule string

const (
	ReminderNone     ReminderSchedule = "none"
	ReminderDaily    ReminderSchedule = "daily"
	ReminderWeekly   ReminderSchedule = "weekly"
	ReminderBiWeekly ReminderSchedule = "bi-weekly"
)

// TriggerEvent is the pathway event an Email phase is attached to.
type TriggerEvent string

const (
	TriggerPhaseStart           TriggerEvent = "phase_start"
	TriggerApplicationSubmitted TriggerEvent = "application_submitted"
	TriggerPhaseComplete        TriggerEvent = "phase_complete"
	TriggerDecisionMade         TriggerEvent = "decision_made"
	TriggerCustomEvent          TriggerEvent = "custom_event"
)
