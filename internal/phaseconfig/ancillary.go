package phaseconfig

import (
	"fmt"
	"time"
)

// RecommendationConfig is the payload of a Recommendation phase.
type RecommendationConfig struct {
	NumRecommendersRequired      int              `json:"numRecommendersRequired"`
	RecommenderInformationFields []FormField      `json:"recommenderInformationFields"`
	ReminderSchedule             ReminderSchedule `json:"reminderSchedule"`
}

func (RecommendationConfig) PhaseType() PhaseType { return PhaseTypeRecommendation }

var recommenderDisallowed = map[FieldType]bool{
	FieldSectionHeader: true,
	FieldFileUpload:    true,
}

func (c RecommendationConfig) validate(v *validator) {
	v.intRange("numRecommendersRequired", c.NumRecommendersRequired, 1, 5)
	validateFields(v, "recommenderInformationFields", c.RecommenderInformationFields, recommenderDisallowed)
	switch c.ReminderSchedule {
	case ReminderNone, ReminderDaily, ReminderWeekly, ReminderBiWeekly:
	case "":
		v.add("reminderSchedule", "is required")
	default:
		v.add("reminderSchedule", "unknown schedule %q", c.ReminderSchedule)
	}
}

// Interval returns how long a request may go unanswered before it is overdue.
// The boolean is false for ReminderNone.
func (s ReminderSchedule) Interval() (time.Duration, bool) {
	switch s {
	case ReminderDaily:
		return 24 * time.Hour, true
	case ReminderWeekly:
		return 7 * 24 * time.Hour, true
	case ReminderBiWeekly:
		return 14 * 24 * time.Hour, true
	}
	return 0, false
}

// SchedulingConfig is the payload of a Scheduling phase. Durations are minutes.
type SchedulingConfig struct {
	InterviewDuration    int    `json:"interviewDuration"`
	BufferTime           int    `json:"bufferTime"`
	HostSelection        string `json:"hostSelection"`
	AutomatedMeetingLink string `json:"automatedMeetingLink,omitempty"`
}

func (SchedulingConfig) PhaseType() PhaseType { return PhaseTypeScheduling }

func (c SchedulingConfig) validate(v *validator) {
	v.intRange("interviewDuration", c.InterviewDuration, 5, 240)
	v.intRange("bufferTime", c.BufferTime, 0, 60)
	v.required("hostSelection", c.HostSelection)
}

// Duration is the configured interview length.
func (c SchedulingConfig) Duration() time.Duration {
	return time.Duration(c.InterviewDuration) * time.Minute
}

// Buffer is the configured gap kept around every interview.
func (c SchedulingConfig) Buffer() time.Duration {
	return time.Duration(c.BufferTime) * time.Minute
}

// EmailConfig is the payload of an Email phase. Subject and Body may embed
// {{placeholder}} tokens resolved at send time.
type EmailConfig struct {
	Subject            string       `json:"subject"`
	Body               string       `json:"body"`
	RecipientRoles     []string     `json:"recipientRoles"`
	TriggerEvent       TriggerEvent `json:"triggerEvent"`
	SelectedTemplateID string       `json:"selectedTemplateId,omitempty"`
}

func (EmailConfig) PhaseType() PhaseType { return PhaseTypeEmail }

func (c EmailConfig) validate(v *validator) {
	v.required("subject", c.Subject)
	v.required("body", c.Body)
	if len(c.RecipientRoles) == 0 {
		v.add("recipientRoles", "at least one recipient role is required")
	}
	for i, r := range c.RecipientRoles {
		v.required(fmt.Sprintf("recipientRoles[%d]", i), r)
	}
	switch c.TriggerEvent {
	case TriggerPhaseStart, TriggerApplicationSubmitted, TriggerPhaseComplete, TriggerDecisionMade, TriggerCustomEvent:
	case "":
		v.add("triggerEvent", "is required")
	default:
		v.add("triggerEvent", "unknown trigger %q", c.TriggerEvent)
	}
}
