package phaseconfig

import (
	"fmt"
	"strings"
)

// Issue is a single problem found while validating a config or a submission.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every issue found in one validation pass.
type ValidationError struct {
	Type   PhaseType
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Message)
	}
	return fmt.Sprintf("invalid %s config: %s", e.Type, strings.Join(parts, "; "))
}

// Fields flattens the issues into a field → message map for transport.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Issues))
	for _, is := range e.Issues {
		if _, dup := out[is.Field]; dup {
			continue
		}
		out[is.Field] = is.Message
	}
	return out
}

type validator struct {
	issues []Issue
}

func (v *validator) add(field, format string, args ...any) {
	v.issues = append(v.issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

func (v *validator) intRange(field string, value, min, max int) {
	if value < min || value > max {
		v.add(field, "must be between %d and %d", min, max)
	}
}

func (v *validator) result(t PhaseType) error {
	if len(v.issues) == 0 {
		return nil
	}
	return &ValidationError{Type: t, Issues: v.issues}
}

// Validate checks cfg against the rules of its phase type.
func Validate(cfg Config) error {
	if cfg == nil {
		return &ValidationError{Issues: []Issue{{Field: "config", Message: "is required"}}}
	}
	v := &validator{}
	cfg.validate(v)
	return v.result(cfg.PhaseType())
}

func (v *validator) branching(b Branching) {
	if b.NextPhaseIDOnSuccess != nil && *b.NextPhaseIDOnSuccess == "" {
		v.add("nextPhaseIdOnSuccess", "must be a phase id or null")
	}
	if b.NextPhaseIDOnFailure != nil && *b.NextPhaseIDOnFailure == "" {
		v.add("nextPhaseIdOnFailure", "must be a phase id or null")
	}
}
