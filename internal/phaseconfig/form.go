package phaseconfig

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Condition operators understood by ConditionalLogic.
const (
	ConditionEquals    = "equals"
	ConditionNotEquals = "notEquals"
)

// ConditionalLogic shows a field only when another field has (or lacks) a value.
type ConditionalLogic struct {
	DependsOn string `json:"dependsOn"`
	Operator  string `json:"operator"`
	Value     any    `json:"value"`
}

// FormField is one input of a Form phase or of the recommender information block.
// Submitted data is keyed by Label.
type FormField struct {
	Label            string            `json:"label"`
	Type             FieldType         `json:"type"`
	Required         bool              `json:"required"`
	HelperText       string            `json:"helperText,omitempty"`
	DefaultValue     any               `json:"defaultValue,omitempty"`
	Options          []string          `json:"options,omitempty"`
	SectionTitle     string            `json:"sectionTitle,omitempty"`
	ConditionalLogic *ConditionalLogic `json:"conditionalLogic,omitempty"`
	ValidationRegex  string            `json:"validationRegex,omitempty"`
}

// FormConfig is the payload of a Form phase.
type FormConfig struct {
	Fields []FormField `json:"fields"`
}

func (FormConfig) PhaseType() PhaseType { return PhaseTypeForm }

func (c FormConfig) validate(v *validator) {
	if len(c.Fields) == 0 {
		v.add("fields", "at least one field is required")
		return
	}
	validateFields(v, "fields", c.Fields, nil)
}

// validateFields checks a field list. Types listed in disallowed are rejected.
func validateFields(v *validator, path string, fields []FormField, disallowed map[FieldType]bool) {
	labels := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Type != FieldSectionHeader && f.Label != "" {
			labels[f.Label] = true
		}
	}

	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		p := fmt.Sprintf("%s[%d]", path, i)
		if !f.Type.known() {
			v.add(p+".type", "unknown field type %q", f.Type)
			continue
		}
		if disallowed[f.Type] {
			v.add(p+".type", "%s fields are not allowed here", f.Type)
			continue
		}
		if f.Type == FieldSectionHeader {
			v.required(p+".sectionTitle", f.SectionTitle)
			if f.Required {
				v.add(p+".required", "section headers carry no data and cannot be required")
			}
			continue
		}

		v.required(p+".label", f.Label)
		if f.Label != "" {
			if seen[f.Label] {
				v.add(p+".label", "duplicate label %q", f.Label)
			}
			seen[f.Label] = true
		}
		if f.Type == FieldRadioGroup && len(f.Options) == 0 {
			v.add(p+".options", "radio groups need at least one option")
		}
		if f.ValidationRegex != "" {
			if _, err := regexp.Compile(f.ValidationRegex); err != nil {
				v.add(p+".validationRegex", "does not compile: %v", err)
			}
		}
		if cl := f.ConditionalLogic; cl != nil {
			switch {
			case cl.DependsOn == "":
				v.add(p+".conditionalLogic.dependsOn", "is required")
			case cl.DependsOn == f.Label:
				v.add(p+".conditionalLogic.dependsOn", "must reference another field")
			case !labels[cl.DependsOn]:
				v.add(p+".conditionalLogic.dependsOn", "unknown field %q", cl.DependsOn)
			}
			if cl.Operator != ConditionEquals && cl.Operator != ConditionNotEquals {
				v.add(p+".conditionalLogic.operator", "must be %q or %q", ConditionEquals, ConditionNotEquals)
			}
		}
	}
}

// ValidateSubmission checks submitted data against a field list: required fields,
// value shapes, option membership and per-field regexes. Section headers and fields
// hidden by their conditional logic are skipped.
func ValidateSubmission(fields []FormField, data map[string]any) []Issue {
	v := &validator{}
	for _, f := range fields {
		if f.Type == FieldSectionHeader {
			continue
		}
		if f.ConditionalLogic != nil && !conditionHolds(*f.ConditionalLogic, data) {
			continue
		}
		val, present := data[f.Label]
		if !present || isEmpty(val) {
			if f.Required {
				v.add(f.Label, "is required")
			}
			continue
		}
		if f.Type == FieldCheckbox && f.Required {
			if b, ok := val.(bool); !ok || !b {
				v.add(f.Label, "must be checked")
				continue
			}
		}
		checkValue(v, f, val)
	}
	return v.issues
}

func checkValue(v *validator, f FormField, val any) {
	switch f.Type {
	case FieldCheckbox:
		if _, ok := val.(bool); !ok {
			v.add(f.Label, "must be true or false")
		}
		return
	case FieldNumber:
		switch n := val.(type) {
		case float64, int, int64:
		case string:
			if _, err := strconv.ParseFloat(n, 64); err != nil {
				v.add(f.Label, "must be a number")
			}
		default:
			v.add(f.Label, "must be a number")
		}
		return
	}

	s, ok := val.(string)
	if !ok {
		v.add(f.Label, "must be text")
		return
	}
	switch f.Type {
	case FieldDate:
		if _, err := time.Parse("2006-01-02", s); err != nil {
			if _, err := time.Parse(time.RFC3339, s); err != nil {
				v.add(f.Label, "must be a date (YYYY-MM-DD)")
			}
		}
	case FieldEmail:
		if _, err := mail.ParseAddress(s); err != nil {
			v.add(f.Label, "must be an email address")
		}
	case FieldURL:
		u, err := url.ParseRequestURI(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			v.add(f.Label, "must be an http(s) URL")
		}
	case FieldRadioGroup:
		if !contains(f.Options, s) {
			v.add(f.Label, "must be one of %s", strings.Join(f.Options, ", "))
		}
	}
	if f.ValidationRegex != "" {
		re, err := regexp.Compile(f.ValidationRegex)
		if err == nil && !re.MatchString(s) {
			v.add(f.Label, "does not match the required format")
		}
	}
}

func conditionHolds(cl ConditionalLogic, data map[string]any) bool {
	eq := fmt.Sprint(data[cl.DependsOn]) == fmt.Sprint(cl.Value)
	if cl.Operator == ConditionNotEquals {
		return !eq
	}
	return eq
}

func isEmpty(val any) bool {
	switch x := val.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
