package phaseconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode unmarshals raw into the config variant selected by t. Unknown keys are
// rejected so a payload written for one phase type cannot be stored under another.
// Decode does not run Validate; use Parse for the write path.
func Decode(t PhaseType, raw []byte) (Config, error) {
	if _, err := ParsePhaseType(string(t)); err != nil {
		return nil, &ValidationError{Type: t, Issues: []Issue{{Field: "type", Message: err.Error()}}}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	var (
		cfg Config
		err error
	)
	switch t {
	case PhaseTypeForm:
		var c FormConfig
		err = strictUnmarshal(raw, &c)
		cfg = c
	case PhaseTypeReview:
		var c ReviewConfig
		err = strictUnmarshal(raw, &c)
		cfg = c
	case PhaseTypeDecision:
		var c DecisionConfig
		err = strictUnmarshal(raw, &c)
		cfg = c
	case PhaseTypeRecommendation:
		var c RecommendationConfig
		err = strictUnmarshal(raw, &c)
		cfg = c
	case PhaseTypeScheduling:
		var c SchedulingConfig
		err = strictUnmarshal(raw, &c)
		cfg = c
	case PhaseTypeEmail:
		var c EmailConfig
		err = strictUnmarshal(raw, &c)
		cfg = c
	}
	if err != nil {
		return nil, &ValidationError{Type: t, Issues: []Issue{{Field: "config", Message: err.Error()}}}
	}
	return cfg, nil
}

// Parse decodes and validates a config payload.
func Parse(t PhaseType, raw []byte) (Config, error) {
	cfg, err := Decode(t, raw)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode marshals cfg to its JSON form.
func Encode(cfg Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil phase config")
	}
	return json.Marshal(cfg)
}

// Clone returns a deep copy of cfg.
func Clone(cfg Config) (Config, error) {
	raw, err := Encode(cfg)
	if err != nil {
		return nil, err
	}
	return Decode(cfg.PhaseType(), raw)
}

func strictUnmarshal(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after config object")
	}
	return nil
}
