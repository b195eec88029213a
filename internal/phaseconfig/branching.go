package phaseconfig

// BranchingOf returns the branch targets of a branch-capable config.
func BranchingOf(cfg Config) (Branching, bool) {
	switch c := cfg.(type) {
	case ReviewConfig:
		return c.Branching, true
	case DecisionConfig:
		return c.Branching, true
	}
	return Branching{}, false
}

// WithBranching returns a copy of cfg carrying b. Configs that cannot branch are
// returned unchanged.
func WithBranching(cfg Config, b Branching) Config {
	switch c := cfg.(type) {
	case ReviewConfig:
		c.Branching = b
		return c
	case DecisionConfig:
		c.Branching = b
		return c
	}
	return cfg
}

// RemapBranches rewrites branch targets through ids (old phase id → new phase id).
// A target with no entry in ids is cleared, so a remapped config never points
// outside the id space it was remapped into.
func RemapBranches(cfg Config, ids map[string]string) Config {
	b, ok := BranchingOf(cfg)
	if !ok {
		return cfg
	}
	b.NextPhaseIDOnSuccess = remapTarget(b.NextPhaseIDOnSuccess, ids)
	b.NextPhaseIDOnFailure = remapTarget(b.NextPhaseIDOnFailure, ids)
	return WithBranching(cfg, b)
}

func remapTarget(target *string, ids map[string]string) *string {
	if target == nil {
		return nil
	}
	next, ok := ids[*target]
	if !ok {
		return nil
	}
	return &next
}

// ClearBranchTarget nulls every branch of cfg that points at phaseID. The boolean
// reports whether anything changed.
func ClearBranchTarget(cfg Config, phaseID string) (Config, bool) {
	b, ok := BranchingOf(cfg)
	if !ok {
		return cfg, false
	}
	changed := false
	if b.NextPhaseIDOnSuccess != nil && *b.NextPhaseIDOnSuccess == phaseID {
		b.NextPhaseIDOnSuccess = nil
		changed = true
	}
	if b.NextPhaseIDOnFailure != nil && *b.NextPhaseIDOnFailure == phaseID {
		b.NextPhaseIDOnFailure = nil
		changed = true
	}
	if !changed {
		return cfg, false
	}
	return WithBranching(cfg, b), true
}
