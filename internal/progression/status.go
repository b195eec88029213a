// Package progression holds the pure rules that move an application through its
// pathway: the application status graph, classification of a phase's outcome from
// the evidence recorded against it, and resolution of the next phase.
//
// Valid status graph:
//
//	draft ──► submitted ──► in_review ──► accepted
//	                            │  ▲
//	                            │  └──── on_hold
//	                            ├──────► on_hold
//	                            └──────► rejected
//
// accepted and rejected are terminal states.
package progression

import (
	"fmt"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
)

var validTransitions = map[domain.ApplicationStatus][]domain.ApplicationStatus{
	domain.ApplicationStatusDraft:     {domain.ApplicationStatusSubmitted},
	domain.ApplicationStatusSubmitted: {domain.ApplicationStatusInReview},
	domain.ApplicationStatusInReview: {
		domain.ApplicationStatusAccepted,
		domain.ApplicationStatusRejected,
		domain.ApplicationStatusOnHold,
	},
	domain.ApplicationStatusOnHold: {domain.ApplicationStatusInReview},
}

// ParseStatus converts a raw string to an ApplicationStatus, returning an error for
// unknown values.
func ParseStatus(s string) (domain.ApplicationStatus, error) {
	st := domain.ApplicationStatus(s)
	switch st {
	case domain.ApplicationStatusDraft, domain.ApplicationStatusSubmitted, domain.ApplicationStatusInReview,
		domain.ApplicationStatusAccepted, domain.ApplicationStatusRejected, domain.ApplicationStatusOnHold:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted.
func IsTransitionAllowed(from, to domain.ApplicationStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s domain.ApplicationStatus) bool {
	return len(validTransitions[s]) == 0
}

// CanAdvance reports whether an application in status s may move between phases.
func CanAdvance(s domain.ApplicationStatus) bool {
	return s == domain.ApplicationStatusSubmitted || s == domain.ApplicationStatusInReview
}
