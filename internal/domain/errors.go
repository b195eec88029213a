package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an error by cause. Callers branch on the kind; the code
// names the specific rule that was broken.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindUnauthorized
	KindValidation
	KindConflict
	KindAlreadyFinalized
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindUnauthorized:
		return "Unauthorized"
	case KindValidation:
		return "ValidationError"
	case KindConflict:
		return "ConflictError"
	case KindAlreadyFinalized:
		return "AlreadyFinalized"
	}
	return "Unknown"
}

// Error is the single error type returned by services for caller-recoverable
// failures. Two errors are the same (errors.Is) when their codes match, so a detailed
// instance still matches the package sentinel.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// With returns a copy of e carrying a formatted message.
func (e *Error) With(format string, args ...any) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// WithFields returns a copy of e carrying per-field details.
func (e *Error) WithFields(fields map[string]string) *Error {
	cp := *e
	cp.Fields = fields
	return &cp
}

func newError(kind ErrorKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrNotFound     = newError(KindNotFound, "NotFound", "record not found")
	ErrUnauthorized = newError(KindUnauthorized, "Unauthorized", "not allowed to perform this action")

	ErrConfigValidation        = newError(KindValidation, "ConfigValidationError", "phase config is invalid")
	ErrValidation              = newError(KindValidation, "ValidationError", "invalid input")
	ErrScoreOutOfRange         = newError(KindValidation, "ScoreOutOfRange", "score outside the rubric range")
	ErrInvalidOutcome          = newError(KindValidation, "InvalidOutcome", "outcome is not declared by the phase")
	ErrInvalidStatusTransition = newError(KindValidation, "InvalidStatusTransition", "status transition not allowed")
	ErrPhaseIncomplete         = newError(KindValidation, "PhaseIncomplete", "current phase has no outcome yet")

	ErrDuplicateAssignment   = newError(KindConflict, "DuplicateAssignment", "reviewer already assigned to this phase")
	ErrBrokenBranchReference = newError(KindConflict, "BrokenBranchReference", "branch target is not a phase of this template")
	ErrConcurrentTransition  = newError(KindConflict, "ConcurrentTransition", "application changed during the transition")
	ErrInvalidReorder        = newError(KindConflict, "InvalidReorder", "order is not a permutation of the template phases")
	ErrPhaseInUse            = newError(KindConflict, "PhaseInUse", "applications currently occupy this phase")
	ErrHostUnavailable       = newError(KindConflict, "HostUnavailable", "host already has an interview in this slot")
	ErrApplicantDoubleBooked = newError(KindConflict, "ApplicantDoubleBooked", "applicant already has an interview in this slot")
	ErrOutsideAvailability   = newError(KindConflict, "OutsideAvailability", "slot is outside the host availability")
	ErrConflict              = newError(KindConflict, "Conflict", "conflicting write")

	ErrRecommendationAlreadySubmitted = newError(KindAlreadyFinalized, "RecommendationAlreadySubmitted", "recommendation already submitted")
	ErrInterviewNotCancelable         = newError(KindAlreadyFinalized, "InterviewNotCancelable", "interview is not booked")
)

// KindOf returns the kind of err, or 0 when err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
