package model

import "github.com/coopcredit/coopcredit/internal/domain/valueobject"

// Decision is the closed set of outcomes a credit application can hold:
// Pending, Approved or Rejected. Only this package can implement it, so a
// rejection without a reason cannot be built.
type Decision interface {
	Status() valueobject.ApplicationStatus
	decision()
}

// Pending awaits evaluation.
type Pending struct{}

// Approved passed every check.
type Approved struct{}

// Rejected failed a check or could not be evaluated.
type Rejected struct {
	reason            string
	evaluationFailure bool
}

func (Pending) Status() valueobject.ApplicationStatus  { return valueobject.ApplicationStatusPending }
func (Approved) Status() valueobject.ApplicationStatus { return valueobject.ApplicationStatusApproved }
func (Rejected) Status() valueobject.ApplicationStatus { return valueobject.ApplicationStatusRejected }

func (Pending) decision()  {}
func (Approved) decision() {}
func (Rejected) decision() {}

// Reason is never empty.
func (r Rejected) Reason() string { return r.reason }

// EvaluationFailure reports whether the rejection came from an error during
// evaluation rather than from a failed credit check.
func (r Rejected) EvaluationFailure() bool { return r.evaluationFailure }

func newRejected(reason string, evaluationFailure bool) (Rejected, error) {
	if reason == "" {
		return Rejected{}, ValidationError("rejection reason is required")
	}
	return Rejected{reason: reason, evaluationFailure: evaluationFailure}, nil
}

// DecisionFromStatus rebuilds a Decision from its persisted parts.
func DecisionFromStatus(status valueobject.ApplicationStatus, reason string, evaluationFailure bool) (Decision, error) {
	switch status {
	case valueobject.ApplicationStatusPending:
		return Pending{}, nil
	case valueobject.ApplicationStatusApproved:
		return Approved{}, nil
	case valueobject.ApplicationStatusRejected:
		return newRejected(reason, evaluationFailure)
	default:
		return nil, ValidationError("unknown application status %q", status.String())
	}
}
