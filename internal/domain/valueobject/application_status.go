package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// ApplicationStatus – immutable value object
// ---------------------------------------------------------------------------

// ApplicationStatus represents the lifecycle stage of a credit application.
// PENDING is the only non-terminal state.
type ApplicationStatus struct {
	value string
}

const (
	appStatusPending  = "PENDING"
	appStatusApproved = "APPROVED"
	appStatusRejected = "REJECTED"
)

var (
	ApplicationStatusPending  = ApplicationStatus{value: appStatusPending}
	ApplicationStatusApproved = ApplicationStatus{value: appStatusApproved}
	ApplicationStatusRejected = ApplicationStatus{value: appStatusRejected}
)

var validApplicationStatuses = map[string]ApplicationStatus{
	appStatusPending:  ApplicationStatusPending,
	appStatusApproved: ApplicationStatusApproved,
	appStatusRejected: ApplicationStatusRejected,
}

// NewApplicationStatus creates an ApplicationStatus from a raw string.
// Matching is case-insensitive.
func NewApplicationStatus(s string) (ApplicationStatus, error) {
	v, ok := validApplicationStatuses[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return ApplicationStatus{}, fmt.Errorf("invalid application status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s ApplicationStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s ApplicationStatus) IsZero() bool { return s.value == "" }

// IsTerminal reports whether no further transition is possible.
func (s ApplicationStatus) IsTerminal() bool {
	return s.value == appStatusApproved || s.value == appStatusRejected
}

// Equal returns true when both statuses carry the same value.
func (s ApplicationStatus) Equal(other ApplicationStatus) bool {
	return s.value == other.value
}

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
