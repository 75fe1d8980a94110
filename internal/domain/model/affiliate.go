package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopcredit/coopcredit/internal/domain/event"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

// Affiliate is an immutable aggregate for a cooperative member. Every
// mutation returns a new copy.
type Affiliate struct {
	id              string
	document        string
	name            string
	salary          decimal.Decimal
	affiliationDate time.Time
	status          valueobject.AffiliateStatus
	version         int
	createdAt       time.Time
	updatedAt       time.Time
	domainEvents    []event.DomainEvent
}

// NewAffiliate validates the profile and registers a new affiliate.
func NewAffiliate(
	document, name string,
	salary decimal.Decimal,
	affiliationDate time.Time,
	status valueobject.AffiliateStatus,
	now time.Time,
) (Affiliate, error) {
	document = strings.TrimSpace(document)
	name = strings.TrimSpace(name)
	if err := validateAffiliate(document, name, salary, affiliationDate, status); err != nil {
		return Affiliate{}, err
	}

	id := uuid.New().String()
	a := Affiliate{
		id:              id,
		document:        document,
		name:            name,
		salary:          salary,
		affiliationDate: dateOf(affiliationDate),
		status:          status,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}
	a.domainEvents = append(a.domainEvents,
		event.NewAffiliateRegistered(id, document, name, salary, status.String()))
	return a, nil
}

// ReconstructAffiliate rebuilds an aggregate from persistence without side-effects.
func ReconstructAffiliate(
	id, document, name string,
	salary decimal.Decimal,
	affiliationDate time.Time,
	status valueobject.AffiliateStatus,
	version int,
	createdAt, updatedAt time.Time,
) Affiliate {
	return Affiliate{
		id:              id,
		document:        document,
		name:            name,
		salary:          salary,
		affiliationDate: dateOf(affiliationDate),
		status:          status,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Update replaces the editable profile fields, re-running validation.
func (a Affiliate) Update(
	document, name string,
	salary decimal.Decimal,
	affiliationDate time.Time,
	status valueobject.AffiliateStatus,
	now time.Time,
) (Affiliate, error) {
	document = strings.TrimSpace(document)
	name = strings.TrimSpace(name)
	if err := validateAffiliate(document, name, salary, affiliationDate, status); err != nil {
		return a, err
	}
	next := a
	next.document = document
	next.name = name
	next.salary = salary
	next.affiliationDate = dateOf(affiliationDate)
	next.status = status
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents,
		event.NewAffiliateUpdated(a.id, document, salary, status.String()))
	return next, nil
}

// ChangeStatus activates or deactivates the affiliate.
func (a Affiliate) ChangeStatus(status valueobject.AffiliateStatus, now time.Time) (Affiliate, error) {
	if status.IsZero() {
		return a, ValidationError("affiliate status is required")
	}
	next := a
	next.status = status
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents,
		event.NewAffiliateStatusChanged(a.id, a.status.String(), status.String()))
	return next, nil
}

// ---------------------------------------------------------------------------
// Eligibility
// ---------------------------------------------------------------------------

// IsActive reports whether the affiliate can request credit at all.
func (a Affiliate) IsActive() bool {
	return a.status.Equal(valueobject.AffiliateStatusActive)
}

// MeetsMinimumTenure reports whether the affiliation date is on or before
// today minus minMonths calendar months. The boundary day counts as met.
func (a Affiliate) MeetsMinimumTenure(minMonths int, today time.Time) bool {
	if a.affiliationDate.IsZero() {
		return false
	}
	threshold := minusMonths(dateOf(today), minMonths)
	return !a.affiliationDate.After(threshold)
}

// MaxCreditAmount is the largest amount the affiliate may request given the
// salary multiplier.
func (a Affiliate) MaxCreditAmount(salaryMultiplier float64) decimal.Decimal {
	return a.salary.Mul(decimal.NewFromFloat(salaryMultiplier))
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a Affiliate) ID() string                          { return a.id }
func (a Affiliate) Document() string                    { return a.document }
func (a Affiliate) Name() string                        { return a.name }
func (a Affiliate) Salary() decimal.Decimal             { return a.salary }
func (a Affiliate) AffiliationDate() time.Time          { return a.affiliationDate }
func (a Affiliate) Status() valueobject.AffiliateStatus { return a.status }
func (a Affiliate) Version() int                        { return a.version }
func (a Affiliate) CreatedAt() time.Time                { return a.createdAt }
func (a Affiliate) UpdatedAt() time.Time                { return a.updatedAt }
func (a Affiliate) DomainEvents() []event.DomainEvent   { return a.domainEvents }

// ClearEvents returns a copy with an empty event list (call after publishing).
func (a Affiliate) ClearEvents() Affiliate {
	next := a
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func validateAffiliate(
	document, name string,
	salary decimal.Decimal,
	affiliationDate time.Time,
	status valueobject.AffiliateStatus,
) error {
	if document == "" {
		return ValidationError("affiliate document is required")
	}
	if name == "" {
		return ValidationError("affiliate name is required")
	}
	if salary.LessThanOrEqual(decimal.Zero) {
		return ValidationError("salary must be greater than zero")
	}
	if affiliationDate.IsZero() {
		return ValidationError("affiliation date is required")
	}
	if status.IsZero() {
		return ValidationError("affiliate status is required")
	}
	return nil
}

// dateOf drops the clock part, keeping the calendar date.
func dateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// minusMonths steps back whole calendar months, clamping the day to the end
// of the target month (Mar 31 minus 1 month is Feb 28/29).
func minusMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := y*12 + int(m) - 1 - months
	year, month := total/12, time.Month(total%12+1)
	if last := daysIn(year, month); d > last {
		d = last
	}
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
