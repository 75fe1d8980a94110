package valueobject

import (
	"fmt"
	"strings"
)

// AffiliateStatus is the membership status of an affiliate.
type AffiliateStatus struct {
	value string
}

var (
	AffiliateStatusActive   = AffiliateStatus{value: "ACTIVE"}
	AffiliateStatusInactive = AffiliateStatus{value: "INACTIVE"}
)

// NewAffiliateStatus parses a status string, case-insensitively.
func NewAffiliateStatus(s string) (AffiliateStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACTIVE":
		return AffiliateStatusActive, nil
	case "INACTIVE":
		return AffiliateStatusInactive, nil
	default:
		return AffiliateStatus{}, fmt.Errorf("invalid affiliate status: %q", s)
	}
}

func (s AffiliateStatus) String() string { return s.value }

func (s AffiliateStatus) IsZero() bool { return s.value == "" }

func (s AffiliateStatus) Equal(other AffiliateStatus) bool { return s.value == other.value }
