package testutil

import (
	"time"

	"github.com/google/uuid"
)

// Fixed identifiers and dates for deterministic tests.
var (
	TestAffiliateID1   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestAffiliateID2   = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	TestApplicationID1 = uuid.MustParse("00000000-0000-0000-0000-000000000101")

	TestDocument1 = "1017234567"
	TestDocument2 = "52987654"

	// TestToday is a fixed evaluation date for tenure checks.
	TestToday = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
)
