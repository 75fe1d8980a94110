package adapter

import (
	"context"
	"fmt"
	"time"
	"unicode/utf16"

	"github.com/shopspring/decimal"

	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

var _ port.RiskScorer = (*StubRiskCentral)(nil)

// Scores handed out by the stub fall in [MinStubScore, MaxStubScore], except
// for a document whose hash is math.MinInt32 (see scoreFromHash).
const (
	MinStubScore = 300
	MaxStubScore = 950
)

// StubRiskCentral is a development/test adapter that returns a deterministic
// verdict derived from the document. The same document always gets the same
// score and level; amount and term are ignored.
type StubRiskCentral struct{}

// NewStubRiskCentral creates a new stub adapter.
func NewStubRiskCentral() *StubRiskCentral {
	return &StubRiskCentral{}
}

// EvaluateRisk implements port.RiskScorer.
func (s *StubRiskCentral) EvaluateRisk(_ context.Context, document string, _ decimal.Decimal, _ int) (model.RiskEvaluation, error) {
	if document == "" {
		return model.RiskEvaluation{}, fmt.Errorf("document is required")
	}
	verdict := ScoreDocument(document)
	return model.NewRiskEvaluation(document, &verdict.Score, verdict.Level, verdict.Detail, time.Now().UTC()), nil
}

// StubVerdict is the stub's answer for a document.
type StubVerdict struct {
	Score  int
	Level  valueobject.RiskLevel
	Detail string
}

// ScoreDocument derives a score from the document's hash and classifies it:
// up to 500 is HIGH, up to 700 MEDIUM, above that LOW. An empty document uses
// seed 500.
func ScoreDocument(document string) StubVerdict {
	score := MinStubScore + 500
	if document != "" {
		score = scoreFromHash(documentHash(document))
	}

	level := valueobject.RiskLevelFromScore(score)
	var detail string
	switch level {
	case valueobject.RiskLevelHigh:
		detail = "Poor credit history. High risk of default."
	case valueobject.RiskLevelMedium:
		detail = "Moderate credit history. Medium risk of default."
	default:
		detail = "Excellent credit history. Low risk of default."
	}
	return StubVerdict{Score: score, Level: level, Detail: detail}
}

// scoreFromHash maps a hash onto [MinStubScore, MaxStubScore] in 32-bit
// arithmetic. Negating math.MinInt32 overflows back to itself, so that one
// hash yields a seed of -648 and a score of -348, matching the legacy mock.
func scoreFromHash(h int32) int {
	if h < 0 {
		h = -h
	}
	seed := h % 1000
	return MinStubScore + int(seed%(MaxStubScore-MinStubScore+1))
}

// documentHash is the classic 31-multiplier string hash over UTF-16 code
// units with 32-bit wraparound, so scores stay stable across deployments.
func documentHash(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}
	return h
}
