package model

import (
	"time"

	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

// RiskEvaluation is the risk central's verdict on a document. It is attached
// verbatim to the credit application that requested it.
type RiskEvaluation struct {
	document    string
	score       int
	scored      bool
	level       valueobject.RiskLevel
	detail      string
	evaluatedAt time.Time
}

// NewRiskEvaluation builds an evaluation. A nil score means the risk central
// returned none, which never meets a minimum.
func NewRiskEvaluation(
	document string,
	score *int,
	level valueobject.RiskLevel,
	detail string,
	evaluatedAt time.Time,
) RiskEvaluation {
	r := RiskEvaluation{
		document:    document,
		level:       level,
		detail:      detail,
		evaluatedAt: evaluatedAt,
	}
	if score != nil {
		r.score = *score
		r.scored = true
	}
	return r
}

// ScoreMeetsMinimum is true iff a score is present and at least minimum.
func (r RiskEvaluation) ScoreMeetsMinimum(minimum int) bool {
	return r.scored && r.score >= minimum
}

// RiskLevelAcceptable is true for LOW and MEDIUM.
func (r RiskEvaluation) RiskLevelAcceptable() bool {
	return !r.level.Equal(valueobject.RiskLevelHigh)
}

func (r RiskEvaluation) Document() string             { return r.document }
func (r RiskEvaluation) Level() valueobject.RiskLevel { return r.level }
func (r RiskEvaluation) Detail() string               { return r.detail }
func (r RiskEvaluation) EvaluatedAt() time.Time       { return r.evaluatedAt }

// Score returns the score and whether one was reported.
func (r RiskEvaluation) Score() (int, bool) { return r.score, r.scored }

// ScoreOrNil is the pointer form of Score, convenient for persistence and DTOs.
func (r RiskEvaluation) ScoreOrNil() *int {
	if !r.scored {
		return nil
	}
	s := r.score
	return &s
}
