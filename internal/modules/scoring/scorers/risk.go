// Package scorers implements the deterministic rule-based risk scoring.
// Every scorer is a pure function over normalized features: same input,
// same score, no hidden state.
package scorers

import (
	"github.com/edurisk/student-dss/internal/domain"
	"github.com/edurisk/student-dss/internal/modules/students"
)

// Tier thresholds for the 0-15 total rule score.
const (
	HighRiskThreshold     = 8
	ModerateRiskThreshold = 4
)

// ComputeBreakdown runs all four sub-scorers over one student.
func ComputeBreakdown(f students.Features) domain.RiskBreakdown {
	return domain.RiskBreakdown{
		APS: AcademicScore(f),
		ARS: AttendanceScore(f),
		FSR: FamilySupportScore(f),
		LRS: LifestyleScore(f),
	}
}

// ClassifyScore maps a total rule score to a risk level:
// ≥8 High, ≥4 Moderate, otherwise Low.
func ClassifyScore(score int) domain.RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return domain.RiskHigh
	case score >= ModerateRiskThreshold:
		return domain.RiskModerate
	default:
		return domain.RiskLow
	}
}
