// Package decision merges the rule-based tier and the classifier
// probability into one final risk level.
package decision

import (
	"github.com/edurisk/student-dss/internal/domain"
	"github.com/edurisk/student-dss/internal/modules/scoring/scorers"
)

// Probability thresholds for the classifier signal.
const (
	HighProbability     = 0.65
	ModerateProbability = 0.4
)

// Reconcile combines the total rule score and the failure probability
// using an OR-dominance policy: either detector escalating the tier is
// sufficient, and neither can de-escalate what the other raised.
//
// With the classifier unavailable the probability is fixed at 0, which
// collapses the result to the pure rule classification.
func Reconcile(totalScore int, probability float64) domain.RiskLevel {
	switch {
	case probability > HighProbability || totalScore >= scorers.HighRiskThreshold:
		return domain.RiskHigh
	case probability > ModerateProbability || totalScore >= scorers.ModerateRiskThreshold:
		return domain.RiskModerate
	default:
		return domain.RiskLow
	}
}
