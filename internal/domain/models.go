package domain

import "fmt"

// RiskLevel classifies a student's risk of academic failure.
// Levels are ordered: Low < Moderate < High.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low Risk"
	RiskModerate RiskLevel = "Moderate Risk"
	RiskHigh     RiskLevel = "High Risk"
)

// Rank returns the ordering of a risk level (Low=0, Moderate=1, High=2).
func (l RiskLevel) Rank() int {
	switch l {
	case RiskHigh:
		return 2
	case RiskModerate:
		return 1
	default:
		return 0
	}
}

// Record is a loosely-typed student record as produced by the dataset
// loader or a single-record evaluation request. Values may be numeric
// or string representations; the extractor normalizes them.
type Record map[string]any

// RiskBreakdown holds the four rule-based sub-scores.
type RiskBreakdown struct {
	APS int `json:"aps"` // Academic Performance Score (0-4)
	ARS int `json:"ars"` // Attendance Risk Score (0-3)
	FSR int `json:"fsr"` // Family Support Risk (0-3)
	LRS int `json:"lrs"` // Lifestyle Risk Score (0-5)
}

// Total sums all sub-scores into the 0-15 rule score.
func (b RiskBreakdown) Total() int {
	return b.APS + b.ARS + b.FSR + b.LRS
}

// AnalysisResult is the complete outcome of evaluating one student.
// It is constructed once per evaluation and never mutated afterwards.
type AnalysisResult struct {
	Index           int           `json:"index"`
	Record          Record        `json:"record"`
	Breakdown       RiskBreakdown `json:"breakdown"`
	TotalRiskScore  int           `json:"total_risk_score"`
	RuleLevel       RiskLevel     `json:"rule_level"`
	MLProbability   float64       `json:"ml_probability"`
	MLAvailable     bool          `json:"ml_available"`
	FinalLevel      RiskLevel     `json:"final_level"`
	Recommendations []string      `json:"recommendations"`
}

// SummaryStatistics aggregates the risk distribution of a full run.
type SummaryStatistics struct {
	TotalStudents   int     `json:"total_students"`
	HighRisk        int     `json:"high_risk"`
	ModerateRisk    int     `json:"moderate_risk"`
	LowRisk         int     `json:"low_risk"`
	HighRiskPct     float64 `json:"high_risk_pct"`
	ModerateRiskPct float64 `json:"moderate_risk_pct"`
	LowRiskPct      float64 `json:"low_risk_pct"`
	MLEnabled       bool    `json:"ml_enabled"`
}

// MissingFieldError reports a required record field that was absent.
// Only G2 and absences are hard requirements; every other field has a
// documented default.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}
