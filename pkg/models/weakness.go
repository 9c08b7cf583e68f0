package models

// Severity classifies a detected financial weakness.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank orders severities for prioritization (critical first).
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Weakness is one rule-engine finding. Produced once, never mutated.
type Weakness struct {
	RuleID         string   `json:"rule_id"`
	Title          string   `json:"title"`
	Severity       Severity `json:"severity"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	CurrentValue   float64  `json:"current_value"`
	BenchmarkValue float64  `json:"benchmark_value"`
	Recommendation string   `json:"recommendation"`
	Impact         string   `json:"impact"`
}

// RiskLevel is the aggregate risk bucket derived from the weakness set.
type RiskLevel string

const (
	RiskSafe   RiskLevel = "safe"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAssessment is the deterministic aggregate rating over all findings.
type RiskAssessment struct {
	Level   RiskLevel `json:"level"`
	Label   string    `json:"label"`
	Score   int       `json:"score"`
	Color   string    `json:"color"`
	Message string    `json:"message"`
}

// Priority is one entry of the ranked improvement list.
type Priority struct {
	Rank           int      `json:"rank"`
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation"`
}
