package weakness

import (
	"sort"

	"github.com/finscopehq/finscope/pkg/models"
)

// Risk score weights per finding severity. Info findings do not currently
// contribute, though the severity enum reserves a slot for them.
const (
	criticalWeight = 10
	warningWeight  = 5
)

// computeRiskLevel derives the aggregate risk assessment from the findings.
// score = 10×critical + 5×warning; ≥30 high, ≥15 medium, >0 low, else safe.
func computeRiskLevel(weaknesses []models.Weakness) models.RiskAssessment {
	var critical, warning int
	for _, w := range weaknesses {
		switch w.Severity {
		case models.SeverityCritical:
			critical++
		case models.SeverityWarning:
			warning++
		}
	}

	score := critical*criticalWeight + warning*warningWeight

	switch {
	case score >= 30:
		return models.RiskAssessment{
			Level:   models.RiskHigh,
			Label:   "높음",
			Score:   score,
			Color:   "#FF4B4B",
			Message: "심각한 재무 취약점이 발견되었습니다. 즉각적인 대응이 필요합니다.",
		}
	case score >= 15:
		return models.RiskAssessment{
			Level:   models.RiskMedium,
			Label:   "보통",
			Score:   score,
			Color:   "#FFA500",
			Message: "일부 재무 취약점이 발견되었습니다. 개선 계획 수립이 권장됩니다.",
		}
	case score > 0:
		return models.RiskAssessment{
			Level:   models.RiskLow,
			Label:   "낮음",
			Score:   score,
			Color:   "#FFD700",
			Message: "경미한 주의사항이 있습니다. 지속적인 모니터링이 필요합니다.",
		}
	default:
		return models.RiskAssessment{
			Level:   models.RiskSafe,
			Label:   "안전",
			Score:   score,
			Color:   "#00C851",
			Message: "재무 상태가 양호합니다.",
		}
	}
}

// maxPriorities caps the improvement-priority list.
const maxPriorities = 5

// ImprovementPriorities ranks findings for remediation: stable sort by
// severity (critical first), detection order preserved within a severity,
// top five returned.
func ImprovementPriorities(weaknesses []models.Weakness) []models.Priority {
	sorted := make([]models.Weakness, len(weaknesses))
	copy(sorted, weaknesses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})

	if len(sorted) > maxPriorities {
		sorted = sorted[:maxPriorities]
	}

	priorities := make([]models.Priority, 0, len(sorted))
	for i, w := range sorted {
		priorities = append(priorities, models.Priority{
			Rank:           i + 1,
			Title:          w.Title,
			Category:       w.Category,
			Severity:       w.Severity,
			Recommendation: w.Recommendation,
		})
	}
	return priorities
}

// Priorities ranks this report's findings. See ImprovementPriorities.
func (r Report) Priorities() []models.Priority {
	return ImprovementPriorities(r.Weaknesses)
}
