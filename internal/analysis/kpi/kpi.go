// Package kpi computes standardized financial KPIs from statement line items.
//
// Ratios follow (numerator / denominator) × 100, computed independently for
// the current and previous period. A zero current-period denominator yields
// a result with StatusError and zeroed values; a zero previous-period
// denominator is tolerated and reads as previous_value = 0.
package kpi

import (
	"math"

	"github.com/finscopehq/finscope/internal/analysis/statement"
	"github.com/finscopehq/finscope/pkg/models"
)

// IndustryBanking is the industry label that switches the engine to the
// banking-specific formula set.
const IndustryBanking = "은행업"

// Engine computes the full KPI set for one statement snapshot.
// It holds no state beyond the snapshot and is safe to discard after use.
type Engine struct {
	ix      *statement.Index
	formula RatioFormula
}

// NewEngine builds an engine over parsed line items. The formula variant is
// selected once from the industry label.
func NewEngine(items []models.LineItem, industry string) *Engine {
	return &Engine{
		ix:      statement.NewIndex(items),
		formula: FormulaFor(industry),
	}
}

// ComputeAll returns every KPI of the selected formula set, keyed by KPI name.
func (e *Engine) ComputeAll() models.KPISet {
	return e.formula.Compute(e.ix)
}

// trendAccounts are the key accounts reported by TrendAnalysis.
var trendAccounts = []string{
	"매출액", "영업이익", "당기순이익",
	"자산총계", "부채총계", "자본총계",
	"총포괄이익",
}

// TrendAnalysis reports year-over-year movement for the key accounts.
// An account with no value in either period is skipped entirely.
func (e *Engine) TrendAnalysis() map[string]models.TrendEntry {
	trends := make(map[string]models.TrendEntry)

	for _, name := range trendAccounts {
		current := e.ix.Resolve(name, statement.Current)
		previous := e.ix.Resolve(name, statement.Previous)

		if current == 0 && previous == 0 {
			continue
		}

		if previous == 0 {
			trends[name] = models.TrendEntry{
				Current:   current,
				Change:    current,
				Direction: "flat",
			}
			continue
		}

		changeRate := (current - previous) / previous * 100
		direction := "flat"
		switch {
		case changeRate > 0:
			direction = "up"
		case changeRate < 0:
			direction = "down"
		}

		trends[name] = models.TrendEntry{
			Current:    current,
			Previous:   previous,
			Change:     current - previous,
			ChangeRate: round2(changeRate),
			Direction:  direction,
		}
	}

	return trends
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
