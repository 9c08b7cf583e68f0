package weakness

import (
	"fmt"

	"github.com/finscopehq/finscope/internal/analysis/kpi"
	"github.com/finscopehq/finscope/pkg/models"
)

// Report is the full output of one rule-engine evaluation.
type Report struct {
	Weaknesses     []models.Weakness     `json:"weaknesses"`
	RiskLevel      models.RiskAssessment `json:"risk_level"`
	TotalIssues    int                   `json:"total_issues"`
	CriticalIssues int                   `json:"critical_issues"`
	WarningIssues  int                   `json:"warning_issues"`
	InfoIssues     int                   `json:"info_issues"`
	Benchmark      Benchmark             `json:"benchmark"`
}

// Evaluator runs the fixed rule catalog over one KPI set.
// Evaluation is pure: no state survives a call, so evaluators are safe to
// build per request and discard.
type Evaluator struct {
	kpis       models.KPISet
	industry   string
	benchmark  Benchmark
	history    []models.KPISet
	weaknesses []models.Weakness
}

// NewEvaluator builds an evaluator. history is an optional series of prior
// KPI snapshots, oldest first, used by the trend rules.
func NewEvaluator(kpis models.KPISet, industry string, history []models.KPISet) *Evaluator {
	return &Evaluator{
		kpis:      kpis,
		industry:  industry,
		benchmark: BenchmarkFor(industry),
		history:   history,
	}
}

// Evaluate is the one-call form of NewEvaluator + AnalyzeAll.
func Evaluate(kpis models.KPISet, industry string, history []models.KPISet) Report {
	return NewEvaluator(kpis, industry, history).AnalyzeAll()
}

// AnalyzeAll runs every applicable rule and aggregates the findings.
func (ev *Evaluator) AnalyzeAll() Report {
	ev.weaknesses = nil

	if ev.industry == kpi.IndustryBanking {
		ev.checkBankMetrics()
	} else {
		ev.checkHighDebtRatio()
		ev.checkLiquidityRisk()
		ev.checkLowProfitability()
	}

	// Common rules, all industries.
	ev.checkDecliningTrend()
	ev.checkNegativeCashflow()

	report := Report{
		Weaknesses:  ev.weaknesses,
		RiskLevel:   computeRiskLevel(ev.weaknesses),
		TotalIssues: len(ev.weaknesses),
		Benchmark:   ev.benchmark,
	}
	for _, w := range ev.weaknesses {
		switch w.Severity {
		case models.SeverityCritical:
			report.CriticalIssues++
		case models.SeverityWarning:
			report.WarningIssues++
		case models.SeverityInfo:
			report.InfoIssues++
		}
	}
	return report
}

// kpiValue reads a KPI value for rule evaluation. ok is false when the KPI is
// absent or could not be computed (StatusError) — such KPIs are skipped, not
// treated as failing the rule.
func (ev *Evaluator) kpiValue(name string) (float64, bool) {
	r, ok := ev.kpis[name]
	if !ok || r.Status == models.StatusError {
		return 0, false
	}
	return r.Value, true
}

func (ev *Evaluator) add(w models.Weakness) {
	ev.weaknesses = append(ev.weaknesses, w)
}

// checkHighDebtRatio implements rule R01. Never runs for banking, and only
// when the benchmark defines debt_ratio.
func (ev *Evaluator) checkHighDebtRatio() {
	if ev.industry == kpi.IndustryBanking {
		return
	}
	benchmark, ok := ev.benchmark["debt_ratio"]
	if !ok {
		return
	}
	value, ok := ev.kpiValue("debt_ratio")
	if !ok {
		return
	}

	switch {
	case value > benchmark*1.2: // 업종평균 + 20%
		ev.add(models.Weakness{
			RuleID:         "R01",
			Title:          "높은 부채비율 위험",
			Severity:       models.SeverityCritical,
			Category:       "재무구조",
			Description:    fmt.Sprintf("부채비율이 %.2f%%로 업종평균(%.2f%%)보다 20%% 이상 높습니다.", value, benchmark),
			CurrentValue:   value,
			BenchmarkValue: benchmark,
			Recommendation: "부채 감축 계획을 수립하고, 자본 확충을 고려해야 합니다.",
			Impact:         "높은 부채비율은 재무 건전성을 저해하고 이자비용 부담을 증가시킵니다.",
		})
	case value > benchmark:
		ev.add(models.Weakness{
			RuleID:         "R01",
			Title:          "부채비율 주의 필요",
			Severity:       models.SeverityWarning,
			Category:       "재무구조",
			Description:    fmt.Sprintf("부채비율이 %.2f%%로 업종평균(%.2f%%)보다 높습니다.", value, benchmark),
			CurrentValue:   value,
			BenchmarkValue: benchmark,
			Recommendation: "부채비율 상승 추이를 모니터링하고 관리가 필요합니다.",
			Impact:         "부채비율 증가는 재무 리스크를 높일 수 있습니다.",
		})
	}
}

// checkLowProfitability implements rules R04-1..3 for non-banking industries.
func (ev *Evaluator) checkLowProfitability() {
	if ev.industry == kpi.IndustryBanking {
		return
	}

	if benchmark, ok := ev.benchmark["roa"]; ok {
		if value, ok := ev.kpiValue("roa"); ok && value < benchmark*0.5 {
			ev.add(models.Weakness{
				RuleID:         "R04-1",
				Title:          "낮은 총자산이익률 (ROA)",
				Severity:       models.SeverityCritical,
				Category:       "수익성",
				Description:    fmt.Sprintf("ROA가 %.2f%%로 업종평균(%.2f%%)의 절반에도 미치지 못합니다.", value, benchmark),
				CurrentValue:   value,
				BenchmarkValue: benchmark,
				Recommendation: "자산 활용도를 높이고 수익성 개선 방안을 마련해야 합니다.",
				Impact:         "낮은 ROA는 자산 운용의 비효율성을 나타냅니다.",
			})
		}
	}

	if benchmark, ok := ev.benchmark["roe"]; ok {
		if value, ok := ev.kpiValue("roe"); ok && value < benchmark*0.5 {
			ev.add(models.Weakness{
				RuleID:         "R04-2",
				Title:          "낮은 자기자본이익률 (ROE)",
				Severity:       models.SeverityCritical,
				Category:       "수익성",
				Description:    fmt.Sprintf("ROE가 %.2f%%로 업종평균(%.2f%%)의 절반에도 미치지 못합니다.", value, benchmark),
				CurrentValue:   value,
				BenchmarkValue: benchmark,
				Recommendation: "자본 효율성을 높이고 순이익 증대 전략이 필요합니다.",
				Impact:         "낮은 ROE는 주주 가치 창출 능력이 부족함을 의미합니다.",
			})
		}
	}

	if benchmark, ok := ev.benchmark["operating_margin"]; ok {
		if value, ok := ev.kpiValue("operating_margin"); ok && value < benchmark*0.5 {
			ev.add(models.Weakness{
				RuleID:         "R04-3",
				Title:          "낮은 영업이익률",
				Severity:       models.SeverityWarning,
				Category:       "수익성",
				Description:    fmt.Sprintf("영업이익률이 %.2f%%로 업종평균(%.2f%%)보다 매우 낮습니다.", value, benchmark),
				CurrentValue:   value,
				BenchmarkValue: benchmark,
				Recommendation: "원가 절감 및 가격 정책 재검토가 필요합니다.",
				Impact:         "낮은 영업이익률은 핵심 사업의 경쟁력 약화를 시사합니다.",
			})
		}
	}
}

// checkLiquidityRisk implements rule R05. A current ratio under 100% is
// critical regardless of the benchmark.
func (ev *Evaluator) checkLiquidityRisk() {
	if ev.industry == kpi.IndustryBanking {
		return
	}
	benchmark, ok := ev.benchmark["current_ratio"]
	if !ok {
		return
	}
	value, ok := ev.kpiValue("current_ratio")
	if !ok {
		return
	}

	switch {
	case value < 100:
		ev.add(models.Weakness{
			RuleID:         "R05",
			Title:          "유동성 부족 위험",
			Severity:       models.SeverityCritical,
			Category:       "유동성",
			Description:    fmt.Sprintf("유동비율이 %.2f%%로 100%% 미만입니다. 단기 지급능력에 문제가 있을 수 있습니다.", value),
			CurrentValue:   value,
			BenchmarkValue: 100.0,
			Recommendation: "단기 자금 조달 계획을 마련하고 유동자산을 확보해야 합니다.",
			Impact:         "단기 채무 상환 능력이 부족하여 유동성 위기 가능성이 있습니다.",
		})
	case value < benchmark*0.8:
		ev.add(models.Weakness{
			RuleID:         "R05",
			Title:          "유동성 주의 필요",
			Severity:       models.SeverityWarning,
			Category:       "유동성",
			Description:    fmt.Sprintf("유동비율이 %.2f%%로 업종평균(%.2f%%)보다 낮습니다.", value, benchmark),
			CurrentValue:   value,
			BenchmarkValue: benchmark,
			Recommendation: "유동성 관리를 강화하고 단기 자산/부채 구조를 개선해야 합니다.",
			Impact:         "유동성 악화는 자금 운용의 어려움으로 이어질 수 있습니다.",
		})
	}
}

// checkDecliningTrend implements rule R03: ROE strictly decreasing across the
// three most recent historical snapshots.
func (ev *Evaluator) checkDecliningTrend() {
	if len(ev.history) < 3 {
		return
	}

	recent := ev.history[len(ev.history)-3:]
	trend := make([]float64, 0, 3)
	for _, snapshot := range recent {
		trend = append(trend, snapshot["roe"].Value)
	}

	if trend[0] > trend[1] && trend[1] > trend[2] {
		ev.add(models.Weakness{
			RuleID:         "R03",
			Title:          "ROE 지속 하락 추세",
			Severity:       models.SeverityCritical,
			Category:       "트렌드",
			Description:    fmt.Sprintf("ROE가 3년 연속 감소하고 있습니다 (%.2f%% → %.2f%% → %.2f%%).", trend[0], trend[1], trend[2]),
			CurrentValue:   trend[2],
			BenchmarkValue: trend[0],
			Recommendation: "수익성 개선을 위한 구조조정 및 사업 전략 재검토가 시급합니다.",
			Impact:         "지속적인 수익성 악화는 기업 경쟁력 저하를 의미합니다.",
		})
	}
}

// checkNegativeCashflow is rule R02. The evaluator currently only receives
// ratio KPIs, so the cash-flow rule is a declared no-op kept as the hook for
// the day cash-flow accounts are threaded into the rule input.
func (ev *Evaluator) checkNegativeCashflow() {
}
