package weakness

import (
	"fmt"

	"github.com/finscopehq/finscope/pkg/models"
)

// bankRule describes one banking profitability check. Each rule fires
// critical below 50% of the industry benchmark, warning below 80%;
// the two bands are mutually exclusive, critical checked first.
type bankRule struct {
	ruleID        string
	kpiName       string
	metricLabel   string // metric name used in descriptions (e.g. "ROA")
	titleCritical string
	titleWarning  string
	recCritical   string
	recWarning    string
	impCritical   string
	impWarning    string
}

var bankRules = []bankRule{
	{
		ruleID:        "BANK-01",
		kpiName:       "roa",
		metricLabel:   "ROA",
		titleCritical: "낮은 ROA (총자산이익률)",
		titleWarning:  "ROA 주의",
		recCritical:   "자산 활용도를 높이고 수익성 개선 방안을 마련해야 합니다.",
		recWarning:    "ROA 개선을 위한 자산 운용 효율화가 필요합니다.",
		impCritical:   "낮은 ROA는 자산 운용의 비효율성을 나타냅니다.",
		impWarning:    "ROA 저하는 수익성 악화를 의미합니다.",
	},
	{
		ruleID:        "BANK-02",
		kpiName:       "roe",
		metricLabel:   "ROE",
		titleCritical: "낮은 ROE (자기자본이익률)",
		titleWarning:  "ROE 주의",
		recCritical:   "자본 효율성을 높이고 순이익 증대 전략이 필요합니다.",
		recWarning:    "ROE 개선을 위한 자본 효율성 향상이 필요합니다.",
		impCritical:   "낮은 ROE는 주주 가치 창출 능력이 부족함을 의미합니다.",
		impWarning:    "ROE 저하는 주주 가치 창출 능력 저하를 의미합니다.",
	},
	{
		ruleID:        "BANK-03",
		kpiName:       "nim",
		metricLabel:   "NIM",
		titleCritical: "낮은 NIM (순이자마진)",
		titleWarning:  "NIM 주의",
		recCritical:   "이자수익 증대 및 이자비용 절감 방안을 마련해야 합니다.",
		recWarning:    "NIM 개선을 위한 이자수익 구조 개선이 필요합니다.",
		impCritical:   "낮은 NIM은 은행의 핵심 수익원인 이자마진이 부족함을 의미합니다.",
		impWarning:    "NIM 저하는 은행의 핵심 수익성 악화를 의미합니다.",
	},
	{
		ruleID:        "BANK-04",
		kpiName:       "operating_margin",
		metricLabel:   "영업이익률",
		titleCritical: "낮은 영업이익률",
		titleWarning:  "영업이익률 주의",
		recCritical:   "영업이익 개선을 위한 비용 절감 및 수익 증대 전략이 필요합니다.",
		recWarning:    "영업이익률 개선을 위한 운영 효율화가 필요합니다.",
		impCritical:   "낮은 영업이익률은 은행의 핵심 사업 경쟁력 약화를 시사합니다.",
		impWarning:    "영업이익률 저하는 핵심 사업의 수익성 악화를 의미합니다.",
	},
}

// checkBankMetrics runs the banking-specific profitability rules.
func (ev *Evaluator) checkBankMetrics() {
	for _, rule := range bankRules {
		benchmark, ok := ev.benchmark[rule.kpiName]
		if !ok {
			continue
		}
		value, ok := ev.kpiValue(rule.kpiName)
		if !ok {
			continue
		}

		switch {
		case value < benchmark*0.5:
			ev.add(models.Weakness{
				RuleID:         rule.ruleID,
				Title:          rule.titleCritical,
				Severity:       models.SeverityCritical,
				Category:       "수익성",
				Description:    fmt.Sprintf("%s이(가) %.2f%%로 업종평균(%.2f%%)의 절반에도 미치지 못합니다.", rule.metricLabel, value, benchmark),
				CurrentValue:   value,
				BenchmarkValue: benchmark,
				Recommendation: rule.recCritical,
				Impact:         rule.impCritical,
			})
		case value < benchmark*0.8:
			ev.add(models.Weakness{
				RuleID:         rule.ruleID,
				Title:          rule.titleWarning,
				Severity:       models.SeverityWarning,
				Category:       "수익성",
				Description:    fmt.Sprintf("%s이(가) %.2f%%로 업종평균(%.2f%%)보다 낮습니다.", rule.metricLabel, value, benchmark),
				CurrentValue:   value,
				BenchmarkValue: benchmark,
				Recommendation: rule.recWarning,
				Impact:         rule.impWarning,
			})
		}
	}
}
