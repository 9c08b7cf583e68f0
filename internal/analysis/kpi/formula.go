package kpi

import (
	"github.com/finscopehq/finscope/internal/analysis/statement"
	"github.com/finscopehq/finscope/pkg/models"
)

// DefaultRiskWeightRatio approximates risk-weighted assets as a fixed share
// of total assets. Regulatory RWA figures are not disclosed in the statement
// data this engine consumes, so the banking capital ratio uses this stand-in.
const DefaultRiskWeightRatio = 0.417

// Canonical account names used by the formulas.
const (
	acctNetIncome          = "당기순이익"
	acctTotalAssets        = "자산총계"
	acctTotalEquity        = "자본총계"
	acctTotalLiabilities   = "부채총계"
	acctCurrentAssets      = "유동자산"
	acctCurrentLiabilities = "유동부채"
	acctOperatingIncome    = "영업이익"
	acctRevenue            = "매출액"
	acctInterestIncome     = "이자수익"
	acctInterestExpense    = "이자비용"
	acctNonInterestIncome  = "비이자수익"
	acctLoans              = "대출채권"
)

// RatioFormula is the industry-conditional KPI formula set.
// One variant is selected per analysis request; the generic set covers every
// industry except banking, which swaps leverage/liquidity ratios for
// NIM and the BIS capital ratio.
type RatioFormula interface {
	Compute(ix *statement.Index) models.KPISet
}

// FormulaFor selects the formula variant for an industry label.
func FormulaFor(industry string) RatioFormula {
	if industry == IndustryBanking {
		return &BankingFormula{RiskWeightRatio: DefaultRiskWeightRatio}
	}
	return GenericFormula{}
}

// grade maps a current-period ratio value onto a qualitative status.
type grade struct {
	excellent, good, fair float64
	lowerBetter           bool
}

func (g grade) status(v float64) models.KPIStatus {
	if g.lowerBetter {
		switch {
		case v <= g.excellent:
			return models.StatusExcellent
		case v <= g.good:
			return models.StatusGood
		case v <= g.fair:
			return models.StatusFair
		}
		return models.StatusPoor
	}
	switch {
	case v >= g.excellent:
		return models.StatusExcellent
	case v >= g.good:
		return models.StatusGood
	case v >= g.fair:
		return models.StatusFair
	}
	return models.StatusPoor
}

// ratio computes (num/den)×100 for both periods with the standard guards:
// a zero current denominator is an error, a zero previous denominator reads
// as previous_value 0.
func ratio(desc string, numCur, denCur, numPrev, denPrev float64, g grade, missing string) models.KPIResult {
	if denCur == 0 {
		return models.KPIResult{
			Status:      models.StatusError,
			Unit:        "%",
			Description: desc,
			Message:     missing,
		}
	}

	cur := numCur / denCur * 100
	var prev float64
	if denPrev != 0 {
		prev = numPrev / denPrev * 100
	}

	change := cur - prev
	var changeRate float64
	if prev != 0 {
		changeRate = change / prev * 100
	}

	return models.KPIResult{
		Value:         round2(cur),
		PreviousValue: round2(prev),
		Change:        round2(change),
		ChangeRate:    round2(changeRate),
		Status:        g.status(cur),
		Numerator:     numCur,
		Denominator:   denCur,
		Unit:          "%",
		Description:   desc,
	}
}

// resolve2 reads both periods of a canonical account.
func resolve2(ix *statement.Index, name string) (cur, prev float64) {
	return ix.Resolve(name, statement.Current), ix.Resolve(name, statement.Previous)
}

// --- shared ratios ---

func computeROA(ix *statement.Index) models.KPIResult {
	niCur, niPrev := resolve2(ix, acctNetIncome)
	taCur, taPrev := resolve2(ix, acctTotalAssets)
	return ratio("ROA (총자산순이익률)", niCur, taCur, niPrev, taPrev,
		grade{excellent: 10, good: 5, fair: 0}, "총자산 데이터 없음")
}

func computeROE(ix *statement.Index) models.KPIResult {
	niCur, niPrev := resolve2(ix, acctNetIncome)
	teCur, tePrev := resolve2(ix, acctTotalEquity)
	return ratio("ROE (자기자본순이익률)", niCur, teCur, niPrev, tePrev,
		grade{excellent: 15, good: 10, fair: 5}, "자본총계 데이터 없음")
}

func computeNetProfitMargin(ix *statement.Index) models.KPIResult {
	niCur, niPrev := resolve2(ix, acctNetIncome)
	revCur, revPrev := resolve2(ix, acctRevenue)
	return ratio("순이익률", niCur, revCur, niPrev, revPrev,
		grade{excellent: 15, good: 8, fair: 3}, "매출액 데이터 없음")
}

// --- generic industries ---

// GenericFormula is the six-ratio set applied to every non-banking industry.
type GenericFormula struct{}

func (GenericFormula) Compute(ix *statement.Index) models.KPISet {
	return models.KPISet{
		"roa":               computeROA(ix),
		"roe":               computeROE(ix),
		"debt_ratio":        computeDebtRatio(ix),
		"current_ratio":     computeCurrentRatio(ix),
		"operating_margin":  computeOperatingMargin(ix),
		"net_profit_margin": computeNetProfitMargin(ix),
	}
}

func computeDebtRatio(ix *statement.Index) models.KPIResult {
	tlCur, tlPrev := resolve2(ix, acctTotalLiabilities)
	teCur, tePrev := resolve2(ix, acctTotalEquity)
	return ratio("부채비율", tlCur, teCur, tlPrev, tePrev,
		grade{excellent: 100, good: 200, fair: 300, lowerBetter: true}, "자본총계 데이터 없음")
}

func computeCurrentRatio(ix *statement.Index) models.KPIResult {
	caCur, caPrev := resolve2(ix, acctCurrentAssets)
	clCur, clPrev := resolve2(ix, acctCurrentLiabilities)
	return ratio("유동비율", caCur, clCur, caPrev, clPrev,
		grade{excellent: 200, good: 100, fair: 80}, "유동부채 데이터 없음")
}

func computeOperatingMargin(ix *statement.Index) models.KPIResult {
	oiCur, oiPrev := resolve2(ix, acctOperatingIncome)
	revCur, revPrev := resolve2(ix, acctRevenue)
	return ratio("영업이익률", oiCur, revCur, oiPrev, revPrev,
		grade{excellent: 20, good: 10, fair: 5}, "매출액 데이터 없음")
}

// --- banking ---

// BankingFormula replaces the leverage and liquidity ratios with the bank
// spread/capital metrics and uses banking revenue (이자수익 + 비이자수익)
// as the operating margin base.
type BankingFormula struct {
	// RiskWeightRatio scales total assets into risk-weighted assets for the
	// BIS capital ratio. Overridable; defaults to DefaultRiskWeightRatio.
	RiskWeightRatio float64
}

func (f *BankingFormula) Compute(ix *statement.Index) models.KPISet {
	return models.KPISet{
		"roa":               computeROA(ix),
		"roe":               computeROE(ix),
		"operating_margin":  f.computeOperatingMargin(ix),
		"net_profit_margin": computeNetProfitMargin(ix),
		"nim":               f.computeNIM(ix),
		"bis_capital_ratio": f.computeBISCapitalRatio(ix),
	}
}

func (f *BankingFormula) computeOperatingMargin(ix *statement.Index) models.KPIResult {
	oiCur, oiPrev := resolve2(ix, acctOperatingIncome)
	iiCur, iiPrev := resolve2(ix, acctInterestIncome)
	nonCur, nonPrev := resolve2(ix, acctNonInterestIncome)
	return ratio("영업이익률", oiCur, iiCur+nonCur, oiPrev, iiPrev+nonPrev,
		grade{excellent: 40, good: 30, fair: 20}, "이자수익 데이터 없음")
}

// computeNIM reports the net interest margin over interest-earning assets,
// approximated by 대출채권 when reported, else 자산총계.
func (f *BankingFormula) computeNIM(ix *statement.Index) models.KPIResult {
	iiCur, iiPrev := resolve2(ix, acctInterestIncome)
	ieCur, iePrev := resolve2(ix, acctInterestExpense)

	earnCur, earnPrev := resolve2(ix, acctLoans)
	if earnCur == 0 {
		earnCur, _ = resolve2(ix, acctTotalAssets)
	}
	if earnPrev == 0 {
		_, earnPrev = resolve2(ix, acctTotalAssets)
	}

	return ratio("NIM (순이자마진)", iiCur-ieCur, earnCur, iiPrev-iePrev, earnPrev,
		grade{excellent: 2.0, good: 1.5, fair: 1.0}, "이자수익자산 데이터 없음")
}

func (f *BankingFormula) computeBISCapitalRatio(ix *statement.Index) models.KPIResult {
	rw := f.RiskWeightRatio
	if rw == 0 {
		rw = DefaultRiskWeightRatio
	}

	teCur, tePrev := resolve2(ix, acctTotalEquity)
	taCur, taPrev := resolve2(ix, acctTotalAssets)
	return ratio("BIS 자기자본비율", teCur, taCur*rw, tePrev, taPrev*rw,
		grade{excellent: 10.5, good: 8.0, fair: 6.0}, "자산총계 데이터 없음")
}
