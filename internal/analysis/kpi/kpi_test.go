package kpi

import (
	"math"
	"testing"

	"github.com/finscopehq/finscope/internal/analysis/statement"
	"github.com/finscopehq/finscope/pkg/models"
)

func item(name string, cur, prev float64) models.LineItem {
	return models.LineItem{AccountName: name, CurrentAmount: cur, PreviousAmount: prev}
}

func genericItems() []models.LineItem {
	return []models.LineItem{
		item("자산총계", 1000, 900),
		item("부채총계", 500, 450),
		item("자본총계", 500, 450),
		item("유동자산", 300, 280),
		item("유동부채", 150, 140),
		item("매출액", 1000, 950),
		item("영업이익", 200, 180),
		item("당기순이익", 100, 90),
	}
}

func TestGenericComputeAll(t *testing.T) {
	kpis := NewEngine(genericItems(), "반도체 제조업").ComputeAll()

	wantKeys := []string{"roa", "roe", "debt_ratio", "current_ratio", "operating_margin", "net_profit_margin"}
	if len(kpis) != len(wantKeys) {
		t.Fatalf("generic set has %d KPIs, want %d", len(kpis), len(wantKeys))
	}
	for _, k := range wantKeys {
		if _, ok := kpis[k]; !ok {
			t.Errorf("missing KPI %q", k)
		}
	}
	if _, ok := kpis["nim"]; ok {
		t.Error("generic set must not include nim")
	}

	tests := []struct {
		name   string
		value  float64
		status models.KPIStatus
	}{
		{"roa", 10.0, models.StatusExcellent},
		{"roe", 20.0, models.StatusExcellent},
		{"debt_ratio", 100.0, models.StatusExcellent},
		{"current_ratio", 200.0, models.StatusExcellent},
		{"operating_margin", 20.0, models.StatusExcellent},
		{"net_profit_margin", 10.0, models.StatusGood},
	}
	for _, tt := range tests {
		r := kpis[tt.name]
		if r.Value != tt.value {
			t.Errorf("%s value = %v, want %v", tt.name, r.Value, tt.value)
		}
		if r.Status != tt.status {
			t.Errorf("%s status = %q, want %q", tt.name, r.Status, tt.status)
		}
		if r.Unit != "%" {
			t.Errorf("%s unit = %q, want %%", tt.name, r.Unit)
		}
	}
}

func TestRatioZeroCurrentDenominator(t *testing.T) {
	items := []models.LineItem{
		item("부채총계", 500, 450),
		// no 자본총계
	}
	kpis := NewEngine(items, "제조업").ComputeAll()

	r := kpis["debt_ratio"]
	if r.Status != models.StatusError {
		t.Fatalf("status = %q, want error", r.Status)
	}
	if r.Message != "자본총계 데이터 없음" {
		t.Errorf("message = %q", r.Message)
	}
	if r.Value != 0 || r.PreviousValue != 0 {
		t.Errorf("error result must carry zero values, got %v / %v", r.Value, r.PreviousValue)
	}
	if r.Unit != "%" {
		t.Errorf("unit = %q, want %%", r.Unit)
	}
}

func TestRatioZeroPreviousDenominator(t *testing.T) {
	items := []models.LineItem{
		item("당기순이익", 100, 90),
		item("자산총계", 1000, 0),
	}
	kpis := NewEngine(items, "제조업").ComputeAll()

	r := kpis["roa"]
	if r.Status == models.StatusError {
		t.Fatal("zero previous denominator must not be an error")
	}
	if r.PreviousValue != 0 {
		t.Errorf("previous value = %v, want 0", r.PreviousValue)
	}
	if r.Change != r.Value {
		t.Errorf("change = %v, want %v", r.Change, r.Value)
	}
	if r.ChangeRate != 0 {
		t.Errorf("change rate = %v, want 0 when previous is 0", r.ChangeRate)
	}
}

func TestRatioChangeRate(t *testing.T) {
	items := []models.LineItem{
		item("당기순이익", 120, 100),
		item("자산총계", 1000, 1000),
	}
	r := NewEngine(items, "제조업").ComputeAll()["roa"]

	if r.Value != 12.0 || r.PreviousValue != 10.0 {
		t.Fatalf("values = %v / %v, want 12 / 10", r.Value, r.PreviousValue)
	}
	if r.Change != 2.0 {
		t.Errorf("change = %v, want 2", r.Change)
	}
	if r.ChangeRate != 20.0 {
		t.Errorf("change rate = %v, want 20", r.ChangeRate)
	}
	if r.Numerator != 120 || r.Denominator != 1000 {
		t.Errorf("numerator/denominator = %v / %v, want raw 120 / 1000", r.Numerator, r.Denominator)
	}
}

func TestStatusUsesUnroundedValue(t *testing.T) {
	// 9996/100000 = 9.996%, rounded to 10.00 for display but graded below
	// the ROA excellent cutoff of 10.
	items := []models.LineItem{
		item("당기순이익", 9996, 0),
		item("자산총계", 100000, 0),
	}
	r := NewEngine(items, "제조업").ComputeAll()["roa"]

	if r.Value != 10.0 {
		t.Fatalf("value = %v, want 10.0", r.Value)
	}
	if r.Status != models.StatusGood {
		t.Errorf("status = %q, want good (graded on 9.996)", r.Status)
	}
}

func TestGradeLowerBetter(t *testing.T) {
	tests := []struct {
		liabilities float64
		want        models.KPIStatus
	}{
		{500, models.StatusExcellent},  // 100%
		{1000, models.StatusGood},      // 200%
		{1500, models.StatusFair},      // 300%
		{1501, models.StatusPoor},      // >300%
	}
	for _, tt := range tests {
		items := []models.LineItem{
			item("부채총계", tt.liabilities, 0),
			item("자본총계", 500, 0),
		}
		r := NewEngine(items, "제조업").ComputeAll()["debt_ratio"]
		if r.Status != tt.want {
			t.Errorf("debt_ratio %v: status = %q, want %q", tt.liabilities, r.Status, tt.want)
		}
	}
}

func bankingItems() []models.LineItem {
	return []models.LineItem{
		item("자산총계", 10000, 9000),
		item("자본총계", 834, 750),
		item("당기순이익", 80, 70),
		item("영업이익", 200, 180),
		item("이자수익", 300, 280),
		item("이자비용", 100, 95),
		item("비이자수익", 200, 170),
		item("대출채권", 10000, 9250),
	}
}

func TestBankingComputeAll(t *testing.T) {
	kpis := NewEngine(bankingItems(), IndustryBanking).ComputeAll()

	for _, k := range []string{"roa", "roe", "operating_margin", "net_profit_margin", "nim", "bis_capital_ratio"} {
		if _, ok := kpis[k]; !ok {
			t.Errorf("missing banking KPI %q", k)
		}
	}
	for _, k := range []string{"debt_ratio", "current_ratio"} {
		if _, ok := kpis[k]; ok {
			t.Errorf("banking set must not include %q", k)
		}
	}

	// NIM = (300-100)/10000 × 100 = 2.0
	if nim := kpis["nim"]; nim.Value != 2.0 {
		t.Errorf("nim = %v, want 2.0", nim.Value)
	}
	if nim := kpis["nim"]; nim.Status != models.StatusExcellent {
		t.Errorf("nim status = %q, want excellent", nim.Status)
	}

	// Operating margin uses 이자수익+비이자수익 as the revenue base:
	// 200/(300+200) × 100 = 40.0
	if om := kpis["operating_margin"]; om.Value != 40.0 {
		t.Errorf("banking operating_margin = %v, want 40.0", om.Value)
	}
	if om := kpis["operating_margin"]; om.Denominator != 500 {
		t.Errorf("banking operating_margin denominator = %v, want 500", om.Denominator)
	}

	// BIS = 834/(10000×0.417) × 100 = 20.0
	if bis := kpis["bis_capital_ratio"]; bis.Value != 20.0 {
		t.Errorf("bis_capital_ratio = %v, want 20.0", bis.Value)
	}
}

func TestNIMFallsBackToTotalAssets(t *testing.T) {
	items := []models.LineItem{
		item("자산총계", 20000, 18000),
		item("이자수익", 500, 450),
		item("이자비용", 100, 90),
		// no 대출채권
	}
	nim := NewEngine(items, IndustryBanking).ComputeAll()["nim"]

	// (500-100)/20000 × 100 = 2.0
	if nim.Value != 2.0 {
		t.Errorf("nim = %v, want 2.0 over 자산총계", nim.Value)
	}
	if nim.PreviousValue != 2.0 {
		t.Errorf("previous nim = %v, want 2.0", nim.PreviousValue)
	}
}

func TestBISDefaultRiskWeight(t *testing.T) {
	f := &BankingFormula{}
	ix := indexOf(t, []models.LineItem{
		item("자본총계", 417, 0),
		item("자산총계", 10000, 0),
	})
	r := f.computeBISCapitalRatio(ix)
	if r.Value != 10.0 {
		t.Errorf("zero RiskWeightRatio must fall back to %v: got %v, want 10.0", DefaultRiskWeightRatio, r.Value)
	}
}

func TestFormulaFor(t *testing.T) {
	if _, ok := FormulaFor(IndustryBanking).(*BankingFormula); !ok {
		t.Error("은행업 must select the banking formula")
	}
	if _, ok := FormulaFor("제조업").(GenericFormula); !ok {
		t.Error("제조업 must select the generic formula")
	}
	if _, ok := FormulaFor("").(GenericFormula); !ok {
		t.Error("empty industry must select the generic formula")
	}
}

func TestTrendAnalysis(t *testing.T) {
	items := []models.LineItem{
		item("매출액", 1100, 1000),
		item("영업이익", 90, 100),
		item("당기순이익", 50, 0),
		item("자산총계", 0, 0),
	}
	trends := NewEngine(items, "제조업").TrendAnalysis()

	if _, ok := trends["자산총계"]; ok {
		t.Error("account with no value in either period must be skipped")
	}

	rev := trends["매출액"]
	if rev.Direction != "up" || rev.Change != 100 || rev.ChangeRate != 10.0 {
		t.Errorf("매출액 trend = %+v, want up +100 (+10%%)", rev)
	}

	op := trends["영업이익"]
	if op.Direction != "down" || op.Change != -10 || op.ChangeRate != -10.0 {
		t.Errorf("영업이익 trend = %+v, want down -10 (-10%%)", op)
	}

	ni := trends["당기순이익"]
	if ni.Direction != "flat" || ni.Change != 50 || ni.ChangeRate != 0 {
		t.Errorf("zero previous must read flat with change=current, got %+v", ni)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.005, 1.0},
		{1.006, 1.01},
		{-2.345, -2.35},
		{0, 0},
	}
	for _, tt := range tests {
		if got := round2(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func indexOf(t *testing.T, items []models.LineItem) *statement.Index {
	t.Helper()
	return statement.NewIndex(items)
}
