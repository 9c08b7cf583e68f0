package weakness

import (
	"testing"

	"github.com/finscopehq/finscope/pkg/models"
)

// kset builds a KPI set with the given values, all computable.
func kset(values map[string]float64) models.KPISet {
	set := make(models.KPISet, len(values))
	for name, v := range values {
		set[name] = models.KPIResult{Value: v, Status: models.StatusGood, Unit: "%"}
	}
	return set
}

func findRule(report Report, ruleID string) (models.Weakness, bool) {
	for _, w := range report.Weaknesses {
		if w.RuleID == ruleID {
			return w, true
		}
	}
	return models.Weakness{}, false
}

func TestBenchmarkForFallback(t *testing.T) {
	b := BenchmarkFor("존재하지 않는 업종")
	if b["roa"] != 4.0 || b["debt_ratio"] != 100.0 {
		t.Errorf("unknown industry must use the default profile, got %v", b)
	}
	if !IsKnownIndustry("은행업") {
		t.Error("은행업 must be a known industry")
	}
	if IsKnownIndustry("존재하지 않는 업종") {
		t.Error("unknown label must not report as known")
	}
}

func TestIndustriesExcludesDefault(t *testing.T) {
	names := Industries()
	if len(names) == 0 {
		t.Fatal("no industries listed")
	}
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if name == DefaultIndustry {
			t.Error("default key must not be listed")
		}
		if i > 0 && names[i-1] > name {
			t.Errorf("industries not sorted: %q before %q", names[i-1], name)
		}
		seen[name] = true
	}
	if !seen["은행업"] || !seen["제조업"] {
		t.Errorf("expected 은행업 and 제조업 in %v", names)
	}
}

func TestHighDebtRatio(t *testing.T) {
	// 제조업 benchmark debt_ratio is 100.
	tests := []struct {
		value    float64
		severity models.Severity
		fires    bool
	}{
		{250, models.SeverityCritical, true}, // above benchmark×1.2
		{110, models.SeverityWarning, true},  // above benchmark only
		{90, "", false},
	}

	for _, tt := range tests {
		report := Evaluate(kset(map[string]float64{"debt_ratio": tt.value}), "제조업", nil)
		w, ok := findRule(report, "R01")
		if ok != tt.fires {
			t.Errorf("debt_ratio %v: fired=%v, want %v", tt.value, ok, tt.fires)
			continue
		}
		if ok && w.Severity != tt.severity {
			t.Errorf("debt_ratio %v: severity = %q, want %q", tt.value, w.Severity, tt.severity)
		}
		if ok && w.BenchmarkValue != 100.0 {
			t.Errorf("debt_ratio %v: benchmark = %v, want 100", tt.value, w.BenchmarkValue)
		}
	}
}

func TestDebtRatioRuleSkipsBanking(t *testing.T) {
	report := Evaluate(kset(map[string]float64{"debt_ratio": 900}), "은행업", nil)
	if _, ok := findRule(report, "R01"); ok {
		t.Error("debt ratio rule must not run for 은행업")
	}
}

func TestLiquidityRisk(t *testing.T) {
	// 제조업 benchmark current_ratio is 130; warning band below 104.
	tests := []struct {
		value     float64
		severity  models.Severity
		benchmark float64
		fires     bool
	}{
		{90, models.SeverityCritical, 100.0, true}, // under 100% is always critical
		{101, models.SeverityWarning, 130.0, true},
		{120, "", 0, false},
	}

	for _, tt := range tests {
		report := Evaluate(kset(map[string]float64{"current_ratio": tt.value}), "제조업", nil)
		w, ok := findRule(report, "R05")
		if ok != tt.fires {
			t.Errorf("current_ratio %v: fired=%v, want %v", tt.value, ok, tt.fires)
			continue
		}
		if !ok {
			continue
		}
		if w.Severity != tt.severity {
			t.Errorf("current_ratio %v: severity = %q, want %q", tt.value, w.Severity, tt.severity)
		}
		if w.BenchmarkValue != tt.benchmark {
			t.Errorf("current_ratio %v: benchmark = %v, want %v", tt.value, w.BenchmarkValue, tt.benchmark)
		}
	}
}

func TestLowProfitability(t *testing.T) {
	// 제조업 benchmarks: roa 3.5, roe 8.0, operating_margin 8.0.
	report := Evaluate(kset(map[string]float64{
		"roa":              1.0, // < 1.75
		"roe":              3.0, // < 4.0
		"operating_margin": 2.0, // < 4.0
	}), "제조업", nil)

	if w, ok := findRule(report, "R04-1"); !ok || w.Severity != models.SeverityCritical {
		t.Errorf("R04-1 = %+v (found=%v), want critical", w, ok)
	}
	if w, ok := findRule(report, "R04-2"); !ok || w.Severity != models.SeverityCritical {
		t.Errorf("R04-2 = %+v (found=%v), want critical", w, ok)
	}
	if w, ok := findRule(report, "R04-3"); !ok || w.Severity != models.SeverityWarning {
		t.Errorf("R04-3 = %+v (found=%v), want warning", w, ok)
	}
}

func TestProfitabilityAtExactlyHalfDoesNotFire(t *testing.T) {
	report := Evaluate(kset(map[string]float64{"roa": 1.75}), "제조업", nil)
	if _, ok := findRule(report, "R04-1"); ok {
		t.Error("roa at exactly half the benchmark must not fire")
	}
}

func TestDecliningTrend(t *testing.T) {
	history := func(roes ...float64) []models.KPISet {
		sets := make([]models.KPISet, 0, len(roes))
		for _, v := range roes {
			sets = append(sets, kset(map[string]float64{"roe": v}))
		}
		return sets
	}

	tests := []struct {
		name    string
		history []models.KPISet
		fires   bool
	}{
		{"strictly decreasing", history(12.0, 9.5, 7.0), true},
		{"plateau", history(12.0, 9.5, 9.5), false},
		{"recovering", history(12.0, 9.5, 10.0), false},
		{"too short", history(12.0, 9.5), false},
		{"older years ignored", history(5.0, 12.0, 9.5, 7.0), true},
	}

	for _, tt := range tests {
		report := Evaluate(kset(nil), "제조업", tt.history)
		w, ok := findRule(report, "R03")
		if ok != tt.fires {
			t.Errorf("%s: fired=%v, want %v", tt.name, ok, tt.fires)
			continue
		}
		if ok && w.Severity != models.SeverityCritical {
			t.Errorf("%s: severity = %q, want critical", tt.name, w.Severity)
		}
	}
}

func TestBankRules(t *testing.T) {
	// 은행업 benchmarks: roa 0.6, roe 8.0, nim 1.8, operating_margin 35.0.
	report := Evaluate(kset(map[string]float64{
		"roa":              0.2,  // < 0.3 critical
		"roe":              7.0,  // ≥ 6.4, clean
		"nim":              1.0,  // < 1.44, ≥ 0.9: warning
		"operating_margin": 15.0, // < 17.5 critical
	}), "은행업", nil)

	if w, ok := findRule(report, "BANK-01"); !ok || w.Severity != models.SeverityCritical {
		t.Errorf("BANK-01 = %+v (found=%v), want critical", w, ok)
	}
	if _, ok := findRule(report, "BANK-02"); ok {
		t.Error("BANK-02 must not fire for roe above 80 percent of benchmark")
	}
	if w, ok := findRule(report, "BANK-03"); !ok || w.Severity != models.SeverityWarning {
		t.Errorf("BANK-03 = %+v (found=%v), want warning", w, ok)
	}
	if w, ok := findRule(report, "BANK-04"); !ok || w.Severity != models.SeverityCritical {
		t.Errorf("BANK-04 = %+v (found=%v), want critical", w, ok)
	}
}

func TestErrorKPIsAreSkipped(t *testing.T) {
	set := models.KPISet{
		"roa": {Status: models.StatusError, Message: "총자산 데이터 없음"},
	}
	report := Evaluate(set, "제조업", nil)
	if _, ok := findRule(report, "R04-1"); ok {
		t.Error("KPI with error status must be skipped, not treated as zero")
	}
}

func TestReportCounts(t *testing.T) {
	report := Evaluate(kset(map[string]float64{
		"debt_ratio":    250, // critical
		"current_ratio": 101, // warning
	}), "제조업", nil)

	if report.TotalIssues != 2 {
		t.Errorf("total = %d, want 2", report.TotalIssues)
	}
	if report.CriticalIssues != 1 || report.WarningIssues != 1 || report.InfoIssues != 0 {
		t.Errorf("counts = %d/%d/%d, want 1/1/0",
			report.CriticalIssues, report.WarningIssues, report.InfoIssues)
	}
	if report.Benchmark["debt_ratio"] != 100.0 {
		t.Errorf("report benchmark = %v, want 제조업 profile", report.Benchmark)
	}
}

func weaknessOf(severity models.Severity) models.Weakness {
	return models.Weakness{Severity: severity}
}

func TestComputeRiskLevel(t *testing.T) {
	tests := []struct {
		name  string
		ws    []models.Weakness
		level models.RiskLevel
		label string
		score int
		color string
	}{
		{
			"three criticals",
			[]models.Weakness{weaknessOf(models.SeverityCritical), weaknessOf(models.SeverityCritical), weaknessOf(models.SeverityCritical)},
			models.RiskHigh, "높음", 30, "#FF4B4B",
		},
		{
			"critical plus warning",
			[]models.Weakness{weaknessOf(models.SeverityCritical), weaknessOf(models.SeverityWarning)},
			models.RiskMedium, "보통", 15, "#FFA500",
		},
		{
			"single warning",
			[]models.Weakness{weaknessOf(models.SeverityWarning)},
			models.RiskLow, "낮음", 5, "#FFD700",
		},
		{
			"no findings",
			nil,
			models.RiskSafe, "안전", 0, "#00C851",
		},
		{
			"info does not score",
			[]models.Weakness{weaknessOf(models.SeverityInfo)},
			models.RiskSafe, "안전", 0, "#00C851",
		},
	}

	for _, tt := range tests {
		risk := computeRiskLevel(tt.ws)
		if risk.Level != tt.level || risk.Label != tt.label || risk.Score != tt.score || risk.Color != tt.color {
			t.Errorf("%s: got %+v, want level=%q label=%q score=%d color=%q",
				tt.name, risk, tt.level, tt.label, tt.score, tt.color)
		}
		if risk.Message == "" {
			t.Errorf("%s: empty message", tt.name)
		}
	}
}

func TestImprovementPriorities(t *testing.T) {
	ws := []models.Weakness{
		{Title: "w1", Severity: models.SeverityWarning},
		{Title: "c1", Severity: models.SeverityCritical},
		{Title: "i1", Severity: models.SeverityInfo},
		{Title: "w2", Severity: models.SeverityWarning},
		{Title: "c2", Severity: models.SeverityCritical},
		{Title: "w3", Severity: models.SeverityWarning},
		{Title: "c3", Severity: models.SeverityCritical},
	}

	priorities := ImprovementPriorities(ws)
	if len(priorities) != 5 {
		t.Fatalf("len = %d, want capped at 5", len(priorities))
	}

	wantTitles := []string{"c1", "c2", "c3", "w1", "w2"}
	for i, p := range priorities {
		if p.Title != wantTitles[i] {
			t.Errorf("priority %d = %q, want %q (stable severity order)", i, p.Title, wantTitles[i])
		}
		if p.Rank != i+1 {
			t.Errorf("priority %d rank = %d, want %d", i, p.Rank, i+1)
		}
	}
}
