package report

import (
	"strings"
	"testing"
	"time"

	"github.com/finscopehq/finscope/internal/analysis/weakness"
	"github.com/finscopehq/finscope/pkg/models"
)

func sampleData() Data {
	kpis := models.KPISet{
		"roa": {
			Value: 1.5, PreviousValue: 2.1, Change: -0.6, ChangeRate: -28.57,
			Status: models.StatusFair, Unit: "%", Description: "ROA (총자산순이익률)",
		},
		"debt_ratio": {
			Value: 250.0, PreviousValue: 230.0, Change: 20.0, ChangeRate: 8.7,
			Status: models.StatusPoor, Unit: "%", Description: "부채비율",
		},
		"current_ratio": {
			Status: models.StatusError, Unit: "%", Description: "유동비율", Message: "유동부채 데이터 없음",
		},
	}
	analysis := weakness.Evaluate(kpis, "제조업", nil)

	return Data{
		Company:  models.Company{CorpCode: "00126380", Name: "삼성전자", StockCode: "005930"},
		Year:     2023,
		Industry: "제조업",
		KPIs:     kpis,
		Trends: map[string]models.TrendEntry{
			"매출액": {Current: 3e12, Previous: 2.8e12, Change: 2e11, ChangeRate: 7.14, Direction: "up"},
		},
		Analysis:    analysis,
		Priorities:  analysis.Priorities(),
		GeneratedAt: time.Date(2026, 5, 11, 14, 0, 0, 0, time.UTC),
	}
}

func TestRenderHTML(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator() error: %v", err)
	}

	html, err := gen.RenderHTML(sampleData())
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}

	for _, want := range []string{
		"삼성전자",
		"00126380",
		"2023년 사업보고서 기준",
		"부채비율",
		"유동부채 데이터 없음", // error KPI renders its message
		"높은 부채비율 위험",  // R01 critical from debt_ratio 250 vs 100
		"<svg",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestRenderText(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatal(err)
	}

	text := gen.RenderText(sampleData())
	for _, want := range []string{
		"삼성전자 재무 분석 리포트 (2023년)",
		"[위험도]",
		"부채비율",
		"[개선 우선순위]",
		"▲ 매출액",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text report missing %q", want)
		}
	}
	if strings.Contains(text, "<svg") {
		t.Error("text report must not contain markup")
	}
}

func TestRenderFormatDispatch(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := gen.Render(sampleData(), FormatText); err != nil {
		t.Errorf("text render error: %v", err)
	}
	if _, err := gen.Render(sampleData(), ""); err != nil {
		t.Errorf("default format must render HTML: %v", err)
	}
	if _, err := gen.Render(sampleData(), Format("xml")); err == nil {
		t.Error("unknown format must error")
	}
}

func TestBenchmarkBarChart(t *testing.T) {
	bars := []BenchmarkBar{
		{Label: "ROA", Value: 1.5, Benchmark: 3.5},
		{Label: "부채비율", Value: 250, Benchmark: 100},
	}
	svg := BenchmarkBarChart(bars, DefaultChartConfig())

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete SVG document")
	}
	if got := strings.Count(svg, "<rect"); got < 5 {
		t.Errorf("expected background + 2 bars per KPI, got %d rects", got)
	}
	if !strings.Contains(svg, "ROA") {
		t.Error("missing KPI label")
	}
}

func TestBenchmarkBarChartEmpty(t *testing.T) {
	svg := BenchmarkBarChart(nil, ChartConfig{})
	if !strings.Contains(svg, "데이터 없음") {
		t.Errorf("empty chart = %q", svg)
	}
}

func TestRiskGauge(t *testing.T) {
	svg := RiskGauge(35, "위험 점수 (높음)", "#FF4B4B", 220)
	if !strings.Contains(svg, ">35<") {
		t.Error("gauge must show the score")
	}
	if !strings.Contains(svg, "#FF4B4B") {
		t.Error("gauge must use the risk level color")
	}

	// Out-of-range scores clamp instead of breaking the arc path.
	if svg := RiskGauge(999, "test", "", 0); !strings.Contains(svg, "</svg>") {
		t.Error("clamped gauge must still render")
	}
}

func TestEscapeXML(t *testing.T) {
	if got := escapeXML(`a<b>&"c"`); got != "a&lt;b&gt;&amp;&quot;c&quot;" {
		t.Errorf("escapeXML = %q", got)
	}
}
