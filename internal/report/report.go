package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/finscopehq/finscope/internal/analysis/weakness"
	"github.com/finscopehq/finscope/pkg/models"
	"github.com/finscopehq/finscope/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Report Generator — Orchestrates chart + template rendering
// ════════════════════════════════════════════════════════════════════

// Format specifies the report output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// Data is everything one rendered report needs. Callers assemble it from
// the datasource and analysis layers; the generator only formats.
type Data struct {
	Company     models.Company
	Year        int
	Industry    string
	KPIs        models.KPISet
	Trends      map[string]models.TrendEntry
	Analysis    weakness.Report
	Priorities  []models.Priority
	Disclosures []models.Disclosure
	GeneratedAt time.Time
}

// kpiOrder fixes the display order of KPI rows; absent keys are skipped.
var kpiOrder = []string{
	"roa", "roe", "debt_ratio", "current_ratio",
	"operating_margin", "net_profit_margin", "nim", "bis_capital_ratio",
}

// trendOrder fixes the display order of trend rows.
var trendOrder = []string{
	"매출액", "영업이익", "당기순이익", "자산총계", "부채총계", "자본총계", "총포괄이익",
}

var statusLabels = map[models.KPIStatus]string{
	models.StatusExcellent: "우수",
	models.StatusGood:      "양호",
	models.StatusFair:      "보통",
	models.StatusPoor:      "미흡",
	models.StatusError:     "계산 불가",
}

var statusColors = map[models.KPIStatus]string{
	models.StatusExcellent: "#16a34a",
	models.StatusGood:      "#2563eb",
	models.StatusFair:      "#ea580c",
	models.StatusPoor:      "#dc2626",
	models.StatusError:     "#6b7280",
}

var severityLabels = map[models.Severity]string{
	models.SeverityCritical: "심각",
	models.SeverityWarning:  "주의",
	models.SeverityInfo:     "참고",
}

var severityColors = map[models.Severity]string{
	models.SeverityCritical: "#dc2626",
	models.SeverityWarning:  "#ea580c",
	models.SeverityInfo:     "#2563eb",
}

// Generator renders reports from analysis data. Safe for concurrent use.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator parses the embedded HTML template.
func NewGenerator() (*Generator, error) {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

// Render produces the report in the requested format.
func (g *Generator) Render(data Data, format Format) (string, error) {
	switch format {
	case FormatText:
		return g.RenderText(data), nil
	case FormatHTML, "":
		return g.RenderHTML(data)
	default:
		return "", fmt.Errorf("unsupported report format: %q", format)
	}
}

// --- HTML ---

type kpiRow struct {
	Name        string
	Value       string
	Previous    string
	Change      string
	StatusLabel string
	StatusColor string
}

type trendRow struct {
	Account string
	Current string
	Change  string
	Rate    string
	Arrow   string
}

type findingView struct {
	models.Weakness
	SeverityLabel string
	SeverityColor string
}

type htmlView struct {
	Data
	Title     string
	Generated string
	KPIRows   []kpiRow
	TrendRows []trendRow
	Findings  []findingView
	GaugeSVG  template.HTML
	ChartSVG  template.HTML
	RiskColor string
}

// RenderHTML renders the full HTML report.
func (g *Generator) RenderHTML(data Data) (string, error) {
	view := htmlView{
		Data:      data,
		Title:     fmt.Sprintf("%s 재무 분석 리포트 (%d)", data.Company.Name, data.Year),
		Generated: utils.FormatDateTimeKST(data.GeneratedAt),
		RiskColor: data.Analysis.RiskLevel.Color,
	}

	for _, name := range kpiOrder {
		r, ok := data.KPIs[name]
		if !ok {
			continue
		}
		row := kpiRow{
			Name:        kpiLabel(name, r),
			StatusLabel: statusLabels[r.Status],
			StatusColor: statusColors[r.Status],
		}
		if r.Status == models.StatusError {
			row.Value = r.Message
		} else {
			row.Value = fmt.Sprintf("%.2f%%", r.Value)
			row.Previous = fmt.Sprintf("%.2f%%", r.PreviousValue)
			row.Change = utils.FormatPct(r.Change)
		}
		view.KPIRows = append(view.KPIRows, row)
	}

	for _, name := range trendOrder {
		tr, ok := data.Trends[name]
		if !ok {
			continue
		}
		view.TrendRows = append(view.TrendRows, trendRow{
			Account: name,
			Current: utils.FormatKRWCompact(tr.Current),
			Change:  utils.FormatKRWCompact(tr.Change),
			Rate:    utils.FormatPct(tr.ChangeRate),
			Arrow:   utils.DirectionArrow(tr.Direction),
		})
	}

	for _, w := range data.Analysis.Weaknesses {
		view.Findings = append(view.Findings, findingView{
			Weakness:      w,
			SeverityLabel: severityLabels[w.Severity],
			SeverityColor: severityColors[w.Severity],
		})
	}

	view.GaugeSVG = template.HTML(RiskGauge(
		data.Analysis.RiskLevel.Score,
		"위험 점수 ("+data.Analysis.RiskLevel.Label+")",
		data.Analysis.RiskLevel.Color, 220))
	view.ChartSVG = template.HTML(benchmarkChart(data))

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

// benchmarkChart builds the KPI vs industry-average comparison chart.
// Error KPIs and KPIs without a benchmark are left out.
func benchmarkChart(data Data) string {
	var bars []BenchmarkBar
	for _, name := range kpiOrder {
		r, ok := data.KPIs[name]
		if !ok || r.Status == models.StatusError {
			continue
		}
		bench, ok := data.Analysis.Benchmark[name]
		if !ok {
			continue
		}
		bars = append(bars, BenchmarkBar{
			Label:     kpiLabel(name, r),
			Value:     r.Value,
			Benchmark: bench,
		})
	}

	cfg := DefaultChartConfig()
	cfg.Height = 60 + 52*len(bars)
	return BenchmarkBarChart(bars, cfg)
}

// kpiLabel prefers the formula's Korean description over the raw key.
func kpiLabel(name string, r models.KPIResult) string {
	if r.Description != "" {
		return r.Description
	}
	return name
}

// --- text ---

// RenderText renders a plain-text report for terminal output.
func (g *Generator) RenderText(data Data) string {
	var sb strings.Builder
	line := strings.Repeat("═", 56)

	fmt.Fprintf(&sb, "%s\n%s 재무 분석 리포트 (%d년)\n%s\n", line, data.Company.Name, data.Year, line)
	fmt.Fprintf(&sb, "기업코드: %s  업종: %s\n", data.Company.CorpCode, data.Industry)
	fmt.Fprintf(&sb, "생성일시: %s\n\n", utils.FormatDateTimeKST(data.GeneratedAt))

	risk := data.Analysis.RiskLevel
	fmt.Fprintf(&sb, "[위험도] %s (점수 %d)\n%s\n\n", risk.Label, risk.Score, risk.Message)

	sb.WriteString("[주요 재무지표]\n")
	for _, name := range kpiOrder {
		r, ok := data.KPIs[name]
		if !ok {
			continue
		}
		if r.Status == models.StatusError {
			fmt.Fprintf(&sb, "  %-22s %s\n", kpiLabel(name, r), r.Message)
			continue
		}
		fmt.Fprintf(&sb, "  %-22s %8.2f%%  (전기 %.2f%%, %s)  [%s]\n",
			kpiLabel(name, r), r.Value, r.PreviousValue, utils.FormatPct(r.Change), statusLabels[r.Status])
	}

	if len(data.Trends) > 0 {
		sb.WriteString("\n[주요 계정 추이]\n")
		for _, name := range trendOrder {
			tr, ok := data.Trends[name]
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "  %s %-10s %14s  (%s)\n",
				utils.DirectionArrow(tr.Direction), name, utils.FormatKRWCompact(tr.Current), utils.FormatPct(tr.ChangeRate))
		}
	}

	if len(data.Analysis.Weaknesses) > 0 {
		fmt.Fprintf(&sb, "\n[발견된 취약점 (%d건)]\n", data.Analysis.TotalIssues)
		for _, w := range data.Analysis.Weaknesses {
			fmt.Fprintf(&sb, "  [%s] %s\n    %s\n    권고: %s\n",
				severityLabels[w.Severity], w.Title, w.Description, w.Recommendation)
		}
	} else {
		sb.WriteString("\n발견된 취약점이 없습니다.\n")
	}

	if len(data.Priorities) > 0 {
		sb.WriteString("\n[개선 우선순위]\n")
		for _, p := range data.Priorities {
			fmt.Fprintf(&sb, "  %d. %s (%s)\n", p.Rank, p.Title, p.Category)
		}
	}

	if len(data.Disclosures) > 0 {
		sb.WriteString("\n[최근 공시]\n")
		for _, d := range data.Disclosures {
			fmt.Fprintf(&sb, "  - %s (%s)\n", d.Title, d.PublishedAt)
		}
	}

	return sb.String()
}
