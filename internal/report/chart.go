// Package report renders financial analysis reports for FinScope.
// It generates SVG charts, an HTML report, and optional PDF exports with
// Korean-market formatting.
package report

import (
	"fmt"
	"math"
	"strings"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator — Pure Go, Zero Dependencies
// ════════════════════════════════════════════════════════════════════

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 800)
	Height       int    // SVG height in pixels (default: 400)
	MarginTop    int    // top margin (default: 40)
	MarginRight  int    // right margin (default: 60)
	MarginBottom int    // bottom margin (default: 50)
	MarginLeft   int    // left margin (default: 140)
	BgColor      string // background color (default: "#ffffff")
	TextColor    string // axis label color (default: "#333333")
	FontSize     int    // axis label font size (default: 11)
	Title        string // chart title
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        800,
		Height:       400,
		MarginTop:    40,
		MarginRight:  60,
		MarginBottom: 50,
		MarginLeft:   140,
		BgColor:      "#ffffff",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// ════════════════════════════════════════════════════════════════════
// KPI vs Benchmark Comparison Chart
// ════════════════════════════════════════════════════════════════════

// BenchmarkBar is one KPI compared against its industry benchmark.
type BenchmarkBar struct {
	Label     string  // KPI display name
	Value     float64 // company value (%)
	Benchmark float64 // industry average (%)
	Color     string  // bar color, defaults by sign
}

// BenchmarkBarChart draws paired horizontal bars, company value against
// industry average, one pair per KPI.
func BenchmarkBarChart(bars []BenchmarkBar, cfg ChartConfig) string {
	if len(bars) == 0 {
		return emptySVG(cfg, "데이터 없음")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "업종평균 대비 주요 지표"
	}

	px, py, pw, ph := cfg.plotArea()

	maxVal := 0.0
	minVal := 0.0
	for _, b := range bars {
		maxVal = math.Max(maxVal, math.Max(b.Value, b.Benchmark))
		minVal = math.Min(minVal, math.Min(b.Value, b.Benchmark))
	}
	valRange := maxVal - minVal
	if valRange < 0.001 {
		valRange = 1
	}
	hasNegative := minVal < 0

	groupH := float64(ph) / float64(len(bars))
	barH := groupH * 0.3
	if barH > 18 {
		barH = 18
	}

	zeroX := float64(px)
	if hasNegative {
		zeroX = float64(px) + (-minVal/valRange)*float64(pw)
	}

	scale := func(v float64) (x, w float64) {
		w = math.Abs(v) / valRange * float64(pw)
		if v >= 0 {
			return zeroX, w
		}
		return zeroX - w, w
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="22" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	if hasNegative {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#999" stroke-width="1"/>`,
			zeroX, py, zeroX, py+ph))
	}

	for i, b := range bars {
		top := float64(py) + float64(i)*groupH + (groupH-2*barH-3)/2

		color := b.Color
		if color == "" {
			if b.Value >= b.Benchmark {
				color = "#2563eb"
			} else {
				color = "#ef5350"
			}
		}

		vx, vw := scale(b.Value)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`,
			vx, top, vw, barH, color))

		bx, bw := scale(b.Benchmark)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#b0bec5" rx="2"/>`,
			bx, top+barH+3, bw, barH))

		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-8, top+barH+2, cfg.FontSize, cfg.TextColor, escapeXML(b.Label)))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s">%.1f%%</text>`,
			vx+vw+5, top+barH-3, cfg.FontSize, cfg.TextColor, b.Value))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="#78909c">%.1f%%</text>`,
			bx+bw+5, top+2*barH+1, cfg.FontSize, b.Benchmark))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Risk Gauge
// ════════════════════════════════════════════════════════════════════

// gaugeMax is the score at which the gauge pins to the right edge.
// 10 points per critical finding, so 60 is a severely distressed filer.
const gaugeMax = 60.0

// RiskGauge generates a semicircular gauge for the weakness risk score.
// Higher scores render toward red; color matches the risk level palette.
func RiskGauge(score int, label, color string, width int) string {
	if width == 0 {
		width = 200
	}
	height := width/2 + 30

	cx := float64(width) / 2
	cy := float64(width)/2 - 10
	radius := float64(width)/2 - 20

	v := float64(score)
	if v < 0 {
		v = 0
	}
	if v > gaugeMax {
		v = gaugeMax
	}
	frac := v / gaugeMax

	if color == "" {
		color = "#00C851"
	}

	// Angle: 180° (left) to 0° (right), score 0 maps left, gaugeMax right.
	angle := math.Pi - frac*math.Pi
	needleX := cx + radius*0.85*math.Cos(angle)
	needleY := cy - radius*0.85*math.Sin(angle)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, width, height))

	// Background arc
	sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f A%.1f,%.1f 0 0,1 %.1f,%.1f" fill="none" stroke="#e0e0e0" stroke-width="12" stroke-linecap="round"/>`,
		cx-radius, cy, radius, radius, cx+radius, cy))

	// Colored arc (proportional to score)
	if frac > 0 {
		endX := cx + radius*math.Cos(angle)
		endY := cy - radius*math.Sin(angle)
		largeArc := 0
		if frac > 0.5 {
			largeArc = 1
		}
		sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f A%.1f,%.1f 0 %d,1 %.1f,%.1f" fill="none" stroke="%s" stroke-width="12" stroke-linecap="round"/>`,
			cx-radius, cy, radius, radius, largeArc, endX, endY, color))
	}

	// Needle
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333" stroke-width="2"/>`,
		cx, cy, needleX, needleY))
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="#333"/>`, cx, cy))

	// Score text
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="22" font-weight="bold" fill="%s" text-anchor="middle">%d</text>`,
		cx, cy+25, color, score))

	// Label
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="11" fill="#666" text-anchor="middle">%s</text>`,
		cx, height-5, escapeXML(label)))

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
