package report

// reportTemplate is the HTML template for the analysis report.
// It is embedded as a Go constant — no external file dependencies.
const reportTemplate = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Malgun Gothic', 'Apple SD Gothic Neo', sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 900px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2 { font-weight: 600; }
  h1 { font-size: 1.5rem; margin-bottom: 4px; }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  p { margin: 6px 0; }
  .muted { color: var(--muted); font-size: 0.85rem; }

  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header-left h1 { color: var(--accent); }
  .header-right { text-align: right; }

  .risk-box {
    display: flex;
    align-items: center;
    gap: 24px;
    background: var(--section-bg);
    border: 1px solid var(--border);
    border-radius: 8px;
    padding: 16px;
  }
  .risk-label { font-size: 1.3rem; font-weight: 700; }

  table { width: 100%; border-collapse: collapse; margin: 8px 0; }
  th, td { padding: 8px 10px; border-bottom: 1px solid var(--border); text-align: left; font-size: 0.9rem; }
  th { background: var(--section-bg); font-weight: 600; }
  td.num { text-align: right; font-variant-numeric: tabular-nums; }

  .badge {
    display: inline-block;
    padding: 2px 10px;
    border-radius: 10px;
    color: #fff;
    font-size: 0.78rem;
    font-weight: 600;
  }

  .finding {
    border: 1px solid var(--border);
    border-left: 4px solid var(--border);
    border-radius: 6px;
    padding: 10px 14px;
    margin: 10px 0;
  }
  .finding .rec { color: var(--muted); font-size: 0.85rem; }

  ol.priorities li { margin: 6px 0 6px 20px; }
  ul.disclosures li { margin: 4px 0 4px 20px; font-size: 0.9rem; }

  .chart { margin: 12px 0; overflow-x: auto; }
  .footer { margin-top: 32px; padding-top: 12px; border-top: 1px solid var(--border); }

  @media print {
    body { padding: 0; }
    .finding { break-inside: avoid; }
  }
</style>
</head>
<body>

<div class="header">
  <div class="header-left">
    <h1>{{.Company.Name}}</h1>
    <p class="muted">기업코드 {{.Company.CorpCode}}{{if .Company.StockCode}} · 종목코드 {{.Company.StockCode}}{{end}} · {{.Industry}}</p>
  </div>
  <div class="header-right">
    <p><strong>{{.Year}}년 사업보고서 기준</strong></p>
    <p class="muted">{{.Generated}}</p>
  </div>
</div>

<h2>위험도 평가</h2>
<div class="risk-box">
  <div>{{.GaugeSVG}}</div>
  <div>
    <p class="risk-label" style="color:{{.RiskColor}}">{{.Analysis.RiskLevel.Label}}</p>
    <p>{{.Analysis.RiskLevel.Message}}</p>
    <p class="muted">심각 {{.Analysis.CriticalIssues}}건 · 주의 {{.Analysis.WarningIssues}}건 · 총 {{.Analysis.TotalIssues}}건</p>
  </div>
</div>

<h2>주요 재무지표</h2>
<table>
  <tr><th>지표</th><th>당기</th><th>전기</th><th>증감</th><th>평가</th></tr>
  {{range .KPIRows}}
  <tr>
    <td>{{.Name}}</td>
    <td class="num">{{.Value}}</td>
    <td class="num">{{.Previous}}</td>
    <td class="num">{{.Change}}</td>
    <td><span class="badge" style="background:{{.StatusColor}}">{{.StatusLabel}}</span></td>
  </tr>
  {{end}}
</table>

<div class="chart">{{.ChartSVG}}</div>

{{if .TrendRows}}
<h2>주요 계정 추이</h2>
<table>
  <tr><th></th><th>계정</th><th>당기</th><th>증감액</th><th>증감률</th></tr>
  {{range .TrendRows}}
  <tr>
    <td>{{.Arrow}}</td>
    <td>{{.Account}}</td>
    <td class="num">{{.Current}}</td>
    <td class="num">{{.Change}}</td>
    <td class="num">{{.Rate}}</td>
  </tr>
  {{end}}
</table>
{{end}}

<h2>취약점 분석</h2>
{{if .Findings}}
{{range .Findings}}
<div class="finding" style="border-left-color:{{.SeverityColor}}">
  <p><span class="badge" style="background:{{.SeverityColor}}">{{.SeverityLabel}}</span>
     <strong>{{.Title}}</strong> <span class="muted">({{.Category}})</span></p>
  <p>{{.Description}}</p>
  <p class="rec">권고: {{.Recommendation}}</p>
  <p class="rec">영향: {{.Impact}}</p>
</div>
{{end}}
{{else}}
<p>발견된 취약점이 없습니다.</p>
{{end}}

{{if .Priorities}}
<h2>개선 우선순위</h2>
<ol class="priorities">
  {{range .Priorities}}
  <li><strong>{{.Title}}</strong> <span class="muted">({{.Category}})</span><br>{{.Recommendation}}</li>
  {{end}}
</ol>
{{end}}

{{if .Disclosures}}
<h2>최근 공시</h2>
<ul class="disclosures">
  {{range .Disclosures}}
  <li><a href="{{.Link}}">{{.Title}}</a> <span class="muted">{{.PublishedAt}}</span></li>
  {{end}}
</ul>
{{end}}

<div class="footer muted">
  <p>본 리포트는 DART 전자공시 연결재무제표를 기반으로 자동 생성되었습니다. 투자 판단의 근거로 사용할 수 없습니다.</p>
</div>

</body>
</html>`
