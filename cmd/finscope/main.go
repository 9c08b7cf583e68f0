// FinScope — DART 재무분석: KPI derivation and weakness analysis for
// Korean listed companies.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/finscopehq/finscope/api"
	"github.com/finscopehq/finscope/internal/analysis/kpi"
	"github.com/finscopehq/finscope/internal/analysis/statement"
	"github.com/finscopehq/finscope/internal/analysis/weakness"
	"github.com/finscopehq/finscope/internal/config"
	"github.com/finscopehq/finscope/internal/datasource"
	"github.com/finscopehq/finscope/internal/report"
	"github.com/finscopehq/finscope/pkg/models"
	"github.com/finscopehq/finscope/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finscope",
	Short: "FinScope — 재무제표 KPI 및 취약점 분석",
	Long: `FinScope
Financial statement analysis for Korean listed companies, built on the
DART Open API. Derives profitability, stability, and banking KPIs from
consolidated statements and evaluates them against industry benchmarks
to surface financial weaknesses.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(kpiCmd)
	rootCmd.AddCommand(weaknessCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FinScope %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Search Command ---

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search listed companies by name or stock code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		client := datasource.NewClient(cfg.DART)
		companies, err := client.Search(ctx, args[0])
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		fmt.Printf("🔍 검색 결과: %q (%d건)\n\n", args[0], len(companies))
		for _, c := range companies {
			fmt.Printf("  %-10s %-20s 종목코드 %-8s %s\n", c.CorpCode, c.Name, c.StockCode, c.Industry)
		}
		return nil
	},
}

// --- KPI Command ---

var kpiCmd = &cobra.Command{
	Use:   "kpi [corp_code]",
	Short: "Compute financial KPIs for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		corpCode := args[0]
		year := flagYear(cmd)

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		client := datasource.NewClient(cfg.DART)
		company, industry, err := resolveCompany(ctx, cmd, client, corpCode)
		if err != nil {
			return err
		}

		stmt, err := client.FinancialStatement(ctx, corpCode, year)
		if err != nil {
			return fmt.Errorf("statement fetch failed: %w", err)
		}

		engine := kpi.NewEngine(statement.FromRaw(stmt.Items), industry)
		kpis := engine.ComputeAll()

		fmt.Printf("📊 %s (%s) — %d년 KPI [업종: %s]\n\n", company.Name, corpCode, year, industry)
		printKPIs(kpis)

		trends := engine.TrendAnalysis()
		if len(trends) > 0 {
			fmt.Println("\n  주요 계정 증감:")
			names := make([]string, 0, len(trends))
			for name := range trends {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				tr := trends[name]
				fmt.Printf("    %s %-14s %s → %s (%s)\n",
					utils.DirectionArrow(tr.Direction), name,
					utils.FormatKRWCompact(tr.Previous), utils.FormatKRWCompact(tr.Current),
					utils.FormatPct(tr.ChangeRate))
			}
		}
		return nil
	},
}

// --- Weakness Command ---

var weaknessCmd = &cobra.Command{
	Use:   "weakness [corp_code]",
	Short: "Run weakness analysis against industry benchmarks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		corpCode := args[0]
		year := flagYear(cmd)

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		client := datasource.NewClient(cfg.DART)
		company, industry, err := resolveCompany(ctx, cmd, client, corpCode)
		if err != nil {
			return err
		}

		years := []int{year - 2, year - 1, year}
		statements := client.MultiYearFinancial(ctx, corpCode, years)
		stmt, ok := statements[year]
		if !ok {
			return fmt.Errorf("no statement for %s in %d", corpCode, year)
		}

		var history []models.KPISet
		for _, y := range years {
			if s, ok := statements[y]; ok {
				history = append(history, kpi.NewEngine(statement.FromRaw(s.Items), industry).ComputeAll())
			}
		}

		kpis := kpi.NewEngine(statement.FromRaw(stmt.Items), industry).ComputeAll()
		rep := weakness.Evaluate(kpis, industry, history)

		fmt.Printf("🩺 %s (%s) — %d년 취약점 분석 [업종: %s]\n\n", company.Name, corpCode, year, industry)
		printReport(rep)
		return nil
	},
}

// --- Report Command ---

var reportCmd = &cobra.Command{
	Use:   "report [corp_code]",
	Short: "Full report: profile, KPIs, weaknesses, disclosures",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		corpCode := args[0]
		endYear := flagYear(cmd)
		span, _ := cmd.Flags().GetInt("years")
		if span <= 0 {
			span = 3
		}
		years := make([]int, 0, span)
		for y := endYear - span + 1; y <= endYear; y++ {
			years = append(years, y)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
		defer cancel()

		agg := datasource.NewAggregator(cfg.DART)
		profile, err := agg.FetchProfile(ctx, corpCode, years)
		if err != nil {
			return fmt.Errorf("report fetch failed: %w", err)
		}

		company := profile.Company
		industry := company.Industry
		if industry == "" {
			industry = cfg.Analysis.DefaultIndustry
		}

		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("  %s (%s)\n", company.Name, corpCode)
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("  업종:       %s\n", industry)
		fmt.Printf("  종목코드:   %s\n", company.StockCode)
		if company.CEO != "" {
			fmt.Printf("  대표이사:   %s\n", company.CEO)
		}
		fmt.Println()

		var history []models.KPISet
		for _, y := range years {
			if s, ok := profile.Statements[y]; ok {
				history = append(history, kpi.NewEngine(statement.FromRaw(s.Items), industry).ComputeAll())
			}
		}

		stmt, ok := profile.Statements[endYear]
		if ok {
			engine := kpi.NewEngine(statement.FromRaw(stmt.Items), industry)
			kpis := engine.ComputeAll()
			rep := weakness.Evaluate(kpis, industry, history)

			fmt.Printf("── %d년 KPI ──\n", endYear)
			printKPIs(kpis)
			fmt.Println()
			printReport(rep)

			htmlPath, _ := cmd.Flags().GetString("html")
			pdfPath, _ := cmd.Flags().GetString("pdf")
			if htmlPath != "" || pdfPath != "" {
				data := report.Data{
					Company:     company,
					Year:        endYear,
					Industry:    industry,
					KPIs:        kpis,
					Trends:      engine.TrendAnalysis(),
					Analysis:    rep,
					Priorities:  rep.Priorities(),
					Disclosures: profile.Disclosures,
					GeneratedAt: time.Now(),
				}
				if err := exportReport(data, htmlPath, pdfPath); err != nil {
					return err
				}
			}
		} else {
			fmt.Printf("  ⚠️  %d년 재무제표 없음\n", endYear)
		}

		if len(profile.Disclosures) > 0 {
			fmt.Println("\n── 최근 공시 ──")
			for _, d := range profile.Disclosures {
				fmt.Printf("  • %s\n", d.Title)
			}
		}

		if profile.Partial {
			fmt.Println("\n  (일부 데이터 수집 실패)")
			for _, msg := range profile.Errors {
				fmt.Printf("    - %s\n", msg)
			}
		}
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := api.NewServer(cfg)
		addr := cfg.API.Addr()
		fmt.Printf("🌐 Starting FinScope API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := datasource.NewClient(cfg.DART)

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  FinScope — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  DART API:      %s\n", cfg.DART.BaseURL)
		if client.SampleMode() {
			fmt.Println("  API Key:       ❌ not set (sample mode)")
		} else {
			fmt.Println("  API Key:       ✅ set")
		}
		fmt.Printf("  Default Year:  %d\n", cfg.Analysis.DefaultYear)
		fmt.Printf("  Default 업종:  %s\n", cfg.Analysis.DefaultIndustry)
		fmt.Printf("  API Server:    %s\n", cfg.API.Addr())
		fmt.Printf("  KRX:           %s (%s)\n", utils.MarketStatus(), utils.FormatDateTimeKST(time.Now()))
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{kpiCmd, weaknessCmd, reportCmd} {
		c.Flags().Int("year", 0, "fiscal year (default: last completed year)")
		c.Flags().String("industry", "", "industry override for benchmark selection")
	}
	reportCmd.Flags().Int("years", 3, "number of fiscal years to cover")
	reportCmd.Flags().String("html", "", "write the report as HTML to this file")
	reportCmd.Flags().String("pdf", "", "write the report as PDF to this file (requires wkhtmltopdf or chromium)")
}

// --- Helpers ---

func flagYear(cmd *cobra.Command) int {
	if y, _ := cmd.Flags().GetInt("year"); y > 1900 {
		return y
	}
	if cfg.Analysis.DefaultYear > 0 {
		return cfg.Analysis.DefaultYear
	}
	return time.Now().Year() - 1
}

// resolveCompany looks up the company and picks the analysis industry:
// the --industry flag wins, then the company profile, then the default.
func resolveCompany(ctx context.Context, cmd *cobra.Command, client *datasource.Client, corpCode string) (*models.Company, string, error) {
	company, err := client.CompanyInfo(ctx, corpCode)
	if err != nil {
		return nil, "", fmt.Errorf("company lookup failed: %w", err)
	}

	industry, _ := cmd.Flags().GetString("industry")
	if industry == "" {
		industry = company.Industry
	}
	if industry == "" {
		industry = cfg.Analysis.DefaultIndustry
	}
	return company, industry, nil
}

// exportReport renders the HTML report and writes the requested files.
func exportReport(data report.Data, htmlPath, pdfPath string) error {
	gen, err := report.NewGenerator()
	if err != nil {
		return err
	}
	html, err := gen.RenderHTML(data)
	if err != nil {
		return fmt.Errorf("report render failed: %w", err)
	}

	if htmlPath != "" {
		if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
			return fmt.Errorf("writing HTML report: %w", err)
		}
		fmt.Printf("\n  📄 HTML 리포트 저장: %s\n", htmlPath)
	}
	if pdfPath != "" {
		if err := report.GeneratePDF(html, pdfPath); err != nil {
			return fmt.Errorf("PDF export failed: %w", err)
		}
		fmt.Printf("  📄 PDF 리포트 저장: %s\n", pdfPath)
	}
	return nil
}

func printKPIs(kpis models.KPISet) {
	names := make([]string, 0, len(kpis))
	for name := range kpis {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := kpis[name]
		if r.Status == models.StatusError {
			fmt.Printf("  %-20s 계산 불가 (%s)\n", name, r.Message)
			continue
		}
		fmt.Printf("  %-20s %8.2f%s  [%s]  전년 대비 %s\n",
			name, r.Value, r.Unit, r.Status, utils.FormatPct(r.ChangeRate))
	}
}

func printReport(report weakness.Report) {
	risk := report.RiskLevel
	fmt.Printf("  종합 위험도: %s (점수 %d) — %s\n", risk.Label, risk.Score, risk.Message)
	fmt.Printf("  발견된 취약점: %d건 (심각 %d / 경고 %d)\n\n",
		report.TotalIssues, report.CriticalIssues, report.WarningIssues)

	for _, w := range report.Weaknesses {
		marker := "⚠️ "
		if w.Severity == models.SeverityCritical {
			marker = "🚨"
		}
		fmt.Printf("  %s [%s] %s\n", marker, w.RuleID, w.Title)
		fmt.Printf("      %s\n", w.Description)
		fmt.Printf("      개선방안: %s\n", w.Recommendation)
	}

	priorities := report.Priorities()
	if len(priorities) > 0 {
		fmt.Println("\n  개선 우선순위:")
		for _, p := range priorities {
			fmt.Printf("    %d. [%s] %s\n", p.Rank, p.Severity, p.Title)
		}
	}
}
