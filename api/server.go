// Package api provides the HTTP REST API server for FinScope.
//
// It exposes endpoints for company search, financial statements, KPI
// derivation, weakness analysis, full reports, disclosure feeds, and
// WebSocket streaming.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/finscopehq/finscope/internal/analysis/kpi"
	"github.com/finscopehq/finscope/internal/analysis/statement"
	"github.com/finscopehq/finscope/internal/analysis/weakness"
	"github.com/finscopehq/finscope/internal/config"
	"github.com/finscopehq/finscope/internal/datasource"
	"github.com/finscopehq/finscope/internal/report"
	"github.com/finscopehq/finscope/pkg/models"
	"github.com/finscopehq/finscope/web"
)

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	agg     *datasource.Aggregator
	wsHub   *WSHub
	reports *report.Generator
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) *Server {
	gen, err := report.NewGenerator()
	if err != nil {
		log.Fatalf("report template: %v", err)
	}
	srv := &Server{
		cfg:     cfg,
		agg:     datasource.NewAggregator(cfg.DART),
		wsHub:   NewWSHub(),
		reports: gen,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Company lookup
		r.Get("/search", s.handleSearch)
		r.Get("/company/{corpCode}", s.handleCompany)

		// Statements and analysis
		r.Get("/financial/{corpCode}", s.handleFinancial)
		r.Get("/kpi/{corpCode}", s.handleKPI)
		r.Get("/weakness/{corpCode}", s.handleWeakness)
		r.Get("/report/{corpCode}", s.handleReport)
		r.Get("/report/{corpCode}/html", s.handleReportHTML)

		// Disclosure feed
		r.Get("/disclosures", s.handleDisclosures)

		// Benchmarks and configuration
		r.Get("/industries", s.handleIndustries)
		r.Get("/config", s.handleGetConfig)

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	// Embedded landing page
	r.Handle("/*", http.FileServer(http.FS(web.StaticFS())))

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// KPIResponse is the payload for GET /api/v1/kpi/{corpCode}.
type KPIResponse struct {
	CorpCode string                       `json:"corp_code"`
	Year     int                          `json:"year"`
	Industry string                       `json:"industry"`
	KPIs     models.KPISet                `json:"kpis"`
	Trends   map[string]models.TrendEntry `json:"trends"`
}

// WeaknessResponse is the payload for GET /api/v1/weakness/{corpCode}.
type WeaknessResponse struct {
	CorpCode   string                `json:"corp_code"`
	Year       int                   `json:"year"`
	Industry   string                `json:"industry"`
	Analysis   weakness.Report       `json:"analysis"`
	Priorities []models.Priority     `json:"priorities"`
	Risk       models.RiskAssessment `json:"risk"`
}

// ReportResponse is the payload for GET /api/v1/report/{corpCode}: the full
// company profile plus per-year KPI and weakness analysis.
type ReportResponse struct {
	Profile  *models.CompanyProfile   `json:"profile"`
	Analyses map[int]WeaknessResponse `json:"analyses"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":      "ok",
			"version":     "dev",
			"sample_mode": s.agg.DART().SampleMode(),
			"time":        time.Now().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	companies, err := s.agg.DART().Search(ctx, q)
	if err != nil {
		if err == datasource.ErrCompanyNotFound {
			writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: []models.Company{}})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    companies,
	})
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	corpCode := chi.URLParam(r, "corpCode")
	if corpCode == "" {
		writeError(w, http.StatusBadRequest, "corp code is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	company, err := s.agg.DART().CompanyInfo(ctx, corpCode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    company,
	})
}

func (s *Server) handleFinancial(w http.ResponseWriter, r *http.Request) {
	corpCode := chi.URLParam(r, "corpCode")
	if corpCode == "" {
		writeError(w, http.StatusBadRequest, "corp code is required")
		return
	}
	year := s.queryYear(r)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	stmt, err := s.agg.DART().FinancialStatement(ctx, corpCode, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    stmt,
	})
}

func (s *Server) handleKPI(w http.ResponseWriter, r *http.Request) {
	corpCode := chi.URLParam(r, "corpCode")
	if corpCode == "" {
		writeError(w, http.StatusBadRequest, "corp code is required")
		return
	}
	year := s.queryYear(r)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	industry := s.resolveIndustry(ctx, r, corpCode)

	stmt, err := s.agg.DART().FinancialStatement(ctx, corpCode, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	engine := kpi.NewEngine(statement.FromRaw(stmt.Items), industry)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: KPIResponse{
			CorpCode: corpCode,
			Year:     year,
			Industry: industry,
			KPIs:     engine.ComputeAll(),
			Trends:   engine.TrendAnalysis(),
		},
	})
}

func (s *Server) handleWeakness(w http.ResponseWriter, r *http.Request) {
	corpCode := chi.URLParam(r, "corpCode")
	if corpCode == "" {
		writeError(w, http.StatusBadRequest, "corp code is required")
		return
	}
	year := s.queryYear(r)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	industry := s.resolveIndustry(ctx, r, corpCode)

	resp, err := s.analyzeWeakness(ctx, corpCode, year, industry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{
			"corp_code":  corpCode,
			"year":       year,
			"risk_level": resp.Risk.Level,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    resp,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	corpCode := chi.URLParam(r, "corpCode")
	if corpCode == "" {
		writeError(w, http.StatusBadRequest, "corp code is required")
		return
	}

	endYear := s.queryYear(r)
	span := 3
	if v := r.URL.Query().Get("years"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 10 {
			span = n
		}
	}
	years := make([]int, 0, span)
	for y := endYear - span + 1; y <= endYear; y++ {
		years = append(years, y)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	profile, err := s.agg.FetchProfile(ctx, corpCode, years)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	industry := profile.Company.Industry
	if industry == "" {
		industry = s.cfg.Analysis.DefaultIndustry
	}

	analyses := evaluateYears(corpCode, profile.Statements, years, industry)

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{
			"corp_code": corpCode,
			"years":     years,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ReportResponse{
			Profile:  profile,
			Analyses: analyses,
		},
	})
}

// handleReportHTML renders the single-year analysis as a standalone HTML
// document (or plain text with ?format=text), suitable for printing or
// piping to a PDF engine.
func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	corpCode := chi.URLParam(r, "corpCode")
	if corpCode == "" {
		writeError(w, http.StatusBadRequest, "corp code is required")
		return
	}
	year := s.queryYear(r)

	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	industry := s.resolveIndustry(ctx, r, corpCode)

	company, err := s.agg.DART().CompanyInfo(ctx, corpCode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	analysis, err := s.analyzeWeakness(ctx, corpCode, year, industry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stmt, err := s.agg.DART().FinancialStatement(ctx, corpCode, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	engine := kpi.NewEngine(statement.FromRaw(stmt.Items), industry)

	// Best effort: a report without disclosures is still a report.
	// Sample mode skips the live feed entirely.
	var disclosures []models.Disclosure
	if !s.agg.DART().SampleMode() {
		if items, err := s.agg.Disclosures().ForCompany(ctx, company.Name, 5); err == nil {
			disclosures = items
		}
	}

	data := report.Data{
		Company:     *company,
		Year:        year,
		Industry:    industry,
		KPIs:        engine.ComputeAll(),
		Trends:      engine.TrendAnalysis(),
		Analysis:    analysis.Analysis,
		Priorities:  analysis.Priorities,
		Disclosures: disclosures,
		GeneratedAt: time.Now(),
	}

	format := report.FormatHTML
	contentType := "text/html; charset=utf-8"
	if r.URL.Query().Get("format") == "text" {
		format = report.FormatText
		contentType = "text/plain; charset=utf-8"
	}

	out, err := s.reports.Render(data, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		log.Printf("failed to write report: %v", err)
	}
}

func (s *Server) handleDisclosures(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var (
		items []models.Disclosure
		err   error
	)
	if company := r.URL.Query().Get("company"); company != "" {
		items, err = s.agg.Disclosures().ForCompany(ctx, company, limit)
	} else {
		items, err = s.agg.Disclosures().Recent(ctx, limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    items,
	})
}

func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    weakness.Industries(),
	})
}

// ============================================================
// Helpers
// ============================================================

// queryYear reads the year query parameter, defaulting to the configured
// analysis year (usually the last completed fiscal year).
func (s *Server) queryYear(r *http.Request) int {
	if v := r.URL.Query().Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y > 1900 {
			return y
		}
	}
	if s.cfg.Analysis.DefaultYear > 0 {
		return s.cfg.Analysis.DefaultYear
	}
	return time.Now().Year() - 1
}

// resolveIndustry picks the industry for analysis: explicit query parameter
// first, then the company profile, then the configured default.
func (s *Server) resolveIndustry(ctx context.Context, r *http.Request, corpCode string) string {
	if v := strings.TrimSpace(r.URL.Query().Get("industry")); v != "" {
		return v
	}
	if company, err := s.agg.DART().CompanyInfo(ctx, corpCode); err == nil && company.Industry != "" {
		return company.Industry
	}
	return s.cfg.Analysis.DefaultIndustry
}

// analyzeWeakness fetches the current and prior years, computes KPIs, and
// runs the rule engine with a three-point ROE history for the trend rule.
func (s *Server) analyzeWeakness(ctx context.Context, corpCode string, year int, industry string) (*WeaknessResponse, error) {
	years := []int{year - 2, year - 1, year}
	statements := s.agg.DART().MultiYearFinancial(ctx, corpCode, years)

	stmt, ok := statements[year]
	if !ok {
		var err error
		stmt, err = s.agg.DART().FinancialStatement(ctx, corpCode, year)
		if err != nil {
			return nil, err
		}
	}

	engine := kpi.NewEngine(statement.FromRaw(stmt.Items), industry)
	kpis := engine.ComputeAll()

	history := kpiHistory(statements, years, industry)
	report := weakness.Evaluate(kpis, industry, history)

	return &WeaknessResponse{
		CorpCode:   corpCode,
		Year:       year,
		Industry:   industry,
		Analysis:   report,
		Priorities: report.Priorities(),
		Risk:       report.RiskLevel,
	}, nil
}

// evaluateYears runs the rule engine for each year, ascending, so each
// evaluation sees only the KPI snapshots up to and including its own year.
func evaluateYears(corpCode string, statements map[int]*models.FinancialStatement, years []int, industry string) map[int]WeaknessResponse {
	analyses := make(map[int]WeaknessResponse, len(statements))
	history := make([]models.KPISet, 0, len(years))
	for _, year := range years {
		stmt, ok := statements[year]
		if !ok {
			continue
		}
		engine := kpi.NewEngine(statement.FromRaw(stmt.Items), industry)
		kpis := engine.ComputeAll()
		history = append(history, kpis)
		report := weakness.Evaluate(kpis, industry, history)
		analyses[year] = WeaknessResponse{
			CorpCode:   corpCode,
			Year:       year,
			Industry:   industry,
			Analysis:   report,
			Priorities: report.Priorities(),
			Risk:       report.RiskLevel,
		}
	}
	return analyses
}

// kpiHistory computes per-year KPI snapshots, oldest first, for trend rules.
func kpiHistory(statements map[int]*models.FinancialStatement, years []int, industry string) []models.KPISet {
	history := make([]models.KPISet, 0, len(years))
	for _, year := range years {
		stmt, ok := statements[year]
		if !ok {
			continue
		}
		engine := kpi.NewEngine(statement.FromRaw(stmt.Items), industry)
		history = append(history, engine.ComputeAll())
	}
	return history
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
