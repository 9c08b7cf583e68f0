package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/finscopehq/finscope/internal/config"
	"github.com/finscopehq/finscope/pkg/models"
)

// Client talks to the DART Open API. Without an API key it runs in sample
// mode, serving deterministic generated data so the rest of the system keeps
// working end to end.
type Client struct {
	apiKey     string
	baseURL    string
	reportCode string
	maxResults int

	cache   *Cache
	limiter *RateLimiter

	directory *corpDirectory
}

// NewClient creates a DART client from config. An empty or "sample" API key
// selects sample mode.
func NewClient(cfg config.DARTConfig) *Client {
	apiKey := cfg.APIKey
	if apiKey == "sample" {
		apiKey = ""
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://opendart.fss.or.kr/api"
	}
	reportCode := cfg.ReportCode
	if reportCode == "" {
		reportCode = "11011" // 사업보고서
	}
	maxResults := cfg.MaxSearchResults
	if maxResults <= 0 {
		maxResults = 20
	}
	ttl := time.Duration(cfg.CacheTTLDays) * 24 * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		reportCode: reportCode,
		maxResults: maxResults,
		cache:      NewCache(1 * time.Hour),
		limiter:    NewRateLimiter(5, time.Second),
	}
	c.directory = newCorpDirectory(c, ttl)
	return c
}

// SampleMode reports whether the client serves generated sample data.
func (c *Client) SampleMode() bool { return c.apiKey == "" }

// dartStatementResponse is the wire shape of fnlttSinglAcntAll.json.
type dartStatementResponse struct {
	Status  string               `json:"status"`
	Message string               `json:"message"`
	List    []models.RawLineItem `json:"list"`
}

// FinancialStatement fetches the consolidated statement (fs_div=CFS) for a
// company and fiscal year. API failures degrade to sample data so one flaky
// upstream call never takes down an analysis.
func (c *Client) FinancialStatement(ctx context.Context, corpCode string, year int) (*models.FinancialStatement, error) {
	cacheKey := fmt.Sprintf("dart:fs:%s:%d", corpCode, year)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*models.FinancialStatement), nil
	}

	if !c.SampleMode() {
		stmt, err := c.fetchFinancialStatement(ctx, corpCode, year)
		if err == nil {
			c.cache.Set(cacheKey, stmt)
			return stmt, nil
		}
		log.Printf("dart: statement fetch failed for %s/%d, using sample data: %v", corpCode, year, err)
	}

	stmt := generateSampleStatement(corpCode, year, c.reportCode)
	c.cache.Set(cacheKey, stmt)
	return stmt, nil
}

func (c *Client) fetchFinancialStatement(ctx context.Context, corpCode string, year int) (*models.FinancialStatement, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("crtfc_key", c.apiKey)
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", strconv.Itoa(year))
	params.Set("reprt_code", c.reportCode)
	params.Set("fs_div", "CFS") // 연결재무제표

	body, _, err := doGet(ctx, c.baseURL+"/fnlttSinglAcntAll.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("dart fnlttSinglAcntAll %s/%d: %w", corpCode, year, err)
	}
	defer body.Close()

	var resp dartStatementResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode dart statement: %w", err)
	}
	if resp.Status != "000" {
		return nil, fmt.Errorf("dart status %s: %s", resp.Status, resp.Message)
	}

	return assembleStatement(corpCode, year, c.reportCode, resp.List), nil
}

// assembleStatement splits line items by sj_div, merges the income statement
// with the comprehensive income statement, and rebuilds the combined list in
// BS → IS+CIS → CF order so the account index sees a stable insertion order.
func assembleStatement(corpCode string, year int, reportCode string, items []models.RawLineItem) *models.FinancialStatement {
	var bs, is, cis, cf []models.RawLineItem
	for _, item := range items {
		switch item.StatementType {
		case models.StatementBalanceSheet:
			bs = append(bs, item)
		case models.StatementIncome:
			is = append(is, item)
		case models.StatementComprehensiveIncome:
			cis = append(cis, item)
		case models.StatementCashFlow:
			cf = append(cf, item)
		}
	}

	income := append(append([]models.RawLineItem{}, is...), cis...)

	combined := make([]models.RawLineItem, 0, len(bs)+len(income)+len(cf))
	combined = append(combined, bs...)
	combined = append(combined, income...)
	combined = append(combined, cf...)

	return &models.FinancialStatement{
		Status:          "000",
		Message:         "정상",
		CorpCode:        corpCode,
		Year:            year,
		ReportCode:      reportCode,
		Items:           combined,
		BalanceSheet:    bs,
		IncomeStatement: income,
		CashFlow:        cf,
	}
}

// MultiYearFinancial fetches statements for several fiscal years, for trend
// and history rules. Missing years are skipped, not errors.
func (c *Client) MultiYearFinancial(ctx context.Context, corpCode string, years []int) map[int]*models.FinancialStatement {
	result := make(map[int]*models.FinancialStatement, len(years))
	for _, year := range years {
		stmt, err := c.FinancialStatement(ctx, corpCode, year)
		if err != nil || stmt.Status != "000" {
			continue
		}
		result[year] = stmt
	}
	return result
}

// Search finds companies by Korean name, English name, or stock code.
func (c *Client) Search(ctx context.Context, query string) ([]models.Company, error) {
	return c.directory.search(ctx, query, c.maxResults)
}

// CompanyInfo returns the company profile for a corp code: directory first,
// then the built-in sample table, then a bare default so analysis can proceed
// for unknown codes.
func (c *Client) CompanyInfo(ctx context.Context, corpCode string) (*models.Company, error) {
	if company, ok := c.directory.lookup(ctx, corpCode); ok {
		return company, nil
	}

	if company, ok := sampleCompanyProfiles[corpCode]; ok {
		copied := company
		return &copied, nil
	}

	return &models.Company{
		CorpCode:    corpCode,
		Name:        fmt.Sprintf("기업(%s)", corpCode),
		Industry:    "제조업",
		CEO:         "N/A",
		FiscalMonth: "12",
	}, nil
}
