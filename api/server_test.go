package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/finscopehq/finscope/internal/config"
	"github.com/finscopehq/finscope/pkg/models"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.DART.MaxSearchResults = 20
	cfg.Analysis.DefaultYear = 2023
	cfg.Analysis.DefaultIndustry = "은행업"
	return NewServer(cfg)
}

func doRequest(t *testing.T, s *Server, method, path string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response for %s %s: %v\n%s", method, path, err, rec.Body.String())
	}
	return rec, resp
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		rec, resp := doRequest(t, s, http.MethodGet, path)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
		if !resp.Success {
			t.Errorf("GET %s success = false", path)
		}
		data := resp.Data.(map[string]interface{})
		if data["status"] != "ok" {
			t.Errorf("GET %s status field = %v", path, data["status"])
		}
		if data["sample_mode"] != true {
			t.Errorf("GET %s sample_mode = %v, want true without API key", path, data["sample_mode"])
		}
	}
}

func TestSearchEndpoint(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/search?q=삼성전자")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("search failed: code=%d body=%s", rec.Code, rec.Body.String())
	}
	companies := resp.Data.([]interface{})
	if len(companies) != 1 {
		t.Fatalf("got %d results, want 1", len(companies))
	}
	first := companies[0].(map[string]interface{})
	if first["corp_code"] != "00126380" {
		t.Errorf("corp_code = %v, want 00126380", first["corp_code"])
	}
}

func TestSearchEndpointRequiresQuery(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/search")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp.Success || resp.Error == "" {
		t.Error("expected error envelope for missing query")
	}
}

func TestCompanyEndpoint(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/company/00126380")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("company lookup failed: code=%d", rec.Code)
	}
	company := resp.Data.(map[string]interface{})
	if company["corp_name"] != "삼성전자" {
		t.Errorf("corp_name = %v, want 삼성전자", company["corp_name"])
	}

	// Unknown codes still resolve to a default profile.
	rec, resp = doRequest(t, s, http.MethodGet, "/api/v1/company/99999999")
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown company status = %d", rec.Code)
	}
	company = resp.Data.(map[string]interface{})
	if company["corp_name"] != "기업(99999999)" {
		t.Errorf("default corp_name = %v", company["corp_name"])
	}
}

func TestFinancialEndpoint(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/financial/00126380?year=2023")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("financial failed: code=%d", rec.Code)
	}
	stmt := resp.Data.(map[string]interface{})
	if stmt["status"] != "000" {
		t.Errorf("statement status = %v", stmt["status"])
	}
	items := stmt["list"].([]interface{})
	if len(items) == 0 {
		t.Error("statement has no line items")
	}
}

func TestKPIEndpoint(t *testing.T) {
	s := testServer(t)

	// Explicit non-bank industry selects the generic six-ratio set.
	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/kpi/00126380?year=2023&industry=반도체")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("kpi failed: code=%d body=%s", rec.Code, rec.Body.String())
	}
	data := resp.Data.(map[string]interface{})
	if data["industry"] != "반도체" {
		t.Errorf("industry = %v, want 반도체", data["industry"])
	}
	kpis := data["kpis"].(map[string]interface{})
	for _, name := range []string{"roa", "roe", "debt_ratio", "current_ratio", "operating_margin", "net_profit_margin"} {
		if _, ok := kpis[name]; !ok {
			t.Errorf("generic KPI set missing %s", name)
		}
	}
	if _, ok := kpis["nim"]; ok {
		t.Error("generic KPI set should not contain nim")
	}

	// Banking industry swaps leverage ratios for banking metrics.
	_, resp = doRequest(t, s, http.MethodGet, "/api/v1/kpi/00126380?year=2023&industry=은행업")
	kpis = resp.Data.(map[string]interface{})["kpis"].(map[string]interface{})
	if _, ok := kpis["debt_ratio"]; ok {
		t.Error("banking KPI set should not contain debt_ratio")
	}
	for _, name := range []string{"nim", "bis_capital_ratio"} {
		if _, ok := kpis[name]; !ok {
			t.Errorf("banking KPI set missing %s", name)
		}
	}
}

func TestWeaknessEndpoint(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/weakness/00126380?year=2023&industry=제조업")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("weakness failed: code=%d body=%s", rec.Code, rec.Body.String())
	}
	data := resp.Data.(map[string]interface{})
	if data["industry"] != "제조업" {
		t.Errorf("industry = %v, want 제조업", data["industry"])
	}

	risk := data["risk"].(map[string]interface{})
	level, ok := risk["level"].(string)
	if !ok {
		t.Fatalf("risk.level missing: %v", risk)
	}
	switch level {
	case "safe", "low", "medium", "high":
	default:
		t.Errorf("unexpected risk level %q", level)
	}

	analysis := data["analysis"].(map[string]interface{})
	if _, ok := analysis["benchmark"]; !ok {
		t.Error("analysis missing benchmark")
	}
}

func TestReportHTMLEndpoint(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/00126380/html?year=2023&industry=제조업", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", "삼성전자", "2023년 사업보고서 기준", "<svg"} {
		if !strings.Contains(body, want) {
			t.Errorf("HTML report missing %q", want)
		}
	}
}

func TestReportTextEndpoint(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/00126380/html?year=2023&industry=제조업&format=text", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "재무 분석 리포트") {
		t.Error("text report missing title")
	}
}

func TestLandingPage(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FinScope") {
		t.Error("landing page missing title")
	}
}

func TestIndustriesEndpoint(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/industries")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("industries failed: code=%d", rec.Code)
	}
	industries := resp.Data.([]interface{})
	if len(industries) == 0 {
		t.Fatal("no industries returned")
	}
	found := false
	for _, v := range industries {
		if v == "은행업" {
			found = true
		}
	}
	if !found {
		t.Error("industries missing 은행업")
	}
}

func TestConfigEndpointMasksKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.DART.APIKey = "abcd1234secret"
	cfg.Analysis.DefaultYear = 2023
	cfg.Analysis.DefaultIndustry = "제조업"
	s := NewServer(cfg)

	_, resp := doRequest(t, s, http.MethodGet, "/api/v1/config")
	data := resp.Data.(map[string]interface{})
	if data["dart_key_set"] != true {
		t.Error("dart_key_set should be true")
	}
	hint := data["dart_key_hint"].(string)
	if hint != "abcd**********" {
		t.Errorf("dart_key_hint = %q, want abcd**********", hint)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"sample", ""},
		{"ab", "**"},
		{"abcdef", "abcd**"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.key); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestWSHubBroadcast(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	client := &WSClient{hub: hub, send: make(chan WSMessage, 1), done: make(chan struct{})}
	hub.Register(client)

	hub.Broadcast(WSMessage{Type: "analysis_complete"})

	msg := <-client.send
	if msg.Type != "analysis_complete" {
		t.Errorf("broadcast type = %q", msg.Type)
	}
	if hub.ClientCount() != 1 {
		t.Errorf("client count = %d, want 1", hub.ClientCount())
	}
	hub.Unregister(client)
}

func TestWSHubSlowClientDisconnect(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	client := &WSClient{hub: hub, send: make(chan WSMessage, 1), done: make(chan struct{})}
	hub.Register(client)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	// Fill the send buffer so the next broadcast trips the slow-client path.
	client.send <- WSMessage{Type: "analysis_complete"}
	hub.Broadcast(WSMessage{Type: "analysis_complete"})
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	select {
	case <-client.done:
	default:
		t.Error("done not closed after slow-client disconnect")
	}

	// Inbound subscribe/ping replies arriving after the hub dropped the
	// client must be dropped, not panic on a closed channel.
	client.trySend(WSMessage{Type: "pong"})
	client.trySend(WSMessage{Type: "subscribed"})

	// A second unregister (the read pump's deferred cleanup) is a no-op.
	hub.Unregister(client)
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within 2s")
}

// trendStatement builds a minimal statement whose ROE is netIncome/1000*100.
func trendStatement(corpCode string, year int, netIncome int64) *models.FinancialStatement {
	item := func(name string, amount int64, typ models.StatementType) models.RawLineItem {
		return models.RawLineItem{
			AccountName:    name,
			CurrentAmount:  strconv.FormatInt(amount, 10),
			PreviousAmount: strconv.FormatInt(amount, 10),
			StatementType:  typ,
		}
	}
	return &models.FinancialStatement{
		Status:   "000",
		CorpCode: corpCode,
		Year:     year,
		Items: []models.RawLineItem{
			item("자산총계", 2000, models.StatementBalanceSheet),
			item("자본총계", 1000, models.StatementBalanceSheet),
			item("부채총계", 1000, models.StatementBalanceSheet),
			item("유동자산", 400, models.StatementBalanceSheet),
			item("유동부채", 200, models.StatementBalanceSheet),
			item("매출액", 1000, models.StatementIncome),
			item("영업이익", 150, models.StatementIncome),
			item("당기순이익", netIncome, models.StatementComprehensiveIncome),
		},
	}
}

func hasRule(weaknesses []models.Weakness, ruleID string) bool {
	for _, w := range weaknesses {
		if w.RuleID == ruleID {
			return true
		}
	}
	return false
}

func TestEvaluateYearsScopesTrendHistory(t *testing.T) {
	corpCode := "00000001"
	statements := map[int]*models.FinancialStatement{
		2021: trendStatement(corpCode, 2021, 300),
		2022: trendStatement(corpCode, 2022, 200),
		2023: trendStatement(corpCode, 2023, 100),
	}
	years := []int{2021, 2022, 2023}

	analyses := evaluateYears(corpCode, statements, years, "제조업")
	if len(analyses) != 3 {
		t.Fatalf("analyses = %d years, want 3", len(analyses))
	}

	// ROE falls 30% -> 20% -> 10%, but only the last year has three
	// snapshots behind it. Earlier years must not see later snapshots.
	if hasRule(analyses[2021].Analysis.Weaknesses, "R03") {
		t.Error("2021 flagged a declining ROE trend with one year of history")
	}
	if hasRule(analyses[2022].Analysis.Weaknesses, "R03") {
		t.Error("2022 flagged a declining ROE trend with two years of history")
	}
	if !hasRule(analyses[2023].Analysis.Weaknesses, "R03") {
		t.Error("2023 did not flag the three-year declining ROE trend")
	}
}
