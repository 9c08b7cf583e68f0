package models

import "time"

// StatementType identifies which financial statement a line item belongs to,
// using DART's sj_div codes.
type StatementType string

const (
	StatementBalanceSheet        StatementType = "BS"  // 재무상태표
	StatementIncome              StatementType = "IS"  // 손익계산서
	StatementComprehensiveIncome StatementType = "CIS" // 포괄손익계산서
	StatementCashFlow            StatementType = "CF"  // 현금흐름표
)

// RawLineItem is a single account line as returned by the DART Open API.
// Amounts arrive as locale-formatted strings (comma thousands separators,
// optional leading minus) and are parsed downstream.
type RawLineItem struct {
	AccountName    string        `json:"account_nm"`
	CurrentAmount  string        `json:"thstrm_amount"`
	PreviousAmount string        `json:"frmtrm_amount"`
	StatementType  StatementType `json:"sj_div"`
}

// LineItem is a parsed statement line. Amounts are signed monetary values in
// raw won; the sign is preserved (negative cash flows stay negative).
// Immutable once parsed.
type LineItem struct {
	AccountName    string        `json:"account_nm"`
	CurrentAmount  float64       `json:"thstrm_amount"`
	PreviousAmount float64       `json:"frmtrm_amount"`
	StatementType  StatementType `json:"sj_div"`
}

// FinancialStatement is one consolidated statement snapshot for a company
// and fiscal year, discriminated into sub-lists the way the DART response is.
type FinancialStatement struct {
	Status     string        `json:"status"`
	Message    string        `json:"message"`
	CorpCode   string        `json:"corp_code"`
	Year       int           `json:"bsns_year,string"`
	ReportCode string        `json:"reprt_code"`
	Items      []RawLineItem `json:"list"`

	BalanceSheet    []RawLineItem `json:"balance_sheet"`
	IncomeStatement []RawLineItem `json:"income_statement"` // IS + CIS merged
	CashFlow        []RawLineItem `json:"cashflow_statement"`
}

// Company holds the company profile fields used across the app.
type Company struct {
	CorpCode    string `json:"corp_code"`
	Name        string `json:"corp_name"`
	NameEng     string `json:"corp_name_eng,omitempty"`
	StockCode   string `json:"stock_code"`
	CEO         string `json:"ceo_nm,omitempty"`
	Industry    string `json:"industry"`
	Established string `json:"est_dt,omitempty"`
	FiscalMonth string `json:"acc_mt,omitempty"`
	ModifyDate  string `json:"modify_date,omitempty"`
}

// Disclosure is a single entry from the DART recent-disclosure feed.
type Disclosure struct {
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Link        string `json:"link"`
	PublishedAt string `json:"published_at,omitempty"`
}

// CompanyProfile is the aggregated view of a company across all data
// sources. Partial is set when some sub-sources failed; their errors are
// carried so the caller can surface them without failing the whole fetch.
type CompanyProfile struct {
	Company     Company                     `json:"company"`
	Statements  map[int]*FinancialStatement `json:"statements,omitempty"`
	Disclosures []Disclosure                `json:"disclosures,omitempty"`
	Partial     bool                        `json:"partial,omitempty"`
	Errors      []string                    `json:"errors,omitempty"`
	FetchedAt   time.Time                   `json:"fetched_at"`
}
