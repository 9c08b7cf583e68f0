package datasource

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/finscopehq/finscope/pkg/models"
)

// sampleCompanies backs search when no API key is configured or the corp
// directory cannot be fetched.
var sampleCompanies = []models.Company{
	{CorpCode: "00126380", Name: "삼성전자", NameEng: "Samsung Electronics", StockCode: "005930", Industry: "반도체 제조업"},
	{CorpCode: "00164779", Name: "SK하이닉스", NameEng: "SK Hynix", StockCode: "000660", Industry: "반도체 제조업"},
	{CorpCode: "00101517", Name: "LG전자", NameEng: "LG Electronics", StockCode: "066570", Industry: "전자제품 제조업"},
	{CorpCode: "00113885", Name: "현대자동차", NameEng: "Hyundai Motor", StockCode: "005380", Industry: "자동차 제조업"},
	{CorpCode: "00168676", Name: "NAVER", NameEng: "NAVER Corporation", StockCode: "035420", Industry: "인터넷 서비스업"},
	{CorpCode: "00159600", Name: "카카오", NameEng: "Kakao Corp.", StockCode: "035720", Industry: "인터넷 서비스업"},
	{CorpCode: "00563470", Name: "삼성물산", NameEng: "Samsung C&T", StockCode: "028260", Industry: "종합 건설업"},
	{CorpCode: "00388912", Name: "삼성SDI", NameEng: "Samsung SDI", StockCode: "006400", Industry: "이차전지 제조업"},
}

// sampleCompanyProfiles adds profile fields for the best-known codes.
var sampleCompanyProfiles = map[string]models.Company{
	"00126380": {CorpCode: "00126380", Name: "삼성전자", NameEng: "SAMSUNG ELECTRONICS CO., LTD.", StockCode: "005930", CEO: "한종희, 경계현", Industry: "반도체 제조업", Established: "19690113", FiscalMonth: "12"},
	"00164779": {CorpCode: "00164779", Name: "SK하이닉스", NameEng: "SK hynix Inc.", StockCode: "000660", CEO: "곽노정", Industry: "반도체 제조업", Established: "19830209", FiscalMonth: "12"},
	"00101517": {CorpCode: "00101517", Name: "LG전자", NameEng: "LG Electronics", StockCode: "066570", CEO: "조주완", Industry: "전자제품 제조업", Established: "19581012", FiscalMonth: "12"},
	"00113885": {CorpCode: "00113885", Name: "현대자동차", NameEng: "Hyundai Motor", StockCode: "005380", CEO: "장재훈", Industry: "자동차 제조업", Established: "19670301", FiscalMonth: "12"},
	"00168676": {CorpCode: "00168676", Name: "NAVER", NameEng: "NAVER Corporation", StockCode: "035420", CEO: "최수연", Industry: "인터넷 서비스업", Established: "19990606", FiscalMonth: "12"},
}

func searchSampleCompanies(query string, limit int) []models.Company {
	lower := strings.ToLower(strings.TrimSpace(query))
	var matches []models.Company
	for _, c := range sampleCompanies {
		if strings.Contains(c.Name, query) ||
			strings.Contains(strings.ToLower(c.NameEng), lower) ||
			strings.Contains(c.StockCode, query) {
			matches = append(matches, c)
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches
}

// sampleSeed derives a stable seed from the digits of a corp code, so the
// same company always gets the same generated financials.
func sampleSeed(corpCode string) int {
	var digits strings.Builder
	for _, r := range corpCode {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		} else if digits.Len() > 0 {
			break
		}
	}
	if digits.Len() > 0 {
		n, err := strconv.Atoi(digits.String())
		if err == nil {
			return n % 1000
		}
	}
	sum := 0
	for _, r := range corpCode {
		sum += int(r)
	}
	return sum % 1000
}

// generateSampleStatement produces a full consolidated statement with
// realistic large-cap magnitudes. Ratios are derived from the seed so
// different companies land in different KPI bands.
func generateSampleStatement(corpCode string, year int, reportCode string) *models.FinancialStatement {
	seed := sampleSeed(corpCode)

	baseMultiplier := float64(50 + seed%150)
	debtRatio := 0.20 + float64(seed%60)/100.0
	currentAssetRatio := 0.30 + float64(seed%30)/100.0
	operatingMargin := 0.05 + float64(seed%15)/100.0
	netMargin := 0.03 + float64(seed%12)/100.0
	growthRate := 0.95 + float64(seed%30)/100.0

	totalAssetsCur := int64(baseMultiplier * 42.7e9)
	totalAssetsPrev := int64(float64(totalAssetsCur) / growthRate)

	currentAssetsCur := int64(float64(totalAssetsCur) * currentAssetRatio)
	currentAssetsPrev := int64(float64(totalAssetsPrev) * (currentAssetRatio + 0.01))

	noncurrentAssetsCur := totalAssetsCur - currentAssetsCur
	noncurrentAssetsPrev := totalAssetsPrev - currentAssetsPrev

	totalEquityCur := int64(float64(totalAssetsCur) * (1 - debtRatio/(1+debtRatio)))
	totalEquityPrev := int64(float64(totalAssetsPrev) * (1 - debtRatio/(1+debtRatio)))

	totalLiabilitiesCur := totalAssetsCur - totalEquityCur
	totalLiabilitiesPrev := totalAssetsPrev - totalEquityPrev

	currentLiabilityRatio := 0.55 + float64(seed%15)/100.0
	currentLiabilitiesCur := int64(float64(totalLiabilitiesCur) * currentLiabilityRatio)
	currentLiabilitiesPrev := int64(float64(totalLiabilitiesPrev) * (currentLiabilityRatio + 0.03))

	noncurrentLiabilitiesCur := totalLiabilitiesCur - currentLiabilitiesCur
	noncurrentLiabilitiesPrev := totalLiabilitiesPrev - currentLiabilitiesPrev

	revenueCur := int64(baseMultiplier * 28e9)
	revenuePrev := int64(float64(revenueCur) / growthRate)

	operatingProfitCur := int64(float64(revenueCur) * operatingMargin)
	operatingProfitPrev := int64(float64(revenuePrev) * (operatingMargin - 0.002))

	netIncomeCur := int64(float64(revenueCur) * netMargin)
	netIncomePrev := int64(float64(revenuePrev) * (netMargin - 0.002))

	operatingCFCur := int64(float64(revenueCur) * 0.171)
	operatingCFPrev := int64(float64(revenuePrev) * 0.18)
	investingCFCur := int64(float64(revenueCur) * -0.10)
	investingCFPrev := int64(float64(revenuePrev) * -0.10)
	financingCFCur := int64(float64(revenueCur) * -0.043)
	financingCFPrev := int64(float64(revenuePrev) * -0.04)

	bsItem := func(name string, cur, prev int64) models.RawLineItem {
		return rawItem(name, cur, prev, models.StatementBalanceSheet)
	}
	isItem := func(name string, cur, prev int64) models.RawLineItem {
		return rawItem(name, cur, prev, models.StatementIncome)
	}
	cisItem := func(name string, cur, prev int64) models.RawLineItem {
		return rawItem(name, cur, prev, models.StatementComprehensiveIncome)
	}
	cfItem := func(name string, cur, prev int64) models.RawLineItem {
		return rawItem(name, cur, prev, models.StatementCashFlow)
	}

	bs := []models.RawLineItem{
		bsItem("자산총계", totalAssetsCur, totalAssetsPrev),
		bsItem("유동자산", currentAssetsCur, currentAssetsPrev),
		bsItem("비유동자산", noncurrentAssetsCur, noncurrentAssetsPrev),
		bsItem("부채총계", totalLiabilitiesCur, totalLiabilitiesPrev),
		bsItem("유동부채", currentLiabilitiesCur, currentLiabilitiesPrev),
		bsItem("비유동부채", noncurrentLiabilitiesCur, noncurrentLiabilitiesPrev),
		bsItem("자본총계", totalEquityCur, totalEquityPrev),
	}

	income := []models.RawLineItem{
		isItem("매출액", revenueCur, revenuePrev),
		isItem("매출원가", int64(float64(revenueCur)*0.7), int64(float64(revenuePrev)*0.7)),
		isItem("매출총이익", int64(float64(revenueCur)*0.3), int64(float64(revenuePrev)*0.3)),
		isItem("판매비와관리비", int64(float64(revenueCur)*0.15), int64(float64(revenuePrev)*0.148)),
		isItem("영업이익", operatingProfitCur, operatingProfitPrev),
		isItem("법인세비용차감전순이익", int64(float64(netIncomeCur)*1.25), int64(float64(netIncomePrev)*1.25)),
		isItem("법인세비용", int64(float64(netIncomeCur)*0.25), int64(float64(netIncomePrev)*0.25)),
		cisItem("당기순이익(손실)", netIncomeCur, netIncomePrev),
		cisItem("기타포괄손익", int64(float64(netIncomeCur)*0.05), int64(float64(netIncomePrev)*0.05)),
		cisItem("총포괄이익", int64(float64(netIncomeCur)*1.05), int64(float64(netIncomePrev)*1.05)),
	}

	cf := []models.RawLineItem{
		cfItem("영업활동현금흐름", operatingCFCur, operatingCFPrev),
		cfItem("투자활동현금흐름", investingCFCur, investingCFPrev),
		cfItem("재무활동현금흐름", financingCFCur, financingCFPrev),
		cfItem("현금및현금성자산의순증가",
			operatingCFCur+investingCFCur+financingCFCur,
			operatingCFPrev+investingCFPrev+financingCFPrev),
	}

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

func rawItem(name string, cur, prev int64, typ models.StatementType) models.RawLineItem {
	return models.RawLineItem{
		AccountName:    name,
		CurrentAmount:  strconv.FormatInt(cur, 10),
		PreviousAmount: strconv.FormatInt(prev, 10),
		StatementType:  typ,
	}
}
