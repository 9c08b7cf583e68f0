// Package weakness evaluates computed KPIs against industry benchmarks and
// produces severity-graded findings, an aggregate risk assessment, and a
// ranked list of improvement priorities.
package weakness

import "sort"

// Benchmark maps KPI name to the expected industry-average percentage.
// Not every KPI is defined for every industry: banking defines only
// roa/roe/operating_margin/nim, so rules check key presence before comparing.
type Benchmark map[string]float64

// DefaultIndustry is the benchmark key used when an industry is unrecognized.
const DefaultIndustry = "default"

// industryBenchmarks holds expected ratio levels per industry.
// 한국거래소 상장사 평균, DART 연결재무제표(CFS) 기준, 최근 3개년 평균.
var industryBenchmarks = map[string]Benchmark{
	"반도체 제조업": {
		"roa": 5.0, "roe": 8.5, "debt_ratio": 45.0, "current_ratio": 180.0,
		"operating_margin": 8.0, "net_profit_margin": 6.0,
	},
	"전자제품 제조업": {
		"roa": 4.5, "roe": 8.0, "debt_ratio": 50.0, "current_ratio": 150.0,
		"operating_margin": 7.0, "net_profit_margin": 5.5,
	},
	"자동차 제조업": {
		"roa": 2.5, "roe": 6.5, "debt_ratio": 120.0, "current_ratio": 100.0,
		"operating_margin": 4.5, "net_profit_margin": 3.5,
	},
	"인터넷 서비스업": {
		"roa": 8.0, "roe": 15.0, "debt_ratio": 30.0, "current_ratio": 250.0,
		"operating_margin": 18.0, "net_profit_margin": 15.0,
	},
	"게임 소프트웨어 개발 및 공급업": {
		"roa": 9.0, "roe": 16.0, "debt_ratio": 25.0, "current_ratio": 300.0,
		"operating_margin": 20.0, "net_profit_margin": 16.0,
	},
	"은행업": {
		"roa": 0.6, "roe": 8.0, "operating_margin": 35.0, "nim": 1.8,
	},
	"증권업": {
		"roa": 1.2, "roe": 7.5, "debt_ratio": 500.0, "current_ratio": 150.0,
		"operating_margin": 30.0, "net_profit_margin": 22.0,
	},
	"종합 건설업": {
		"roa": 2.0, "roe": 7.0, "debt_ratio": 180.0, "current_ratio": 110.0,
		"operating_margin": 5.0, "net_profit_margin": 4.0,
	},
	"의약품 제조업": {
		"roa": 4.0, "roe": 9.0, "debt_ratio": 60.0, "current_ratio": 200.0,
		"operating_margin": 12.0, "net_profit_margin": 10.0,
	},
	"화학물질 및 화학제품 제조업": {
		"roa": 3.5, "roe": 7.5, "debt_ratio": 90.0, "current_ratio": 140.0,
		"operating_margin": 8.0, "net_profit_margin": 6.5,
	},
	"전기 통신업": {
		"roa": 3.0, "roe": 8.5, "debt_ratio": 110.0, "current_ratio": 90.0,
		"operating_margin": 12.0, "net_profit_margin": 9.0,
	},
	"항공 운송업": {
		"roa": 1.5, "roe": 5.0, "debt_ratio": 250.0, "current_ratio": 80.0,
		"operating_margin": 3.0, "net_profit_margin": 2.0,
	},
	"종합 소매업": {
		"roa": 2.5, "roe": 7.0, "debt_ratio": 130.0, "current_ratio": 100.0,
		"operating_margin": 4.5, "net_profit_margin": 3.0,
	},
	"식료품 제조업": {
		"roa": 3.0, "roe": 8.0, "debt_ratio": 100.0, "current_ratio": 130.0,
		"operating_margin": 7.0, "net_profit_margin": 5.5,
	},
	"제조업": {
		"roa": 3.5, "roe": 8.0, "debt_ratio": 100.0, "current_ratio": 130.0,
		"operating_margin": 8.0, "net_profit_margin": 6.0,
	},
	DefaultIndustry: {
		"roa": 4.0, "roe": 9.0, "debt_ratio": 100.0, "current_ratio": 130.0,
		"operating_margin": 8.0, "net_profit_margin": 6.0,
	},
}

// BenchmarkFor returns the benchmark profile for an industry, silently
// falling back to the default profile for unrecognized labels.
func BenchmarkFor(industry string) Benchmark {
	if b, ok := industryBenchmarks[industry]; ok {
		return b
	}
	return industryBenchmarks[DefaultIndustry]
}

// IsKnownIndustry reports whether an industry has its own benchmark profile.
func IsKnownIndustry(industry string) bool {
	_, ok := industryBenchmarks[industry]
	return ok
}

// Industries lists all benchmark industries, sorted, excluding the default key.
func Industries() []string {
	names := make([]string, 0, len(industryBenchmarks)-1)
	for name := range industryBenchmarks {
		if name == DefaultIndustry {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
