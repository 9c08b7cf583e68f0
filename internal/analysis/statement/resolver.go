package statement

import "strings"

// synonyms is the ordered fallback table for canonical account names.
// DART filers report the same account under different labels; order matters,
// the first synonym with a recorded value wins.
var synonyms = map[string][]string{
	"매출액":      {"매출", "수익(매출액)", "영업수익", "수익"},
	"영업이익":     {"영업이익(손실)", "영업손익", "영업이익"},
	"당기순이익":    {"당기순이익(손실)", "계속영업당기순이익", "당기순손익", "지배기업의 소유주에게 귀속되는 당기순이익"},
	"총포괄이익":    {"총포괄손익", "당기총포괄이익", "지배기업의 소유주에게 귀속되는 총포괄이익"},
	"영업활동현금흐름": {"영업활동으로인한현금흐름", "영업활동으로 인한 현금흐름"},
	"투자활동현금흐름": {"투자활동으로인한현금흐름", "투자활동으로 인한 현금흐름"},
	"재무활동현금흐름": {"재무활동으로인한현금흐름", "재무활동으로 인한 현금흐름"},
}

// Resolve looks up the amount recorded for a canonical account name.
//
//  1. Exact match against the index.
//  2. Each registered synonym, exact match, in listed order.
//  3. Substring containment: the first index key (insertion order) that
//     contains any synonym token.
//
// Returns 0 when nothing resolves; callers combine this with denominator
// checks to decide whether a KPI is computable.
func (ix *Index) Resolve(canonical string, p Period) float64 {
	if _, ok := ix.entries[canonical]; ok {
		return ix.value(canonical, p)
	}

	alts, ok := synonyms[canonical]
	if !ok {
		return 0
	}

	for _, alt := range alts {
		if _, ok := ix.entries[alt]; ok {
			return ix.value(alt, p)
		}
	}

	for _, key := range ix.keys {
		for _, alt := range alts {
			if strings.Contains(key, alt) {
				return ix.value(key, p)
			}
		}
	}

	return 0
}
