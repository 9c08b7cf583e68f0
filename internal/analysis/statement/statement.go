// Package statement turns raw DART statement line items into an account index
// that tolerates the naming variance found in real filings.
//
// Resolution of a canonical account name runs three tiers: exact match,
// exact match over an ordered synonym list, then substring containment over
// the index keys in insertion order. Anything unresolved reads as 0, which
// callers treat as "absent" rather than an error.
package statement

import (
	"strconv"
	"strings"

	"github.com/finscopehq/finscope/pkg/models"
)

// Period selects which reporting period of a line item to read.
type Period string

const (
	Current  Period = "current"  // 당기
	Previous Period = "previous" // 전기
)

// ParseAmount converts a DART amount string to a float. Amounts arrive with
// comma thousands separators and an optional leading minus. Malformed values
// degrade to 0 instead of failing the whole statement.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// FromRaw parses the wire-format line items into typed ones.
func FromRaw(raw []models.RawLineItem) []models.LineItem {
	items := make([]models.LineItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, models.LineItem{
			AccountName:    strings.TrimSpace(r.AccountName),
			CurrentAmount:  ParseAmount(r.CurrentAmount),
			PreviousAmount: ParseAmount(r.PreviousAmount),
			StatementType:  r.StatementType,
		})
	}
	return items
}

type amounts struct {
	current  float64
	previous float64
}

// Index maps account names to their current/previous amounts.
// Built once per statement snapshot. Duplicate account names overwrite
// earlier values but keep their original insertion position, so substring
// resolution stays deterministic.
type Index struct {
	keys    []string
	entries map[string]amounts
}

// NewIndex builds an account index from parsed line items.
func NewIndex(items []models.LineItem) *Index {
	ix := &Index{entries: make(map[string]amounts, len(items))}
	for _, item := range items {
		name := strings.TrimSpace(item.AccountName)
		if name == "" {
			continue
		}
		if _, ok := ix.entries[name]; !ok {
			ix.keys = append(ix.keys, name)
		}
		ix.entries[name] = amounts{
			current:  item.CurrentAmount,
			previous: item.PreviousAmount,
		}
	}
	return ix
}

// Len returns the number of distinct account names in the index.
func (ix *Index) Len() int { return len(ix.keys) }

func (ix *Index) value(name string, p Period) float64 {
	a := ix.entries[name]
	if p == Previous {
		return a.previous
	}
	return a.current
}
