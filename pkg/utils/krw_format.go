// Package utils provides common utility functions for FinScope.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatKRW formats a raw won amount with comma thousands separators (₩1,234,567).
func FormatKRW(amount float64) string {
	negative := amount < 0
	intPart := int64(math.Abs(amount))

	s := fmt.Sprintf("%d", intPart)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if negative {
		return "-₩" + b.String()
	}
	return "₩" + b.String()
}

// FormatKRWCompact formats a raw won amount in Korean units.
// e.g., 1532000000000 → "1.53조원", 48200000000 → "482.00억원"
func FormatKRWCompact(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	sign := ""
	if negative {
		sign = "-"
	}

	switch {
	case amount >= 1e12:
		// 조 (trillion)
		return fmt.Sprintf("%s%.2f조원", sign, amount/1e12)
	case amount >= 1e8:
		// 억 (hundred million)
		return fmt.Sprintf("%s%.2f억원", sign, amount/1e8)
	case amount >= 1e4:
		// 만 (ten thousand)
		return fmt.Sprintf("%s%.2f만원", sign, amount/1e4)
	default:
		return fmt.Sprintf("%s%.0f원", sign, amount)
	}
}

// ToEok converts a raw won amount to 억원.
func ToEok(amount float64) float64 {
	return amount / 1e8
}

// ToJo converts a raw won amount to 조원.
func ToJo(amount float64) float64 {
	return amount / 1e12
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// DirectionArrow maps a trend direction to a display arrow.
func DirectionArrow(direction string) string {
	switch direction {
	case "up":
		return "▲"
	case "down":
		return "▼"
	default:
		return "─"
	}
}
