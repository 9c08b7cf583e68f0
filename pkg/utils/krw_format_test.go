package utils

import "testing"

func TestFormatKRW(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₩0"},
		{999, "₩999"},
		{1000, "₩1,000"},
		{1234567, "₩1,234,567"},
		{-1234567, "-₩1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatKRW(tt.in); got != tt.want {
			t.Errorf("FormatKRW(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatKRWCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1532000000000, "1.53조원"},
		{48200000000, "482.00억원"},
		{123000000, "1.23억원"},
		{52300, "5.23만원"},
		{9999, "9999원"},
		{-1500000000000, "-1.50조원"},
		{0, "0원"},
	}
	for _, tt := range tests {
		if got := FormatKRWCompact(tt.in); got != tt.want {
			t.Errorf("FormatKRWCompact(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToEokToJo(t *testing.T) {
	if got := ToEok(48200000000); got != 482 {
		t.Errorf("ToEok = %v, want 482", got)
	}
	if got := ToJo(1532000000000); got != 1.532 {
		t.Errorf("ToJo = %v, want 1.532", got)
	}
}

func TestFormatPct(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2.45, "+2.45%"},
		{0, "+0.00%"},
		{-1.23, "-1.23%"},
	}
	for _, tt := range tests {
		if got := FormatPct(tt.in); got != tt.want {
			t.Errorf("FormatPct(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDirectionArrow(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"up", "▲"},
		{"down", "▼"},
		{"flat", "─"},
		{"", "─"},
	}
	for _, tt := range tests {
		if got := DirectionArrow(tt.in); got != tt.want {
			t.Errorf("DirectionArrow(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
