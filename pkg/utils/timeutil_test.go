package utils

import (
	"testing"
	"time"
)

func TestKSTOffset(t *testing.T) {
	ts := time.Date(2026, 5, 11, 3, 0, 0, 0, time.UTC)
	_, offset := ts.In(KST).Zone()
	if offset != 9*60*60 {
		t.Errorf("KST offset = %d, want +9h", offset)
	}
}

func TestMarketHours(t *testing.T) {
	// Monday 2026-05-11 is a regular trading day.
	tests := []struct {
		hour, min int
		open      bool
	}{
		{8, 59, false},
		{9, 0, true},
		{12, 0, true},
		{15, 30, true},
		{15, 31, false},
	}

	for _, tt := range tests {
		ts := time.Date(2026, 5, 11, tt.hour, tt.min, 0, 0, KST)
		if got := IsMarketOpenAt(ts); got != tt.open {
			t.Errorf("IsMarketOpenAt(%02d:%02d) = %v, want %v", tt.hour, tt.min, got, tt.open)
		}
	}
}

func TestMarketClosedOnWeekend(t *testing.T) {
	saturday := time.Date(2026, 5, 9, 10, 0, 0, 0, KST)
	if IsMarketOpenAt(saturday) {
		t.Error("market must be closed on Saturday")
	}
}

func TestMarketClosedOnHoliday(t *testing.T) {
	seollal := time.Date(2026, 2, 17, 10, 0, 0, 0, KST)
	if IsMarketOpenAt(seollal) {
		t.Error("market must be closed on 설날")
	}
	if IsTradingDay(seollal) {
		t.Error("설날 is not a trading day")
	}
}

func TestPrevTradingDay(t *testing.T) {
	// Monday → previous Friday.
	monday := time.Date(2026, 5, 11, 10, 0, 0, 0, KST)
	prev := PrevTradingDay(monday)
	if prev.Weekday() != time.Friday || prev.Day() != 8 {
		t.Errorf("PrevTradingDay = %v, want Friday 2026-05-08", prev)
	}
}

func TestParseFormatDateKST(t *testing.T) {
	ts, err := ParseDateKST("2026-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatDateKST(ts); got != "2026-03-15" {
		t.Errorf("round trip = %q", got)
	}
}

func TestLatestReportYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2026-02-15", 2024}, // prior year's annual report not yet filed
		{"2026-04-01", 2025},
		{"2026-11-30", 2025},
	}
	for _, tt := range tests {
		ts, err := ParseDateKST(tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := LatestReportYear(ts); got != tt.want {
			t.Errorf("LatestReportYear(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}
