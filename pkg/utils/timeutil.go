package utils

import (
	"time"
)

// KST is the Korea Standard Time location (UTC+9).
var KST *time.Location

func init() {
	var err error
	KST, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		KST = time.FixedZone("KST", 9*60*60)
	}
}

// NowKST returns the current time in KST.
func NowKST() time.Time {
	return time.Now().In(KST)
}

// ToKST converts a time.Time to KST.
func ToKST(t time.Time) time.Time {
	return t.In(KST)
}

// MarketOpenTime returns the KRX market opening time (9:00 AM KST) for a given date.
func MarketOpenTime(date time.Time) time.Time {
	d := date.In(KST)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, KST)
}

// MarketCloseTime returns the KRX market closing time (3:30 PM KST) for a given date.
func MarketCloseTime(date time.Time) time.Time {
	d := date.In(KST)
	return time.Date(d.Year(), d.Month(), d.Day(), 15, 30, 0, 0, KST)
}

// IsMarketOpen checks if the KRX market is currently open.
func IsMarketOpen() bool {
	return IsMarketOpenAt(NowKST())
}

// IsMarketOpenAt checks if the KRX market would be open at the given time.
func IsMarketOpenAt(t time.Time) bool {
	t = t.In(KST)

	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}

	if IsMarketHoliday(t) {
		return false
	}

	open := MarketOpenTime(t)
	close := MarketCloseTime(t)

	return !t.Before(open) && !t.After(close)
}

// IsTradingDay checks if the given date is a trading day (not weekend, not holiday).
func IsTradingDay(t time.Time) bool {
	t = t.In(KST)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !IsMarketHoliday(t)
}

// PrevTradingDay returns the previous trading day from the given date.
func PrevTradingDay(from time.Time) time.Time {
	prev := from.In(KST).AddDate(0, 0, -1)
	for !IsTradingDay(prev) {
		prev = prev.AddDate(0, 0, -1)
	}
	return prev
}

// IsMarketHoliday checks if the given date is a KRX market holiday.
// This list should be updated annually.
func IsMarketHoliday(t time.Time) bool {
	t = t.In(KST)
	dateStr := t.Format("2006-01-02")

	_, isHoliday := krxHolidays2026[dateStr]
	return isHoliday
}

// KRX market holidays for 2026 (update annually). Weekend-only holidays are
// omitted; substitute holidays included.
var krxHolidays2026 = map[string]string{
	"2026-01-01": "신정",
	"2026-02-16": "설날 연휴",
	"2026-02-17": "설날",
	"2026-02-18": "설날 연휴",
	"2026-03-02": "삼일절 대체공휴일",
	"2026-05-01": "근로자의 날",
	"2026-05-05": "어린이날",
	"2026-05-25": "부처님오신날 대체공휴일",
	"2026-08-17": "광복절 대체공휴일",
	"2026-09-24": "추석 연휴",
	"2026-09-25": "추석",
	"2026-09-28": "추석 대체공휴일",
	"2026-10-05": "개천절 대체공휴일",
	"2026-10-09": "한글날",
	"2026-12-25": "성탄절",
	"2026-12-31": "연말 휴장일",
}

// ParseDateKST parses a date string in "2006-01-02" format and returns it in KST.
func ParseDateKST(dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, KST)
}

// FormatDateKST formats a time.Time to "2006-01-02" in KST.
func FormatDateKST(t time.Time) string {
	return t.In(KST).Format("2006-01-02")
}

// FormatDateTimeKST formats a time.Time to "2006-01-02 15:04:05 KST".
func FormatDateTimeKST(t time.Time) string {
	return t.In(KST).Format("2006-01-02 15:04:05 KST")
}

// MarketStatus returns the current KRX market status string.
func MarketStatus() string {
	now := NowKST()

	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return "휴장 (주말)"
	}

	if IsMarketHoliday(now) {
		holiday := krxHolidays2026[now.Format("2006-01-02")]
		return "휴장 (" + holiday + ")"
	}

	open := MarketOpenTime(now)
	close := MarketCloseTime(now)

	switch {
	case now.Before(open):
		return "장 시작 전"
	case !now.After(close):
		return "장중"
	default:
		return "장 마감"
	}
}

// LatestReportYear returns the most recent business year whose annual report
// can be expected on DART at the given time. Annual reports are filed within
// 90 days of fiscal year end, so before April the prior year's report may not
// be out yet.
func LatestReportYear(t time.Time) int {
	t = t.In(KST)
	if t.Month() < time.April {
		return t.Year() - 2
	}
	return t.Year() - 1
}
