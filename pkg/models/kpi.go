package models

// KPIStatus grades a computed KPI value. StatusError means the KPI could not
// be computed (missing account or zero denominator) — consumers must treat it
// as "not evaluable", never as a failing value.
type KPIStatus string

const (
	StatusExcellent KPIStatus = "excellent"
	StatusGood      KPIStatus = "good"
	StatusFair      KPIStatus = "fair"
	StatusPoor      KPIStatus = "poor"
	StatusError     KPIStatus = "error"
)

// KPIResult is a single computed ratio for the current period, with the
// period-over-period delta. All ratio values are rounded to 2 decimals.
type KPIResult struct {
	Value         float64   `json:"value"`
	PreviousValue float64   `json:"previous_value"`
	Change        float64   `json:"change"`
	ChangeRate    float64   `json:"change_rate"`
	Status        KPIStatus `json:"status"`
	Numerator     float64   `json:"numerator"`
	Denominator   float64   `json:"denominator"`
	Unit          string    `json:"unit"`
	Description   string    `json:"description"`
	Message       string    `json:"message,omitempty"` // set when Status is error
}

// KPISet maps KPI name (roa, roe, debt_ratio, ...) to its result.
// Which keys are present depends on the industry formula set.
type KPISet map[string]KPIResult

// TrendEntry is the year-over-year movement of a single key account.
type TrendEntry struct {
	Current    float64 `json:"current"`
	Previous   float64 `json:"previous"`
	Change     float64 `json:"change"`
	ChangeRate float64 `json:"change_rate"`
	Direction  string  `json:"direction"` // "up", "down", "flat"
}
