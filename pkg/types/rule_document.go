package types

import (
	"database/sql/driver"
)

// RuleDocument is the stored form of a shipping method rule. Dates stay as
// strings so malformed input survives storage and is skipped on evaluation.
type RuleDocument struct {
	Type         string                    `json:"type"`
	SendingDays  []int                     `json:"sending_days,omitempty"`
	MaxShipDays  int                       `json:"max_ship_days"`
	Categories   []int64                   `json:"categories,omitempty"`
	PriorityDays []PriorityDayDocument     `json:"priority_days,omitempty"`
	Dates        []ReservationDateDocument `json:"dates,omitempty"`
}

type PriorityDayDocument struct {
	Date       string  `json:"date"`
	Categories []int64 `json:"categories,omitempty"`
}

type ReservationDateDocument struct {
	Date       string  `json:"date"`
	Label      string  `json:"label,omitempty"`
	ShowUntil  string  `json:"show_until,omitempty"`
	Categories []int64 `json:"categories,omitempty"`
}

func (r RuleDocument) Value() (driver.Value, error) {
	return jsonValue(r)
}

func (r *RuleDocument) Scan(value any) error {
	return scanJSON(value, r)
}
