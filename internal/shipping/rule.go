package shipping

import (
	"strings"

	"github.com/angelmondragon/advanced-shipping/pkg/enums"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

// MethodID identifies a shipping method, either by base id ("flat_rate")
// or by instance ("flat_rate:5").
type MethodID string

// Base returns the method id without its instance suffix.
func (m MethodID) Base() MethodID {
	if idx := strings.Index(string(m), ":"); idx >= 0 {
		return MethodID(strings.TrimSpace(string(m)[:idx]))
	}
	return MethodID(strings.TrimSpace(string(m)))
}

func (m MethodID) String() string {
	return string(m)
}

// Weekday uses ISO-8601 numbering: Monday=1 through Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// IsValid reports whether w is within 1..7.
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

// WeekdayOf returns the ISO weekday of d.
func WeekdayOf(d types.Date) Weekday {
	return Weekday(d.ISOWeekday())
}

// PriorityDay forces a later ship date for carts containing any of its categories.
type PriorityDay struct {
	Date       types.Date
	Categories CategorySet
}

// Valid reports whether the configured date parsed.
func (p PriorityDay) Valid() bool {
	return !p.Date.IsZero()
}

// ReservationDate is a fixed delivery date a customer can pick for a BY_DATE method.
type ReservationDate struct {
	Date       types.Date
	Label      string
	ShowUntil  types.Date
	Categories CategorySet
}

// Valid reports whether the configured date parsed.
func (r ReservationDate) Valid() bool {
	return !r.Date.IsZero()
}

// DisplayLabel falls back to the ISO date when no label is configured.
func (r ReservationDate) DisplayLabel() string {
	if label := strings.TrimSpace(r.Label); label != "" {
		return label
	}
	return r.Date.String()
}

// Rule is the restriction attached to a shipping method. It is either an
// ASAPRule or a ByDateRule.
type Rule interface {
	Type() enums.RuleType
	isRule()
}

// ASAPRule ships on the next sending day and delivers within MaxShipDays working days.
type ASAPRule struct {
	SendingDays  []Weekday
	MaxShipDays  int
	Categories   CategorySet
	PriorityDays []PriorityDay
}

func (ASAPRule) Type() enums.RuleType { return enums.RuleTypeASAP }
func (ASAPRule) isRule()              {}

// ByDateRule offers a fixed list of reservation dates.
type ByDateRule struct {
	Dates []ReservationDate
}

func (ByDateRule) Type() enums.RuleType { return enums.RuleTypeByDate }
func (ByDateRule) isRule()              {}

// RuleSet maps methods to their restriction. Methods without an entry are unrestricted.
type RuleSet map[MethodID]Rule

// Lookup resolves the rule for id, preferring an exact instance match over the base id.
func (s RuleSet) Lookup(id MethodID) (Rule, bool) {
	if len(s) == 0 {
		return nil, false
	}
	if rule, ok := s[id]; ok && rule != nil {
		return rule, true
	}
	if base := id.Base(); base != id {
		if rule, ok := s[base]; ok && rule != nil {
			return rule, true
		}
	}
	return nil, false
}
