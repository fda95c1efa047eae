package shipping

import "github.com/angelmondragon/advanced-shipping/pkg/types"

// Holiday is a non-working calendar date.
type Holiday struct {
	Date  types.Date
	Label string
}

// HolidayCalendar answers whether a date is a holiday. It is read-only once built.
type HolidayCalendar struct {
	dates map[string]struct{}
}

// NewHolidayCalendar builds a calendar, ignoring holidays without a valid date.
func NewHolidayCalendar(holidays []Holiday) HolidayCalendar {
	dates := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		if h.Date.IsZero() {
			continue
		}
		dates[h.Date.String()] = struct{}{}
	}
	return HolidayCalendar{dates: dates}
}

// IsHoliday matches by exact calendar date, independent of weekday.
func (c HolidayCalendar) IsHoliday(d types.Date) bool {
	if len(c.dates) == 0 || d.IsZero() {
		return false
	}
	_, ok := c.dates[d.String()]
	return ok
}

// Len returns the number of holiday dates.
func (c HolidayCalendar) Len() int {
	return len(c.dates)
}

// IsWorkingDay reports whether d is Monday through Friday and not a holiday.
func (c HolidayCalendar) IsWorkingDay(d types.Date) bool {
	wd := WeekdayOf(d)
	if wd == Saturday || wd == Sunday {
		return false
	}
	return !c.IsHoliday(d)
}
