package shipping

import (
	"time"

	"github.com/angelmondragon/advanced-shipping/pkg/clock"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

// maxSendingDayScan bounds the forward search for a sending day.
const maxSendingDayScan = 365

// Estimate carries the ship-by and deliver-by dates for a method.
type Estimate struct {
	ShipBy    types.Date
	DeliverBy types.Date
	// Priority is set when a priority day pushed the ship date.
	Priority bool
}

// NextSendingDay returns the first date after today whose weekday is a
// sending day and which is not a holiday. Same-day shipping is never offered.
func NextSendingDay(today types.Date, sendingDays []Weekday, holidays HolidayCalendar) (types.Date, bool) {
	allowed := make(map[Weekday]struct{}, len(sendingDays))
	for _, wd := range sendingDays {
		if wd.IsValid() {
			allowed[wd] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		return types.Date{}, false
	}

	candidate := today
	for i := 0; i < maxSendingDayScan; i++ {
		candidate = candidate.AddDays(1)
		if _, ok := allowed[WeekdayOf(candidate)]; !ok {
			continue
		}
		if holidays.IsHoliday(candidate) {
			continue
		}
		return candidate, true
	}
	return types.Date{}, false
}

// PriorityShipDate returns the latest priority date after today whose
// categories intersect at least one product in cart.
func PriorityShipDate(days []PriorityDay, cart CartCategories, today types.Date) (types.Date, bool) {
	var (
		latest types.Date
		found  bool
	)
	for _, day := range days {
		if !day.Valid() || !today.Before(day.Date) {
			continue
		}
		if !anyProductIntersects(day.Categories, cart) {
			continue
		}
		if !found || day.Date.After(latest) {
			latest = day.Date
			found = true
		}
	}
	return latest, found
}

func anyProductIntersects(categories CategorySet, cart CartCategories) bool {
	for _, product := range cart {
		if product.Intersects(categories) {
			return true
		}
	}
	return false
}

// AddWorkingDays advances start by n working days. n <= 0 returns start.
func AddWorkingDays(start types.Date, n int, holidays HolidayCalendar) types.Date {
	current := start
	for added := 0; added < n; {
		current = current.AddDays(1)
		if holidays.IsWorkingDay(current) {
			added++
		}
	}
	return current
}

// EstimateASAP computes ship-by and deliver-by for an ASAP rule. It returns
// false when neither a sending day nor a matching priority day exists.
func EstimateASAP(rule ASAPRule, holidays HolidayCalendar, cart CartCategories, today types.Date) (Estimate, bool) {
	base, hasBase := NextSendingDay(today, rule.SendingDays, holidays)
	priority, hasPriority := PriorityShipDate(rule.PriorityDays, cart, today)

	var est Estimate
	switch {
	case hasBase && hasPriority:
		est.ShipBy = base
		if priority.After(base) {
			est.ShipBy = priority
			est.Priority = true
		}
	case hasBase:
		est.ShipBy = base
	case hasPriority:
		est.ShipBy = priority
		est.Priority = true
	default:
		return Estimate{}, false
	}

	est.DeliverBy = AddWorkingDays(est.ShipBy, rule.MaxShipDays, holidays)
	return est, true
}

// ReservationEstimate uses the reservation date as both ship-by and deliver-by.
func ReservationEstimate(date ReservationDate) Estimate {
	return Estimate{ShipBy: date.Date, DeliverBy: date.Date}
}

// Calculator binds the date rules to a clock and the store timezone.
type Calculator struct {
	clock    clock.Clock
	location *time.Location
}

// NewCalculator builds a calculator. A nil clock uses the system clock and a
// nil location means UTC.
func NewCalculator(c clock.Clock, loc *time.Location) *Calculator {
	if c == nil {
		c = clock.NewSystem()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{clock: c, location: loc}
}

// Today returns the current store date.
func (c *Calculator) Today() types.Date {
	return clock.Today(c.clock, c.location)
}

// ShipAndDeliverDates returns the estimate for ASAP rules. BY_DATE rules have
// no estimate until a reservation date is chosen; see ForReservation.
func (c *Calculator) ShipAndDeliverDates(rule Rule, holidays HolidayCalendar, cart CartCategories) (Estimate, bool) {
	asap, ok := rule.(ASAPRule)
	if !ok {
		return Estimate{}, false
	}
	return EstimateASAP(asap, holidays, cart, c.Today())
}

// ReservationOptions lists the dates offered for cart today.
func (c *Calculator) ReservationOptions(rule ByDateRule, cart CartCategories) []ReservationDate {
	return VisibleReservationDates(rule, cart, c.Today())
}

// ForReservation returns the estimate for selected when it is one of the
// dates currently offered for cart.
func (c *Calculator) ForReservation(rule ByDateRule, cart CartCategories, selected types.Date) (Estimate, bool) {
	if selected.IsZero() {
		return Estimate{}, false
	}
	for _, date := range c.ReservationOptions(rule, cart) {
		if date.Date.Equal(selected) {
			return ReservationEstimate(date), true
		}
	}
	return Estimate{}, false
}
