package clock

import (
	"time"

	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

// Clock allows injecting time into services and jobs.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant.
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// Today returns the calendar date of c.Now() in loc. A nil location means UTC.
func Today(c Clock, loc *time.Location) types.Date {
	if loc == nil {
		loc = time.UTC
	}
	return types.DateOf(c.Now().In(loc))
}
