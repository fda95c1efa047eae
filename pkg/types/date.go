package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the ISO calendar date layout used on the wire and in storage.
const DateFormat = "2006-01-02"

// Date is a calendar date with no time-of-day or zone. The zero value means unset.
type Date time.Time

// NewDate builds a Date from its calendar parts. Out-of-range parts normalize the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t as observed in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate strictly parses YYYY-MM-DD.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(DateFormat, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return Date(parsed), nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(value string) Date {
	d, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) time() time.Time {
	return time.Time(d)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.time().IsZero()
}

// String renders the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

// AddDays moves the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date(d.time().AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool {
	return d.time().Before(other.time())
}

func (d Date) After(other Date) bool {
	return d.time().After(other.time())
}

func (d Date) Equal(other Date) bool {
	return d.time().Equal(other.time())
}

// Weekday returns the Go weekday (Sunday=0).
func (d Date) Weekday() time.Weekday {
	return d.time().Weekday()
}

// ISOWeekday returns the ISO-8601 weekday number, Monday=1 through Sunday=7.
func (d Date) ISOWeekday() int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value yields the zero date.
func (d *Date) UnmarshalText(value []byte) error {
	raw := strings.TrimSpace(string(value))
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return d.UnmarshalText(v)
	case string:
		return d.UnmarshalText([]byte(v))
	case time.Time:
		*d = DateOf(v)
	case nil:
		*d = Date{}
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

// Value implements driver.Valuer. The zero date is stored as NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// GormDataType declares the column type for migrations.
func (Date) GormDataType() string {
	return "date"
}
