package calendar

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Layout is the wire and storage format of a calendar date.
const Layout = "2006-01-02"

// Date is a calendar day without a time of day or location.
type Date struct {
	civil.Date
}

// New returns the date for the given year, month and day. Out-of-range values
// are normalized the same way time.Date normalizes them.
func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Of returns the calendar day of t in t's own location.
func Of(t time.Time) Date {
	return Date{civil.DateOf(t)}
}

// Today returns the current day in loc. A nil loc means UTC.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return Of(time.Now().In(loc))
}

// Parse parses a strict yyyy-mm-dd string.
func Parse(s string) (Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{d}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Ptr returns a pointer to a copy of d.
func (d Date) Ptr() *Date {
	return &d
}

func (d Date) IsZero() bool {
	return d.Date == civil.Date{}
}

// Time returns midnight of d in UTC.
func (d Date) Time() time.Time {
	return d.Date.In(time.UTC)
}

func (d Date) Before(o Date) bool { return d.Date.Before(o.Date) }
func (d Date) After(o Date) bool  { return d.Date.After(o.Date) }
func (d Date) Equal(o Date) bool  { return d.Date == o.Date }

// DaysSince returns the signed number of days from o to d.
func (d Date) DaysSince(o Date) int {
	return d.Date.DaysSince(o.Date)
}

func (d Date) AddDays(n int) Date {
	return Date{d.Date.AddDays(n)}
}

// AddMonths moves d by n calendar months, keeping the day of month when the
// target month has it and clamping to the target month's last day otherwise.
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := d.Day
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return New(first.Year(), first.Month(), day)
}

// AddYears moves d by n calendar years. Feb 29 clamps to Feb 28 in non-leap years.
func (d Date) AddYears(n int) Date {
	return d.AddMonths(12 * n)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MarshalJSON encodes d as "yyyy-mm-dd".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts every representation Normalize understands.
func (d *Date) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s, err := Normalize(raw)
	if err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType makes AutoMigrate create a DATE column.
func (Date) GormDataType() string {
	return "date"
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner. Drivers hand dates back either as time.Time
// (postgres) or as text (sqlite).
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = Of(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("calendar: cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	norm, err := Normalize(s)
	if err != nil {
		return err
	}
	if norm == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(norm)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
