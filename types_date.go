package homefin

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// String formats the date in ISO-8601.
func (d Date) String() string { return d.time().Format(DateFormat) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Format returns a textual representation of the date value formatted
// according to the layout defined by the argument. See [time.Format].
func (d Date) Format(format string) string { return d.time().Format(format) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Today returns the current date.
func Today() Date { return NewDate(time.Now().Date()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// AddMonth returns a new Date with the given number of months added.
// Day-of-month overflow normalizes the way time.Date does (Jan 31 plus
// one month lands in early March); loan and insurance schedules use
// day-of-month values small enough not to overflow.
func (d Date) AddMonth(i int) Date { return NewDate(d.y, d.m+time.Month(i), d.d) }

// SameMonth reports whether d and x fall in the same calendar month.
func (d Date) SameMonth(x Date) bool { return d.y == x.y && d.m == x.m }

// MonthsSince returns the number of whole calendar months from x to d.
// It is negative when d is before x's month.
func (d Date) MonthsSince(x Date) int {
	return (d.y-x.y)*12 + int(d.m) - int(x.m)
}

// StartOf returns the date of the beginning of the given period containing d.
func (d Date) StartOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		weekday := d.time().Weekday() // time.Sunday = 0, ..., time.Saturday = 6
		offset := int(weekday - time.Monday)
		for offset < 0 {
			offset += 7
		}
		return d.Add(-offset)
	case Monthly:
		return NewDate(d.y, d.m, 1)
	case Quarterly:
		quarter := (d.m - 1) / 3
		return NewDate(d.y, time.Month(quarter*3+1), 1)
	case Yearly:
		return NewDate(d.y, time.January, 1)
	default:
		panic("unknown period")
	}
}

// EndOf returns the date of the end of the given period containing d.
func (d Date) EndOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		return d.StartOf(Weekly).Add(6)
	case Monthly:
		return NewDate(d.y, d.m+1, 0)
	case Quarterly:
		quarter := (d.m - 1) / 3
		return NewDate(d.y, time.Month(quarter*3+3)+1, 0)
	case Yearly:
		return NewDate(d.y+1, time.January, 0)
	default:
		panic("unknown period")
	}
}

// ParseDate parses a Date from a string. It is lenient and accepts
// formats like "2025-7-1" as well as the canonical "2025-07-01".
func ParseDate(str string) (Date, error) {
	str = strings.TrimSpace(str)
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		// try a full timestamp, common in exported statement files
		on, err = time.Parse(time.RFC3339, str)
	}
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return NewDate(on.Date()), nil
}

// MustParse is like ParseDate but panics on error.
func MustParse(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON decodes a date from a JSON string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*j = Date{}
		return nil
	}
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return fmt.Errorf("invalid date %q in data file, want format %q: %w", str, DateFormat, err)
	}
	*j = NewDate(on.Date())
	return nil
}

// MarshalJSON encodes the date as a JSON string, the zero date as "".
func (j Date) MarshalJSON() ([]byte, error) {
	if j.IsZero() {
		return json.Marshal("")
	}
	str := j.String()
	return json.Marshal(&str)
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
