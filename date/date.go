package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// Format selects the output shape for dates in exported records.
type Format string

const (
	// ISO renders dates as year-month-day ("2006-01-02").
	ISO Format = "2006-01-02"
	// YearDayMonth renders dates as year-day-month ("2006-02-01").
	YearDayMonth Format = "2006-02-01"
)

// ParseFormat maps a user-facing format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "iso", "yyyy-mm-dd":
		return ISO, nil
	case "yyyy-dd-mm":
		return YearDayMonth, nil
	}
	return "", fmt.Errorf("unknown date format %q: want %q or %q", name, "yyyy-mm-dd", "yyyy-dd-mm")
}

// Date represents a date with no lower than day granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// String formats the date in its standard ISO form.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Format renders the date in the selected output shape.
// The zero date renders as an empty string.
func (d Date) Format(f Format) string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(string(f))
}

// readLayouts are the layouts tried, in order, when reading a date from a
// document or a spreadsheet cell. Day-first numeric shapes come before
// month-first ones: the source documents are UK publications.
var readLayouts = []string{
	"2.1.2006",
	"2/1/2006",
	"2-1-2006",
	"2 1 2006",
	"2.1.06",
	"2/1/06",
	"2 January 2006",
	"2 Jan 2006",
	"2006-1-2",
}

// earliest is the lower bound of the plausible range for parsed dates:
// nothing in the fund industry predates it.
var earliest = New(1970, time.January, 1)

// Parse parses a Date from a string, trying each read layout in its declared
// order and returning the first that yields a valid calendar date within the
// plausible range (not before 1970, not in the future).
func Parse(str string) (Date, error) {
	for _, layout := range readLayouts {
		on, err := time.Parse(layout, str)
		if err != nil {
			continue
		}
		d := New(on.Date())
		if d.Before(earliest) || d.After(Today()) {
			continue
		}
		return d, nil
	}
	return Date{}, fmt.Errorf("invalid date %q: no known layout applies", str)
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshal a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	d, err := Parse(str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
