package xbase

import (
	"fmt"
	"time"
)

// Date is a calendar date as stored in D columns. The zero value is the
// blank date, which is what an empty D column decodes to. Comparison and
// equality go through the Julian day, so every blank date compares equal
// to every other blank date.
type Date struct {
	year  int
	month int
	day   int
}

var dayNames = [7]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// NewDate returns the date for the given month, day and year.
func NewDate(month int, day int, year int) Date {
	return Date{year: year, month: month, day: day}
}

// NewBlankDate returns the blank date.
func NewBlankDate() Date {
	return Date{}
}

// Today returns the current date in local time.
func Today() Date {
	now := time.Now()
	return NewDate(int(now.Month()), now.Day(), now.Year())
}

// IsBlank reports whether the date is blank.
func (d Date) IsBlank() bool {
	return d.day == 0
}

// Year returns the four digit year, zero for a blank date.
func (d Date) Year() int { return d.year }

// Month returns the month 1..12, zero for a blank date.
func (d Date) Month() int { return d.month }

// Day returns the day of month 1..31, zero for a blank date.
func (d Date) Day() int { return d.day }

// JulianDay returns the Julian day number of the date, -1 for a blank date.
func (d Date) JulianDay() int {
	if d.IsBlank() {
		return -1
	}
	y := d.year
	m := d.month
	if m <= 2 {
		y--
		m += 12
	}
	a := y / 100
	b := a / 4
	c := 2 - a + b
	e := int(365.25 * float64(y+4716))
	f := int(30.6001 * float64(m+1))
	return c + d.day + e + f - 1525
}

// FromJulianDay returns the date for a Julian day number. Negative numbers
// yield the blank date.
func FromJulianDay(julian int) Date {
	if julian < 0 {
		return NewBlankDate()
	}
	z := julian
	// The century correction is taken from the day after z, JulianDay counts
	// one lower than the day number the correction thresholds are set for.
	w := int((float64(z+1) - 1867216.25) / 36524.25)
	x := w / 4
	a := z + 1 + w - x
	b := a + 1525
	c := int((float64(b) - 122.1) / 365.25)
	d := int(365.25 * float64(c))
	e := int(float64(b-d) / 30.6001)
	f := int(30.6001 * float64(e))
	day := b - d - f
	month := e - 1
	if e > 13 {
		month = e - 13
	}
	year := c - 4716
	if month <= 2 {
		year = c - 4715
	}
	return NewDate(month, day, year)
}

// DayOfWeek returns the day of the week, Sunday is 0, -1 for a blank date.
func (d Date) DayOfWeek() int {
	if d.IsBlank() {
		return -1
	}
	y := d.year
	m := d.month
	if m > 2 {
		m -= 2
	} else {
		m += 10
		y--
	}
	dow := (d.day + (7+31*(m-1))/12 + y + y/4 - y/100 + y/400) % 7
	dow += 2
	if dow > 6 {
		dow -= 7
	}
	return dow
}

// DayOfWeekName returns the English weekday name, the empty string for a
// blank date.
func (d Date) DayOfWeekName() string {
	dow := d.DayOfWeek()
	if dow < 0 {
		return ""
	}
	return dayNames[dow]
}

// DTOS renders the date as the 8 character form YYYYMMDD used by index key
// expressions. A blank date renders as 8 spaces.
func (d Date) DTOS() string {
	if d.IsBlank() {
		return "        "
	}
	return fmt.Sprintf("%04d%02d%02d", d.year, d.month, d.day)
}

// Compare orders two dates by their Julian day.
func (d Date) Compare(other Date) int {
	a := d.JulianDay()
	b := other.JulianDay()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports whether two dates denote the same Julian day.
func (d Date) Equal(other Date) bool {
	return d.JulianDay() == other.JulianDay()
}

func (d Date) String() string {
	if d.IsBlank() {
		return "{  /  /    }"
	}
	return fmt.Sprintf("{%d/%d/%d}", d.month, d.day, d.year)
}
