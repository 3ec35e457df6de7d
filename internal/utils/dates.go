package utils

import (
	"fmt"
	"time"
)

// DateLayout is the yyyy-mm-dd layout used by every fecha field.
const DateLayout = "2006-01-02"

// Date represents a calendar date
type Date struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as yyyy-mm-dd
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ParseDate converts a yyyy-mm-dd formatted string into a Date struct
func ParseDate(dateStr string) (Date, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd: %q", dateStr)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	if month == 2 {
		// Check for leap year
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	// Months with 30 days: April, June, September, November
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}

	// All other months have 31 days
	return 31
}

// MonthRange returns the first and last day of a month as yyyy-mm-dd strings.
func MonthRange(year, month int) (string, string, error) {
	if month < 1 || month > 12 {
		return "", "", fmt.Errorf("month must be between 1 and 12")
	}
	first := Date{Year: year, Month: month, Day: 1}
	last := Date{Year: year, Month: month, Day: DaysInMonth(year, month)}
	return first.String(), last.String(), nil
}

// YearRange returns the first and last day of a year as yyyy-mm-dd strings.
func YearRange(year int) (string, string) {
	return Date{Year: year, Month: 1, Day: 1}.String(), Date{Year: year, Month: 12, Day: 31}.String()
}
