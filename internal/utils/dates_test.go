package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		date, err := ParseDate("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, 2024, date.Year)
		assert.Equal(t, 1, date.Month)
		assert.Equal(t, 15, date.Day)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date format")
	})

	t.Run("Invalid month", func(t *testing.T) {
		_, err := ParseDate("2024-13-15")
		assert.Error(t, err)
	})

	t.Run("Day past end of month", func(t *testing.T) {
		_, err := ParseDate("2025-02-30")
		assert.Error(t, err)
	})
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2024, 1))
	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 28, DaysInMonth(2023, 2))
	assert.Equal(t, 28, DaysInMonth(1900, 2))
	assert.Equal(t, 29, DaysInMonth(2000, 2))
	assert.Equal(t, 30, DaysInMonth(2024, 4))
	assert.Equal(t, 31, DaysInMonth(2024, 12))
}

func TestMonthRange(t *testing.T) {
	t.Run("February leap year", func(t *testing.T) {
		start, end, err := MonthRange(2024, 2)
		assert.NoError(t, err)
		assert.Equal(t, "2024-02-01", start)
		assert.Equal(t, "2024-02-29", end)
	})

	t.Run("Invalid month", func(t *testing.T) {
		_, _, err := MonthRange(2024, 0)
		assert.Error(t, err)
	})
}

func TestYearRange(t *testing.T) {
	start, end := YearRange(2025)
	assert.Equal(t, "2025-01-01", start)
	assert.Equal(t, "2025-12-31", end)
}
