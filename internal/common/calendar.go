package common

import (
	"fmt"
	"time"
)

// All ledger dates are calendar days in Indian Standard Time, stored as the
// epoch second of the day's start. IST has no daylight saving, so a fixed
// offset keeps the arithmetic independent of the host tz database.
var ISTZone = time.FixedZone("IST", 5*3600+30*60)

// DateLayout is the wire format for calendar days (e.g. "25-03-2024").
const DateLayout = "02-01-2006"

const secondsPerDay = 24 * 60 * 60

// ParseDate converts a DD-MM-YYYY string to the epoch second of that day's
// start in IST.
func ParseDate(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty date string")
	}
	t, err := time.ParseInLocation(DateLayout, s, ISTZone)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q, want format DD-MM-YYYY: %w", s, err)
	}
	return t.Unix(), nil
}

// FormatDate renders an epoch second as a DD-MM-YYYY string in IST.
// A zero epoch renders as the empty string (unset date).
func FormatDate(epoch int64) string {
	if epoch == 0 {
		return ""
	}
	return time.Unix(epoch, 0).In(ISTZone).Format(DateLayout)
}

// StartOfDay truncates an instant to the start of its IST calendar day.
func StartOfDay(t time.Time) int64 {
	y, m, d := t.In(ISTZone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ISTZone).Unix()
}

// StartOfMonth returns the epoch second of the first day of the month
// containing the given instant.
func StartOfMonth(epoch int64) int64 {
	t := time.Unix(epoch, 0).In(ISTZone)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, ISTZone).Unix()
}

// EndOfMonth returns the epoch second of the start of the last day of the
// month containing the given instant.
func EndOfMonth(epoch int64) int64 {
	t := time.Unix(epoch, 0).In(ISTZone)
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, ISTZone)
	return firstOfNext.AddDate(0, 0, -1).Unix()
}

// NextMonth returns the epoch second of the first day of the month after the
// one containing the given instant.
func NextMonth(epoch int64) int64 {
	t := time.Unix(epoch, 0).In(ISTZone)
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, ISTZone).Unix()
}

// MonthLabel renders the month of an instant as "January 2006".
func MonthLabel(epoch int64) string {
	return time.Unix(epoch, 0).In(ISTZone).Format("January 2006")
}

// DaysBetween returns the whole calendar days from a to b. Both arguments are
// expected to be start-of-day epochs, so the division is exact.
func DaysBetween(a, b int64) int64 {
	return (b - a) / secondsPerDay
}

// InCurrentFinancialYear reports whether the DD-MM-YYYY date falls in the
// financial year (April 1 .. March 31) containing now. Blank or malformed
// dates report false.
func InCurrentFinancialYear(dateStr string, now time.Time) bool {
	epoch, err := ParseDate(dateStr)
	if err != nil {
		return false
	}
	date := time.Unix(epoch, 0).In(ISTZone)

	today := now.In(ISTZone)
	fyStartYear := today.Year()
	if today.Month() < time.April {
		fyStartYear--
	}
	fyStart := time.Date(fyStartYear, time.April, 1, 0, 0, 0, 0, ISTZone)
	fyEnd := time.Date(fyStartYear+1, time.March, 31, 0, 0, 0, 0, ISTZone)

	return !date.Before(fyStart) && !date.After(fyEnd)
}

// OneYearOrMoreOld reports whether the DD-MM-YYYY date is at least one full
// year before now. Blank or malformed dates report false.
func OneYearOrMoreOld(dateStr string, now time.Time) bool {
	epoch, err := ParseDate(dateStr)
	if err != nil {
		return false
	}
	date := time.Unix(epoch, 0).In(ISTZone)
	return !date.AddDate(1, 0, 0).After(now.In(ISTZone))
}
