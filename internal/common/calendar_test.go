package common

import (
	"testing"
	"time"
)

func TestParseDateFormatDateRoundTrip(t *testing.T) {
	epoch, err := ParseDate("25-03-2024")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}

	if got := FormatDate(epoch); got != "25-03-2024" {
		t.Errorf("round trip = %q, want 25-03-2024", got)
	}
}

func TestParseDateStartOfDayIST(t *testing.T) {
	epoch, err := ParseDate("01-01-2023")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}

	parsed := time.Unix(epoch, 0).In(ISTZone)
	if parsed.Hour() != 0 || parsed.Minute() != 0 || parsed.Second() != 0 {
		t.Errorf("expected start of day, got %v", parsed)
	}
	if parsed.Day() != 1 || parsed.Month() != time.January || parsed.Year() != 2023 {
		t.Errorf("wrong calendar day: %v", parsed)
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"", "2024-03-25", "32-01-2024", "not-a-date"} {
		if _, err := ParseDate(input); err == nil {
			t.Errorf("ParseDate(%q) should fail", input)
		}
	}
}

func TestFormatDateZero(t *testing.T) {
	if got := FormatDate(0); got != "" {
		t.Errorf("FormatDate(0) = %q, want empty", got)
	}
}

func TestMonthStepping(t *testing.T) {
	epoch, _ := ParseDate("15-01-2024")

	start := StartOfMonth(epoch)
	if FormatDate(start) != "01-01-2024" {
		t.Errorf("StartOfMonth = %s, want 01-01-2024", FormatDate(start))
	}

	end := EndOfMonth(epoch)
	if FormatDate(end) != "31-01-2024" {
		t.Errorf("EndOfMonth = %s, want 31-01-2024", FormatDate(end))
	}

	next := NextMonth(epoch)
	if FormatDate(next) != "01-02-2024" {
		t.Errorf("NextMonth = %s, want 01-02-2024", FormatDate(next))
	}

	// February of a leap year.
	febEpoch, _ := ParseDate("10-02-2024")
	if FormatDate(EndOfMonth(febEpoch)) != "29-02-2024" {
		t.Errorf("EndOfMonth(feb 2024) = %s, want 29-02-2024", FormatDate(EndOfMonth(febEpoch)))
	}

	// December rolls into the next year.
	decEpoch, _ := ParseDate("05-12-2023")
	if FormatDate(NextMonth(decEpoch)) != "01-01-2024" {
		t.Errorf("NextMonth(dec) = %s, want 01-01-2024", FormatDate(NextMonth(decEpoch)))
	}
}

func TestMonthLabel(t *testing.T) {
	epoch, _ := ParseDate("15-03-2024")
	if got := MonthLabel(epoch); got != "March 2024" {
		t.Errorf("MonthLabel = %q, want March 2024", got)
	}
}

func TestDaysBetween(t *testing.T) {
	a, _ := ParseDate("01-01-2023")
	b, _ := ParseDate("01-01-2024")
	if got := DaysBetween(a, b); got != 365 {
		t.Errorf("DaysBetween = %d, want 365", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("DaysBetween same day = %d, want 0", got)
	}
}

func TestInCurrentFinancialYear(t *testing.T) {
	// FY 2023-24 runs 01-04-2023 .. 31-03-2024.
	now := time.Date(2024, time.January, 15, 12, 0, 0, 0, ISTZone)

	cases := []struct {
		date string
		want bool
	}{
		{"01-04-2023", true},
		{"31-03-2024", true},
		{"15-01-2024", true},
		{"31-03-2023", false},
		{"01-04-2024", false},
		{"", false},
		{"garbage", false},
	}
	for _, tc := range cases {
		if got := InCurrentFinancialYear(tc.date, now); got != tc.want {
			t.Errorf("InCurrentFinancialYear(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}

	// Before April the FY started the previous calendar year.
	febNow := time.Date(2024, time.February, 1, 0, 0, 0, 0, ISTZone)
	if !InCurrentFinancialYear("01-05-2023", febNow) {
		t.Error("May 2023 should be in FY of Feb 2024")
	}
}

func TestOneYearOrMoreOld(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, ISTZone)

	cases := []struct {
		date string
		want bool
	}{
		{"15-06-2023", true},
		{"14-06-2023", true},
		{"16-06-2023", false},
		{"15-06-2024", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := OneYearOrMoreOld(tc.date, now); got != tc.want {
			t.Errorf("OneYearOrMoreOld(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}
}
