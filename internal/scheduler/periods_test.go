package scheduler

import (
	"testing"
	"time"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestWeekKey(t *testing.T) {
	tests := []struct {
		when time.Time
		key  string
	}{
		{at(2025, time.August, 23, 12, 0), "2025-W34"},
		// ISO year differs from the calendar year around New Year.
		{at(2024, time.December, 30, 12, 0), "2025-W01"},
		{at(2021, time.January, 1, 12, 0), "2020-W53"},
	}
	for _, tt := range tests {
		if got := weekKey(tt.when); got != tt.key {
			t.Errorf("%s: expected %s, got %s", tt.when.Format("2006-01-02"), tt.key, got)
		}
	}
}

func TestMonthKey(t *testing.T) {
	if got := monthKey(at(2025, time.August, 5, 0, 0)); got != "2025-08" {
		t.Errorf("expected 2025-08, got %s", got)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		when time.Time
		last bool
	}{
		{at(2025, time.August, 31, 10, 0), true},
		{at(2025, time.August, 30, 10, 0), false},
		{at(2024, time.February, 29, 10, 0), true},
		{at(2024, time.February, 28, 10, 0), false},
		{at(2025, time.February, 28, 10, 0), true},
		{at(2025, time.December, 31, 10, 0), true},
	}
	for _, tt := range tests {
		if got := lastDayOfMonth(tt.when); got != tt.last {
			t.Errorf("%s: expected %v, got %v", tt.when.Format("2006-01-02"), tt.last, got)
		}
	}
}

func TestDue_Daily(t *testing.T) {
	task := taskSpec{name: TaskScan, hour: 8, minute: 0, period: periodDay}
	tests := []struct {
		when   time.Time
		marker string
		due    bool
	}{
		{at(2025, time.August, 19, 7, 59), "", false},
		{at(2025, time.August, 19, 8, 0), "", true},
		// Woken hours after the trigger: still due for today.
		{at(2025, time.August, 19, 11, 27), "", true},
		{at(2025, time.August, 19, 11, 27), "2025-08-19", false},
		// Yesterday's marker does not cover today.
		{at(2025, time.August, 19, 12, 0), "2025-08-18", true},
	}
	for _, tt := range tests {
		if got := task.due(tt.when, tt.marker); got != tt.due {
			t.Errorf("%s marker %q: expected due=%v, got %v",
				tt.when.Format("2006-01-02 15:04"), tt.marker, tt.due, got)
		}
	}
}

func TestDue_WeeklyGate(t *testing.T) {
	task := taskSpec{name: TaskWeekly, hour: 23, minute: 50, period: periodWeek, weekday: time.Sunday}
	tests := []struct {
		when   time.Time
		marker string
		due    bool
	}{
		// Saturday: gate closed regardless of the clock.
		{at(2025, time.August, 23, 23, 55), "", false},
		{at(2025, time.August, 24, 23, 49), "", false},
		{at(2025, time.August, 24, 23, 50), "", true},
		{at(2025, time.August, 24, 23, 55), "2025-W34", false},
		// Missing the Sunday window means skipping that week.
		{at(2025, time.August, 25, 0, 10), "", false},
		// A fresh week with last week's marker is due again.
		{at(2025, time.August, 31, 23, 50), "2025-W34", true},
	}
	for _, tt := range tests {
		if got := task.due(tt.when, tt.marker); got != tt.due {
			t.Errorf("%s marker %q: expected due=%v, got %v",
				tt.when.Format("2006-01-02 15:04"), tt.marker, tt.due, got)
		}
	}
}

func TestDue_MonthlyGate(t *testing.T) {
	task := taskSpec{name: TaskMonthly, hour: 23, minute: 50, period: periodMonth}
	tests := []struct {
		when   time.Time
		marker string
		due    bool
	}{
		{at(2025, time.August, 30, 23, 55), "", false},
		{at(2025, time.August, 31, 23, 50), "", true},
		{at(2025, time.August, 31, 23, 55), "2025-08", false},
		{at(2025, time.September, 30, 23, 50), "2025-08", true},
	}
	for _, tt := range tests {
		if got := task.due(tt.when, tt.marker); got != tt.due {
			t.Errorf("%s marker %q: expected due=%v, got %v",
				tt.when.Format("2006-01-02 15:04"), tt.marker, tt.due, got)
		}
	}
}

func TestParseClock(t *testing.T) {
	hh, mm, err := parseClock("08:00")
	if err != nil || hh != 8 || mm != 0 {
		t.Errorf("expected 08:00 to parse to 8,0, got %d,%d err=%v", hh, mm, err)
	}
	hh, mm, err = parseClock("23:50")
	if err != nil || hh != 23 || mm != 50 {
		t.Errorf("expected 23:50 to parse to 23,50, got %d,%d err=%v", hh, mm, err)
	}
	if _, _, err := parseClock("25:00"); err == nil {
		t.Error("expected error for hour 25")
	}
	if _, _, err := parseClock("0800"); err == nil {
		t.Error("expected error for missing colon")
	}
}
