package scheduler

import (
	"fmt"
	"time"

	"github.com/relaxationvid13/signal-bot/internal/state"
)

// Task names double as marker keys in the state file.
const (
	TaskScan    = "scan"
	TaskDaily   = "daily_report"
	TaskWeekly  = "weekly_report"
	TaskMonthly = "monthly_report"
)

// period is the calendar unit a task fires once per.
type period int

const (
	periodDay period = iota
	periodWeek
	periodMonth
)

// taskSpec binds a task to its trigger time, period and action.
type taskSpec struct {
	name    string
	hour    int
	minute  int
	period  period
	weekday time.Weekday // gate for periodWeek tasks
	run     func(now time.Time) error
}

// periodKey returns the calendar key the task's marker is compared against.
func (t taskSpec) periodKey(now time.Time) string {
	switch t.period {
	case periodWeek:
		return weekKey(now)
	case periodMonth:
		return monthKey(now)
	default:
		return state.DayKey(now)
	}
}

// gateOpen reports whether now falls on a day the task may fire at all: any
// day for daily tasks, the configured weekday for weekly ones, the last
// calendar day of the month for monthly ones.
func (t taskSpec) gateOpen(now time.Time) bool {
	switch t.period {
	case periodWeek:
		return now.Weekday() == t.weekday
	case periodMonth:
		return lastDayOfMonth(now)
	default:
		return true
	}
}

// due reports whether the task should fire: the clock is at or after the
// trigger time, not exactly on it, so a restart past the trigger minute
// still catches up within the period, and the current period key is not
// already marked done.
func (t taskSpec) due(now time.Time, marker string) bool {
	if !t.gateOpen(now) {
		return false
	}
	if now.Hour()*60+now.Minute() < t.hour*60+t.minute {
		return false
	}
	return marker != t.periodKey(now)
}

// weekKey returns the ISO year-week key, e.g. "2025-W34". The ISO year can
// differ from the calendar year around New Year.
func weekKey(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// monthKey returns the year-month key, e.g. "2025-08".
func monthKey(t time.Time) string { return t.Format("2006-01") }

func lastDayOfMonth(t time.Time) bool { return t.AddDate(0, 0, 1).Day() == 1 }

// parseClock parses a "HH:MM" wall-clock trigger time.
func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("bad clock time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}
