/*
clock_test.go - HH:MM arithmetic tests

Covers minute-of-day conversion, duration between clock strings with
overnight wraparound, and decimal hour conversion.
*/
package attendance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftwise/attendance-engine/attendance"
)

func TestMinuteOfDay(t *testing.T) {
	cases := []struct {
		clock string
		want  int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"17:00", 1020},
		{"23:59", 1439},
	}

	for _, c := range cases {
		if got := attendance.MinuteOfDay(c.clock); got != c.want {
			t.Errorf("MinuteOfDay(%q) = %d, want %d", c.clock, got, c.want)
		}
	}
}

func TestMinutesBetween_SameDay(t *testing.T) {
	// GIVEN a normal day shift
	// WHEN computing its length
	// THEN the result is plain end minus start
	if got := attendance.MinutesBetween("09:00", "17:30"); got != 510 {
		t.Errorf("MinutesBetween(09:00, 17:30) = %d, want 510", got)
	}
}

func TestMinutesBetween_OvernightWraparound(t *testing.T) {
	// GIVEN a shift that crosses midnight (22:00 to 06:00)
	// WHEN computing its length
	// THEN the end time is treated as next-day, yielding 480 minutes
	if got := attendance.MinutesBetween("22:00", "06:00"); got != 480 {
		t.Errorf("MinutesBetween(22:00, 06:00) = %d, want 480", got)
	}
}

func TestMinutesBetween_EqualTimes(t *testing.T) {
	if got := attendance.MinutesBetween("09:00", "09:00"); got != 0 {
		t.Errorf("MinutesBetween(09:00, 09:00) = %d, want 0", got)
	}
}

func TestHoursBetween(t *testing.T) {
	got := attendance.HoursBetween("09:00", "17:00")
	if !got.Equal(decimal.NewFromInt(8)) {
		t.Errorf("HoursBetween(09:00, 17:00) = %s, want 8", got)
	}

	half := attendance.HoursBetween("09:00", "09:30")
	if !half.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("HoursBetween(09:00, 09:30) = %s, want 0.5", half)
	}
}

func TestClockFormat(t *testing.T) {
	ts := time.Date(2026, time.March, 2, 9, 5, 0, 0, time.UTC)
	if got := attendance.ClockFormat(ts); got != "09:05" {
		t.Errorf("ClockFormat = %q, want 09:05", got)
	}
}
