/*
clock.go - HH:MM arithmetic with overnight wraparound

PURPOSE:
  Pure helpers for the wall-clock strings used throughout scheduling
  ("09:00", "17:30"). Durations are computed in whole minutes; an end
  time earlier than the start time is treated as crossing midnight.

CONTRACT:
  These are total functions over well-formed input. Callers are
  responsible for ensuring strings match ^\d{2}:\d{2}$ - a malformed
  string is a programming error, not a runtime-recoverable condition,
  so MinuteOfDay panics rather than returning an error.

SEE ALSO:
  - validator.go: Grace-window checks built on these helpers
  - compliance/facts.go: Derived shift/break durations
*/
package attendance

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// minutesPerDay is the wraparound added when an interval crosses midnight.
const minutesPerDay = 24 * 60

// =============================================================================
// PARSING
// =============================================================================

// MinuteOfDay converts "HH:MM" to minutes since midnight.
// Panics on malformed input; see the package contract above.
func MinuteOfDay(clock string) int {
	if len(clock) != 5 || clock[2] != ':' {
		panic(fmt.Sprintf("attendance: malformed clock string %q", clock))
	}
	h, err := strconv.Atoi(clock[0:2])
	if err != nil {
		panic(fmt.Sprintf("attendance: malformed clock string %q", clock))
	}
	m, err := strconv.Atoi(clock[3:5])
	if err != nil {
		panic(fmt.Sprintf("attendance: malformed clock string %q", clock))
	}
	return h*60 + m
}

// ClockFormat renders a timestamp's local wall-clock time as "HH:MM".
func ClockFormat(t time.Time) string {
	return t.Format("15:04")
}

// =============================================================================
// DURATION
// =============================================================================

// MinutesBetween returns the duration in minutes from start to end.
// If end is earlier than start the interval is assumed to cross
// midnight: MinutesBetween("22:00", "06:00") == 480.
func MinutesBetween(start, end string) int {
	s := MinuteOfDay(start)
	e := MinuteOfDay(end)
	if e < s {
		e += minutesPerDay
	}
	return e - s
}

// HoursBetween returns MinutesBetween as fractional hours.
func HoursBetween(start, end string) decimal.Decimal {
	return decimal.NewFromInt(int64(MinutesBetween(start, end))).
		Div(decimal.NewFromInt(60))
}
