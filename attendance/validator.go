/*
validator.go - Per-event punch acceptance state machine

PURPOSE:
  Decides whether a single incoming clock event is acceptable given the
  employee's punch history, scheduled shift window, and break allowance.
  Validation is a pure decision function: it never mutates state, and it
  runs EVERY applicable check, accumulating errors rather than stopping
  at the first failure, so the employee sees all problems at once.

STATE MACHINE:
  (empty) -> in
  in -> out | break_start
  break_start -> break_end
  break_end -> out | break_start
  out -> in

CHECKS, IN ORDER:
  1. Sequence - transition allowed from the most recent punch type
  2. Time window - clock-in/out within the grace period around the shift
  3. Break allowance - cumulative completed breaks under the shift limit
  4. Duplicate suppression - same type within 5 seconds of the last punch

GRACE PERIOD:
  Punches are accepted up to 15 minutes before shift start and up to
  15 minutes after shift end. Outside that window the punch is rejected
  and the employee needs a manager override (an exception).

SEE ALSO:
  - exceptions.go: End-of-day exception synthesis
  - errors.go: Rejection codes
*/
package attendance

import (
	"fmt"
	"time"
)

// =============================================================================
// TUNABLES
// =============================================================================

const (
	// GracePeriodMinutes is the tolerance around scheduled shift boundaries.
	GracePeriodMinutes = 15

	// DuplicateWindow is the span within which a same-type punch is
	// treated as an accidental double-tap rather than a new event.
	DuplicateWindow = 5 * time.Second

	// RecentPunchLimit caps the history snapshot a caller should supply.
	RecentPunchLimit = 10
)

// allowedTransitions maps the most recent punch type to the set of punch
// types acceptable next.
var allowedTransitions = map[PunchType][]PunchType{
	PunchIn:         {PunchOut, PunchBreakStart},
	PunchBreakStart: {PunchBreakEnd},
	PunchBreakEnd:   {PunchOut, PunchBreakStart},
	PunchOut:        {PunchIn},
}

// =============================================================================
// PUNCH CONTEXT
// =============================================================================

// PunchContext carries everything the validator needs to judge one event.
// RecentPunches is a caller-supplied snapshot, most-recent-first, windowed
// to the last 24 hours and capped at RecentPunchLimit entries.
type PunchContext struct {
	EmployeeID    string
	TenantID      string
	PunchType     PunchType
	Timestamp     time.Time
	Shift         *ShiftWindow // nil when no shift is scheduled
	RecentPunches []PunchEvent
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator is the per-event gate in front of the punch log. It holds no
// state; a single value can be shared freely.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate runs all applicable checks against the context and returns the
// accumulated rejection reasons. An empty result means accept.
func (v *Validator) Validate(ctx PunchContext) []ValidationError {
	var errs []ValidationError

	errs = append(errs, v.checkSequence(ctx)...)
	errs = append(errs, v.checkTimeWindow(ctx)...)
	errs = append(errs, v.checkBreakAllowance(ctx)...)
	errs = append(errs, v.checkDuplicate(ctx)...)

	return errs
}

// checkSequence enforces the punch state machine keyed by the most recent
// punch's type.
func (v *Validator) checkSequence(ctx PunchContext) []ValidationError {
	if len(ctx.RecentPunches) == 0 {
		if ctx.PunchType != PunchIn {
			return []ValidationError{{
				Code:    CodeInvalidFirstPunch,
				Message: fmt.Sprintf("first punch of the day must be clock-in, got %s", ctx.PunchType),
			}}
		}
		return nil
	}

	last := ctx.RecentPunches[0]
	for _, allowed := range allowedTransitions[last.Type] {
		if ctx.PunchType == allowed {
			return nil
		}
	}

	return []ValidationError{{
		Code:    CodeInvalidSequence,
		Message: fmt.Sprintf("cannot punch %s after %s", ctx.PunchType, last.Type),
	}}
}

// checkTimeWindow enforces the grace period around the scheduled shift.
// Skipped entirely when no shift is known.
func (v *Validator) checkTimeWindow(ctx PunchContext) []ValidationError {
	if ctx.Shift == nil {
		return nil
	}

	punchMinute := ctx.Timestamp.Hour()*60 + ctx.Timestamp.Minute()

	switch ctx.PunchType {
	case PunchIn:
		earliest := MinuteOfDay(ctx.Shift.StartTime) - GracePeriodMinutes
		if punchMinute < earliest {
			return []ValidationError{{
				Code: CodeTooEarly,
				Message: fmt.Sprintf("clock-in at %s is more than %d minutes before shift start %s",
					ClockFormat(ctx.Timestamp), GracePeriodMinutes, ctx.Shift.StartTime),
			}}
		}
	case PunchOut:
		latest := MinuteOfDay(ctx.Shift.EndTime) + GracePeriodMinutes
		if punchMinute > latest {
			return []ValidationError{{
				Code: CodeTooLate,
				Message: fmt.Sprintf("clock-out at %s is more than %d minutes after shift end %s",
					ClockFormat(ctx.Timestamp), GracePeriodMinutes, ctx.Shift.EndTime),
			}}
		}
	}

	return nil
}

// checkBreakAllowance rejects a break_start once the cumulative completed
// break time has reached the shift's allowance.
func (v *Validator) checkBreakAllowance(ctx PunchContext) []ValidationError {
	if ctx.PunchType != PunchBreakStart || ctx.Shift == nil {
		return nil
	}

	taken := completedBreakMinutes(chronological(ctx.RecentPunches))
	if taken >= ctx.Shift.BreakMinutes {
		return []ValidationError{{
			Code: CodeBreakLimitExceeded,
			Message: fmt.Sprintf("already taken %d of %d allowed break minutes",
				taken, ctx.Shift.BreakMinutes),
		}}
	}

	return nil
}

// checkDuplicate suppresses accidental double-taps: same punch type within
// DuplicateWindow of the most recent punch.
func (v *Validator) checkDuplicate(ctx PunchContext) []ValidationError {
	if len(ctx.RecentPunches) == 0 {
		return nil
	}

	last := ctx.RecentPunches[0]
	if last.Type != ctx.PunchType {
		return nil
	}

	gap := ctx.Timestamp.Sub(last.Timestamp)
	if gap < 0 {
		gap = -gap
	}
	if gap <= DuplicateWindow {
		return []ValidationError{{
			Code:    CodeDuplicatePunch,
			Message: fmt.Sprintf("duplicate %s punch within %s", ctx.PunchType, DuplicateWindow),
		}}
	}

	return nil
}

// =============================================================================
// BREAK PAIRING
// =============================================================================

// completedBreakMinutes sums the durations of completed break pairs in a
// chronological punch slice. Pairing is by sequential index over the break
// punches only - pair i with i+1 - not nearest-neighbor matching, so a
// dangling break_start consumes its slot and pairs with nothing.
func completedBreakMinutes(punches []PunchEvent) int {
	var breaks []PunchEvent
	for _, p := range punches {
		if p.Type == PunchBreakStart || p.Type == PunchBreakEnd {
			breaks = append(breaks, p)
		}
	}

	total := 0
	for i := 0; i+1 < len(breaks); i += 2 {
		if breaks[i].Type == PunchBreakStart && breaks[i+1].Type == PunchBreakEnd {
			total += int(breaks[i+1].Timestamp.Sub(breaks[i].Timestamp).Minutes())
		}
	}
	return total
}

// chronological reverses a most-recent-first snapshot into timestamp order.
func chronological(recent []PunchEvent) []PunchEvent {
	out := make([]PunchEvent, len(recent))
	for i, p := range recent {
		out[len(recent)-1-i] = p
	}
	return out
}
