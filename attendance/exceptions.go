/*
exceptions.go - End-of-day exception synthesis

PURPOSE:
  After a clock-out completes a day, compares what was scheduled against
  what was punched and proposes exceptions for the gaps: absence, missed
  clock-out, late arrival, early departure. These are PROPOSALS - the
  caller persists them as pending and routes them through the approval
  workflow; nothing here decides whether an excuse is legitimate.

POLICY:
  - No shift and no punches        -> nothing was expected, no exception
  - Shift exists, zero punches     -> absence
  - More "in" than "out" punches   -> missed_clock_out
  - First in  > shift start + 5min -> late_arrival (minutes late in reason)
  - Last out  < shift end - 5min   -> early_departure (minutes early in reason)

SEE ALSO:
  - validator.go: The per-event gate that precedes this
  - canonical.go: Where approved exceptions re-enter the picture
*/
package attendance

import (
	"fmt"
	"time"
)

// toleranceMinutes is how far off the scheduled boundary a punch may be
// before a lateness/early-departure exception is proposed.
const toleranceMinutes = 5

// GenerateExceptions derives exception proposals for one employee-day.
// todaysPunches must be the day's punches in chronological order; shift is
// nil when nothing was scheduled. Called only after a clock-out completes.
func (v *Validator) GenerateExceptions(
	employeeID, tenantID string,
	date time.Time,
	todaysPunches []PunchEvent,
	shift *ShiftWindow,
) []ExceptionProposal {
	if shift == nil && len(todaysPunches) == 0 {
		return nil
	}

	var proposals []ExceptionProposal

	if shift != nil && len(todaysPunches) == 0 {
		return []ExceptionProposal{{
			Type:   ExceptionAbsence,
			Reason: fmt.Sprintf("no punches recorded for scheduled shift %s-%s", shift.StartTime, shift.EndTime),
		}}
	}

	ins, outs := 0, 0
	var firstIn, lastOut *PunchEvent
	for i := range todaysPunches {
		p := &todaysPunches[i]
		switch p.Type {
		case PunchIn:
			ins++
			if firstIn == nil {
				firstIn = p
			}
		case PunchOut:
			outs++
			lastOut = p
		}
	}

	if ins > outs {
		proposals = append(proposals, ExceptionProposal{
			Type:   ExceptionMissedClockOut,
			Reason: fmt.Sprintf("%d clock-in punches but only %d clock-out punches", ins, outs),
		})
	}

	if shift != nil && firstIn != nil {
		arrival := firstIn.Timestamp.Hour()*60 + firstIn.Timestamp.Minute()
		latest := MinuteOfDay(shift.StartTime) + toleranceMinutes
		if arrival > latest {
			minutesLate := arrival - MinuteOfDay(shift.StartTime)
			proposals = append(proposals, ExceptionProposal{
				Type:   ExceptionLateArrival,
				Reason: fmt.Sprintf("clocked in %d minutes after shift start %s", minutesLate, shift.StartTime),
			})
		}
	}

	if shift != nil && lastOut != nil {
		departure := lastOut.Timestamp.Hour()*60 + lastOut.Timestamp.Minute()
		earliest := MinuteOfDay(shift.EndTime) - toleranceMinutes
		if departure < earliest {
			minutesEarly := MinuteOfDay(shift.EndTime) - departure
			proposals = append(proposals, ExceptionProposal{
				Type:   ExceptionEarlyDeparture,
				Reason: fmt.Sprintf("clocked out %d minutes before shift end %s", minutesEarly, shift.EndTime),
			})
		}
	}

	return proposals
}
