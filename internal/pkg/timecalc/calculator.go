// Package timecalc derives lateness, early-leave, break, working, overtime
// and night-shift minutes from raw clock timestamps. All functions are pure;
// inputs are truncated to whole minutes before any arithmetic.
package timecalc

import (
	"time"
)

// Standard shift and statutory thresholds.
const (
	StandardStartHour   = 9
	StandardEndHour     = 18
	NightStartHour      = 22
	NightWindowHours    = 7
	StandardWorkMinutes = 480

	// Statutory break tiers (Labor Standards Act art. 34).
	BreakOver6Hours = 45
	BreakOver8Hours = 60
	SixHourMinutes  = 360
	EightHourMinutes = 480
)

var tokyo *time.Location

func init() {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
	}
	tokyo = loc
}

// Now returns the current business time (Asia/Tokyo).
func Now() time.Time {
	return time.Now().In(tokyo)
}

// Location returns the business time zone.
func Location() *time.Location {
	return tokyo
}

func truncateToMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}

// LatenessMinutes returns how many minutes clockIn falls after the 09:00
// shift start on its own calendar day, or 0.
func LatenessMinutes(clockIn time.Time) int {
	clockIn = truncateToMinute(clockIn)
	start := time.Date(clockIn.Year(), clockIn.Month(), clockIn.Day(), StandardStartHour, 0, 0, 0, clockIn.Location())
	if clockIn.After(start) {
		return minutesBetween(start, clockIn)
	}
	return 0
}

// EarlyLeaveMinutes returns how many minutes clockOut falls before the 18:00
// shift end on its own calendar day, or 0.
func EarlyLeaveMinutes(clockOut time.Time) int {
	clockOut = truncateToMinute(clockOut)
	end := time.Date(clockOut.Year(), clockOut.Month(), clockOut.Day(), StandardEndHour, 0, 0, 0, clockOut.Location())
	if clockOut.Before(end) {
		return minutesBetween(clockOut, end)
	}
	return 0
}

func requiredBreakMinutes(totalWorkMinutes int) int {
	switch {
	case totalWorkMinutes < SixHourMinutes:
		return 0
	case totalWorkMinutes < EightHourMinutes:
		return BreakOver6Hours
	default:
		return BreakOver8Hours
	}
}

// ResolveBreakMinutes returns the effective break for the session. A requested
// override is clamped to [0, elapsed]; with no override the statutory tier for
// the elapsed span applies. A non-positive elapsed span yields 0.
func ResolveBreakMinutes(clockIn, clockOut *time.Time, requested *int) int {
	if clockIn == nil || clockOut == nil {
		if requested == nil {
			return 0
		}
		return max(0, *requested)
	}
	in := truncateToMinute(*clockIn)
	out := truncateToMinute(*clockOut)
	if !out.After(in) {
		return 0
	}

	total := minutesBetween(in, out)
	breakMinutes := requiredBreakMinutes(total)
	if requested != nil {
		breakMinutes = *requested
	}
	if breakMinutes < 0 {
		breakMinutes = 0
	}
	if breakMinutes > total {
		breakMinutes = total
	}
	return breakMinutes
}

// WorkingMinutes returns elapsed minutes minus the resolved break, floored at
// 0. Missing or non-increasing clock times yield 0.
func WorkingMinutes(clockIn, clockOut *time.Time, breakMinutes *int) int {
	if clockIn == nil || clockOut == nil {
		return 0
	}
	in := truncateToMinute(*clockIn)
	out := truncateToMinute(*clockOut)
	if !out.After(in) {
		return 0
	}

	total := minutesBetween(in, out)
	total -= ResolveBreakMinutes(clockIn, clockOut, breakMinutes)
	return max(0, total)
}

// OvertimeMinutes returns working minutes in excess of the statutory 480.
func OvertimeMinutes(workingMinutes int) int {
	return max(0, workingMinutes-StandardWorkMinutes)
}

// NightShiftMinutes sums the overlap between [clockIn, clockOut) and every
// 22:00→+7h night window from the day before clock-in through the clock-out
// day. Shifts that start before midnight or span several nights are counted
// per window.
func NightShiftMinutes(clockIn, clockOut *time.Time) int {
	if clockIn == nil || clockOut == nil {
		return 0
	}
	in := truncateToMinute(*clockIn)
	out := truncateToMinute(*clockOut)
	if !out.After(in) {
		return 0
	}

	total := 0
	day := time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, in.Location()).AddDate(0, 0, -1)
	last := time.Date(out.Year(), out.Month(), out.Day(), 0, 0, 0, 0, out.Location())
	for !day.After(last) {
		nightStart := time.Date(day.Year(), day.Month(), day.Day(), NightStartHour, 0, 0, 0, day.Location())
		nightEnd := nightStart.Add(NightWindowHours * time.Hour)

		overlapStart := in
		if nightStart.After(overlapStart) {
			overlapStart = nightStart
		}
		overlapEnd := out
		if nightEnd.Before(overlapEnd) {
			overlapEnd = nightEnd
		}
		if overlapEnd.After(overlapStart) {
			total += minutesBetween(overlapStart, overlapEnd)
		}
		day = day.AddDate(0, 0, 1)
	}
	return total
}
