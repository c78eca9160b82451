package attendance

import (
	"time"

	"github.com/kintai-hq/kintai-backend-go/internal/pkg/timecalc"
)

type Status string

const (
	StatusNormal            Status = "NORMAL"
	StatusLate              Status = "LATE"
	StatusEarlyLeave        Status = "EARLY_LEAVE"
	StatusLateAndEarlyLeave Status = "LATE_AND_EARLY_LEAVE"
	StatusOvertime          Status = "OVERTIME"
	StatusNightShift        Status = "NIGHT_SHIFT"
)

// Record is one employee's attendance for one calendar day. At most one row
// may exist per (EmployeeID, Date); stale duplicates are corruption to be
// healed, not a valid alternate state.
type Record struct {
	ID                string
	EmployeeID        string
	Date              time.Time
	ClockInTime       *time.Time
	ClockOutTime      *time.Time
	BreakMinutes      *int
	LateMinutes       *int
	EarlyLeaveMinutes *int
	OvertimeMinutes   *int
	NightShiftMinutes *int
	Status            Status
	Fixed             bool
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Normalize replaces nil numeric fields with zero so nothing downstream has
// to branch on missing metrics.
func (r *Record) Normalize() {
	zero := 0
	if r.LateMinutes == nil {
		v := zero
		r.LateMinutes = &v
	}
	if r.EarlyLeaveMinutes == nil {
		v := zero
		r.EarlyLeaveMinutes = &v
	}
	if r.OvertimeMinutes == nil {
		v := zero
		r.OvertimeMinutes = &v
	}
	if r.NightShiftMinutes == nil {
		v := zero
		r.NightShiftMinutes = &v
	}
	if r.BreakMinutes == nil {
		v := zero
		r.BreakMinutes = &v
	}
}

// RecomputeMetrics re-derives every minute metric and the status after a
// clock-out. A full statutory day (>=480 working minutes) forces lateness and
// early-leave to zero; a shorter day attributes the shortage first to raw
// lateness and the remainder to early-leave, so the two never under-report
// a below-standard day. The break resolves from the raw override before any
// zero-filling: a nil break means "apply the statutory tier", not zero.
func (r *Record) RecomputeMetrics() {
	if r.ClockInTime == nil || r.ClockOutTime == nil {
		r.Normalize()
		return
	}

	breakMinutes := timecalc.ResolveBreakMinutes(r.ClockInTime, r.ClockOutTime, r.BreakMinutes)
	r.BreakMinutes = &breakMinutes

	late := timecalc.LatenessMinutes(*r.ClockInTime)
	early := timecalc.EarlyLeaveMinutes(*r.ClockOutTime)

	working := timecalc.WorkingMinutes(r.ClockInTime, r.ClockOutTime, &breakMinutes)
	if working >= timecalc.StandardWorkMinutes {
		late = 0
		early = 0
	} else {
		shortage := timecalc.StandardWorkMinutes - max(0, working)
		late = min(late, shortage)
		if late+early < shortage {
			early += shortage - (late + early)
		}
	}
	r.LateMinutes = &late
	r.EarlyLeaveMinutes = &early

	overtime := timecalc.OvertimeMinutes(working)
	r.OvertimeMinutes = &overtime

	night := timecalc.NightShiftMinutes(r.ClockInTime, r.ClockOutTime)
	r.NightShiftMinutes = &night

	r.Status = deriveStatus(late, early, overtime, night)
	r.Normalize()
}

func deriveStatus(late, early, overtime, night int) Status {
	switch {
	case late > 0 && early > 0:
		return StatusLateAndEarlyLeave
	case late > 0:
		return StatusLate
	case early > 0:
		return StatusEarlyLeave
	case night > 0:
		return StatusNightShift
	case overtime > 0:
		return StatusOvertime
	default:
		return StatusNormal
	}
}

// WorkingMinutes is the session's net working time, 0 until clocked out.
func (r Record) WorkingMinutes() int {
	return timecalc.WorkingMinutes(r.ClockInTime, r.ClockOutTime, r.BreakMinutes)
}
