package attendance

import (
	"time"

	"github.com/kintai-hq/kintai-backend-go/internal/pkg/timecalc"
)

// ClockData is the caller-facing projection of one attendance record.
type ClockData struct {
	ID                string  `json:"id"`
	Date              string  `json:"date"`
	ClockInTime       *string `json:"clock_in_time,omitempty"`
	ClockOutTime      *string `json:"clock_out_time,omitempty"`
	BreakMinutes      *int    `json:"break_minutes,omitempty"`
	LateMinutes       *int    `json:"late_minutes,omitempty"`
	EarlyLeaveMinutes *int    `json:"early_leave_minutes,omitempty"`
	OvertimeMinutes   *int    `json:"overtime_minutes,omitempty"`
	NightShiftMinutes *int    `json:"night_shift_minutes,omitempty"`
	WorkingMinutes    *int    `json:"working_minutes,omitempty"`
	Status            string  `json:"status"`
	Fixed             bool    `json:"fixed"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02 15:04")
	return &formatted
}

// ToClockData projects a record for serialization. Night-shift minutes are
// recomputed from the raw clock times; a stored positive value wins over a
// zero recomputation so fixed historical records keep their figure.
func ToClockData(r Record) ClockData {
	nullSafe := func(v *int) *int {
		if v == nil {
			zero := 0
			return &zero
		}
		return v
	}

	night := timecalc.NightShiftMinutes(r.ClockInTime, r.ClockOutTime)
	if stored := nullSafe(r.NightShiftMinutes); *stored > 0 && night == 0 {
		night = *stored
	}

	var working *int
	if r.ClockInTime != nil && r.ClockOutTime != nil {
		w := r.WorkingMinutes()
		working = &w
	}

	status := string(StatusNormal)
	if r.Status != "" {
		status = string(r.Status)
	}

	return ClockData{
		ID:                r.ID,
		Date:              r.Date.Format("2006-01-02"),
		ClockInTime:       timePtrToString(r.ClockInTime),
		ClockOutTime:      timePtrToString(r.ClockOutTime),
		BreakMinutes:      nullSafe(r.BreakMinutes),
		LateMinutes:       nullSafe(r.LateMinutes),
		EarlyLeaveMinutes: nullSafe(r.EarlyLeaveMinutes),
		OvertimeMinutes:   nullSafe(r.OvertimeMinutes),
		NightShiftMinutes: &night,
		WorkingMinutes:    working,
		Status:            status,
		Fixed:             r.Fixed,
	}
}

// HistoryFilter selects the window for attendance history queries. Year and
// Month select a calendar month; when zero the trailing 30 days apply.
type HistoryFilter struct {
	Year  int
	Month int
}

// Window resolves the filter to inclusive [start, end] dates relative to now.
func (f HistoryFilter) Window(now time.Time) (time.Time, time.Time) {
	if f.Year > 0 && f.Month >= 1 && f.Month <= 12 {
		start := time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, -1)
		return start, end
	}
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return end.AddDate(0, 0, -30), end
}
