package attendance

import (
	"context"
)

// AttendanceService coordinates clock operations for one employee per day.
type AttendanceService interface {
	// ClockIn records the start of today's session. Repeat calls are
	// idempotent and return the existing state.
	ClockIn(ctx context.Context, employeeID string) (*ClockData, error)

	// ClockOut closes today's session and recomputes every metric. Without
	// a prior clock-in it is a successful no-op; repeat calls are
	// idempotent. Write conflicts are retried up to the fixed bound.
	ClockOut(ctx context.Context, employeeID string) (*ClockData, error)

	// Today returns the current day's record, or nil when none exists.
	Today(ctx context.Context, employeeID string) (*ClockData, error)

	// History returns records for the filter window, newest first. An empty
	// window is an empty result, not an error.
	History(ctx context.Context, employeeID string, filter HistoryFilter) ([]ClockData, error)
}
