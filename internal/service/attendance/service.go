package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/timecalc"
)

const (
	clockOutMaxAttempts  = 3
	clockOutBackoffSlice = 100 * time.Millisecond
)

type AttendanceServiceImpl struct {
	employee.EmployeeRepository
	attendance.AttendanceRepository
	logger *slog.Logger
	now    func() time.Time
	sleep  func(time.Duration)
}

func NewAttendanceService(
	employeeRepository employee.EmployeeRepository,
	attendanceRepository attendance.AttendanceRepository,
	logger *slog.Logger,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		EmployeeRepository:   employeeRepository,
		AttendanceRepository: attendanceRepository,
		logger:               logger,
		now:                  timecalc.Now,
		sleep:                time.Sleep,
	}
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, employeeID string) (*attendance.ClockData, error) {
	emp, err := a.activeEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	now := a.now()
	today := dateOf(now)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if existing != nil && existing.ClockInTime != nil {
		// Repeat clock-in returns the day as it stands.
		data := attendance.ToClockData(*existing)
		return &data, nil
	}

	record := attendance.Record{
		ID:          uuid.NewString(),
		EmployeeID:  emp.ID,
		Date:        today,
		ClockInTime: &now,
		Status:      attendance.StatusNormal,
	}
	if late := timecalc.LatenessMinutes(now); late > 0 {
		record.LateMinutes = &late
		record.Status = attendance.StatusLate
	}

	// BreakMinutes stays nil until clock-out: nil means "statutory tier",
	// and zero-filling it here would register an explicit 0-minute break.
	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}
	data := attendance.ToClockData(created)
	return &data, nil
}

// ClockOut implements attendance.AttendanceService. The whole unit of work
// (duplicate repair, re-read, recompute, versioned save) runs inside a bounded
// retry loop; each attempt starts from freshly read state.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, employeeID string) (*attendance.ClockData, error) {
	emp, err := a.activeEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= clockOutMaxAttempts; attempt++ {
		if attempt > 1 {
			a.sleep(clockOutBackoffSlice * time.Duration(attempt-1))
		}

		data, err := a.clockOutOnce(ctx, emp)
		if err == nil {
			return data, nil
		}
		if isDomainError(err) {
			return nil, err
		}

		lastErr = err
		a.logger.WarnContext(ctx, "clock-out attempt failed",
			slog.String("employee_id", emp.ID),
			slog.Int("attempt", attempt),
			slog.Any("error", err))
	}

	if errors.Is(lastErr, attendance.ErrVersionConflict) {
		return nil, attendance.ErrConcurrentUpdate
	}
	return nil, attendance.ErrInternal
}

func (a *AttendanceServiceImpl) clockOutOnce(ctx context.Context, emp employee.Employee) (*attendance.ClockData, error) {
	now := a.now()
	today := dateOf(now)

	a.cleanupDuplicates(ctx, emp.ID, today)

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if record == nil || record.ClockInTime == nil {
		// Clock-out without a clock-in is a quiet no-op.
		return nil, nil
	}
	if record.ClockOutTime != nil {
		data := attendance.ToClockData(*record)
		return &data, nil
	}

	record.ClockOutTime = &now
	record.RecomputeMetrics()

	updated, err := a.AttendanceRepository.Update(ctx, *record)
	if err != nil {
		return nil, err
	}
	data := attendance.ToClockData(updated)
	return &data, nil
}

// Today implements attendance.AttendanceService. While still clocked in, the
// clock-out-derived fields are suppressed so the UI does not show stale
// metrics for an open session.
func (a *AttendanceServiceImpl) Today(ctx context.Context, employeeID string) (*attendance.ClockData, error) {
	emp, err := a.activeEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	today := dateOf(a.now())
	a.cleanupDuplicates(ctx, emp.ID, today)

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if record == nil {
		return nil, nil
	}

	data := attendance.ToClockData(*record)
	if record.ClockOutTime == nil {
		zero := 0
		data.ClockOutTime = nil
		data.EarlyLeaveMinutes = &zero
		data.OvertimeMinutes = &zero
		data.NightShiftMinutes = &zero
		data.WorkingMinutes = nil
	}
	return &data, nil
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.ClockData, error) {
	emp, err := a.activeEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	start, end := filter.Window(a.now())
	records, err := a.AttendanceRepository.ListByEmployeeInRange(ctx, emp.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	out := make([]attendance.ClockData, 0, len(records))
	for _, record := range records {
		out = append(out, attendance.ToClockData(record))
	}
	return out, nil
}

func (a *AttendanceServiceImpl) activeEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}
	if emp.IsRetired() {
		return employee.Employee{}, employee.ErrRetiredEmployee
	}
	return emp, nil
}

// cleanupDuplicates enforces one record per (employee, date) by deleting all
// but the newest. Individual delete failures are logged and skipped; the
// caller's operation proceeds regardless.
func (a *AttendanceServiceImpl) cleanupDuplicates(ctx context.Context, employeeID string, date time.Time) {
	records, err := a.AttendanceRepository.FindDuplicates(ctx, employeeID, date)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to scan for duplicate attendance records",
			slog.String("employee_id", employeeID), slog.Any("error", err))
		return
	}
	if len(records) <= 1 {
		return
	}

	a.logger.WarnContext(ctx, "healing duplicate attendance records",
		slog.String("employee_id", employeeID),
		slog.String("date", date.Format("2006-01-02")),
		slog.Int("count", len(records)))
	for _, stale := range records[1:] {
		if err := a.AttendanceRepository.Delete(ctx, stale.ID); err != nil {
			a.logger.WarnContext(ctx, "failed to delete duplicate attendance record",
				slog.String("record_id", stale.ID), slog.Any("error", err))
		}
	}
}

func isDomainError(err error) bool {
	return errors.Is(err, employee.ErrEmployeeNotFound) ||
		errors.Is(err, employee.ErrRetiredEmployee) ||
		errors.Is(err, attendance.ErrRecordNotFound)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
