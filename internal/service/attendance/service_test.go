package attendance

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/kintai-hq/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) List(context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(f.employees))
	for _, emp := range f.employees {
		out = append(out, emp)
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	records     []attendance.Record
	updateErrs  []error
	deleted     []string
	deleteErr   error
	createCalls int
	clock       int64
}

func (f *fakeAttendanceRepo) Create(_ context.Context, record attendance.Record) (attendance.Record, error) {
	f.createCalls++
	f.clock++
	record.CreatedAt = time.Unix(f.clock, 0)
	record.Version = 1
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	var newest *attendance.Record
	for i := range f.records {
		r := f.records[i]
		if r.EmployeeID != employeeID || !r.Date.Equal(date) {
			continue
		}
		if newest == nil || r.CreatedAt.After(newest.CreatedAt) {
			newest = &f.records[i]
		}
	}
	if newest == nil {
		return nil, nil
	}
	copied := *newest
	return &copied, nil
}

func (f *fakeAttendanceRepo) FindDuplicates(_ context.Context, employeeID string, date time.Time) ([]attendance.Record, error) {
	var matched []attendance.Record
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.Date.Equal(date) {
			matched = append(matched, r)
		}
	}
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			if matched[j].CreatedAt.After(matched[i].CreatedAt) {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
	}
	return matched, nil
}

func (f *fakeAttendanceRepo) ListByEmployeeInRange(_ context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range f.records {
		if r.EmployeeID == employeeID && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, record attendance.Record) (attendance.Record, error) {
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return attendance.Record{}, err
		}
	}
	for i := range f.records {
		if f.records[i].ID == record.ID {
			record.Version = f.records[i].Version + 1
			f.records[i] = record
			return record, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (f *fakeAttendanceRepo) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			break
		}
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestService(employees *fakeEmployeeRepo, records *fakeAttendanceRepo, now time.Time) (*AttendanceServiceImpl, *[]time.Duration) {
	svc := NewAttendanceService(employees, records, slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return now }
	var slept []time.Duration
	svc.sleep = func(d time.Duration) { slept = append(slept, d) }
	return svc, &slept
}

func activeEmployees() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", EmployeeCode: "E001", FullName: "Taro Yamada"},
	}}
}

func TestClockIn_UnknownEmployee(t *testing.T) {
	svc, _ := newTestService(activeEmployees(), &fakeAttendanceRepo{}, time.Now())

	_, err := svc.ClockIn(context.Background(), "nobody")

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestClockIn_RetiredEmployee(t *testing.T) {
	retiredAt := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-2": {ID: "emp-2", RetiredAt: &retiredAt},
	}}
	svc, _ := newTestService(employees, &fakeAttendanceRepo{}, time.Now())

	_, err := svc.ClockIn(context.Background(), "emp-2")

	assert.ErrorIs(t, err, employee.ErrRetiredEmployee)
}

func TestClockIn_RecordsLateness(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 10, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{}
	svc, _ := newTestService(activeEmployees(), records, now)

	data, err := svc.ClockIn(context.Background(), "emp-1")

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, 10, *data.LateMinutes)
	assert.Equal(t, string(attendance.StatusLate), data.Status)
	assert.Nil(t, data.ClockOutTime)
	assert.Equal(t, 1, records.createCalls)
}

func TestClockIn_OnTimeIsNormal(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 55, 0, 0, time.UTC)
	svc, _ := newTestService(activeEmployees(), &fakeAttendanceRepo{}, now)

	data, err := svc.ClockIn(context.Background(), "emp-1")

	require.NoError(t, err)
	assert.Equal(t, 0, *data.LateMinutes)
	assert.Equal(t, string(attendance.StatusNormal), data.Status)
}

func TestClockIn_RepeatReturnsExistingState(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{}
	svc, _ := newTestService(activeEmployees(), records, now)

	first, err := svc.ClockIn(context.Background(), "emp-1")
	require.NoError(t, err)

	second, err := svc.ClockIn(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, records.createCalls)
}

func TestClockOut_WithoutClockInIsNoop(t *testing.T) {
	svc, _ := newTestService(activeEmployees(), &fakeAttendanceRepo{}, time.Now())

	data, err := svc.ClockOut(context.Background(), "emp-1")

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestClockOut_ComputesMetrics(t *testing.T) {
	clockIn := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{}
	svc, _ := newTestService(activeEmployees(), records, clockIn)

	_, err := svc.ClockIn(context.Background(), "emp-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC) }
	data, err := svc.ClockOut(context.Background(), "emp-1")

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, 60, *data.BreakMinutes)
	assert.Equal(t, 540, *data.WorkingMinutes)
	assert.Equal(t, 60, *data.OvertimeMinutes)
	assert.Equal(t, string(attendance.StatusOvertime), data.Status)
}

func TestClockOut_StatutoryBreakKeepsLateness(t *testing.T) {
	clockIn := time.Date(2025, 6, 2, 9, 10, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{}
	svc, _ := newTestService(activeEmployees(), records, clockIn)

	_, err := svc.ClockIn(context.Background(), "emp-1")
	require.NoError(t, err)

	// No break was registered, so the statutory 60-minute tier applies and
	// the resulting 470 working minutes leave the 10-minute lateness intact.
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC) }
	data, err := svc.ClockOut(context.Background(), "emp-1")

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, 60, *data.BreakMinutes)
	assert.Equal(t, 470, *data.WorkingMinutes)
	assert.Equal(t, 10, *data.LateMinutes)
	assert.Equal(t, 0, *data.EarlyLeaveMinutes)
	assert.Equal(t, string(attendance.StatusLate), data.Status)
}

func TestClockOut_RepeatReturnsExistingState(t *testing.T) {
	clockIn := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{}
	svc, _ := newTestService(activeEmployees(), records, clockIn)

	_, err := svc.ClockIn(context.Background(), "emp-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC) }
	first, err := svc.ClockOut(context.Background(), "emp-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC) }
	second, err := svc.ClockOut(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, first.ClockOutTime, second.ClockOutTime)
	assert.Equal(t, first.WorkingMinutes, second.WorkingMinutes)
}

func TestClockOut_HealsDuplicateRecords(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{records: []attendance.Record{
		{ID: "old-1", EmployeeID: "emp-1", Date: date, ClockInTime: &in, CreatedAt: time.Unix(1, 0), Version: 1},
		{ID: "old-2", EmployeeID: "emp-1", Date: date, ClockInTime: &in, CreatedAt: time.Unix(2, 0), Version: 1},
		{ID: "newest", EmployeeID: "emp-1", Date: date, ClockInTime: &in, CreatedAt: time.Unix(3, 0), Version: 1},
	}, clock: 3}
	svc, _ := newTestService(activeEmployees(), records, time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC))

	data, err := svc.ClockOut(context.Background(), "emp-1")

	require.NoError(t, err)
	assert.Equal(t, "newest", data.ID)
	assert.ElementsMatch(t, []string{"old-1", "old-2"}, records.deleted)
}

func TestClockOut_RetriesVersionConflict(t *testing.T) {
	clockIn := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{}
	svc, slept := newTestService(activeEmployees(), records, clockIn)

	_, err := svc.ClockIn(context.Background(), "emp-1")
	require.NoError(t, err)

	records.updateErrs = []error{attendance.ErrVersionConflict, attendance.ErrVersionConflict, nil}
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC) }

	data, err := svc.ClockOut(context.Background(), "emp-1")

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *slept)
}

func TestClockOut_ConflictExhaustion(t *testing.T) {
	clockIn := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{}
	svc, slept := newTestService(activeEmployees(), records, clockIn)

	_, err := svc.ClockIn(context.Background(), "emp-1")
	require.NoError(t, err)

	records.updateErrs = []error{attendance.ErrVersionConflict, attendance.ErrVersionConflict, attendance.ErrVersionConflict}
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC) }

	_, err = svc.ClockOut(context.Background(), "emp-1")

	assert.ErrorIs(t, err, attendance.ErrConcurrentUpdate)
	assert.Len(t, *slept, 2)
}

func TestClockOut_UnexpectedFailureBecomesInternal(t *testing.T) {
	clockIn := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{}
	svc, _ := newTestService(activeEmployees(), records, clockIn)

	_, err := svc.ClockIn(context.Background(), "emp-1")
	require.NoError(t, err)

	boom := errors.New("connection reset")
	records.updateErrs = []error{boom, boom, boom}
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC) }

	_, err = svc.ClockOut(context.Background(), "emp-1")

	assert.ErrorIs(t, err, attendance.ErrInternal)
}

func TestToday_SuppressesOpenSessionMetrics(t *testing.T) {
	clockIn := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{}
	svc, _ := newTestService(activeEmployees(), records, clockIn)

	_, err := svc.ClockIn(context.Background(), "emp-1")
	require.NoError(t, err)

	data, err := svc.Today(context.Background(), "emp-1")

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Nil(t, data.ClockOutTime)
	assert.Nil(t, data.WorkingMinutes)
	assert.Equal(t, 0, *data.EarlyLeaveMinutes)
	assert.Equal(t, 0, *data.OvertimeMinutes)
	assert.Equal(t, 30, *data.LateMinutes)
}

func TestToday_NoRecordReturnsNil(t *testing.T) {
	svc, _ := newTestService(activeEmployees(), &fakeAttendanceRepo{}, time.Now())

	data, err := svc.Today(context.Background(), "emp-1")

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestHistory_MonthWindow(t *testing.T) {
	in := time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 5, 15, 18, 0, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{records: []attendance.Record{
		{ID: "may", EmployeeID: "emp-1", Date: time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), ClockInTime: &in, ClockOutTime: &out},
		{ID: "june", EmployeeID: "emp-1", Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), ClockInTime: &in, ClockOutTime: &out},
	}}
	svc, _ := newTestService(activeEmployees(), records, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	data, err := svc.History(context.Background(), "emp-1", attendance.HistoryFilter{Year: 2025, Month: 5})

	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "may", data[0].ID)
}

func TestHistory_DefaultTrailingWindow(t *testing.T) {
	in := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{records: []attendance.Record{
		{ID: "recent", EmployeeID: "emp-1", Date: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), ClockInTime: &in},
		{ID: "ancient", EmployeeID: "emp-1", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), ClockInTime: &in},
	}}
	svc, _ := newTestService(activeEmployees(), records, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	data, err := svc.History(context.Background(), "emp-1", attendance.HistoryFilter{})

	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "recent", data[0].ID)
}
