package leave

import (
	"context"
	"time"

	"github.com/kintai-hq/kintai-backend-go/internal/domain/adjustment"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/timecalc"
	"github.com/shopspring/decimal"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func mustDate(value string) time.Time {
	parsed, err := time.ParseInLocation("2006-01-02", value, timecalc.Location())
	if err != nil {
		panic(err)
	}
	return parsed
}

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

type fakeBalanceRepo struct {
	balances    map[string]leave.Balance
	createCalls int
}

func balanceKey(employeeID string, leaveType leave.LeaveType) string {
	return employeeID + "|" + string(leaveType)
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]leave.Balance)}
}

func (f *fakeBalanceRepo) Create(_ context.Context, balance leave.Balance) (leave.Balance, error) {
	f.createCalls++
	balance.Version = 1
	f.balances[balanceKey(balance.EmployeeID, balance.LeaveType)] = balance
	return balance, nil
}

func (f *fakeBalanceRepo) GetByEmployeeAndType(_ context.Context, employeeID string, leaveType leave.LeaveType) (*leave.Balance, error) {
	balance, ok := f.balances[balanceKey(employeeID, leaveType)]
	if !ok {
		return nil, nil
	}
	copied := balance
	return &copied, nil
}

func (f *fakeBalanceRepo) ListByEmployee(_ context.Context, employeeID string) ([]leave.Balance, error) {
	var out []leave.Balance
	for _, balance := range f.balances {
		if balance.EmployeeID == employeeID {
			out = append(out, balance)
		}
	}
	return out, nil
}

func (f *fakeBalanceRepo) Update(_ context.Context, balance leave.Balance) (leave.Balance, error) {
	key := balanceKey(balance.EmployeeID, balance.LeaveType)
	stored, ok := f.balances[key]
	if !ok || stored.Version != balance.Version {
		return leave.Balance{}, leave.ErrVersionConflict
	}
	balance.Version++
	f.balances[key] = balance
	return balance, nil
}

type fakeGrantRepo struct {
	grants []leave.Grant
}

func (f *fakeGrantRepo) Create(_ context.Context, grant leave.Grant) (leave.Grant, error) {
	f.grants = append(f.grants, grant)
	return grant, nil
}

func (f *fakeGrantRepo) ListActive(_ context.Context, employeeID string, leaveType leave.LeaveType, asOf time.Time) ([]leave.Grant, error) {
	var out []leave.Grant
	for _, grant := range f.grants {
		if grant.EmployeeID != employeeID || grant.LeaveType != leaveType {
			continue
		}
		if grant.GrantedAt != nil && grant.GrantedAt.After(asOf) {
			continue
		}
		if grant.Expired(asOf) {
			continue
		}
		out = append(out, grant)
	}
	return out, nil
}

func (f *fakeGrantRepo) ListActiveAll(ctx context.Context, employeeID string, asOf time.Time) ([]leave.Grant, error) {
	var out []leave.Grant
	for _, leaveType := range leave.Types {
		grants, _ := f.ListActive(ctx, employeeID, leaveType, asOf)
		out = append(out, grants...)
	}
	return out, nil
}

type fakeRequestRepo struct {
	requests map[string]leave.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]leave.Request)}
}

func (f *fakeRequestRepo) Create(_ context.Context, request leave.Request) (leave.Request, error) {
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (leave.Request, error) {
	request, ok := f.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return request, nil
}

func (f *fakeRequestRepo) GetByIDAndEmployee(_ context.Context, id, employeeID string) (leave.Request, error) {
	request, ok := f.requests[id]
	if !ok || request.EmployeeID != employeeID {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return request, nil
}

func (f *fakeRequestRepo) HasOverlapping(_ context.Context, employeeID string, start, end time.Time) (bool, error) {
	for _, request := range f.requests {
		if request.EmployeeID != employeeID {
			continue
		}
		if request.Status == leave.StatusRejected || request.Status == leave.StatusCancelled {
			continue
		}
		if !request.StartDate.After(end) && !request.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestRepo) ListPendingOnDate(_ context.Context, employeeID string, leaveType leave.LeaveType, date time.Time) ([]leave.Request, error) {
	var out []leave.Request
	for _, request := range f.requests {
		if request.EmployeeID == employeeID && request.LeaveType == leaveType &&
			request.Status == leave.StatusPending &&
			!request.StartDate.After(date) && !request.EndDate.Before(date) {
			out = append(out, request)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByEmployee(_ context.Context, employeeID string) ([]leave.Request, error) {
	var out []leave.Request
	for _, request := range f.requests {
		if request.EmployeeID == employeeID {
			out = append(out, request)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) Update(_ context.Context, request leave.Request) error {
	f.requests[request.ID] = request
	return nil
}

type fakeApprovalRepo struct {
	entries []leave.Approval
}

func (f *fakeApprovalRepo) Create(_ context.Context, approval leave.Approval) (leave.Approval, error) {
	f.entries = append(f.entries, approval)
	return approval, nil
}

func (f *fakeApprovalRepo) ListBySubject(_ context.Context, subjectType, subjectID string) ([]leave.Approval, error) {
	var out []leave.Approval
	for _, entry := range f.entries {
		if entry.SubjectType == subjectType && entry.SubjectID == subjectID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeAdjustmentRepo struct {
	requests map[string]adjustment.Request
}

func newFakeAdjustmentRepo() *fakeAdjustmentRepo {
	return &fakeAdjustmentRepo{requests: make(map[string]adjustment.Request)}
}

func (f *fakeAdjustmentRepo) GetByIDAndEmployee(_ context.Context, id, employeeID string) (adjustment.Request, error) {
	request, ok := f.requests[id]
	if !ok || request.EmployeeID != employeeID {
		return adjustment.Request{}, adjustment.ErrAdjustmentNotFound
	}
	return request, nil
}

func (f *fakeAdjustmentRepo) ListActiveInPeriod(_ context.Context, employeeID string, start, end time.Time) ([]adjustment.Request, error) {
	var out []adjustment.Request
	for _, request := range f.requests {
		if request.EmployeeID != employeeID || request.Status == adjustment.StatusCancelled {
			continue
		}
		if !request.StartDate.After(end) && !request.EndDate.Before(start) {
			out = append(out, request)
		}
	}
	return out, nil
}

func (f *fakeAdjustmentRepo) Update(_ context.Context, request adjustment.Request) error {
	f.requests[request.ID] = request
	return nil
}
