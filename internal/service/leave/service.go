package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/adjustment"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/timecalc"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/validator"
	"github.com/kintai-hq/kintai-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

// employeeCancelComment tags self-service cancellations in the approval
// history.
const employeeCancelComment = "employee cancellation"

type LeaveServiceImpl struct {
	employee.EmployeeRepository
	leave.LeaveRequestRepository
	leave.ApprovalRepository
	ledger      *Ledger
	adjustments adjustment.AdjustmentService
	adjRepo     adjustment.AdjustmentRepository
	logger      *slog.Logger
	now         func() time.Time

	// tx runs fn inside one database transaction so multi-write sequences
	// (balance + request + history) commit or roll back together.
	tx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewLeaveService(
	db *database.DB,
	employeeRepository employee.EmployeeRepository,
	requestRepository leave.LeaveRequestRepository,
	approvalRepository leave.ApprovalRepository,
	ledger *Ledger,
	adjustmentService adjustment.AdjustmentService,
	adjustmentRepository adjustment.AdjustmentRepository,
	logger *slog.Logger,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		EmployeeRepository:     employeeRepository,
		LeaveRequestRepository: requestRepository,
		ApprovalRepository:     approvalRepository,
		ledger:                 ledger,
		adjustments:            adjustmentService,
		adjRepo:                adjustmentRepository,
		logger:                 logger,
		now:                    timecalc.Now,
		tx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
	}
}

// CreateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, input leave.CreateLeaveRequestInput) (leave.RequestData, error) {
	emp, err := l.activeEmployee(ctx, input.EmployeeID)
	if err != nil {
		return leave.RequestData{}, err
	}

	if err := input.Validate(); err != nil {
		return leave.RequestData{}, err
	}

	startDate, err := validator.ParseDateIn(input.StartDate, timecalc.Location())
	if err != nil {
		return leave.RequestData{}, leave.ErrInvalidRequest
	}
	endDate, err := validator.ParseDateIn(input.EndDate, timecalc.Location())
	if err != nil {
		return leave.RequestData{}, leave.ErrInvalidRequest
	}
	if endDate.Before(startDate) {
		return leave.RequestData{}, leave.ErrInvalidDateRange
	}

	timeUnit := input.TimeUnit
	if input.LeaveType.GrantBacked() {
		// Only paid leave supports half days.
		timeUnit = leave.UnitFullDay
	}
	if timeUnit.HalfDay() && !startDate.Equal(endDate) {
		return leave.RequestData{}, leave.ErrInvalidRequest
	}
	if input.LeaveType == leave.TypePaidLeave && validator.IsEmpty(input.Reason) {
		return leave.RequestData{}, leave.ErrInvalidRequest
	}

	days := requestedDays(timeUnit, startDate, endDate)

	overlap, err := l.LeaveRequestRepository.HasOverlapping(ctx, emp.ID, startDate, endDate)
	if err != nil {
		return leave.RequestData{}, fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if overlap {
		return leave.RequestData{}, leave.ErrDuplicateRequest
	}
	if timeUnit.HalfDay() {
		pending, err := l.LeaveRequestRepository.ListPendingOnDate(ctx, emp.ID, input.LeaveType, startDate)
		if err != nil {
			return leave.RequestData{}, fmt.Errorf("failed to check pending half-day requests: %w", err)
		}
		for _, p := range pending {
			if p.TimeUnit.HalfDay() {
				return leave.RequestData{}, leave.ErrDuplicateRequest
			}
		}
	}

	l.cancelOverlappingAdjustments(ctx, emp.ID, startDate, endDate)

	balance, err := l.ledger.Refresh(ctx, emp, input.LeaveType)
	if err != nil {
		return leave.RequestData{}, err
	}
	if input.LeaveType.GrantBacked() {
		active, err := l.ledger.grants.ListActive(ctx, emp.ID, input.LeaveType, l.now())
		if err != nil {
			return leave.RequestData{}, fmt.Errorf("failed to list active grants: %w", err)
		}
		if len(active) == 0 {
			return leave.RequestData{}, leave.ErrInsufficientBalance
		}
	}
	if balance.RemainingDays.LessThan(days) {
		return leave.RequestData{}, leave.ErrInsufficientBalance
	}

	request := leave.Request{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		LeaveType:  input.LeaveType,
		TimeUnit:   timeUnit,
		StartDate:  startDate,
		EndDate:    endDate,
		Days:       days,
		Status:     leave.StatusPending,
	}
	if !validator.IsEmpty(input.Reason) {
		reason := input.Reason
		request.Reason = &reason
	}

	created, err := l.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.RequestData{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return leave.ToRequestData(created), nil
}

// UpdateStatus implements leave.LeaveService. Approvals consume the balance
// with a fresh ledger check, so drift between creation and decision cannot
// overdraw it. The whole transition runs in one transaction.
func (l *LeaveServiceImpl) UpdateStatus(ctx context.Context, requestID string, newStatus leave.Status, approverID, comment string) (leave.RequestData, error) {
	var data leave.RequestData
	err := l.tx(ctx, func(ctx context.Context) error {
		var err error
		data, err = l.updateStatus(ctx, requestID, newStatus, approverID, comment)
		return err
	})
	if err != nil {
		return leave.RequestData{}, err
	}
	return data, nil
}

func (l *LeaveServiceImpl) updateStatus(ctx context.Context, requestID string, newStatus leave.Status, approverID, comment string) (leave.RequestData, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestData{}, err
	}
	if newStatus != leave.StatusApproved && newStatus != leave.StatusRejected && newStatus != leave.StatusCancelled {
		return leave.RequestData{}, leave.ErrInvalidStatusChange
	}
	if newStatus == request.Status {
		return leave.RequestData{}, leave.ErrInvalidStatusChange
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, request.EmployeeID)
	if err != nil {
		return leave.RequestData{}, err
	}

	switch newStatus {
	case leave.StatusApproved:
		if request.Status != leave.StatusPending {
			return leave.RequestData{}, leave.ErrInvalidStatusChange
		}
		balance, err := l.ledger.Refresh(ctx, emp, request.LeaveType)
		if err != nil {
			return leave.RequestData{}, err
		}
		if _, err := l.ledger.Consume(ctx, balance, request.Days); err != nil {
			return leave.RequestData{}, err
		}
		request.RejectionComment = nil

	case leave.StatusRejected:
		if request.Status != leave.StatusPending {
			return leave.RequestData{}, leave.ErrInvalidStatusChange
		}
		if validator.IsEmpty(comment) {
			return leave.RequestData{}, leave.ErrInvalidRequest
		}
		rejection := comment
		request.RejectionComment = &rejection

	case leave.StatusCancelled:
		if request.Status == leave.StatusApproved {
			if err := l.restoreBalance(ctx, emp, request); err != nil {
				return leave.RequestData{}, err
			}
		}
		request.RejectionComment = nil
	}

	request.Status = newStatus
	request.ApproverID = &approverID

	if err := l.LeaveRequestRepository.Update(ctx, request); err != nil {
		return leave.RequestData{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	if err := l.appendHistory(ctx, request.ID, newStatus, approverID, comment); err != nil {
		return leave.RequestData{}, err
	}
	return leave.ToRequestData(request), nil
}

// CancelRequest implements leave.LeaveService. Restore, request update and
// history append commit together.
func (l *LeaveServiceImpl) CancelRequest(ctx context.Context, requestID, employeeID string) (leave.RequestData, error) {
	var data leave.RequestData
	err := l.tx(ctx, func(ctx context.Context) error {
		var err error
		data, err = l.cancelRequest(ctx, requestID, employeeID)
		return err
	})
	if err != nil {
		return leave.RequestData{}, err
	}
	return data, nil
}

func (l *LeaveServiceImpl) cancelRequest(ctx context.Context, requestID, employeeID string) (leave.RequestData, error) {
	request, err := l.LeaveRequestRepository.GetByIDAndEmployee(ctx, requestID, employeeID)
	if err != nil {
		return leave.RequestData{}, err
	}
	if request.Status == leave.StatusRejected || request.Status == leave.StatusCancelled {
		return leave.RequestData{}, leave.ErrNotCancellable
	}

	if request.Status == leave.StatusApproved {
		emp, err := l.EmployeeRepository.GetByID(ctx, request.EmployeeID)
		if err != nil {
			return leave.RequestData{}, err
		}
		if err := l.restoreBalance(ctx, emp, request); err != nil {
			return leave.RequestData{}, err
		}
	}

	request.Status = leave.StatusCancelled
	request.ApproverID = nil
	request.RejectionComment = nil

	if err := l.LeaveRequestRepository.Update(ctx, request); err != nil {
		return leave.RequestData{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	if err := l.appendHistory(ctx, request.ID, leave.StatusCancelled, employeeID, employeeCancelComment); err != nil {
		return leave.RequestData{}, err
	}
	return leave.ToRequestData(request), nil
}

// ApplyGrant implements leave.LeaveService. The grant row and the balance
// raise commit together.
func (l *LeaveServiceImpl) ApplyGrant(ctx context.Context, input leave.ApplyGrantInput) (leave.GrantData, error) {
	emp, err := l.activeEmployee(ctx, input.EmployeeID)
	if err != nil {
		return leave.GrantData{}, err
	}
	var grant leave.Grant
	err = l.tx(ctx, func(ctx context.Context) error {
		var err error
		grant, err = l.ledger.ApplyGrant(ctx, emp, input)
		return err
	})
	if err != nil {
		return leave.GrantData{}, err
	}
	return leave.ToGrantData(grant), nil
}

// ListRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListRequests(ctx context.Context, employeeID string) ([]leave.RequestData, error) {
	if _, err := l.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	requests, err := l.LeaveRequestRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	out := make([]leave.RequestData, 0, len(requests))
	for _, request := range requests {
		out = append(out, leave.ToRequestData(request))
	}
	return out, nil
}

// ListBalances implements leave.LeaveService. Every type is refreshed first so
// the listing never shows entitlement from grants that expired since the last
// write.
func (l *LeaveServiceImpl) ListBalances(ctx context.Context, employeeID string) ([]leave.BalanceData, error) {
	emp, err := l.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	out := make([]leave.BalanceData, 0, len(leave.Types))
	for _, leaveType := range leave.Types {
		balance, err := l.ledger.Refresh(ctx, emp, leaveType)
		if err != nil {
			return nil, err
		}
		out = append(out, leave.ToBalanceData(balance))
	}
	return out, nil
}

// ListActiveGrants implements leave.LeaveService. An empty type lists the
// employee's active grants across every leave type.
func (l *LeaveServiceImpl) ListActiveGrants(ctx context.Context, employeeID string, leaveType leave.LeaveType) ([]leave.GrantData, error) {
	if _, err := l.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	var (
		grants []leave.Grant
		err    error
	)
	switch {
	case leaveType == "":
		grants, err = l.ledger.grants.ListActiveAll(ctx, employeeID, l.now())
	case leaveType.Valid():
		grants, err = l.ledger.grants.ListActive(ctx, employeeID, leaveType, l.now())
	default:
		return nil, leave.ErrInvalidRequest
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list active grants: %w", err)
	}
	out := make([]leave.GrantData, 0, len(grants))
	for _, grant := range grants {
		out = append(out, leave.ToGrantData(grant))
	}
	return out, nil
}

// RemainingSummary implements leave.LeaveService.
func (l *LeaveServiceImpl) RemainingSummary(ctx context.Context, employeeID string) (leave.RemainingSummary, error) {
	emp, err := l.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	summary := make(leave.RemainingSummary, len(leave.Types))
	for _, leaveType := range leave.Types {
		balance, err := l.ledger.Refresh(ctx, emp, leaveType)
		if err != nil {
			return nil, err
		}
		summary[leaveType] = balance.RemainingDays
	}
	return summary, nil
}

func (l *LeaveServiceImpl) activeEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := l.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}
	if emp.IsRetired() {
		return employee.Employee{}, employee.ErrRetiredEmployee
	}
	return emp, nil
}

func (l *LeaveServiceImpl) restoreBalance(ctx context.Context, emp employee.Employee, request leave.Request) error {
	balance, err := l.ledger.Ensure(ctx, emp, request.LeaveType)
	if err != nil {
		return err
	}
	_, err = l.ledger.Restore(ctx, balance, request.Days)
	return err
}

// cancelOverlappingAdjustments is best-effort: an adjustment that cannot be
// cancelled is logged and skipped, it never blocks the leave request.
func (l *LeaveServiceImpl) cancelOverlappingAdjustments(ctx context.Context, employeeID string, start, end time.Time) {
	active, err := l.adjRepo.ListActiveInPeriod(ctx, employeeID, start, end)
	if err != nil {
		l.logger.WarnContext(ctx, "failed to list overlapping adjustment requests",
			slog.String("employee_id", employeeID), slog.Any("error", err))
		return
	}
	for _, adj := range active {
		if err := l.adjustments.CancelRequest(ctx, adj.ID, employeeID); err != nil {
			l.logger.WarnContext(ctx, "failed to cancel overlapping adjustment request",
				slog.String("adjustment_id", adj.ID), slog.Any("error", err))
		}
	}
}

func (l *LeaveServiceImpl) appendHistory(ctx context.Context, requestID string, status leave.Status, actorID, comment string) error {
	approval := leave.Approval{
		ID:          uuid.NewString(),
		SubjectType: leave.SubjectLeaveRequest,
		SubjectID:   requestID,
		Status:      status,
		ActorID:     actorID,
	}
	if !validator.IsEmpty(comment) {
		c := comment
		approval.Comment = &c
	}
	if _, err := l.ApprovalRepository.Create(ctx, approval); err != nil {
		return fmt.Errorf("failed to append approval history: %w", err)
	}
	return nil
}

func requestedDays(timeUnit leave.TimeUnit, start, end time.Time) decimal.Decimal {
	if timeUnit.HalfDay() {
		return decimal.NewFromFloat(0.5)
	}
	days := int64(end.Sub(start)/(24*time.Hour)) + 1
	return decimal.NewFromInt(days)
}
