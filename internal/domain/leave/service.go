package leave

import (
	"context"
)

// LeaveService drives the request workflow and the balance ledger. Actor
// identity is always an explicit parameter; services never read it from
// ambient state.
type LeaveService interface {
	// CreateLeaveRequest validates and persists a PENDING request.
	CreateLeaveRequest(ctx context.Context, input CreateLeaveRequestInput) (RequestData, error)

	// UpdateStatus moves a request to APPROVED, REJECTED or CANCELLED on
	// behalf of approverID, adjusting the balance and appending history.
	UpdateStatus(ctx context.Context, requestID string, newStatus Status, approverID, comment string) (RequestData, error)

	// CancelRequest is the employee self-service cancellation.
	CancelRequest(ctx context.Context, requestID, employeeID string) (RequestData, error)

	// ApplyGrant allocates days to an employee (admin operation).
	ApplyGrant(ctx context.Context, input ApplyGrantInput) (GrantData, error)

	ListRequests(ctx context.Context, employeeID string) ([]RequestData, error)
	ListBalances(ctx context.Context, employeeID string) ([]BalanceData, error)
	ListActiveGrants(ctx context.Context, employeeID string, leaveType LeaveType) ([]GrantData, error)
	RemainingSummary(ctx context.Context, employeeID string) (RemainingSummary, error)
}
