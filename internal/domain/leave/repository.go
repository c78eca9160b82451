package leave

import (
	"context"
	"time"
)

// LeaveBalanceRepository - one row per (employee, leave type).
type LeaveBalanceRepository interface {
	Create(ctx context.Context, balance Balance) (Balance, error)

	// GetByEmployeeAndType returns (nil, nil) when no balance exists yet.
	GetByEmployeeAndType(ctx context.Context, employeeID string, leaveType LeaveType) (*Balance, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Balance, error)

	// Update persists only when the stored version still matches
	// balance.Version, returning the row with its bumped version. A lost
	// race surfaces as ErrVersionConflict.
	Update(ctx context.Context, balance Balance) (Balance, error)
}

// LeaveGrantRepository is append-mostly: grants are created and queried, never
// mutated.
type LeaveGrantRepository interface {
	Create(ctx context.Context, grant Grant) (Grant, error)

	// ListActive returns grants of the type that have started and not
	// expired as of the given date.
	ListActive(ctx context.Context, employeeID string, leaveType LeaveType, asOf time.Time) ([]Grant, error)

	ListActiveAll(ctx context.Context, employeeID string, asOf time.Time) ([]Grant, error)
}

// LeaveRequestRepository - interface for leave_requests.
type LeaveRequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	GetByIDAndEmployee(ctx context.Context, id, employeeID string) (Request, error)

	// HasOverlapping reports whether any non-rejected, non-cancelled request
	// of the employee overlaps [start, end].
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	// ListPendingOnDate returns PENDING requests of the type covering the
	// exact date.
	ListPendingOnDate(ctx context.Context, employeeID string, leaveType LeaveType, date time.Time) ([]Request, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)
	Update(ctx context.Context, request Request) error
}

// ApprovalRepository is write-once history.
type ApprovalRepository interface {
	Create(ctx context.Context, approval Approval) (Approval, error)
	ListBySubject(ctx context.Context, subjectType, subjectID string) ([]Approval, error)
}
