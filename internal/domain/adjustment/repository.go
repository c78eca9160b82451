package adjustment

import (
	"context"
	"time"
)

type AdjustmentRepository interface {
	// GetByIDAndEmployee returns ErrAdjustmentNotFound when the request does
	// not exist or belongs to someone else.
	GetByIDAndEmployee(ctx context.Context, id, employeeID string) (Request, error)

	// ListActiveInPeriod returns PENDING or APPROVED requests of the
	// employee overlapping [start, end].
	ListActiveInPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]Request, error)

	Update(ctx context.Context, request Request) error
}
