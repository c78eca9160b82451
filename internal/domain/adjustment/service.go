package adjustment

import (
	"context"
)

// AdjustmentService is the collaborator boundary the leave workflow needs:
// cancel an adjustment request on behalf of its owner.
type AdjustmentService interface {
	CancelRequest(ctx context.Context, requestID, employeeID string) error
}
