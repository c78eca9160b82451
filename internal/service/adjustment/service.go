package adjustment

import (
	"context"
	"fmt"

	"github.com/kintai-hq/kintai-backend-go/internal/domain/adjustment"
)

type AdjustmentServiceImpl struct {
	adjustment.AdjustmentRepository
}

func NewAdjustmentService(repository adjustment.AdjustmentRepository) *AdjustmentServiceImpl {
	return &AdjustmentServiceImpl{AdjustmentRepository: repository}
}

// CancelRequest implements adjustment.AdjustmentService. Cancelling an
// already-cancelled request is a no-op.
func (a *AdjustmentServiceImpl) CancelRequest(ctx context.Context, requestID, employeeID string) error {
	request, err := a.AdjustmentRepository.GetByIDAndEmployee(ctx, requestID, employeeID)
	if err != nil {
		return err
	}
	if request.Status == adjustment.StatusCancelled {
		return nil
	}

	request.Status = adjustment.StatusCancelled
	if err := a.AdjustmentRepository.Update(ctx, request); err != nil {
		return fmt.Errorf("failed to cancel adjustment request: %w", err)
	}
	return nil
}
