package leave

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid leave request")
	ErrInvalidDateRange    = errors.New("invalid leave date range")
	ErrDuplicateRequest    = errors.New("overlapping leave request exists")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrNotCancellable      = errors.New("leave request cannot be cancelled")
	ErrInvalidStatusChange = errors.New("invalid leave status change")

	// ErrVersionConflict reports a lost compare-and-swap on a balance row;
	// two writers raced and the caller's read is stale.
	ErrVersionConflict = errors.New("leave balance version conflict")
)
