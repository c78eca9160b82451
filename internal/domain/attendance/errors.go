package attendance

import "errors"

var (
	ErrRecordNotFound = errors.New("attendance record not found")

	// ErrVersionConflict is the optimistic-lock signal: the record changed
	// between read and write. Callers retry with freshly re-read state.
	ErrVersionConflict = errors.New("attendance record version conflict")

	// ErrConcurrentUpdate surfaces after clock-out retries are exhausted.
	ErrConcurrentUpdate = errors.New("attendance record update conflicted with another operation")

	ErrInternal = errors.New("attendance operation failed")
)
