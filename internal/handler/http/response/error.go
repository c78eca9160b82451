package response

import (
	"errors"
	"net/http"

	"github.com/kintai-hq/kintai-backend-go/internal/domain/adjustment"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to the stable error codes of the envelope.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationFailed(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")

	// Employee directory
	case errors.Is(err, employee.ErrEmployeeNotFound):
		Error(w, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "Employee not found")
	case errors.Is(err, employee.ErrRetiredEmployee):
		Error(w, http.StatusForbidden, "RETIRED_EMPLOYEE", "Employee is retired")

	// Attendance
	case errors.Is(err, attendance.ErrConcurrentUpdate):
		Error(w, http.StatusConflict, "CONCURRENT_UPDATE_ERROR", "Attendance record was modified concurrently, please retry")
	case errors.Is(err, attendance.ErrRecordNotFound):
		Error(w, http.StatusNotFound, "INVALID_REQUEST", "Attendance record not found")

	// Leave
	case errors.Is(err, leave.ErrInsufficientBalance):
		Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Insufficient leave balance")
	case errors.Is(err, leave.ErrInvalidRequest):
		Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid leave request")
	case errors.Is(err, leave.ErrInvalidDateRange):
		Error(w, http.StatusBadRequest, "INVALID_DATE_RANGE", "Invalid date range")
	case errors.Is(err, leave.ErrDuplicateRequest):
		Error(w, http.StatusConflict, "DUPLICATE_REQUEST", "An overlapping leave request already exists")
	case errors.Is(err, leave.ErrRequestNotFound):
		Error(w, http.StatusNotFound, "VACATION_NOT_FOUND", "Leave request not found")
	case errors.Is(err, leave.ErrNotCancellable):
		Error(w, http.StatusConflict, "VACATION_NOT_CANCELLABLE", "Leave request cannot be cancelled")
	case errors.Is(err, leave.ErrInvalidStatusChange):
		Error(w, http.StatusConflict, "INVALID_STATUS_CHANGE", "Invalid status change")
	case errors.Is(err, leave.ErrVersionConflict):
		Error(w, http.StatusConflict, "CONCURRENT_UPDATE_ERROR", "Leave balance was modified concurrently, please retry")

	// Adjustments
	case errors.Is(err, adjustment.ErrAdjustmentNotFound):
		Error(w, http.StatusNotFound, "NOT_FOUND", "Adjustment request not found")

	default:
		Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}
