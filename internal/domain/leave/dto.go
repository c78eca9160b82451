package leave

import (
	"time"

	"github.com/kintai-hq/kintai-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLeaveRequestInput struct {
	EmployeeID string    `json:"-"`
	LeaveType  LeaveType `json:"leave_type"`
	TimeUnit   TimeUnit  `json:"time_unit"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Reason     string    `json:"reason"`
}

// Validate covers the structural half of request creation; balance and
// overlap rules need storage and live in the service.
func (i *CreateLeaveRequestInput) Validate() error {
	var errs validator.ValidationErrors

	if i.LeaveType == "" || !i.LeaveType.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	}
	if i.TimeUnit == "" || !i.TimeUnit.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "time_unit",
			Message: "time_unit is required",
		})
	}
	if validator.IsEmpty(i.StartDate) || validator.IsEmpty(i.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date and end_date are required",
		})
	} else {
		if _, ok := validator.IsValidDate(i.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
		if _, ok := validator.IsValidDate(i.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusInput struct {
	Status  Status `json:"status"`
	Comment string `json:"comment"`
}

type ApplyGrantInput struct {
	EmployeeID string    `json:"employee_id"`
	LeaveType  LeaveType `json:"leave_type"`
	Days       string    `json:"days"`
	GrantedAt  string    `json:"granted_at"`
	ExpiresAt  string    `json:"expires_at"`
	GrantedBy  string    `json:"-"`
}

type RequestData struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	LeaveType        string  `json:"leave_type"`
	TimeUnit         string  `json:"time_unit"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Days             string  `json:"days"`
	Status           string  `json:"status"`
	Reason           *string `json:"reason,omitempty"`
	RejectionComment *string `json:"rejection_comment,omitempty"`
}

// ToRequestData projects a request; day counts render with two decimals.
func ToRequestData(r Request) RequestData {
	return RequestData{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		LeaveType:        string(r.LeaveType),
		TimeUnit:         string(r.TimeUnit),
		StartDate:        r.StartDate.Format("2006-01-02"),
		EndDate:          r.EndDate.Format("2006-01-02"),
		Days:             r.Days.StringFixed(2),
		Status:           string(r.Status),
		Reason:           r.Reason,
		RejectionComment: r.RejectionComment,
	}
}

type BalanceData struct {
	EmployeeID    string `json:"employee_id"`
	LeaveType     string `json:"leave_type"`
	TotalDays     string `json:"total_days"`
	UsedDays      string `json:"used_days"`
	RemainingDays string `json:"remaining_days"`
}

func ToBalanceData(b Balance) BalanceData {
	return BalanceData{
		EmployeeID:    b.EmployeeID,
		LeaveType:     string(b.LeaveType),
		TotalDays:     b.TotalDays.StringFixed(2),
		UsedDays:      b.UsedDays.StringFixed(2),
		RemainingDays: b.RemainingDays.StringFixed(2),
	}
}

type GrantData struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	LeaveType   string  `json:"leave_type"`
	GrantedDays string  `json:"granted_days"`
	GrantedAt   *string `json:"granted_at,omitempty"`
	ExpiresAt   *string `json:"expires_at,omitempty"`
	GrantedBy   string  `json:"granted_by"`
}

func ToGrantData(g Grant) GrantData {
	formatDate := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format("2006-01-02")
		return &s
	}
	return GrantData{
		ID:          g.ID,
		EmployeeID:  g.EmployeeID,
		LeaveType:   string(g.LeaveType),
		GrantedDays: g.GrantedDays.StringFixed(2),
		GrantedAt:   formatDate(g.GrantedAt),
		ExpiresAt:   formatDate(g.ExpiresAt),
		GrantedBy:   g.GrantedBy,
	}
}

// RemainingSummary maps every leave type to its remaining days.
type RemainingSummary map[LeaveType]decimal.Decimal

func (s RemainingSummary) MarshalData() map[string]string {
	out := make(map[string]string, len(s))
	for leaveType, remaining := range s {
		out[string(leaveType)] = remaining.StringFixed(2)
	}
	return out
}
