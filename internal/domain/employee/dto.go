package employee

import (
	"context"
	"time"
)

type EmployeeData struct {
	ID                  string  `json:"id"`
	EmployeeCode        string  `json:"employee_code"`
	FullName            string  `json:"full_name"`
	Email               *string `json:"email,omitempty"`
	HiredAt             *string `json:"hired_at,omitempty"`
	RetiredAt           *string `json:"retired_at,omitempty"`
	PaidLeaveBaseDays   int     `json:"paid_leave_base_days"`
	PaidLeaveAdjustment int     `json:"paid_leave_adjustment"`
	Retired             bool    `json:"retired"`
}

func ToEmployeeData(e Employee) EmployeeData {
	formatDate := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format("2006-01-02")
		return &s
	}
	return EmployeeData{
		ID:                  e.ID,
		EmployeeCode:        e.EmployeeCode,
		FullName:            e.FullName,
		Email:               e.Email,
		HiredAt:             formatDate(e.HiredAt),
		RetiredAt:           formatDate(e.RetiredAt),
		PaidLeaveBaseDays:   e.PaidLeaveBaseDays,
		PaidLeaveAdjustment: e.PaidLeaveAdjustment,
		Retired:             e.IsRetired(),
	}
}

// EmployeeService is the admin-facing directory surface.
type EmployeeService interface {
	List(ctx context.Context) ([]EmployeeData, error)
}
