package employee

import (
	"time"
)

type Employee struct {
	ID                  string
	EmployeeCode        string
	FullName            string
	Email               *string
	HiredAt             *time.Time
	RetiredAt           *time.Time
	PaidLeaveBaseDays   int
	PaidLeaveAdjustment int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsRetired reports whether the employee has left the company.
func (e Employee) IsRetired() bool {
	return e.RetiredAt != nil
}
