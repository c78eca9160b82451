package auth

import (
	"time"
)

// UserAccount is a login principal bound to an employee.
type UserAccount struct {
	ID           string
	Username     string
	PasswordHash string
	EmployeeID   string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
