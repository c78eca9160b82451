package employee

import (
	"context"
)

// EmployeeRepository is the directory the services resolve actors against.
type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when the employee is unknown.
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
}
