package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrRetiredEmployee  = errors.New("employee is retired")
)
