package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists one record per (employee, date).
type AttendanceRepository interface {
	Create(ctx context.Context, record Record) (Record, error)

	// GetByEmployeeAndDate returns (nil, nil) when no record exists. When
	// duplicates exist it returns the most recently created one.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// FindDuplicates returns every record for the key ordered by creation
	// time descending, so the first element is the survivor of a cleanup.
	FindDuplicates(ctx context.Context, employeeID string, date time.Time) ([]Record, error)

	// ListByEmployeeInRange returns records with start <= date <= end,
	// ordered by date descending.
	ListByEmployeeInRange(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error)

	// Update saves the record with an optimistic version check; it returns
	// ErrVersionConflict when the stored version no longer matches.
	Update(ctx context.Context, record Record) (Record, error)

	Delete(ctx context.Context, id string) error
}
