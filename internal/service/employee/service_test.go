package employee

import (
	"context"
	"testing"
	"time"

	"github.com/kintai-hq/kintai-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) List(context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

func TestList_ProjectsDirectory(t *testing.T) {
	retiredAt := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	svc := NewEmployeeService(&fakeEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", EmployeeCode: "E001", FullName: "Taro Yamada", PaidLeaveBaseDays: 10},
		{ID: "emp-2", EmployeeCode: "E002", FullName: "Hanako Sato", RetiredAt: &retiredAt},
	}})

	data, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, "E001", data[0].EmployeeCode)
	assert.False(t, data[0].Retired)
	assert.Nil(t, data[0].RetiredAt)
	assert.True(t, data[1].Retired)
	require.NotNil(t, data[1].RetiredAt)
	assert.Equal(t, "2024-03-31", *data[1].RetiredAt)
}

func TestList_EmptyDirectory(t *testing.T) {
	svc := NewEmployeeService(&fakeEmployeeRepo{})

	data, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, data)
}
