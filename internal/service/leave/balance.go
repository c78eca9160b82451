package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/timecalc"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// initialTotals is the per-type initialization rule for a brand new balance.
// Keyed over the closed LeaveType set so an unknown type is an error rather
// than a silently wrong default.
var initialTotals = map[leave.LeaveType]func(emp employee.Employee) decimal.Decimal{
	leave.TypePaidLeave: func(emp employee.Employee) decimal.Decimal {
		return decimal.NewFromInt(int64(emp.PaidLeaveBaseDays + emp.PaidLeaveAdjustment))
	},
	leave.TypeSummer:  func(employee.Employee) decimal.Decimal { return decimal.Zero },
	leave.TypeWinter:  func(employee.Employee) decimal.Decimal { return decimal.Zero },
	leave.TypeSpecial: func(employee.Employee) decimal.Decimal { return decimal.Zero },
}

// Ledger owns balance rows and their derivation from grants and the paid-leave
// entitlement formula. Callers hold an employee they already resolved; the
// ledger never looks actors up itself.
type Ledger struct {
	balances leave.LeaveBalanceRepository
	grants   leave.LeaveGrantRepository
	now      func() time.Time
}

func NewLedger(balances leave.LeaveBalanceRepository, grants leave.LeaveGrantRepository) *Ledger {
	return &Ledger{
		balances: balances,
		grants:   grants,
		now:      timecalc.Now,
	}
}

// Ensure returns the employee's balance for the type, creating it lazily with
// the type's initialization rule.
func (l *Ledger) Ensure(ctx context.Context, emp employee.Employee, leaveType leave.LeaveType) (leave.Balance, error) {
	existing, err := l.balances.GetByEmployeeAndType(ctx, emp.ID, leaveType)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	if existing != nil {
		return *existing, nil
	}

	initial, ok := initialTotals[leaveType]
	if !ok {
		return leave.Balance{}, leave.ErrInvalidRequest
	}

	balance := leave.Balance{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		LeaveType:  leaveType,
	}
	balance.SetTotal(initial(emp))

	created, err := l.balances.Create(ctx, balance)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}
	return created, nil
}

// Refresh re-derives the balance total from its source of truth: the
// base+adjustment formula for paid leave, the sum of non-expired grants for
// everything else. Expired grants drop out of the sum, so entitlement they
// contributed is revoked here.
func (l *Ledger) Refresh(ctx context.Context, emp employee.Employee, leaveType leave.LeaveType) (leave.Balance, error) {
	balance, err := l.Ensure(ctx, emp, leaveType)
	if err != nil {
		return leave.Balance{}, err
	}

	if leaveType.GrantBacked() {
		grants, err := l.grants.ListActive(ctx, emp.ID, leaveType, l.now())
		if err != nil {
			return leave.Balance{}, fmt.Errorf("failed to list active grants: %w", err)
		}
		total := decimal.Zero
		for _, grant := range grants {
			total = total.Add(grant.GrantedDays)
		}
		balance.SetTotal(total)
	} else {
		balance.SetTotal(decimal.NewFromInt(int64(emp.PaidLeaveBaseDays + emp.PaidLeaveAdjustment)))
	}

	updated, err := l.balances.Update(ctx, balance)
	if err != nil {
		return leave.Balance{}, balanceUpdateError(err)
	}
	return updated, nil
}

// Consume deducts days and persists; the insufficient-balance check happens
// before any state changes. A version conflict means another writer touched
// the row since the caller's read and surfaces as leave.ErrVersionConflict.
func (l *Ledger) Consume(ctx context.Context, balance leave.Balance, days decimal.Decimal) (leave.Balance, error) {
	if err := balance.Consume(days); err != nil {
		return leave.Balance{}, err
	}
	updated, err := l.balances.Update(ctx, balance)
	if err != nil {
		return leave.Balance{}, balanceUpdateError(err)
	}
	return updated, nil
}

// Restore reverses a consumption and persists.
func (l *Ledger) Restore(ctx context.Context, balance leave.Balance, days decimal.Decimal) (leave.Balance, error) {
	balance.Restore(days)
	updated, err := l.balances.Update(ctx, balance)
	if err != nil {
		return leave.Balance{}, balanceUpdateError(err)
	}
	return updated, nil
}

// ApplyGrant records an allocation and raises the matching balance total.
// Grant-backed types must carry both a grant date and an expiry.
func (l *Ledger) ApplyGrant(ctx context.Context, emp employee.Employee, input leave.ApplyGrantInput) (leave.Grant, error) {
	if !input.LeaveType.Valid() {
		return leave.Grant{}, leave.ErrInvalidRequest
	}

	days, err := decimal.NewFromString(input.Days)
	if err != nil || !days.IsPositive() {
		return leave.Grant{}, leave.ErrInvalidRequest
	}

	grantedAt, err := parseOptionalDate(input.GrantedAt)
	if err != nil {
		return leave.Grant{}, leave.ErrInvalidRequest
	}
	expiresAt, err := parseOptionalDate(input.ExpiresAt)
	if err != nil {
		return leave.Grant{}, leave.ErrInvalidRequest
	}
	if input.LeaveType.GrantBacked() && (grantedAt == nil || expiresAt == nil) {
		return leave.Grant{}, leave.ErrInvalidRequest
	}
	if grantedAt != nil && expiresAt != nil && expiresAt.Before(*grantedAt) {
		return leave.Grant{}, leave.ErrInvalidDateRange
	}

	grant := leave.Grant{
		ID:          uuid.NewString(),
		EmployeeID:  emp.ID,
		LeaveType:   input.LeaveType,
		GrantedDays: days,
		GrantedAt:   grantedAt,
		ExpiresAt:   expiresAt,
		GrantedBy:   input.GrantedBy,
	}
	created, err := l.grants.Create(ctx, grant)
	if err != nil {
		return leave.Grant{}, fmt.Errorf("failed to create leave grant: %w", err)
	}

	balance, err := l.Ensure(ctx, emp, input.LeaveType)
	if err != nil {
		return leave.Grant{}, err
	}
	balance.AddToTotal(days)
	if _, err := l.balances.Update(ctx, balance); err != nil {
		return leave.Grant{}, balanceUpdateError(err)
	}

	return created, nil
}

func balanceUpdateError(err error) error {
	if errors.Is(err, leave.ErrVersionConflict) {
		return err
	}
	return fmt.Errorf("failed to update leave balance: %w", err)
}

func parseOptionalDate(value string) (*time.Time, error) {
	if validator.IsEmpty(value) {
		return nil, nil
	}
	parsed, err := validator.ParseDateIn(value, timecalc.Location())
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
