package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeaveType string

const (
	TypePaidLeave LeaveType = "PAID_LEAVE"
	TypeSummer    LeaveType = "SUMMER"
	TypeWinter    LeaveType = "WINTER"
	TypeSpecial   LeaveType = "SPECIAL"
)

// Types is the closed set of leave types; dispatch tables key off it so a new
// type cannot silently fall through to a wrong default.
var Types = []LeaveType{TypePaidLeave, TypeSummer, TypeWinter, TypeSpecial}

func (t LeaveType) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// GrantBacked reports whether entitlement for the type comes from explicit
// time-bounded grants rather than the paid-leave base+adjustment formula.
func (t LeaveType) GrantBacked() bool {
	return t != TypePaidLeave
}

type TimeUnit string

const (
	UnitFullDay TimeUnit = "FULL_DAY"
	UnitHalfAM  TimeUnit = "HALF_AM"
	UnitHalfPM  TimeUnit = "HALF_PM"
)

func (u TimeUnit) Valid() bool {
	return u == UnitFullDay || u == UnitHalfAM || u == UnitHalfPM
}

func (u TimeUnit) HalfDay() bool {
	return u == UnitHalfAM || u == UnitHalfPM
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Balance tracks total/used/remaining entitlement for one employee and leave
// type. Invariant: remaining = max(0, total - used) after any mutation.
type Balance struct {
	ID            string
	EmployeeID    string
	LeaveType     LeaveType
	TotalDays     decimal.Decimal
	UsedDays      decimal.Decimal
	RemainingDays decimal.Decimal
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (b *Balance) recalcRemaining() {
	remaining := b.TotalDays.Sub(b.UsedDays)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	b.RemainingDays = remaining
}

// Consume deducts days from the balance. The remaining check happens before
// any mutation so a failed consume leaves the balance untouched.
func (b *Balance) Consume(days decimal.Decimal) error {
	if b.RemainingDays.LessThan(days) {
		return ErrInsufficientBalance
	}
	b.UsedDays = b.UsedDays.Add(days)
	b.recalcRemaining()
	return nil
}

// Restore reverses a prior consumption; used days never go negative.
func (b *Balance) Restore(days decimal.Decimal) {
	b.UsedDays = b.UsedDays.Sub(days)
	if b.UsedDays.IsNegative() {
		b.UsedDays = decimal.Zero
	}
	b.recalcRemaining()
}

// SetTotal replaces the entitlement total and re-derives remaining.
func (b *Balance) SetTotal(total decimal.Decimal) {
	b.TotalDays = total
	b.recalcRemaining()
}

// AddToTotal raises the entitlement without touching used days.
func (b *Balance) AddToTotal(days decimal.Decimal) {
	b.SetTotal(b.TotalDays.Add(days))
}

// Grant is an immutable allocation of leave days. For grant-backed types both
// GrantedAt and ExpiresAt are set; open-ended paid-leave grants may omit them.
type Grant struct {
	ID          string
	EmployeeID  string
	LeaveType   LeaveType
	GrantedDays decimal.Decimal
	GrantedAt   *time.Time
	ExpiresAt   *time.Time
	GrantedBy   string
	CreatedAt   time.Time
}

// Expired reports whether the grant no longer contributes entitlement on the
// given date. Grants without an expiry never expire.
func (g Grant) Expired(on time.Time) bool {
	if g.ExpiresAt == nil {
		return false
	}
	return g.ExpiresAt.Before(truncateToDate(on))
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Request is a leave application. Created PENDING; mutated only through the
// workflow transitions; cancellation is a terminal status, not a removal.
type Request struct {
	ID               string
	EmployeeID       string
	LeaveType        LeaveType
	TimeUnit         TimeUnit
	StartDate        time.Time
	EndDate          time.Time
	Days             decimal.Decimal
	Status           Status
	Reason           *string
	ApproverID       *string
	RejectionComment *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Approval is one append-only history entry for a workflow transition.
type Approval struct {
	ID          string
	SubjectType string
	SubjectID   string
	Status      Status
	ActorID     string
	Comment     *string
	CreatedAt   time.Time
}

// SubjectLeaveRequest tags approval history entries for leave requests.
const SubjectLeaveRequest = "LEAVE_REQUEST"
