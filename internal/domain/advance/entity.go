package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceStatus enum
type AdvanceStatus string

const (
	AdvanceStatusPending  AdvanceStatus = "PENDING"
	AdvanceStatusApproved AdvanceStatus = "APPROVED"
	AdvanceStatusRejected AdvanceStatus = "REJECTED"
)

func (s AdvanceStatus) IsValid() bool {
	switch s {
	case AdvanceStatusPending, AdvanceStatusApproved, AdvanceStatusRejected:
		return true
	}
	return false
}

// Advance is a salary advance. It leaves PENDING exactly once, to APPROVED
// or REJECTED. Repayments accumulate only while APPROVED and RepaidAmount
// never decreases.
type Advance struct {
	ID              string
	EmployeeID      string
	OrganizationID  string
	Amount          decimal.Decimal
	Reason          string
	Status          AdvanceStatus
	RejectionReason *string
	ApprovedBy      *string
	ApprovalDate    *time.Time
	RequestDate     time.Time
	RepaymentDate   time.Time
	RepaidAmount    decimal.Decimal
	FullyRepaid     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	EmployeeName *string
}

// ApplyRepayment adds amount to RepaidAmount and recomputes FullyRepaid.
// Overpayment is kept as is.
func (a *Advance) ApplyRepayment(amount decimal.Decimal) {
	a.RepaidAmount = a.RepaidAmount.Add(amount)
	a.FullyRepaid = a.RepaidAmount.GreaterThanOrEqual(a.Amount)
}

// RemainingAmount may be negative after an overpayment.
func (a Advance) RemainingAmount() decimal.Decimal {
	return a.Amount.Sub(a.RepaidAmount)
}

// StatusChange describes a transition out of PENDING.
type StatusChange struct {
	To              AdvanceStatus
	ApprovedBy      *string
	ApprovalDate    *time.Time
	RejectionReason *string
}

// Apply copies the change onto a.
func (c StatusChange) Apply(a *Advance) {
	a.Status = c.To
	switch c.To {
	case AdvanceStatusApproved:
		a.ApprovedBy = c.ApprovedBy
		a.ApprovalDate = c.ApprovalDate
	case AdvanceStatusRejected:
		a.RejectionReason = c.RejectionReason
	}
}
