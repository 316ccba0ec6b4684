package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "DRAFT"
	PayrollStatusApproved  PayrollStatus = "APPROVED"
	PayrollStatusPaid      PayrollStatus = "PAID"
	PayrollStatusCancelled PayrollStatus = "CANCELLED"
)

func (s PayrollStatus) IsValid() bool {
	switch s {
	case PayrollStatusDraft, PayrollStatusApproved, PayrollStatusPaid, PayrollStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is allowed.
func (s PayrollStatus) IsTerminal() bool {
	return s == PayrollStatusPaid || s == PayrollStatusCancelled
}

// Payroll - Generated payroll result. Rows are append-only: generating the
// same employee and period twice yields two records.
type Payroll struct {
	ID                 string
	EmployeeID         string
	OrganizationID     string
	PayPeriodStart     time.Time
	PayPeriodEnd       time.Time
	BasicSalary        decimal.Decimal
	Overtime           decimal.Decimal
	Deductions         decimal.Decimal
	Bonus              decimal.Decimal
	NetSalary          decimal.Decimal
	TotalWorkedMinutes int64
	OvertimeMinutes    int64
	Status             PayrollStatus
	ProcessedAt        time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	EmployeeName *string
}
