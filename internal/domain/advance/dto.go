package advance

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type RequestAdvanceRequest struct {
	EmployeeID    string          `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	RequestDate   string          `json:"request_date"`
	RepaymentDate string          `json:"repayment_date"`
}

// Validate checks the request against today's date; repayment may not be
// earlier than today nor than the request date.
func (r *RequestAdvanceRequest) Validate(today time.Time) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than 0"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}
	requestDate, requestOK := validator.IsValidDate(r.RequestDate)
	if !requestOK {
		errs = append(errs, validator.ValidationError{Field: "request_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	repaymentDate, repaymentOK := validator.IsValidDate(r.RepaymentDate)
	switch {
	case !repaymentOK:
		errs = append(errs, validator.ValidationError{Field: "repayment_date", Message: "must be a date in YYYY-MM-DD format"})
	case repaymentDate.Before(validator.TruncateDay(today)):
		errs = append(errs, validator.ValidationError{Field: "repayment_date", Message: "must be today or in the future"})
	case requestOK && repaymentDate.Before(requestDate):
		errs = append(errs, validator.ValidationError{Field: "repayment_date", Message: "must not be before request_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates returns the parsed request and repayment dates. Call Validate first.
func (r *RequestAdvanceRequest) Dates() (time.Time, time.Time) {
	requestDate, _ := validator.IsValidDate(r.RequestDate)
	repaymentDate, _ := validator.IsValidDate(r.RepaymentDate)
	return requestDate, repaymentDate
}

type RejectAdvanceRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordRepaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r *RecordRepaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than 0"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdvanceFilter struct {
	Status     *AdvanceStatus
	EmployeeID *string
}

type AdvanceResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name,omitempty"`
	OrganizationID  string          `json:"organization_id"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovalDate    *time.Time      `json:"approval_date,omitempty"`
	RequestDate     string          `json:"request_date"`
	RepaymentDate   string          `json:"repayment_date"`
	RepaidAmount    decimal.Decimal `json:"repaid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	FullyRepaid     bool            `json:"fully_repaid"`
}
