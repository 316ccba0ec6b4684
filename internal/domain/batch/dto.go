package batch

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// MaxAdvanceItems caps advance and advance action batches below the global
// item limit.
const MaxAdvanceItems = 500

// JobOptions are the optional fields shared by every submission.
type JobOptions struct {
	Description *string `json:"description,omitempty"`
	CallbackURL *string `json:"callback_url,omitempty"`
}

func (o JobOptions) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	if o.CallbackURL != nil && !validator.IsValidCallbackURL(*o.CallbackURL) {
		errs = append(errs, validator.ValidationError{Field: "callback_url", Message: "must be an absolute http(s) URL"})
	}
	return errs
}

func advanceLimit(maxItems int) int {
	if maxItems <= 0 || maxItems > MaxAdvanceItems {
		return MaxAdvanceItems
	}
	return maxItems
}

func validateItemCount(errs validator.ValidationErrors, field string, count, maxItems int) validator.ValidationErrors {
	if count == 0 {
		return append(errs, validator.ValidationError{Field: field, Message: "at least one item is required"})
	}
	if maxItems > 0 && count > maxItems {
		return append(errs, validator.ValidationError{Field: field, Message: fmt.Sprintf("must not contain more than %d items", maxItems)})
	}
	return errs
}

type SubmitPayrollBatchRequest struct {
	JobOptions
	Payrolls []payroll.GeneratePayrollRequest `json:"payrolls"`
}

// Validate checks the envelope only; items are validated one by one while
// the job runs so a bad item fails alone.
func (r *SubmitPayrollBatchRequest) Validate(maxItems int) error {
	var errs validator.ValidationErrors
	errs = validateItemCount(errs, "payrolls", len(r.Payrolls), maxItems)
	errs = r.JobOptions.validate(errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SubmitAdvanceBatchRequest struct {
	JobOptions
	Requests []advance.RequestAdvanceRequest `json:"requests"`
}

func (r *SubmitAdvanceBatchRequest) Validate(maxItems int) error {
	var errs validator.ValidationErrors
	errs = validateItemCount(errs, "requests", len(r.Requests), advanceLimit(maxItems))
	errs = r.JobOptions.validate(errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AdvanceAction enum
type AdvanceAction string

const (
	AdvanceActionApprove AdvanceAction = "APPROVE"
	AdvanceActionReject  AdvanceAction = "REJECT"
)

type SubmitAdvanceActionRequest struct {
	JobOptions
	Action     string   `json:"action"`
	AdvanceIDs []string `json:"advance_request_ids"`
	Comment    *string  `json:"comment,omitempty"`
}

func (r *SubmitAdvanceActionRequest) Validate(maxItems int) error {
	var errs validator.ValidationErrors
	errs = validateItemCount(errs, "advance_request_ids", len(r.AdvanceIDs), advanceLimit(maxItems))
	switch AdvanceAction(r.Action) {
	case AdvanceActionApprove:
	case AdvanceActionReject:
		if r.Comment == nil || validator.IsEmpty(*r.Comment) {
			errs = append(errs, validator.ValidationError{Field: "comment", Message: "is required when rejecting"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "action", Message: "must be APPROVE or REJECT"})
	}
	errs = r.JobOptions.validate(errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type JobResponse struct {
	ID                 string     `json:"batch_job_id"`
	JobType            string     `json:"job_type"`
	Status             string     `json:"status"`
	RequestedBy        string     `json:"requested_by"`
	SubmittedAt        time.Time  `json:"submitted_at"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	TotalRequests      int        `json:"total_requests"`
	ProcessedRequests  int        `json:"processed_requests"`
	SuccessfulRequests int        `json:"successful_requests"`
	FailedRequests     int        `json:"failed_requests"`
	CallbackURL        *string    `json:"callback_url,omitempty"`
	Description        *string    `json:"description,omitempty"`
	ResultDetails      *string    `json:"result_details,omitempty"`
}

// ToResponse snapshots j.
func (j Job) ToResponse() JobResponse {
	return JobResponse{
		ID:                 j.ID,
		JobType:            string(j.Type),
		Status:             string(j.Status),
		RequestedBy:        j.RequestedBy,
		SubmittedAt:        j.SubmittedAt,
		StartedAt:          j.StartedAt,
		CompletedAt:        j.CompletedAt,
		TotalRequests:      j.TotalRequests,
		ProcessedRequests:  j.ProcessedRequests,
		SuccessfulRequests: j.SuccessfulRequests,
		FailedRequests:     j.FailedRequests,
		CallbackURL:        j.CallbackURL,
		Description:        j.Description,
		ResultDetails:      j.ResultDetails,
	}
}
