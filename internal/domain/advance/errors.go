package advance

import "github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"

var (
	ErrAdvanceNotFound    = apperror.New(apperror.KindNotFound, "advance not found")
	ErrAdvanceNotPending  = apperror.New(apperror.KindInvalidState, "advance already processed")
	ErrAdvanceNotApproved = apperror.New(apperror.KindInvalidState, "advance is not approved, cannot record repayment")
	ErrApproverNotFound   = apperror.New(apperror.KindNotFound, "approver not found")
)
