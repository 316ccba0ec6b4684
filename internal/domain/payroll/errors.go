package payroll

import "github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"

var (
	ErrPayrollNotFound    = apperror.New(apperror.KindNotFound, "payroll not found")
	ErrPayrollStatusFinal = apperror.New(apperror.KindInvalidState, "payroll status is final, cannot modify")
)
