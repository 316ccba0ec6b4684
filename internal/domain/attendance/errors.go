package attendance

import "github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"

var (
	ErrAttendanceNotFound = apperror.New(apperror.KindNotFound, "attendance record not found")
	ErrAlreadyCheckedOut  = apperror.New(apperror.KindInvalidState, "attendance already checked out")
	ErrInvalidWindow      = apperror.New(apperror.KindInvalidArgument, "window end is before start")
)
