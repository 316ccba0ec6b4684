package user

import "github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"

var (
	ErrUserNotFound = apperror.New(apperror.KindNotFound, "user not found")
)
