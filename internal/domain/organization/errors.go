package organization

import "github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"

var (
	ErrOrganizationNotFound = apperror.New(apperror.KindNotFound, "organization not found")
)
