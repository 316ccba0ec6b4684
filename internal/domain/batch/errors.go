package batch

import "github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"

var (
	ErrJobNotFound      = apperror.New(apperror.KindNotFound, "batch job not found")
	ErrRequesterMissing = apperror.New(apperror.KindNotFound, "requesting user not found")
	ErrShuttingDown     = apperror.New(apperror.KindUnexpected, "batch orchestrator is shutting down")
)
