package notification

import "github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"

// Notification domain errors
var (
	ErrQueueFull               = apperror.New(apperror.KindUnexpected, "notification queue is full")
	ErrInvalidNotificationType = apperror.New(apperror.KindInvalidArgument, "invalid notification type")
	ErrNoRecipientAddress      = apperror.New(apperror.KindInvalidArgument, "recipient has no e-mail address")
)
