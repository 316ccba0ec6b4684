package notification

import "context"

// Notifier delivers notifications without blocking the caller. Delivery
// failures are logged and never returned: notifications are not part of any
// operation's outcome.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
	// Stop drains queued notifications and stops background workers.
	Stop()
}
