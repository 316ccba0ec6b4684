package notification

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAdvanceApproved NotificationType = "advance_approved"
	TypeAdvanceRejected NotificationType = "advance_rejected"
	TypeBatchCompleted  NotificationType = "batch_completed"
	TypeBatchFailed     NotificationType = "batch_failed"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeAdvanceApproved,
		TypeAdvanceRejected,
		TypeBatchCompleted,
		TypeBatchFailed,
	}
}

// Recipient identifies who receives a notification.
type Recipient struct {
	ID    string
	Name  string
	Email string
}

// Notification is a single outgoing event.
type Notification struct {
	OrganizationID string
	Type           NotificationType
	Recipient      Recipient
	Title          string
	Data           map[string]interface{}
}
