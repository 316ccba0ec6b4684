package user

import "context"

type UserRepository interface {
	// GetByIDAndOrganization returns ErrUserNotFound for users of other organizations.
	GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (User, error)
}
