package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetByIDAndOrganization returns ErrEmployeeNotFound when the employee
	// exists but belongs to another organization.
	GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (Employee, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]Employee, error)
}
