package payroll

import "context"

// PayrollRepository defines data access methods for payroll.
// All reads take organizationID to prevent cross-organization data access.
type PayrollRepository interface {
	Create(ctx context.Context, record Payroll) (Payroll, error)
	GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (Payroll, error)
	ListByOrganization(ctx context.Context, organizationID string, filter PayrollFilter) ([]Payroll, error)
	UpdateStatus(ctx context.Context, id string, organizationID string, status PayrollStatus) (Payroll, error)
}
