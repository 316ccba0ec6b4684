package payroll

import (
	"context"
	"io"
)

type PayrollService interface {
	GeneratePayroll(ctx context.Context, organizationID string, req GeneratePayrollRequest) (PayrollResponse, error)
	GetPayroll(ctx context.Context, organizationID string, id string) (PayrollResponse, error)
	ListPayrolls(ctx context.Context, organizationID string, filter PayrollFilter) ([]PayrollResponse, error)
	UpdatePayrollStatus(ctx context.Context, organizationID string, req UpdatePayrollStatusRequest) (PayrollResponse, error)
	// ExportPayrolls writes an XLSX payroll register.
	ExportPayrolls(ctx context.Context, organizationID string, filter PayrollFilter, w io.Writer) error
}
