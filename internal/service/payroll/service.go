package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	aggregator   attendance.Aggregator
	now          func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	aggregator attendance.Aggregator,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		aggregator:   aggregator,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)

// GeneratePayroll computes and stores a DRAFT payroll for one employee and
// period. Every call appends a new record.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, organizationID string, req payroll.GeneratePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	emp, err := s.employeeRepo.GetByIDAndOrganization(ctx, req.EmployeeID, organizationID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	start, end := req.Period()
	workedMinutes, err := s.aggregator.TotalWorkedMinutes(ctx, organizationID, emp.ID, attendance.PeriodWindow(start, end))
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to aggregate attendance: %w", err)
	}

	calc := Calculate(emp.BaseSalary, workedMinutes)

	record := payroll.Payroll{
		EmployeeID:         emp.ID,
		OrganizationID:     organizationID,
		PayPeriodStart:     start,
		PayPeriodEnd:       end,
		BasicSalary:        emp.BaseSalary,
		Overtime:           calc.OvertimePay,
		Deductions:         calc.Deductions,
		Bonus:              calc.Bonus,
		NetSalary:          calc.NetSalary,
		TotalWorkedMinutes: calc.TotalWorkedMinutes,
		OvertimeMinutes:    calc.OvertimeMinutes,
		Status:             payroll.PayrollStatusDraft,
		ProcessedAt:        s.now(),
	}

	created, err := s.payrollRepo.Create(ctx, record)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to create payroll for employee %s: %w", emp.ID, err)
	}

	return mapToResponse(created), nil
}

func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, organizationID string, id string) (payroll.PayrollResponse, error) {
	record, err := s.payrollRepo.GetByIDAndOrganization(ctx, id, organizationID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return mapToResponse(record), nil
}

func (s *PayrollServiceImpl) ListPayrolls(ctx context.Context, organizationID string, filter payroll.PayrollFilter) ([]payroll.PayrollResponse, error) {
	records, err := s.payrollRepo.ListByOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	return mapToResponses(records), nil
}

// UpdatePayrollStatus lets an external caller move a payroll along; PAID and
// CANCELLED are final.
func (s *PayrollServiceImpl) UpdatePayrollStatus(ctx context.Context, organizationID string, req payroll.UpdatePayrollStatusRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	updated, err := s.payrollRepo.UpdateStatus(ctx, req.ID, organizationID, payroll.PayrollStatus(req.Status))
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollNotFound) || errors.Is(err, payroll.ErrPayrollStatusFinal) {
			return payroll.PayrollResponse{}, err
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to update payroll status: %w", err)
	}
	return mapToResponse(updated), nil
}

func mapToResponse(p payroll.Payroll) payroll.PayrollResponse {
	resp := payroll.PayrollResponse{
		ID:                 p.ID,
		EmployeeID:         p.EmployeeID,
		PayPeriodStart:     p.PayPeriodStart.Format(validator.DateLayout),
		PayPeriodEnd:       p.PayPeriodEnd.Format(validator.DateLayout),
		BasicSalary:        p.BasicSalary,
		Overtime:           p.Overtime,
		Deductions:         p.Deductions,
		Bonus:              p.Bonus,
		NetSalary:          p.NetSalary,
		TotalWorkedMinutes: p.TotalWorkedMinutes,
		OvertimeMinutes:    p.OvertimeMinutes,
		Status:             string(p.Status),
		ProcessedAt:        p.ProcessedAt,
	}
	if p.EmployeeName != nil {
		resp.EmployeeName = *p.EmployeeName
	}
	return resp
}

func mapToResponses(records []payroll.Payroll) []payroll.PayrollResponse {
	responses := make([]payroll.PayrollResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapToResponse(r))
	}
	return responses
}
