package payroll

import (
	"context"
	"fmt"
	"io"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Payroll"

var exportHeader = []interface{}{
	"Payroll ID", "Employee ID", "Employee", "Period Start", "Period End",
	"Worked Minutes", "Overtime Minutes", "Basic Salary", "Overtime", "Deductions",
	"Bonus", "Net Salary", "Status", "Processed At",
}

// ExportPayrolls writes the organization's payroll register as an XLSX workbook.
func (s *PayrollServiceImpl) ExportPayrolls(ctx context.Context, organizationID string, filter payroll.PayrollFilter, w io.Writer) error {
	records, err := s.payrollRepo.ListByOrganization(ctx, organizationID, filter)
	if err != nil {
		return fmt.Errorf("failed to list payrolls: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, p := range records {
		resp := mapToResponse(p)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			resp.ID,
			resp.EmployeeID,
			resp.EmployeeName,
			resp.PayPeriodStart,
			resp.PayPeriodEnd,
			resp.TotalWorkedMinutes,
			resp.OvertimeMinutes,
			resp.BasicSalary.StringFixed(2),
			resp.Overtime.StringFixed(2),
			resp.Deductions.StringFixed(2),
			resp.Bonus.StringFixed(2),
			resp.NetSalary.StringFixed(2),
			resp.Status,
			resp.ProcessedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write payroll %s: %w", p.ID, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "C", 38); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
