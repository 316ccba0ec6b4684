package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const payrollSelect = `
	SELECT p.id, p.employee_id, p.organization_id, p.pay_period_start, p.pay_period_end,
		p.basic_salary, p.overtime, p.deductions, p.bonus, p.net_salary,
		p.total_worked_minutes, p.overtime_minutes, p.status, p.processed_at,
		p.created_at, p.updated_at, ` + employeeNameSQL + `
	FROM payrolls p
	LEFT JOIN employees e ON e.id = p.employee_id
`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	var status string
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.OrganizationID, &p.PayPeriodStart, &p.PayPeriodEnd,
		&p.BasicSalary, &p.Overtime, &p.Deductions, &p.Bonus, &p.NetSalary,
		&p.TotalWorkedMinutes, &p.OvertimeMinutes, &status, &p.ProcessedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.EmployeeName,
	)
	p.Status = payroll.PayrollStatus(status)
	return p, err
}

func (r *payrollRepositoryImpl) Create(ctx context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	if record.ID == "" {
		id, err := newID()
		if err != nil {
			return payroll.Payroll{}, err
		}
		record.ID = id
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			id, employee_id, organization_id, pay_period_start, pay_period_end,
			basic_salary, overtime, deductions, bonus, net_salary,
			total_worked_minutes, overtime_minutes, status, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := q.Exec(ctx, query,
		record.ID, record.EmployeeID, record.OrganizationID, record.PayPeriodStart, record.PayPeriodEnd,
		record.BasicSalary, record.Overtime, record.Deductions, record.Bonus, record.NetSalary,
		record.TotalWorkedMinutes, record.OvertimeMinutes, string(record.Status), record.ProcessedAt,
	)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	return r.GetByIDAndOrganization(ctx, record.ID, record.OrganizationID)
}

func (r *payrollRepositoryImpl) GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (payroll.Payroll, error) {
	if !validID(id) || !validID(organizationID) {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, payrollSelect+` WHERE p.id = $1 AND p.organization_id = $2`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll %s: %w", id, err)
	}
	return p, nil
}

func (r *payrollRepositoryImpl) ListByOrganization(ctx context.Context, organizationID string, filter payroll.PayrollFilter) ([]payroll.Payroll, error) {
	payrolls := []payroll.Payroll{}
	if !validID(organizationID) {
		return payrolls, nil
	}
	if filter.EmployeeID != nil && !validID(*filter.EmployeeID) {
		return payrolls, nil
	}
	q := GetQuerier(ctx, r.db)

	conditions := []string{"p.organization_id = $1"}
	args := []interface{}{organizationID}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}

	query := payrollSelect + ` WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY p.created_at DESC, p.id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payrolls, nil
}

func (r *payrollRepositoryImpl) UpdateStatus(ctx context.Context, id string, organizationID string, status payroll.PayrollStatus) (payroll.Payroll, error) {
	if !validID(id) || !validID(organizationID) {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}

	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var current string
		err := q.QueryRow(ctx,
			`SELECT status FROM payrolls WHERE id = $1 AND organization_id = $2 FOR UPDATE`,
			id, organizationID,
		).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return payroll.ErrPayrollNotFound
			}
			return fmt.Errorf("failed to lock payroll %s: %w", id, err)
		}
		if payroll.PayrollStatus(current).IsTerminal() {
			return payroll.ErrPayrollStatusFinal
		}

		_, err = q.Exec(ctx,
			`UPDATE payrolls SET status = $3, updated_at = NOW() WHERE id = $1 AND organization_id = $2`,
			id, organizationID, string(status),
		)
		if err != nil {
			return fmt.Errorf("failed to update payroll status: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	return r.GetByIDAndOrganization(ctx, id, organizationID)
}
