package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type advanceRepositoryImpl struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepositoryImpl{db: db}
}

const advanceSelect = `
	SELECT a.id, a.employee_id, a.organization_id, a.amount, a.reason, a.status,
		a.rejection_reason, a.approved_by, a.approval_date, a.request_date, a.repayment_date,
		a.repaid_amount, a.fully_repaid, a.created_at, a.updated_at, ` + employeeNameSQL + `
	FROM advances a
	LEFT JOIN employees e ON e.id = a.employee_id
`

func scanAdvance(row pgx.Row) (advance.Advance, error) {
	var a advance.Advance
	var status string
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.OrganizationID, &a.Amount, &a.Reason, &status,
		&a.RejectionReason, &a.ApprovedBy, &a.ApprovalDate, &a.RequestDate, &a.RepaymentDate,
		&a.RepaidAmount, &a.FullyRepaid, &a.CreatedAt, &a.UpdatedAt, &a.EmployeeName,
	)
	a.Status = advance.AdvanceStatus(status)
	return a, err
}

func (r *advanceRepositoryImpl) Create(ctx context.Context, a advance.Advance) (advance.Advance, error) {
	if a.ID == "" {
		id, err := newID()
		if err != nil {
			return advance.Advance{}, err
		}
		a.ID = id
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO advances (
			id, employee_id, organization_id, amount, reason, status,
			request_date, repayment_date, repaid_amount, fully_repaid
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		a.ID, a.EmployeeID, a.OrganizationID, a.Amount, a.Reason, string(a.Status),
		a.RequestDate, a.RepaymentDate, a.RepaidAmount, a.FullyRepaid,
	)
	if err != nil {
		return advance.Advance{}, fmt.Errorf("failed to create advance: %w", err)
	}

	return r.GetByIDAndOrganization(ctx, a.ID, a.OrganizationID)
}

func (r *advanceRepositoryImpl) GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (advance.Advance, error) {
	if !validID(id) || !validID(organizationID) {
		return advance.Advance{}, advance.ErrAdvanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	a, err := scanAdvance(q.QueryRow(ctx, advanceSelect+` WHERE a.id = $1 AND a.organization_id = $2`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.Advance{}, advance.ErrAdvanceNotFound
		}
		return advance.Advance{}, fmt.Errorf("failed to get advance %s: %w", id, err)
	}
	return a, nil
}

func (r *advanceRepositoryImpl) ListByOrganization(ctx context.Context, organizationID string, filter advance.AdvanceFilter) ([]advance.Advance, error) {
	advances := []advance.Advance{}
	if !validID(organizationID) {
		return advances, nil
	}
	if filter.EmployeeID != nil && !validID(*filter.EmployeeID) {
		return advances, nil
	}
	q := GetQuerier(ctx, r.db)

	conditions := []string{"a.organization_id = $1"}
	args := []interface{}{organizationID}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}

	query := advanceSelect + ` WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY a.created_at DESC, a.id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance: %w", err)
		}
		advances = append(advances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return advances, nil
}

// lockAdvance loads the advance with a row lock. It must run inside WithTransaction.
func (r *advanceRepositoryImpl) lockAdvance(ctx context.Context, id string, organizationID string) (advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAdvance(q.QueryRow(ctx,
		advanceSelect+` WHERE a.id = $1 AND a.organization_id = $2 FOR UPDATE OF a`,
		id, organizationID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.Advance{}, advance.ErrAdvanceNotFound
		}
		return advance.Advance{}, fmt.Errorf("failed to lock advance %s: %w", id, err)
	}
	return a, nil
}

func (r *advanceRepositoryImpl) Transition(ctx context.Context, id string, organizationID string, change advance.StatusChange) (advance.Advance, error) {
	if !validID(id) || !validID(organizationID) {
		return advance.Advance{}, advance.ErrAdvanceNotFound
	}

	var updated advance.Advance
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		a, err := r.lockAdvance(ctx, id, organizationID)
		if err != nil {
			return err
		}
		if a.Status != advance.AdvanceStatusPending {
			return advance.ErrAdvanceNotPending
		}
		change.Apply(&a)

		query := `
			UPDATE advances
			SET status = $3, approved_by = $4, approval_date = $5, rejection_reason = $6, updated_at = NOW()
			WHERE id = $1 AND organization_id = $2
			RETURNING updated_at
		`
		err = GetQuerier(ctx, r.db).QueryRow(ctx, query,
			id, organizationID, string(a.Status), a.ApprovedBy, a.ApprovalDate, a.RejectionReason,
		).Scan(&a.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update advance status: %w", err)
		}
		updated = a
		return nil
	})
	if err != nil {
		return advance.Advance{}, err
	}
	return updated, nil
}

func (r *advanceRepositoryImpl) AddRepayment(ctx context.Context, id string, organizationID string, amount decimal.Decimal) (advance.Advance, error) {
	if !validID(id) || !validID(organizationID) {
		return advance.Advance{}, advance.ErrAdvanceNotFound
	}

	var updated advance.Advance
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		a, err := r.lockAdvance(ctx, id, organizationID)
		if err != nil {
			return err
		}
		if a.Status != advance.AdvanceStatusApproved {
			return advance.ErrAdvanceNotApproved
		}
		a.ApplyRepayment(amount)

		query := `
			UPDATE advances
			SET repaid_amount = $3, fully_repaid = $4, updated_at = NOW()
			WHERE id = $1 AND organization_id = $2
			RETURNING updated_at
		`
		err = GetQuerier(ctx, r.db).QueryRow(ctx, query,
			id, organizationID, a.RepaidAmount, a.FullyRepaid,
		).Scan(&a.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to record repayment: %w", err)
		}
		updated = a
		return nil
	})
	if err != nil {
		return advance.Advance{}, err
	}
	return updated, nil
}
