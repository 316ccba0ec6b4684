package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `id, employee_id, organization_id, check_in, check_out, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(&a.ID, &a.EmployeeID, &a.OrganizationID, &a.CheckIn, &a.CheckOut, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *attendanceRepositoryImpl) Create(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	if record.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.Attendance{}, err
		}
		record.ID = id
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, employee_id, organization_id, check_in, check_out)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.OrganizationID, record.CheckIn, record.CheckOut,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

func (r *attendanceRepositoryImpl) GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (attendance.Attendance, error) {
	if !validID(id) || !validID(organizationID) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1 AND organization_id = $2`

	a, err := scanAttendance(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance %s: %w", id, err)
	}
	return a, nil
}

func (r *attendanceRepositoryImpl) SetCheckOut(ctx context.Context, id string, organizationID string, checkOut time.Time) (attendance.Attendance, error) {
	if !validID(id) || !validID(organizationID) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_out = $3, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND check_out IS NULL
		RETURNING ` + attendanceColumns

	a, err := scanAttendance(q.QueryRow(ctx, query, id, organizationID, checkOut))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendance{}, fmt.Errorf("failed to check out attendance %s: %w", id, err)
	}

	// Nothing updated: either the record is missing or it is already closed.
	if _, getErr := r.GetByIDAndOrganization(ctx, id, organizationID); getErr != nil {
		return attendance.Attendance{}, getErr
	}
	return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
}

func (r *attendanceRepositoryImpl) ListByEmployeeCheckInBetween(ctx context.Context, employeeID string, organizationID string, window attendance.Window) ([]attendance.Attendance, error) {
	if !validID(employeeID) || !validID(organizationID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND organization_id = $2
			AND check_in >= $3 AND check_in <= $4
		ORDER BY check_in
	`

	rows, err := q.Query(ctx, query, employeeID, organizationID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
