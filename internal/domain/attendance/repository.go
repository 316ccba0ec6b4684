package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, record Attendance) (Attendance, error)
	GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (Attendance, error)
	// SetCheckOut closes an open session; ErrAlreadyCheckedOut if it was closed.
	SetCheckOut(ctx context.Context, id string, organizationID string, checkOut time.Time) (Attendance, error)
	// ListByEmployeeCheckInBetween returns records whose check-in lies in window.
	ListByEmployeeCheckInBetween(ctx context.Context, employeeID string, organizationID string, window Window) ([]Attendance, error)
}
