package attendance

import "context"

// Aggregator sums worked time over a window.
type Aggregator interface {
	TotalWorkedMinutes(ctx context.Context, organizationID string, employeeID string, window Window) (int64, error)
}

type AttendanceService interface {
	Aggregator
	CheckIn(ctx context.Context, organizationID string, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, organizationID string, attendanceID string) (AttendanceResponse, error)
	ListByEmployee(ctx context.Context, organizationID string, employeeID string, window Window) ([]AttendanceResponse, error)
}
