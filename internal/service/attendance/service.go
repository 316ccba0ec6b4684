package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

// TotalWorkedMinutes sums closed sessions whose check-in lies in window.
// An employee with no matching records has worked zero minutes.
func (s *AttendanceServiceImpl) TotalWorkedMinutes(ctx context.Context, organizationID string, employeeID string, window attendance.Window) (int64, error) {
	records, err := s.listInWindow(ctx, organizationID, employeeID, window)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, record := range records {
		total += record.WorkedMinutes()
	}
	return total, nil
}

func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, organizationID string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if validator.IsEmpty(req.EmployeeID) {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{
			{Field: "employee_id", Message: "is required"},
		}
	}

	if _, err := s.employeeRepo.GetByIDAndOrganization(ctx, req.EmployeeID, organizationID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
		EmployeeID:     req.EmployeeID,
		OrganizationID: organizationID,
		CheckIn:        s.now(),
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return toResponse(created), nil
}

func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, organizationID string, attendanceID string) (attendance.AttendanceResponse, error) {
	updated, err := s.attendanceRepo.SetCheckOut(ctx, attendanceID, organizationID, s.now())
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return toResponse(updated), nil
}

func (s *AttendanceServiceImpl) ListByEmployee(ctx context.Context, organizationID string, employeeID string, window attendance.Window) ([]attendance.AttendanceResponse, error) {
	records, err := s.listInWindow(ctx, organizationID, employeeID, window)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toResponse(record))
	}
	return responses, nil
}

func (s *AttendanceServiceImpl) listInWindow(ctx context.Context, organizationID string, employeeID string, window attendance.Window) ([]attendance.Attendance, error) {
	if window.End.Before(window.Start) {
		return nil, attendance.ErrInvalidWindow
	}

	if _, err := s.employeeRepo.GetByIDAndOrganization(ctx, employeeID, organizationID); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListByEmployeeCheckInBetween(ctx, employeeID, organizationID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		CheckIn:         a.CheckIn,
		CheckOut:        a.CheckOut,
		DurationMinutes: a.WorkedMinutes(),
	}
}
