package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
)

type attendanceRepository struct{ s *Store }

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) Create(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if record.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.Attendance{}, err
		}
		record.ID = id
	}
	now := r.s.now()
	record.CreatedAt, record.UpdatedAt = now, now
	r.s.attendances.put(record.ID, record)
	return record, nil
}

func (r *attendanceRepository) GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.attendances.byID[id]
	if !ok || a.OrganizationID != organizationID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepository) SetCheckOut(ctx context.Context, id string, organizationID string, checkOut time.Time) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.attendances.byID[id]
	if !ok || a.OrganizationID != organizationID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if a.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	a.CheckOut = &checkOut
	a.UpdatedAt = r.s.now()
	r.s.attendances.put(id, a)
	return a, nil
}

func (r *attendanceRepository) ListByEmployeeCheckInBetween(ctx context.Context, employeeID string, organizationID string, window attendance.Window) ([]attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []attendance.Attendance
	for _, id := range r.s.attendances.order {
		a := r.s.attendances.byID[id]
		if a.EmployeeID == employeeID && a.OrganizationID == organizationID && window.Contains(a.CheckIn) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}
