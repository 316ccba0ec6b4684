package attendance

import "time"

type AttendanceResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        *time.Time `json:"check_out,omitempty"`
	DurationMinutes int64      `json:"duration_minutes"`
}

type CheckInRequest struct {
	EmployeeID string `json:"employee_id"`
}
