package attendance

import "time"

// Attendance is one check-in/check-out pair. CheckOut is nil while the
// session is open and is never changed once set.
type Attendance struct {
	ID             string
	EmployeeID     string
	OrganizationID string
	CheckIn        time.Time
	CheckOut       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WorkedMinutes is the whole minutes between check-in and check-out, zero
// for open sessions and never negative.
func (a Attendance) WorkedMinutes() int64 {
	if a.CheckOut == nil {
		return 0
	}
	minutes := int64(a.CheckOut.Sub(a.CheckIn) / time.Minute)
	if minutes < 0 {
		return 0
	}
	return minutes
}

// Window is a closed time interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// PeriodWindow spans from the first instant of start to the last second of end.
func PeriodWindow(start, end time.Time) Window {
	y, m, d := start.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, start.Location())
	y, m, d = end.Date()
	to := time.Date(y, m, d, 23, 59, 59, 0, end.Location())
	return Window{Start: from, End: to}
}
