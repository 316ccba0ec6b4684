package organization

import "time"

// Organization is the tenant boundary. Every payroll, advance and batch job
// belongs to exactly one.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
