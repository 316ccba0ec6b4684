package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Organization administrator
	RoleManager  Role = "manager"  // Can approve advances and submit batches
	RoleEmployee Role = "employee" // Regular employee
)

type User struct {
	ID             string
	OrganizationID string
	Email          string
	FirstName      string
	LastName       string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// CanApprove checks if user can approve advances and submit batches
func (u User) CanApprove() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}
