package fixtures

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// Seeder is implemented by storage adapters that accept directory data
// directly, such as the in-memory store.
type Seeder interface {
	SeedOrganization(o organization.Organization) (organization.Organization, error)
	SeedUser(u user.User) (user.User, error)
	SeedEmployee(e employee.Employee) (employee.Employee, error)
}

// ==========================================
// SEEDED DATA RESULT
// ==========================================

// SeededDemo holds the records created by SeedDemo
type SeededDemo struct {
	Organization organization.Organization
	Admin        user.User
	Manager      user.User
	Employees    []employee.Employee
}

// ==========================================
// DEFAULT EMPLOYEES
// ==========================================

// GetDefaultEmployees returns the demo roster of an organization
func GetDefaultEmployees(organizationID string) []employee.Employee {
	hired := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	return []employee.Employee{
		{OrganizationID: organizationID, FirstName: "Ayu", LastName: "Pratiwi", Email: "ayu.pratiwi@example.com", BaseSalary: decimal.NewFromInt(4400), HireDate: &hired},
		{OrganizationID: organizationID, FirstName: "Bima", LastName: "Saputra", Email: "bima.saputra@example.com", BaseSalary: decimal.NewFromInt(3000), HireDate: &hired},
		{OrganizationID: organizationID, FirstName: "Citra", LastName: "Anggraini", Email: "citra.anggraini@example.com", BaseSalary: decimal.RequireFromString("5250.50"), HireDate: &hired},
		{OrganizationID: organizationID, FirstName: "Dimas", Email: "dimas@example.com", BaseSalary: decimal.Zero, HireDate: &hired},
	}
}

// SeedDemo creates one organization with an admin, a manager and the default
// employees.
func SeedDemo(s Seeder) (*SeededDemo, error) {
	org, err := s.SeedOrganization(organization.Organization{Name: "Demo Organization"})
	if err != nil {
		return nil, fmt.Errorf("failed to seed organization: %w", err)
	}

	admin, err := s.SeedUser(user.User{
		OrganizationID: org.ID,
		Email:          "admin@example.com",
		FirstName:      "Demo",
		LastName:       "Admin",
		Role:           user.RoleAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}

	manager, err := s.SeedUser(user.User{
		OrganizationID: org.ID,
		Email:          "manager@example.com",
		FirstName:      "Demo",
		LastName:       "Manager",
		Role:           user.RoleManager,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed manager: %w", err)
	}

	seeded := &SeededDemo{Organization: org, Admin: admin, Manager: manager}
	for _, e := range GetDefaultEmployees(org.ID) {
		created, err := s.SeedEmployee(e)
		if err != nil {
			return nil, fmt.Errorf("failed to seed employee %s: %w", e.FullName(), err)
		}
		seeded.Employees = append(seeded.Employees, created)
	}

	return seeded, nil
}
