package memory

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
)

type organizationRepository struct{ s *Store }

func NewOrganizationRepository(s *Store) organization.OrganizationRepository {
	return &organizationRepository{s: s}
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.organizations.byID[id]
	if !ok {
		return organization.Organization{}, organization.ErrOrganizationNotFound
	}
	return o, nil
}

type userRepository struct{ s *Store }

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users.byID[id]
	if !ok || u.OrganizationID != organizationID {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type employeeRepository struct{ s *Store }

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (employee.Employee, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if e.OrganizationID != organizationID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) ListByOrganization(ctx context.Context, organizationID string) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []employee.Employee
	for _, id := range r.s.employees.order {
		if e := r.s.employees.byID[id]; e.OrganizationID == organizationID {
			out = append(out, e)
		}
	}
	return out, nil
}
