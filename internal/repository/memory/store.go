// Package memory holds in-process implementations of the repository ports.
// Every read returns a copy so callers never alias stored records.
package memory

import (
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/batch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

// collection keeps records by id and remembers insertion order.
type collection[T any] struct {
	byID  map[string]T
	order []string
}

func newCollection[T any]() collection[T] {
	return collection[T]{byID: make(map[string]T)}
}

func (c *collection[T]) put(id string, v T) {
	if _, ok := c.byID[id]; !ok {
		c.order = append(c.order, id)
	}
	c.byID[id] = v
}

// newestFirst visits records in reverse insertion order.
func (c *collection[T]) newestFirst(fn func(T)) {
	for i := len(c.order) - 1; i >= 0; i-- {
		fn(c.byID[c.order[i]])
	}
}

// Store is the shared state behind the memory repositories.
type Store struct {
	mu            sync.RWMutex
	now           func() time.Time
	organizations collection[organization.Organization]
	users         collection[user.User]
	employees     collection[employee.Employee]
	attendances   collection[attendance.Attendance]
	payrolls      collection[payroll.Payroll]
	advances      collection[advance.Advance]
	jobs          collection[batch.Job]
}

func NewStore() *Store {
	return &Store{
		now:           time.Now,
		organizations: newCollection[organization.Organization](),
		users:         newCollection[user.User](),
		employees:     newCollection[employee.Employee](),
		attendances:   newCollection[attendance.Attendance](),
		payrolls:      newCollection[payroll.Payroll](),
		advances:      newCollection[advance.Advance](),
		jobs:          newCollection[batch.Job](),
	}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// SeedOrganization inserts or replaces an organization. An empty ID is generated.
func (s *Store) SeedOrganization(o organization.Organization) (organization.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		id, err := newID()
		if err != nil {
			return organization.Organization{}, err
		}
		o.ID = id
	}
	now := s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	s.organizations.put(o.ID, o)
	return o, nil
}

// SeedUser inserts or replaces a user. An empty ID is generated.
func (s *Store) SeedUser(u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		id, err := newID()
		if err != nil {
			return user.User{}, err
		}
		u.ID = id
	}
	now := s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users.put(u.ID, u)
	return u, nil
}

// SeedEmployee inserts or replaces an employee. An empty ID is generated.
func (s *Store) SeedEmployee(e employee.Employee) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		id, err := newID()
		if err != nil {
			return employee.Employee{}, err
		}
		e.ID = id
	}
	now := s.now()
	e.CreatedAt, e.UpdatedAt = now, now
	s.employees.put(e.ID, e)
	return e, nil
}

// employeeName must be called with s.mu held.
func (s *Store) employeeName(id string) *string {
	e, ok := s.employees.byID[id]
	if !ok {
		return nil
	}
	name := e.FullName()
	return &name
}
