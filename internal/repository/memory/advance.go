package memory

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/advance"
	"github.com/shopspring/decimal"
)

type advanceRepository struct{ s *Store }

func NewAdvanceRepository(s *Store) advance.AdvanceRepository {
	return &advanceRepository{s: s}
}

func (r *advanceRepository) Create(ctx context.Context, a advance.Advance) (advance.Advance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if a.ID == "" {
		id, err := newID()
		if err != nil {
			return advance.Advance{}, err
		}
		a.ID = id
	}
	now := r.s.now()
	a.CreatedAt, a.UpdatedAt = now, now
	a.EmployeeName = nil
	r.s.advances.put(a.ID, a)

	a.EmployeeName = r.s.employeeName(a.EmployeeID)
	return a, nil
}

func (r *advanceRepository) GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (advance.Advance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.advances.byID[id]
	if !ok || a.OrganizationID != organizationID {
		return advance.Advance{}, advance.ErrAdvanceNotFound
	}
	a.EmployeeName = r.s.employeeName(a.EmployeeID)
	return a, nil
}

func (r *advanceRepository) ListByOrganization(ctx context.Context, organizationID string, filter advance.AdvanceFilter) ([]advance.Advance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []advance.Advance{}
	r.s.advances.newestFirst(func(a advance.Advance) {
		if a.OrganizationID != organizationID {
			return
		}
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			return
		}
		if filter.Status != nil && a.Status != *filter.Status {
			return
		}
		a.EmployeeName = r.s.employeeName(a.EmployeeID)
		out = append(out, a)
	})
	return out, nil
}

func (r *advanceRepository) Transition(ctx context.Context, id string, organizationID string, change advance.StatusChange) (advance.Advance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.advances.byID[id]
	if !ok || a.OrganizationID != organizationID {
		return advance.Advance{}, advance.ErrAdvanceNotFound
	}
	if a.Status != advance.AdvanceStatusPending {
		return advance.Advance{}, advance.ErrAdvanceNotPending
	}
	change.Apply(&a)
	a.UpdatedAt = r.s.now()
	r.s.advances.put(id, a)

	a.EmployeeName = r.s.employeeName(a.EmployeeID)
	return a, nil
}

func (r *advanceRepository) AddRepayment(ctx context.Context, id string, organizationID string, amount decimal.Decimal) (advance.Advance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.advances.byID[id]
	if !ok || a.OrganizationID != organizationID {
		return advance.Advance{}, advance.ErrAdvanceNotFound
	}
	if a.Status != advance.AdvanceStatusApproved {
		return advance.Advance{}, advance.ErrAdvanceNotApproved
	}
	a.ApplyRepayment(amount)
	a.UpdatedAt = r.s.now()
	r.s.advances.put(id, a)

	a.EmployeeName = r.s.employeeName(a.EmployeeID)
	return a, nil
}
