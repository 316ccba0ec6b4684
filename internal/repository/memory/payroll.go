package memory

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
)

type payrollRepository struct{ s *Store }

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

func (r *payrollRepository) Create(ctx context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if record.ID == "" {
		id, err := newID()
		if err != nil {
			return payroll.Payroll{}, err
		}
		record.ID = id
	}
	now := r.s.now()
	record.CreatedAt, record.UpdatedAt = now, now
	record.EmployeeName = nil
	r.s.payrolls.put(record.ID, record)

	record.EmployeeName = r.s.employeeName(record.EmployeeID)
	return record, nil
}

func (r *payrollRepository) GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (payroll.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.payrolls.byID[id]
	if !ok || p.OrganizationID != organizationID {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	p.EmployeeName = r.s.employeeName(p.EmployeeID)
	return p, nil
}

func (r *payrollRepository) ListByOrganization(ctx context.Context, organizationID string, filter payroll.PayrollFilter) ([]payroll.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []payroll.Payroll{}
	r.s.payrolls.newestFirst(func(p payroll.Payroll) {
		if p.OrganizationID != organizationID {
			return
		}
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			return
		}
		if filter.Status != nil && p.Status != *filter.Status {
			return
		}
		p.EmployeeName = r.s.employeeName(p.EmployeeID)
		out = append(out, p)
	})
	return out, nil
}

func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, organizationID string, status payroll.PayrollStatus) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payrolls.byID[id]
	if !ok || p.OrganizationID != organizationID {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	if p.Status.IsTerminal() {
		return payroll.Payroll{}, payroll.ErrPayrollStatusFinal
	}
	p.Status = status
	p.UpdatedAt = r.s.now()
	r.s.payrolls.put(id, p)

	p.EmployeeName = r.s.employeeName(p.EmployeeID)
	return p, nil
}
