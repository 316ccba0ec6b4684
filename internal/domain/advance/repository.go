package advance

import (
	"context"

	"github.com/shopspring/decimal"
)

// AdvanceRepository defines data access methods for advances. Mutations are
// conditional on the stored status so concurrent callers cannot both win.
type AdvanceRepository interface {
	Create(ctx context.Context, advance Advance) (Advance, error)
	GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (Advance, error)
	ListByOrganization(ctx context.Context, organizationID string, filter AdvanceFilter) ([]Advance, error)
	// Transition applies change only if the advance is still PENDING,
	// otherwise it returns ErrAdvanceNotPending.
	Transition(ctx context.Context, id string, organizationID string, change StatusChange) (Advance, error)
	// AddRepayment increments RepaidAmount only if the advance is APPROVED,
	// otherwise it returns ErrAdvanceNotApproved.
	AddRepayment(ctx context.Context, id string, organizationID string, amount decimal.Decimal) (Advance, error)
}
