package advance

import (
	"context"

	"github.com/shopspring/decimal"
)

type AdvanceService interface {
	RequestAdvance(ctx context.Context, organizationID string, req RequestAdvanceRequest) (AdvanceResponse, error)
	ApproveAdvance(ctx context.Context, organizationID string, advanceID string, approverID string) (AdvanceResponse, error)
	RejectAdvance(ctx context.Context, organizationID string, advanceID string, reason string) (AdvanceResponse, error)
	RecordRepayment(ctx context.Context, organizationID string, advanceID string, amount decimal.Decimal) (AdvanceResponse, error)
	GetAdvance(ctx context.Context, organizationID string, advanceID string) (AdvanceResponse, error)
	ListAdvances(ctx context.Context, organizationID string, filter AdvanceFilter) ([]AdvanceResponse, error)
}
