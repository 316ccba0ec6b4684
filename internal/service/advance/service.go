package advance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	notificationservice "github.com/cmlabs-hris/payroll-backend-go/internal/service/notification"
	"github.com/shopspring/decimal"
)

type AdvanceServiceImpl struct {
	advanceRepo  advance.AdvanceRepository
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
	notifier     notification.Notifier
	now          func() time.Time
}

func NewAdvanceService(
	advanceRepo advance.AdvanceRepository,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	notifier notification.Notifier,
) *AdvanceServiceImpl {
	return &AdvanceServiceImpl{
		advanceRepo:  advanceRepo,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ advance.AdvanceService = (*AdvanceServiceImpl)(nil)

func (s *AdvanceServiceImpl) RequestAdvance(ctx context.Context, organizationID string, req advance.RequestAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(s.now()); err != nil {
		return advance.AdvanceResponse{}, err
	}

	if _, err := s.employeeRepo.GetByIDAndOrganization(ctx, req.EmployeeID, organizationID); err != nil {
		return advance.AdvanceResponse{}, err
	}

	requestDate, repaymentDate := req.Dates()
	created, err := s.advanceRepo.Create(ctx, advance.Advance{
		EmployeeID:     req.EmployeeID,
		OrganizationID: organizationID,
		Amount:         req.Amount,
		Reason:         req.Reason,
		Status:         advance.AdvanceStatusPending,
		RequestDate:    requestDate,
		RepaymentDate:  repaymentDate,
		RepaidAmount:   decimal.Zero,
	})
	if err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to create advance: %w", err)
	}

	return mapToResponse(created), nil
}

// ApproveAdvance checks the advance before the approver so that a processed
// advance reports InvalidState regardless of who asks.
func (s *AdvanceServiceImpl) ApproveAdvance(ctx context.Context, organizationID string, advanceID string, approverID string) (advance.AdvanceResponse, error) {
	if _, err := s.pendingAdvance(ctx, organizationID, advanceID); err != nil {
		return advance.AdvanceResponse{}, err
	}

	approver, err := s.userRepo.GetByIDAndOrganization(ctx, approverID, organizationID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return advance.AdvanceResponse{}, advance.ErrApproverNotFound
		}
		return advance.AdvanceResponse{}, fmt.Errorf("failed to get approver: %w", err)
	}

	approvedAt := s.now()
	updated, err := s.advanceRepo.Transition(ctx, advanceID, organizationID, advance.StatusChange{
		To:           advance.AdvanceStatusApproved,
		ApprovedBy:   &approver.ID,
		ApprovalDate: &approvedAt,
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	s.notifyDecision(ctx, updated)
	return mapToResponse(updated), nil
}

func (s *AdvanceServiceImpl) RejectAdvance(ctx context.Context, organizationID string, advanceID string, reason string) (advance.AdvanceResponse, error) {
	req := advance.RejectAdvanceRequest{Reason: reason}
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	if _, err := s.pendingAdvance(ctx, organizationID, advanceID); err != nil {
		return advance.AdvanceResponse{}, err
	}

	updated, err := s.advanceRepo.Transition(ctx, advanceID, organizationID, advance.StatusChange{
		To:              advance.AdvanceStatusRejected,
		RejectionReason: &req.Reason,
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	s.notifyDecision(ctx, updated)
	return mapToResponse(updated), nil
}

// RecordRepayment accumulates a repayment on an APPROVED advance.
// Overpayment is accepted and leaves a negative remaining amount.
func (s *AdvanceServiceImpl) RecordRepayment(ctx context.Context, organizationID string, advanceID string, amount decimal.Decimal) (advance.AdvanceResponse, error) {
	req := advance.RecordRepaymentRequest{Amount: amount}
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	updated, err := s.advanceRepo.AddRepayment(ctx, advanceID, organizationID, amount)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return mapToResponse(updated), nil
}

func (s *AdvanceServiceImpl) GetAdvance(ctx context.Context, organizationID string, advanceID string) (advance.AdvanceResponse, error) {
	a, err := s.advanceRepo.GetByIDAndOrganization(ctx, advanceID, organizationID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return mapToResponse(a), nil
}

func (s *AdvanceServiceImpl) ListAdvances(ctx context.Context, organizationID string, filter advance.AdvanceFilter) ([]advance.AdvanceResponse, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, validator.ValidationErrors{{Field: "status", Message: "must be one of PENDING, APPROVED, REJECTED"}}
	}

	advances, err := s.advanceRepo.ListByOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}

	responses := make([]advance.AdvanceResponse, 0, len(advances))
	for _, a := range advances {
		responses = append(responses, mapToResponse(a))
	}
	return responses, nil
}

func (s *AdvanceServiceImpl) pendingAdvance(ctx context.Context, organizationID string, advanceID string) (advance.Advance, error) {
	a, err := s.advanceRepo.GetByIDAndOrganization(ctx, advanceID, organizationID)
	if err != nil {
		return advance.Advance{}, err
	}
	if a.Status != advance.AdvanceStatusPending {
		return advance.Advance{}, advance.ErrAdvanceNotPending
	}
	return a, nil
}

func (s *AdvanceServiceImpl) notifyDecision(ctx context.Context, a advance.Advance) {
	if s.notifier == nil {
		return
	}

	emp, err := s.employeeRepo.GetByIDAndOrganization(ctx, a.EmployeeID, a.OrganizationID)
	if err != nil {
		slog.Warn("Skipping advance notification", "advance_id", a.ID, "error", err)
		return
	}

	n := notification.Notification{
		OrganizationID: a.OrganizationID,
		Type:           notification.TypeAdvanceApproved,
		Recipient:      notification.Recipient{ID: emp.ID, Name: emp.FullName(), Email: emp.Email},
		Title:          "Salary advance approved",
		Data: map[string]interface{}{
			notificationservice.DataAmount:        a.Amount.StringFixed(2),
			notificationservice.DataRepaymentDate: a.RepaymentDate.Format(validator.DateLayout),
		},
	}
	if a.Status == advance.AdvanceStatusRejected {
		n.Type = notification.TypeAdvanceRejected
		n.Title = "Salary advance rejected"
		if a.RejectionReason != nil {
			n.Data[notificationservice.DataRejectionReason] = *a.RejectionReason
		}
	}
	s.notifier.Notify(ctx, n)
}

func mapToResponse(a advance.Advance) advance.AdvanceResponse {
	resp := advance.AdvanceResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		OrganizationID:  a.OrganizationID,
		Amount:          a.Amount,
		Reason:          a.Reason,
		Status:          string(a.Status),
		RejectionReason: a.RejectionReason,
		ApprovedBy:      a.ApprovedBy,
		ApprovalDate:    a.ApprovalDate,
		RequestDate:     a.RequestDate.Format(validator.DateLayout),
		RepaymentDate:   a.RepaymentDate.Format(validator.DateLayout),
		RepaidAmount:    a.RepaidAmount,
		RemainingAmount: a.RemainingAmount(),
		FullyRepaid:     a.FullyRepaid,
	}
	if a.EmployeeName != nil {
		resp.EmployeeName = *a.EmployeeName
	}
	return resp
}
