package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/batch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	notificationservice "github.com/cmlabs-hris/payroll-backend-go/internal/service/notification"
)

// maxDetailLines bounds the failure lines kept in ResultDetails.
const maxDetailLines = 50

// execute runs a job to completion. It is the only writer of job while it
// runs; every state change is persisted before observers are told about it.
func (s *BatchServiceImpl) execute(ctx context.Context, job batch.Job, tasks []task) {
	logger := s.logger.With(
		"batch_job_id", job.ID,
		"job_type", job.Type,
		"organization_id", job.OrganizationID,
	)

	requester, err := s.resolveSetup(ctx, job)
	if err != nil {
		logger.Error("Batch job setup failed", "error", err)
		s.fail(ctx, &job, fmt.Sprintf("setup failed: %v", err))
		s.finish(ctx, job, nil)
		return
	}

	job.Start(s.now())
	if err := s.jobRepo.Save(ctx, job); err != nil {
		logger.Error("Failed to persist batch job start", "error", err)
		s.fail(ctx, &job, fmt.Sprintf("failed to persist job: %v", err))
		s.finish(ctx, job, &requester)
		return
	}
	s.publish(job, EventProgress)
	logger.Info("Batch job started", "total_requests", job.TotalRequests)

	var failures []string
	for i, t := range tasks {
		if err := runTask(ctx, t, job.OrganizationID); err != nil {
			job.RecordFailure()
			failures = append(failures, fmt.Sprintf("#%d %s: %v", i+1, t.key, err))
			logger.Warn("Batch item failed", "index", i+1, "key", t.key, "error", err)
		} else {
			job.RecordSuccess()
		}

		if err := s.jobRepo.Save(ctx, job); err != nil {
			logger.Error("Failed to persist batch progress", "processed_requests", job.ProcessedRequests, "error", err)
			s.fail(ctx, &job, fmt.Sprintf("failed to persist progress after item #%d: %v", i+1, err))
			s.finish(ctx, job, &requester)
			return
		}
		s.publish(job, EventProgress)
	}

	job.Complete(s.now(), summarize(failures))
	if err := s.jobRepo.Save(ctx, job); err != nil {
		logger.Error("Failed to persist batch completion", "error", err)
		s.fail(ctx, &job, fmt.Sprintf("failed to persist completion: %v", err))
	}

	logger.Info("Batch job finished",
		"status", job.Status,
		"successful_requests", job.SuccessfulRequests,
		"failed_requests", job.FailedRequests,
	)
	s.finish(ctx, job, &requester)
}

// resolveSetup confirms the organization and the requester still exist.
func (s *BatchServiceImpl) resolveSetup(ctx context.Context, job batch.Job) (user.User, error) {
	if _, err := s.orgRepo.GetByID(ctx, job.OrganizationID); err != nil {
		return user.User{}, err
	}

	requester, err := s.userRepo.GetByIDAndOrganization(ctx, job.RequestedBy, job.OrganizationID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, batch.ErrRequesterMissing
		}
		return user.User{}, err
	}
	return requester, nil
}

// runTask converts a panicking item into a failed item.
func runTask(ctx context.Context, t task, organizationID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.run(ctx, organizationID)
}

func (s *BatchServiceImpl) fail(ctx context.Context, job *batch.Job, details string) {
	job.Fail(s.now(), details)
	if err := s.jobRepo.Save(ctx, *job); err != nil {
		s.logger.Error("Failed to persist batch job failure", "batch_job_id", job.ID, "error", err)
	}
}

// finish publishes the final snapshot, posts the callback and notifies the
// requester. None of these affect the job outcome.
func (s *BatchServiceImpl) finish(ctx context.Context, job batch.Job, requester *user.User) {
	s.publish(job, EventFinished)

	if job.CallbackURL != nil && s.callbacks != nil {
		if err := s.callbacks.Post(ctx, *job.CallbackURL, job.ToResponse()); err != nil {
			s.logger.Warn("Batch callback failed", "batch_job_id", job.ID, "callback_url", *job.CallbackURL, "error", err)
		}
	}

	if requester == nil || s.notifier == nil {
		return
	}

	notificationType := notification.TypeBatchCompleted
	if job.Status == batch.JobStatusFailed {
		notificationType = notification.TypeBatchFailed
	}
	data := map[string]interface{}{
		notificationservice.DataJobID:              job.ID,
		notificationservice.DataJobType:            string(job.Type),
		notificationservice.DataJobStatus:          string(job.Status),
		notificationservice.DataTotalRequests:      job.TotalRequests,
		notificationservice.DataSuccessfulRequests: job.SuccessfulRequests,
		notificationservice.DataFailedRequests:     job.FailedRequests,
	}
	if job.ResultDetails != nil {
		data[notificationservice.DataResultDetails] = *job.ResultDetails
	}

	s.notifier.Notify(ctx, notification.Notification{
		OrganizationID: job.OrganizationID,
		Type:           notificationType,
		Recipient: notification.Recipient{
			ID:    requester.ID,
			Name:  requester.FullName(),
			Email: requester.Email,
		},
		Title: fmt.Sprintf("Batch job %s", strings.ToLower(string(job.Status))),
		Data:  data,
	})
}

func summarize(failures []string) string {
	if len(failures) == 0 {
		return ""
	}
	if len(failures) <= maxDetailLines {
		return strings.Join(failures, "\n")
	}
	kept := strings.Join(failures[:maxDetailLines], "\n")
	return fmt.Sprintf("%s\n... and %d more failed items", kept, len(failures)-maxDetailLines)
}
