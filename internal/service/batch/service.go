package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/batch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

// SSE event names published for every job.
const (
	EventProgress = "progress"
	EventFinished = "finished"
)

// InterruptedDetails is the result summary of jobs failed by the reaper.
const InterruptedDetails = "interrupted"

// PayrollGenerator is the payroll operation a PAYROLL job applies per item.
type PayrollGenerator interface {
	GeneratePayroll(ctx context.Context, organizationID string, req payroll.GeneratePayrollRequest) (payroll.PayrollResponse, error)
}

// AdvanceLedger is the set of advance operations ADVANCE and ADVANCE_ACTION
// jobs apply per item.
type AdvanceLedger interface {
	RequestAdvance(ctx context.Context, organizationID string, req advance.RequestAdvanceRequest) (advance.AdvanceResponse, error)
	ApproveAdvance(ctx context.Context, organizationID string, advanceID string, approverID string) (advance.AdvanceResponse, error)
	RejectAdvance(ctx context.Context, organizationID string, advanceID string, reason string) (advance.AdvanceResponse, error)
}

// CallbackPoster delivers the final job snapshot to a callback URL.
type CallbackPoster interface {
	Post(ctx context.Context, url string, payload interface{}) error
}

// Config holds orchestrator limits.
type Config struct {
	MaxItems   int           // default: 1000
	StaleAfter time.Duration // default: 1h
}

type BatchServiceImpl struct {
	jobRepo   batch.JobRepository
	orgRepo   organization.OrganizationRepository
	userRepo  user.UserRepository
	payrolls  PayrollGenerator
	advances  AdvanceLedger
	hub       *sse.Hub
	callbacks CallbackPoster
	notifier  notification.Notifier
	config    Config
	logger    *slog.Logger
	now       func() time.Time

	workers errgroup.Group
	mu      sync.Mutex
	running map[string]struct{}
	closing bool
}

func NewBatchService(
	jobRepo batch.JobRepository,
	orgRepo organization.OrganizationRepository,
	userRepo user.UserRepository,
	payrolls PayrollGenerator,
	advances AdvanceLedger,
	hub *sse.Hub,
	callbacks CallbackPoster,
	notifier notification.Notifier,
	cfg Config,
	logger *slog.Logger,
) *BatchServiceImpl {
	if cfg.MaxItems == 0 {
		cfg.MaxItems = 1000
	}
	if cfg.StaleAfter == 0 {
		cfg.StaleAfter = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BatchServiceImpl{
		jobRepo:   jobRepo,
		orgRepo:   orgRepo,
		userRepo:  userRepo,
		payrolls:  payrolls,
		advances:  advances,
		hub:       hub,
		callbacks: callbacks,
		notifier:  notifier,
		config:    cfg,
		logger:    logger.With("component", "batch"),
		now:       func() time.Time { return time.Now().UTC() },
		running:   make(map[string]struct{}),
	}
}

var _ batch.BatchService = (*BatchServiceImpl)(nil)

// task is one item of a job. key identifies the item in failure summaries.
type task struct {
	key string
	run func(ctx context.Context, organizationID string) error
}

func (s *BatchServiceImpl) SubmitPayrollBatch(ctx context.Context, organizationID string, requestedBy string, req batch.SubmitPayrollBatchRequest) (batch.JobResponse, error) {
	if err := req.Validate(s.config.MaxItems); err != nil {
		return batch.JobResponse{}, err
	}

	tasks := make([]task, 0, len(req.Payrolls))
	for _, item := range req.Payrolls {
		item := item
		tasks = append(tasks, task{
			key: itemKey(item.EmployeeID),
			run: func(ctx context.Context, organizationID string) error {
				_, err := s.payrolls.GeneratePayroll(ctx, organizationID, item)
				return err
			},
		})
	}

	return s.submit(ctx, organizationID, requestedBy, batch.JobTypePayroll, req.JobOptions, tasks)
}

func (s *BatchServiceImpl) SubmitAdvanceBatch(ctx context.Context, organizationID string, requestedBy string, req batch.SubmitAdvanceBatchRequest) (batch.JobResponse, error) {
	if err := req.Validate(s.config.MaxItems); err != nil {
		return batch.JobResponse{}, err
	}

	tasks := make([]task, 0, len(req.Requests))
	for _, item := range req.Requests {
		item := item
		tasks = append(tasks, task{
			key: itemKey(item.EmployeeID),
			run: func(ctx context.Context, organizationID string) error {
				_, err := s.advances.RequestAdvance(ctx, organizationID, item)
				return err
			},
		})
	}

	return s.submit(ctx, organizationID, requestedBy, batch.JobTypeAdvance, req.JobOptions, tasks)
}

// SubmitAdvanceActionBatch approves or rejects a list of advances with the
// requester as approver.
func (s *BatchServiceImpl) SubmitAdvanceActionBatch(ctx context.Context, organizationID string, requestedBy string, req batch.SubmitAdvanceActionRequest) (batch.JobResponse, error) {
	if err := req.Validate(s.config.MaxItems); err != nil {
		return batch.JobResponse{}, err
	}

	action := batch.AdvanceAction(req.Action)
	var comment string
	if req.Comment != nil {
		comment = *req.Comment
	}

	tasks := make([]task, 0, len(req.AdvanceIDs))
	for _, id := range req.AdvanceIDs {
		id := id
		tasks = append(tasks, task{
			key: itemKey(id),
			run: func(ctx context.Context, organizationID string) error {
				if action == batch.AdvanceActionApprove {
					_, err := s.advances.ApproveAdvance(ctx, organizationID, id, requestedBy)
					return err
				}
				_, err := s.advances.RejectAdvance(ctx, organizationID, id, comment)
				return err
			},
		})
	}

	return s.submit(ctx, organizationID, requestedBy, batch.JobTypeAdvanceAction, req.JobOptions, tasks)
}

func (s *BatchServiceImpl) submit(ctx context.Context, organizationID string, requestedBy string, jobType batch.JobType, opts batch.JobOptions, tasks []task) (batch.JobResponse, error) {
	if validator.IsEmpty(requestedBy) {
		return batch.JobResponse{}, validator.ValidationErrors{{Field: "requested_by", Message: "is required"}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closing {
		return batch.JobResponse{}, batch.ErrShuttingDown
	}

	job, err := s.jobRepo.Create(ctx, batch.Job{
		OrganizationID: organizationID,
		RequestedBy:    requestedBy,
		Type:           jobType,
		Status:         batch.JobStatusSubmitted,
		SubmittedAt:    s.now(),
		TotalRequests:  len(tasks),
		CallbackURL:    opts.CallbackURL,
		Description:    opts.Description,
	})
	if err != nil {
		return batch.JobResponse{}, fmt.Errorf("failed to create batch job: %w", err)
	}

	s.running[job.ID] = struct{}{}
	workerCtx := context.WithoutCancel(ctx)
	s.workers.Go(func() error {
		defer s.release(job.ID)
		s.execute(workerCtx, job, tasks)
		return nil
	})

	s.logger.Info("Batch job submitted",
		"batch_job_id", job.ID,
		"job_type", job.Type,
		"organization_id", organizationID,
		"total_requests", job.TotalRequests,
	)
	return job.ToResponse(), nil
}

func (s *BatchServiceImpl) release(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, jobID)
}

func (s *BatchServiceImpl) GetJob(ctx context.Context, organizationID string, jobID string) (batch.JobResponse, error) {
	job, err := s.jobRepo.GetByIDAndOrganization(ctx, jobID, organizationID)
	if err != nil {
		return batch.JobResponse{}, err
	}
	return job.ToResponse(), nil
}

func (s *BatchServiceImpl) ListJobs(ctx context.Context, organizationID string) ([]batch.JobResponse, error) {
	jobs, err := s.jobRepo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch jobs: %w", err)
	}

	responses := make([]batch.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, job.ToResponse())
	}
	return responses, nil
}

// Subscribe checks the job belongs to the organization before attaching to
// its progress stream.
func (s *BatchServiceImpl) Subscribe(ctx context.Context, organizationID string, jobID string) (<-chan sse.Event, func(), error) {
	if _, err := s.jobRepo.GetByIDAndOrganization(ctx, jobID, organizationID); err != nil {
		return nil, nil, err
	}
	ch, cleanup := s.hub.Subscribe(topic(organizationID, jobID))
	return ch, cleanup, nil
}

// FailInterruptedJobs fails stale SUBMITTED or PROCESSING jobs that have no
// live worker in this process, such as jobs stranded by a restart.
func (s *BatchServiceImpl) FailInterruptedJobs(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.config.StaleAfter)
	jobs, err := s.jobRepo.ListUnfinished(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list unfinished batch jobs: %w", err)
	}

	var (
		marked int
		errs   []error
	)
	for _, job := range jobs {
		if s.isRunning(job.ID) {
			continue
		}

		job.Fail(s.now(), InterruptedDetails)
		failed, err := s.jobRepo.FailIfUnfinished(ctx, job)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to save batch job %s: %w", job.ID, err))
			continue
		}
		if !failed {
			// Finished between listing and writing.
			continue
		}
		marked++
		s.publish(job, EventFinished)
		s.logger.Warn("Batch job marked as interrupted", "batch_job_id", job.ID, "organization_id", job.OrganizationID)
	}

	return marked, errors.Join(errs...)
}

func (s *BatchServiceImpl) isRunning(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[jobID]
	return ok
}

// Shutdown rejects new submissions and waits for running jobs until ctx ends.
func (s *BatchServiceImpl) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = s.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("batch workers still running: %w", ctx.Err())
	}
}

func itemKey(key string) string {
	if validator.IsEmpty(key) {
		return "-"
	}
	return key
}

func topic(organizationID string, jobID string) string {
	return organizationID + ":" + jobID
}

func (s *BatchServiceImpl) publish(job batch.Job, event string) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(topic(job.OrganizationID, job.ID), event, job.ToResponse())
}
