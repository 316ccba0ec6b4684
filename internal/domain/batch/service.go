package batch

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/sse"
)

type BatchService interface {
	SubmitPayrollBatch(ctx context.Context, organizationID string, requestedBy string, req SubmitPayrollBatchRequest) (JobResponse, error)
	SubmitAdvanceBatch(ctx context.Context, organizationID string, requestedBy string, req SubmitAdvanceBatchRequest) (JobResponse, error)
	SubmitAdvanceActionBatch(ctx context.Context, organizationID string, requestedBy string, req SubmitAdvanceActionRequest) (JobResponse, error)
	GetJob(ctx context.Context, organizationID string, jobID string) (JobResponse, error)
	ListJobs(ctx context.Context, organizationID string) ([]JobResponse, error)
	// Subscribe streams "progress" events carrying JobResponse snapshots.
	Subscribe(ctx context.Context, organizationID string, jobID string) (<-chan sse.Event, func(), error)
	// FailInterruptedJobs marks stale unfinished jobs that no worker in this
	// process owns as FAILED and returns how many it marked.
	FailInterruptedJobs(ctx context.Context) (int, error)
	Shutdown(ctx context.Context) error
}
