package batch

import (
	"context"
	"time"
)

type JobRepository interface {
	Create(ctx context.Context, job Job) (Job, error)
	// Save overwrites the stored job with j.
	Save(ctx context.Context, job Job) error
	GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (Job, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]Job, error)
	// ListUnfinished returns SUBMITTED or PROCESSING jobs submitted before the cutoff.
	ListUnfinished(ctx context.Context, submittedBefore time.Time) ([]Job, error)
	// FailIfUnfinished writes the status, completion time and details of job
	// only while the stored copy is still SUBMITTED or PROCESSING. Progress
	// counters are left as stored. It reports whether the write happened.
	FailIfUnfinished(ctx context.Context, job Job) (bool, error)
}
