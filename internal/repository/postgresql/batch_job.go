package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/batch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type jobRepositoryImpl struct {
	db *database.DB
}

func NewJobRepository(db *database.DB) batch.JobRepository {
	return &jobRepositoryImpl{db: db}
}

const jobColumns = `
	id, organization_id, requested_by, job_type, status, submitted_at, started_at, completed_at,
	total_requests, processed_requests, successful_requests, failed_requests,
	callback_url, description, result_details, created_at, updated_at
`

func scanJob(row pgx.Row) (batch.Job, error) {
	var j batch.Job
	var jobType, status string
	err := row.Scan(
		&j.ID, &j.OrganizationID, &j.RequestedBy, &jobType, &status, &j.SubmittedAt, &j.StartedAt, &j.CompletedAt,
		&j.TotalRequests, &j.ProcessedRequests, &j.SuccessfulRequests, &j.FailedRequests,
		&j.CallbackURL, &j.Description, &j.ResultDetails, &j.CreatedAt, &j.UpdatedAt,
	)
	j.Type = batch.JobType(jobType)
	j.Status = batch.JobStatus(status)
	return j, err
}

func (r *jobRepositoryImpl) Create(ctx context.Context, job batch.Job) (batch.Job, error) {
	if job.ID == "" {
		id, err := newID()
		if err != nil {
			return batch.Job{}, err
		}
		job.ID = id
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO batch_jobs (
			id, organization_id, requested_by, job_type, status, submitted_at, started_at, completed_at,
			total_requests, processed_requests, successful_requests, failed_requests,
			callback_url, description, result_details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + jobColumns

	created, err := scanJob(q.QueryRow(ctx, query,
		job.ID, job.OrganizationID, job.RequestedBy, string(job.Type), string(job.Status),
		job.SubmittedAt, job.StartedAt, job.CompletedAt,
		job.TotalRequests, job.ProcessedRequests, job.SuccessfulRequests, job.FailedRequests,
		job.CallbackURL, job.Description, job.ResultDetails,
	))
	if err != nil {
		return batch.Job{}, fmt.Errorf("failed to create batch job: %w", err)
	}
	return created, nil
}

func (r *jobRepositoryImpl) Save(ctx context.Context, job batch.Job) error {
	if !validID(job.ID) || !validID(job.OrganizationID) {
		return batch.ErrJobNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE batch_jobs
		SET status = $3, started_at = $4, completed_at = $5,
			total_requests = $6, processed_requests = $7, successful_requests = $8, failed_requests = $9,
			result_details = $10, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
	`

	tag, err := q.Exec(ctx, query,
		job.ID, job.OrganizationID, string(job.Status), job.StartedAt, job.CompletedAt,
		job.TotalRequests, job.ProcessedRequests, job.SuccessfulRequests, job.FailedRequests,
		job.ResultDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to save batch job %s: %w", job.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return batch.ErrJobNotFound
	}
	return nil
}

func (r *jobRepositoryImpl) FailIfUnfinished(ctx context.Context, job batch.Job) (bool, error) {
	if !validID(job.ID) || !validID(job.OrganizationID) {
		return false, batch.ErrJobNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE batch_jobs
		SET status = $3, completed_at = $4, result_details = $5, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND status IN ('SUBMITTED', 'PROCESSING')
	`

	tag, err := q.Exec(ctx, query,
		job.ID, job.OrganizationID, string(job.Status), job.CompletedAt, job.ResultDetails,
	)
	if err != nil {
		return false, fmt.Errorf("failed to fail batch job %s: %w", job.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *jobRepositoryImpl) GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (batch.Job, error) {
	if !validID(id) || !validID(organizationID) {
		return batch.Job{}, batch.ErrJobNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + jobColumns + ` FROM batch_jobs WHERE id = $1 AND organization_id = $2`

	job, err := scanJob(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return batch.Job{}, batch.ErrJobNotFound
		}
		return batch.Job{}, fmt.Errorf("failed to get batch job %s: %w", id, err)
	}
	return job, nil
}

func (r *jobRepositoryImpl) ListByOrganization(ctx context.Context, organizationID string) ([]batch.Job, error) {
	jobs := []batch.Job{}
	if !validID(organizationID) {
		return jobs, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + jobColumns + ` FROM batch_jobs WHERE organization_id = $1 ORDER BY submitted_at DESC, id DESC`

	return r.list(ctx, q, query, organizationID)
}

func (r *jobRepositoryImpl) ListUnfinished(ctx context.Context, submittedBefore time.Time) ([]batch.Job, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + jobColumns + `
		FROM batch_jobs
		WHERE status IN ('SUBMITTED', 'PROCESSING') AND submitted_at < $1
		ORDER BY submitted_at
	`

	return r.list(ctx, q, query, submittedBefore)
}

func (r *jobRepositoryImpl) list(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]batch.Job, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch jobs: %w", err)
	}
	defer rows.Close()

	jobs := []batch.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}
