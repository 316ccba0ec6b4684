package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/batch"
)

type jobRepository struct{ s *Store }

func NewJobRepository(s *Store) batch.JobRepository {
	return &jobRepository{s: s}
}

func (r *jobRepository) Create(ctx context.Context, job batch.Job) (batch.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if job.ID == "" {
		id, err := newID()
		if err != nil {
			return batch.Job{}, err
		}
		job.ID = id
	}
	now := r.s.now()
	job.CreatedAt, job.UpdatedAt = now, now
	r.s.jobs.put(job.ID, job)
	return job, nil
}

func (r *jobRepository) Save(ctx context.Context, job batch.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.jobs.byID[job.ID]
	if !ok || stored.OrganizationID != job.OrganizationID {
		return batch.ErrJobNotFound
	}
	job.CreatedAt = stored.CreatedAt
	job.UpdatedAt = r.s.now()
	r.s.jobs.put(job.ID, job)
	return nil
}

func (r *jobRepository) FailIfUnfinished(ctx context.Context, job batch.Job) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.jobs.byID[job.ID]
	if !ok || stored.OrganizationID != job.OrganizationID {
		return false, batch.ErrJobNotFound
	}
	if stored.Status.IsFinished() {
		return false, nil
	}
	stored.Status = job.Status
	stored.CompletedAt = job.CompletedAt
	stored.ResultDetails = job.ResultDetails
	stored.UpdatedAt = r.s.now()
	r.s.jobs.put(stored.ID, stored)
	return true, nil
}

func (r *jobRepository) GetByIDAndOrganization(ctx context.Context, id string, organizationID string) (batch.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	job, ok := r.s.jobs.byID[id]
	if !ok || job.OrganizationID != organizationID {
		return batch.Job{}, batch.ErrJobNotFound
	}
	return job, nil
}

func (r *jobRepository) ListByOrganization(ctx context.Context, organizationID string) ([]batch.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []batch.Job{}
	r.s.jobs.newestFirst(func(job batch.Job) {
		if job.OrganizationID == organizationID {
			out = append(out, job)
		}
	})
	return out, nil
}

func (r *jobRepository) ListUnfinished(ctx context.Context, submittedBefore time.Time) ([]batch.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []batch.Job
	for _, id := range r.s.jobs.order {
		job := r.s.jobs.byID[id]
		if !job.Status.IsFinished() && job.SubmittedAt.Before(submittedBefore) {
			out = append(out, job)
		}
	}
	return out, nil
}
