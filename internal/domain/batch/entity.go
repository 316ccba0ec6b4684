package batch

import (
	"time"
)

// JobType enum
type JobType string

const (
	JobTypePayroll       JobType = "PAYROLL"
	JobTypeAdvance       JobType = "ADVANCE"
	JobTypeAdvanceAction JobType = "ADVANCE_ACTION"
)

// JobStatus enum
type JobStatus string

const (
	JobStatusSubmitted  JobStatus = "SUBMITTED"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

func (s JobStatus) IsFinished() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job tracks one asynchronous batch. While it runs, the worker executing it
// is its only writer; everybody else reads persisted snapshots.
//
// ProcessedRequests always equals SuccessfulRequests + FailedRequests and
// never exceeds TotalRequests.
type Job struct {
	ID                 string
	OrganizationID     string
	RequestedBy        string
	Type               JobType
	Status             JobStatus
	SubmittedAt        time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
	TotalRequests      int
	ProcessedRequests  int
	SuccessfulRequests int
	FailedRequests     int
	CallbackURL        *string
	Description        *string
	ResultDetails      *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Start moves a submitted job to PROCESSING.
func (j *Job) Start(now time.Time) {
	j.Status = JobStatusProcessing
	j.StartedAt = &now
}

// RecordSuccess counts one successful item.
func (j *Job) RecordSuccess() {
	j.ProcessedRequests++
	j.SuccessfulRequests++
}

// RecordFailure counts one failed item.
func (j *Job) RecordFailure() {
	j.ProcessedRequests++
	j.FailedRequests++
}

// Complete finishes the job. details may be empty.
func (j *Job) Complete(now time.Time, details string) {
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	if details != "" {
		j.ResultDetails = &details
	}
}

// Fail finishes the job after an error outside of item processing.
func (j *Job) Fail(now time.Time, details string) {
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.ResultDetails = &details
}
