package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type JobType string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusError      JobStatus = "error"

	JobTypeHtml JobType = "html"
	JobTypePdf  JobType = "pdf"
)

func ValidStatus(s JobStatus) bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusDone, JobStatusError:
		return true
	}
	return false
}

func ValidType(t JobType) bool {
	return t == JobTypeHtml || t == JobTypePdf
}

// Job is the unit of work for "ingest this url as this type".
// Progress is append-only; it is reset to a single entry only on retry.
type Job struct {
	Id        string    `json:"id"`
	Url       string    `json:"url"`
	Type      JobType   `json:"type"`
	Status    JobStatus `json:"status"`
	Progress  []string  `json:"progress"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (j *Job) AppendProgress(entry string) {
	j.Progress = append(j.Progress, entry)
}

type JobStore interface {
	SaveJob(ctx context.Context, job Job) error
	GetJob(ctx context.Context, jobId string) (Job, bool)
	DeleteJob(ctx context.Context, jobId string) error
	ListJobs(ctx context.Context) ([]Job, error)
	ListJobsByStatus(ctx context.Context, status JobStatus) ([]Job, error)
	ListJobsByType(ctx context.Context, jobType JobType) ([]Job, error)
}
