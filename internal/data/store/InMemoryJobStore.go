package store

import (
	"context"
	"sync"

	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
)

type InMemoryJobStore struct {
	jobMutex *sync.RWMutex
	jobMap   map[string]jobModel.Job
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobMutex: new(sync.RWMutex),
		jobMap:   make(map[string]jobModel.Job),
	}
}

func (store *InMemoryJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	store.jobMap[job.Id] = cloneJob(job)
	return nil
}

func (store *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	store.jobMutex.RLock()
	defer store.jobMutex.RUnlock()
	result, found := store.jobMap[jobId]
	return cloneJob(result), found
}

func (store *InMemoryJobStore) DeleteJob(ctx context.Context, jobId string) error {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	delete(store.jobMap, jobId)
	return nil
}

func (store *InMemoryJobStore) ListJobs(ctx context.Context) ([]jobModel.Job, error) {
	return store.list(func(jobModel.Job) bool { return true })
}

func (store *InMemoryJobStore) ListJobsByStatus(ctx context.Context, status jobModel.JobStatus) ([]jobModel.Job, error) {
	return store.list(func(j jobModel.Job) bool { return j.Status == status })
}

func (store *InMemoryJobStore) ListJobsByType(ctx context.Context, jobType jobModel.JobType) ([]jobModel.Job, error) {
	return store.list(func(j jobModel.Job) bool { return j.Type == jobType })
}

func (store *InMemoryJobStore) list(keep func(jobModel.Job) bool) ([]jobModel.Job, error) {
	store.jobMutex.RLock()
	defer store.jobMutex.RUnlock()
	var jobs []jobModel.Job
	for _, j := range store.jobMap {
		if keep(j) {
			jobs = append(jobs, cloneJob(j))
		}
	}
	sortJobsNewestFirst(jobs)
	return jobs, nil
}

// cloneJob keeps callers from mutating the shared Progress slice in place.
func cloneJob(j jobModel.Job) jobModel.Job {
	progress := make([]string, len(j.Progress))
	copy(progress, j.Progress)
	j.Progress = progress
	return j
}
