package job

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ritvikra/PDFEmbedder/internal/config"
	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
	"github.com/ritvikra/PDFEmbedder/internal/metrics"
	"github.com/ritvikra/PDFEmbedder/internal/processor"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

// Service owns the job state machine:
// pending -> processing -> {done, error}, plus error -> pending on retry.
// Creation enqueues the job id; the worker pool picks it up and calls
// ProcessJob, so the creating request never waits on processing.
type Service struct {
	JobChannel        chan string
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	DocumentStore     docModel.DocumentStore

	processors map[jobModel.JobType]processor.Processor
	onChanged  func(jobId string)
	logger     *logger_i.Logger
}

type ServiceConfig struct {
	JobChannel        chan string
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	DocumentStore     docModel.DocumentStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		DocumentStore:     cfg.DocumentStore,
		processors:        make(map[jobModel.JobType]processor.Processor),
		logger:            logger_i.NewLogger("JobService"),
	}
}

// RegisterProcessor wires the processor handling one job type. Done after
// construction because processors need the service as their persister.
func (s *Service) RegisterProcessor(jobType jobModel.JobType, p processor.Processor) {
	s.processors[jobType] = p
}

// SetOnChanged installs the callback fired after every persisted job
// mutation (creation excluded). The notification registry hangs off this;
// there is no hidden store-level hook.
func (s *Service) SetOnChanged(callback func(jobId string)) {
	s.onChanged = callback
}

// PersistJob refreshes UpdatedAt, saves, and fires the change callback.
// A job deleted mid-run is not resurrected: the save is refused with
// ErrJobNotFound and the in-flight processor unwinds.
func (s *Service) PersistJob(ctx context.Context, job *jobModel.Job) error {
	if _, found := s.JobStore.GetJob(ctx, job.Id); !found {
		return fmt.Errorf("refusing to persist deleted job %s: %w", job.Id, jobModel.ErrJobNotFound)
	}

	job.UpdatedAt = time.Now()
	if err := s.JobStore.SaveJob(ctx, *job); err != nil {
		return err
	}

	if s.onChanged != nil {
		// fire and forget, the processor's forward progress never waits
		// on observer delivery
		go s.onChanged(job.Id)
	}
	return nil
}

// CreateJob validates the input, persists a fresh pending job and hands
// its id to the worker pool. No processing happens on the caller's path.
func (s *Service) CreateJob(ctx context.Context, url string, jobType jobModel.JobType) (jobModel.Job, error) {
	if url == "" {
		return jobModel.Job{}, &jobModel.ValidationError{Field: "url", Reason: "must not be empty"}
	}
	if !jobModel.ValidType(jobType) {
		return jobModel.Job{}, &jobModel.ValidationError{Field: "type", Reason: `must be either "html" or "pdf"`}
	}

	now := time.Now()
	newJob := jobModel.Job{
		Id:        uuid.New().String(),
		Url:       url,
		Type:      jobType,
		Status:    jobModel.JobStatusPending,
		Progress:  []string{"job created"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.JobStore.SaveJob(ctx, newJob); err != nil {
		return jobModel.Job{}, err
	}
	s.logger.Info("job created", "job Id", newJob.Id, "type", newJob.Type)

	s.enqueue(newJob)
	return newJob, nil
}

func (s *Service) enqueue(newJob jobModel.Job) {
	metrics.IncrementJobsInQueue()
	s.JobChannel <- newJob.Id //blocking send, backpressure over unbounded buffering

	// grow the pool every few requests, and always for pdf jobs since
	// per-page ocr can occupy a worker for a while
	accurateCount := atomic.AddInt64(&s.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || newJob.Type == jobModel.JobTypePdf {
		metrics.StartDispatcherSignalCount()
		select {
		case s.DispatcherChannel <- true:
		default:
		}
	}
}

// ProcessJob drives one job through the state machine. Calling it on a
// job that is already done or processing is a no-op returning the job
// unchanged, which keeps concurrent triggers from duplicating work.
func (s *Service) ProcessJob(ctx context.Context, jobId string) (jobModel.Job, error) {
	current, found := s.JobStore.GetJob(ctx, jobId)
	if !found {
		return jobModel.Job{}, fmt.Errorf("job %s: %w", jobId, jobModel.ErrJobNotFound)
	}

	if current.Status == jobModel.JobStatusDone || current.Status == jobModel.JobStatusProcessing {
		return current, nil
	}

	proc, ok := s.processors[current.Type]
	if !ok {
		return jobModel.Job{}, fmt.Errorf("unsupported job type: %s", current.Type)
	}

	current.Status = jobModel.JobStatusProcessing
	if err := s.PersistJob(ctx, &current); err != nil {
		return jobModel.Job{}, err
	}

	if _, err := proc.Process(ctx, &current); err != nil {
		return s.failJob(ctx, current, err)
	}
	// the processor set status done and persisted on its success path
	return current, nil
}

func (s *Service) failJob(ctx context.Context, current jobModel.Job, cause error) (jobModel.Job, error) {
	s.logger.Error("Error processing job", "job Id", current.Id, "error", cause)

	if errors.Is(cause, jobModel.ErrJobNotFound) {
		// deleted while processing, nothing left to mark failed
		return current, cause
	}

	current.Status = jobModel.JobStatusError
	current.AppendProgress(fmt.Sprintf("error: %s", cause.Error()))
	if err := s.PersistJob(ctx, &current); err != nil {
		s.logger.Error("could not persist failed job", "job Id", current.Id, "error", err)
	}
	return current, cause
}

// RetryJob resets a failed job and reprocesses it on the caller's
// goroutine, mirroring ProcessJob's contract. Only error jobs qualify.
func (s *Service) RetryJob(ctx context.Context, jobId string) (jobModel.Job, error) {
	current, found := s.JobStore.GetJob(ctx, jobId)
	if !found {
		return jobModel.Job{}, fmt.Errorf("job %s: %w", jobId, jobModel.ErrJobNotFound)
	}
	if current.Status != jobModel.JobStatusError {
		return jobModel.Job{}, &jobModel.InvalidStateError{Op: "retry", Status: current.Status}
	}

	current.Status = jobModel.JobStatusPending
	current.Progress = []string{"job retried"}
	if err := s.PersistJob(ctx, &current); err != nil {
		return jobModel.Job{}, err
	}

	return s.ProcessJob(ctx, jobId)
}

// DeleteJob removes the job and every document it owns. The bool reports
// whether a job existed. An in-flight run is not cancelled; its next
// persist fails against the missing record instead (see PersistJob).
func (s *Service) DeleteJob(ctx context.Context, jobId string) (bool, error) {
	if _, found := s.JobStore.GetJob(ctx, jobId); !found {
		return false, nil
	}
	if err := s.DocumentStore.DeleteDocumentsByJobId(ctx, jobId); err != nil {
		return false, err
	}
	if err := s.JobStore.DeleteJob(ctx, jobId); err != nil {
		return false, err
	}
	s.logger.Info("job deleted", "job Id", jobId)
	return true, nil
}

// reads, all joined with owned documents, newest job first

func (s *Service) GetJobById(ctx context.Context, jobId string) (docModel.Snapshot, error) {
	current, found := s.JobStore.GetJob(ctx, jobId)
	if !found {
		return docModel.Snapshot{}, fmt.Errorf("job %s: %w", jobId, jobModel.ErrJobNotFound)
	}
	return s.join(ctx, current)
}

func (s *Service) GetAllJobs(ctx context.Context) ([]docModel.Snapshot, error) {
	jobs, err := s.JobStore.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	return s.joinAll(ctx, jobs)
}

func (s *Service) GetJobsByStatus(ctx context.Context, status jobModel.JobStatus) ([]docModel.Snapshot, error) {
	jobs, err := s.JobStore.ListJobsByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return s.joinAll(ctx, jobs)
}

func (s *Service) GetJobsByType(ctx context.Context, jobType jobModel.JobType) ([]docModel.Snapshot, error) {
	jobs, err := s.JobStore.ListJobsByType(ctx, jobType)
	if err != nil {
		return nil, err
	}
	return s.joinAll(ctx, jobs)
}

func (s *Service) join(ctx context.Context, current jobModel.Job) (docModel.Snapshot, error) {
	documents, err := s.DocumentStore.ListDocumentsByJobId(ctx, current.Id)
	if err != nil {
		return docModel.Snapshot{}, err
	}
	if documents == nil {
		documents = []docModel.Document{}
	}
	return docModel.Snapshot{Job: current, Documents: documents}, nil
}

func (s *Service) joinAll(ctx context.Context, jobs []jobModel.Job) ([]docModel.Snapshot, error) {
	snapshots := make([]docModel.Snapshot, 0, len(jobs))
	for _, j := range jobs {
		snapshot, err := s.join(ctx, j)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}
