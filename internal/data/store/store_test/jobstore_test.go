package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/ritvikra/PDFEmbedder/internal/config"
	"github.com/ritvikra/PDFEmbedder/internal/data/redisStore"
	"github.com/ritvikra/PDFEmbedder/internal/data/store"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
)

func newRedisJobStore(t *testing.T) *store.RedisJobStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestJobStore(redisStore.NewTestStore(client))
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	jobStore := newRedisJobStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	testJob := jobModel.Job{
		Id:       "job_abc_123",
		Url:      "https://example.com/report.pdf",
		Type:     jobModel.JobTypePdf,
		Status:   jobModel.JobStatusProcessing,
		Progress: []string{"job created", "Fetching PDF document"},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrieved, found := jobStore.GetJob(ctx, testJob.Id)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrieved.Url != testJob.Url || retrieved.Status != testJob.Status {
			t.Errorf("Data mismatch! Got %+v, want %+v", retrieved, testJob)
		}
		if len(retrieved.Progress) != 2 || retrieved.Progress[1] != "Fetching PDF document" {
			t.Errorf("Progress lost in roundtrip: %v", retrieved.Progress)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		if err := jobStore.DeleteJob(ctx, testJob.Id); err != nil {
			t.Fatalf("DeleteJob failed: %v", err)
		}
		if _, found := jobStore.GetJob(ctx, testJob.Id); found {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
		jobs, err := jobStore.ListJobs(ctx)
		if err != nil {
			t.Fatalf("ListJobs failed: %v", err)
		}
		if len(jobs) != 0 {
			t.Errorf("Deleted job still listed: %d entries", len(jobs))
		}
	})
}

func TestRedisJobStore_ListFilters(t *testing.T) {
	jobStore := newRedisJobStore(t)
	ctx := context.Background()
	base := time.Now()

	seed := []jobModel.Job{
		{Id: "j1", Type: jobModel.JobTypeHtml, Status: jobModel.JobStatusDone, CreatedAt: base.Add(-3 * time.Minute)},
		{Id: "j2", Type: jobModel.JobTypePdf, Status: jobModel.JobStatusError, CreatedAt: base.Add(-2 * time.Minute)},
		{Id: "j3", Type: jobModel.JobTypeHtml, Status: jobModel.JobStatusPending, CreatedAt: base.Add(-1 * time.Minute)},
	}
	for _, j := range seed {
		if err := jobStore.SaveJob(ctx, j); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	t.Run("ListJobs newest first", func(t *testing.T) {
		jobs, err := jobStore.ListJobs(ctx)
		if err != nil {
			t.Fatalf("ListJobs failed: %v", err)
		}
		if len(jobs) != 3 {
			t.Fatalf("ListJobs = %d entries, want 3", len(jobs))
		}
		if jobs[0].Id != "j3" || jobs[2].Id != "j1" {
			t.Errorf("wrong order: %s, %s, %s", jobs[0].Id, jobs[1].Id, jobs[2].Id)
		}
	})

	t.Run("ListJobsByStatus", func(t *testing.T) {
		jobs, err := jobStore.ListJobsByStatus(ctx, jobModel.JobStatusError)
		if err != nil {
			t.Fatalf("ListJobsByStatus failed: %v", err)
		}
		if len(jobs) != 1 || jobs[0].Id != "j2" {
			t.Errorf("ListJobsByStatus(error) = %+v", jobs)
		}
	})

	t.Run("ListJobsByType", func(t *testing.T) {
		jobs, err := jobStore.ListJobsByType(ctx, jobModel.JobTypeHtml)
		if err != nil {
			t.Fatalf("ListJobsByType failed: %v", err)
		}
		if len(jobs) != 2 {
			t.Errorf("ListJobsByType(html) = %d entries, want 2", len(jobs))
		}
	})
}

func TestInMemoryJobStore_MatchesRedisContract(t *testing.T) {
	jobStore := store.InitInMemoryJobStore()
	ctx := context.Background()

	seeded := jobModel.Job{Id: "mem-1", Status: jobModel.JobStatusPending, Progress: []string{"job created"}}
	if err := jobStore.SaveJob(ctx, seeded); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	retrieved, found := jobStore.GetJob(ctx, "mem-1")
	if !found {
		t.Fatal("saved job not found")
	}

	// mutating the returned copy must not leak into the store
	retrieved.Progress = append(retrieved.Progress, "tampered")
	again, _ := jobStore.GetJob(ctx, "mem-1")
	if len(again.Progress) != 1 {
		t.Error("store handed out a shared progress slice")
	}

	if err := jobStore.DeleteJob(ctx, "mem-1"); err != nil {
		t.Fatalf("DeleteJob failed: %v", err)
	}
	if _, found := jobStore.GetJob(ctx, "mem-1"); found {
		t.Error("job survived deletion")
	}
}

func TestRedisJobStore_Race(t *testing.T) {
	jobStore := newRedisJobStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
}
