package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
)

type mockObserver struct {
	open     bool
	payloads [][]byte
	sendErr  error
}

func (m *mockObserver) IsOpen() bool { return m.open }
func (m *mockObserver) Send(payload []byte) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.payloads = append(m.payloads, payload)
	return nil
}

func snapshotLoaderFor(jobs map[string]docModel.Snapshot) SnapshotLoader {
	return func(ctx context.Context, jobId string) (docModel.Snapshot, error) {
		snapshot, ok := jobs[jobId]
		if !ok {
			return docModel.Snapshot{}, fmt.Errorf("job %s: %w", jobId, jobModel.ErrJobNotFound)
		}
		return snapshot, nil
	}
}

func testSnapshot(jobId string, status jobModel.JobStatus) docModel.Snapshot {
	return docModel.Snapshot{
		Job:       jobModel.Job{Id: jobId, Status: status, Progress: []string{"job created"}},
		Documents: []docModel.Document{},
	}
}

func TestRegistry_PublishFansOut(t *testing.T) {
	jobs := map[string]docModel.Snapshot{"job-1": testSnapshot("job-1", jobModel.JobStatusProcessing)}
	registry := NewRegistry(snapshotLoaderFor(jobs))

	first := &mockObserver{open: true}
	second := &mockObserver{open: true}
	other := &mockObserver{open: true}
	registry.Subscribe("job-1", first)
	registry.Subscribe("job-1", second)
	registry.Subscribe("job-2", other)

	registry.Publish(context.Background(), "job-1")

	for i, obs := range []*mockObserver{first, second} {
		if len(obs.payloads) != 1 {
			t.Fatalf("observer %d received %d payloads, want 1", i, len(obs.payloads))
		}
		var snapshot docModel.Snapshot
		if err := json.Unmarshal(obs.payloads[0], &snapshot); err != nil {
			t.Fatalf("payload is not a snapshot: %v", err)
		}
		if snapshot.Id != "job-1" || snapshot.Status != jobModel.JobStatusProcessing {
			t.Errorf("payload snapshot = %+v", snapshot)
		}
		if snapshot.Documents == nil {
			t.Error("snapshot documents should serialize as an empty array")
		}
	}
	if len(other.payloads) != 0 {
		t.Errorf("observer of another job received %d payloads", len(other.payloads))
	}
}

func TestRegistry_UnsubscribeStopsDelivery(t *testing.T) {
	jobs := map[string]docModel.Snapshot{"job-1": testSnapshot("job-1", jobModel.JobStatusDone)}
	registry := NewRegistry(snapshotLoaderFor(jobs))

	obs := &mockObserver{open: true}
	registry.Subscribe("job-1", obs)
	registry.Unsubscribe("job-1", obs)

	registry.Publish(context.Background(), "job-1")
	if len(obs.payloads) != 0 {
		t.Errorf("unsubscribed observer received %d payloads", len(obs.payloads))
	}
	if registry.SubscriberCount("job-1") != 0 {
		t.Error("empty subscription entry should be removed")
	}
}

func TestRegistry_OnDisconnectRemovesEverywhere(t *testing.T) {
	jobs := map[string]docModel.Snapshot{
		"job-1": testSnapshot("job-1", jobModel.JobStatusDone),
		"job-2": testSnapshot("job-2", jobModel.JobStatusDone),
	}
	registry := NewRegistry(snapshotLoaderFor(jobs))

	obs := &mockObserver{open: true}
	registry.Subscribe("job-1", obs)
	registry.Subscribe("job-2", obs)
	registry.OnDisconnect(obs)

	registry.Publish(context.Background(), "job-1")
	registry.Publish(context.Background(), "job-2")
	if len(obs.payloads) != 0 {
		t.Errorf("disconnected observer received %d payloads", len(obs.payloads))
	}
}

func TestRegistry_SkipsClosedAndFailedObservers(t *testing.T) {
	jobs := map[string]docModel.Snapshot{"job-1": testSnapshot("job-1", jobModel.JobStatusDone)}
	registry := NewRegistry(snapshotLoaderFor(jobs))

	closed := &mockObserver{open: false}
	failing := &mockObserver{open: true, sendErr: fmt.Errorf("broken pipe")}
	healthy := &mockObserver{open: true}
	registry.Subscribe("job-1", closed)
	registry.Subscribe("job-1", failing)
	registry.Subscribe("job-1", healthy)

	// one bad observer must not block the others
	registry.Publish(context.Background(), "job-1")
	if len(closed.payloads) != 0 {
		t.Error("closed observer should be skipped")
	}
	if len(healthy.payloads) != 1 {
		t.Errorf("healthy observer received %d payloads, want 1", len(healthy.payloads))
	}
}

func TestRegistry_PublishUnknownJobIsNoop(t *testing.T) {
	registry := NewRegistry(snapshotLoaderFor(nil))

	obs := &mockObserver{open: true}
	registry.Subscribe("ghost-job", obs)

	// snapshot load fails, nothing is sent and nothing panics
	registry.Publish(context.Background(), "ghost-job")
	if len(obs.payloads) != 0 {
		t.Errorf("observer received %d payloads for a missing job", len(obs.payloads))
	}
}

func TestRegistry_PublishWithoutSubscribersSkipsLoad(t *testing.T) {
	loaded := false
	registry := NewRegistry(func(ctx context.Context, jobId string) (docModel.Snapshot, error) {
		loaded = true
		return docModel.Snapshot{}, nil
	})

	registry.Publish(context.Background(), "job-1")
	if loaded {
		t.Error("snapshot must not be loaded when nobody is subscribed")
	}
}
