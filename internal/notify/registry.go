package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/metrics"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

// Observer is one live connection interested in a job's updates.
type Observer interface {
	IsOpen() bool
	Send(payload []byte) error
}

// SnapshotLoader fetches the current job joined with its documents.
// Injected by main so the registry never imports the job service.
type SnapshotLoader func(ctx context.Context, jobId string) (docModel.Snapshot, error)

// Registry maps job ids to the observers watching them. It is the one
// structure mutated concurrently by unrelated flows: jobs publish while
// connections subscribe, unsubscribe and drop.
type Registry struct {
	mu            sync.RWMutex
	subscriptions map[string]map[Observer]struct{}
	loadSnapshot  SnapshotLoader
	logger        *logger_i.Logger
}

func NewRegistry(loader SnapshotLoader) *Registry {
	return &Registry{
		subscriptions: make(map[string]map[Observer]struct{}),
		loadSnapshot:  loader,
		logger:        logger_i.NewLogger("NotifyRegistry"),
	}
}

func (r *Registry) Subscribe(jobId string, obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, exists := r.subscriptions[jobId]
	if !exists {
		entry = make(map[Observer]struct{})
		r.subscriptions[jobId] = entry
	}
	entry[obs] = struct{}{}
}

// Unsubscribe drops the observer; the jobId entry itself is removed when
// it empties so the map does not accumulate stale keys.
func (r *Registry) Unsubscribe(jobId string, obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(jobId, obs)
}

// OnDisconnect removes the observer from every entry it appears under.
// Covers connections that drop without sending an unsubscribe.
func (r *Registry) OnDisconnect(obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for jobId := range r.subscriptions {
		r.removeLocked(jobId, obs)
	}
}

func (r *Registry) removeLocked(jobId string, obs Observer) {
	entry, exists := r.subscriptions[jobId]
	if !exists {
		return
	}
	delete(entry, obs)
	if len(entry) == 0 {
		delete(r.subscriptions, jobId)
	}
}

// Publish sends the job's current snapshot to every open observer
// registered under jobId. Delivery is best effort and at most once per
// publish: closed observers are skipped, failed sends are not retried.
func (r *Registry) Publish(ctx context.Context, jobId string) {
	observers := r.observersFor(jobId)
	if len(observers) == 0 {
		return
	}

	snapshot, err := r.loadSnapshot(ctx, jobId)
	if err != nil {
		//job may have been deleted between the save and this publish
		r.logger.Debug("skipping publish, snapshot unavailable", "jobId", jobId, "error", err)
		return
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		r.logger.Error("could not serialize snapshot", "jobId", jobId, "error", err)
		return
	}

	for _, obs := range observers {
		if !obs.IsOpen() {
			continue
		}
		if err := obs.Send(payload); err != nil {
			r.logger.Debug("observer send failed", "jobId", jobId, "error", err)
			continue
		}
		metrics.IncrementNotificationsSent()
	}
}

// observersFor copies the entry under the read lock so Publish can send
// without holding the lock while observers unsubscribe concurrently.
func (r *Registry) observersFor(jobId string) []Observer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry := r.subscriptions[jobId]
	observers := make([]Observer, 0, len(entry))
	for obs := range entry {
		observers = append(observers, obs)
	}
	return observers
}

// SubscriberCount exists for tests and the ws handler's debug logging.
func (r *Registry) SubscriberCount(jobId string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscriptions[jobId])
}
