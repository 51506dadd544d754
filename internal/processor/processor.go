package processor

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
)

// Processor runs one job to completion. It appends a progress entry and
// persists the job at every milestone (each persist triggers a broadcast),
// and either returns the created document or fails the job by returning
// an error. Only enrichment failures (ocr, embeddings) are absorbed with
// fallback content; everything else propagates.
type Processor interface {
	Process(ctx context.Context, job *jobModel.Job) (docModel.Document, error)
}

// JobPersister is how processors push milestones. Implemented by the job
// service, whose persist path also fires the notification callback.
type JobPersister interface {
	PersistJob(ctx context.Context, job *jobModel.Job) error
}

// Embedder is the batch embedding surface processors consume. It never
// fails, failed texts come back with fallback vectors.
type Embedder interface {
	GetEmbeddings(ctx context.Context, texts []string) []docModel.ChunkObject
}

// VectorIndexer is optional post-persist enrichment. A nil indexer or a
// failed upsert degrades retrieval only, never the job.
type VectorIndexer interface {
	IndexDocument(ctx context.Context, doc docModel.Document) error
}

func fetchURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading body of %s: %w", url, err)
	}
	return body, nil
}

// milestone appends one progress entry and persists, so observers see it
// before the next step starts.
func milestone(ctx context.Context, persister JobPersister, job *jobModel.Job, entry string) error {
	job.AppendProgress(entry)
	return persister.PersistJob(ctx, job)
}
