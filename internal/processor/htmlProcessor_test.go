package processor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
)

// --- Mocks shared by the processor tests ---

// recordingPersister collects every milestone in order.
type recordingPersister struct {
	entries []string
}

func (r *recordingPersister) PersistJob(ctx context.Context, j *jobModel.Job) error {
	if len(j.Progress) > 0 {
		r.entries = append(r.entries, j.Progress[len(j.Progress)-1])
	}
	return nil
}

type mockDocStore struct {
	saved []docModel.Document
}

func (m *mockDocStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	m.saved = append(m.saved, doc)
	return nil
}
func (m *mockDocStore) GetDocument(ctx context.Context, docId string) (docModel.Document, bool) {
	return docModel.Document{}, false
}
func (m *mockDocStore) DeleteDocument(ctx context.Context, docId string) error { return nil }
func (m *mockDocStore) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	return m.saved, nil
}
func (m *mockDocStore) ListDocumentsByJobId(ctx context.Context, jobId string) ([]docModel.Document, error) {
	return nil, nil
}
func (m *mockDocStore) ListDocumentsByType(ctx context.Context, jobType jobModel.JobType) ([]docModel.Document, error) {
	return nil, nil
}
func (m *mockDocStore) ListDocumentsByUrl(ctx context.Context, url string) ([]docModel.Document, error) {
	return nil, nil
}
func (m *mockDocStore) SearchDocuments(ctx context.Context, query string) ([]docModel.Document, error) {
	return nil, nil
}
func (m *mockDocStore) DeleteDocumentsByJobId(ctx context.Context, jobId string) error { return nil }

// fixedEmbedder returns a tiny deterministic vector per chunk.
type fixedEmbedder struct{}

func (fixedEmbedder) GetEmbeddings(ctx context.Context, texts []string) []docModel.ChunkObject {
	objects := make([]docModel.ChunkObject, len(texts))
	for i, text := range texts {
		objects[i] = docModel.ChunkObject{Text: text, Embedding: []float32{float32(i)}}
	}
	return objects
}

type failingIndexer struct{ calls int }

func (f *failingIndexer) IndexDocument(ctx context.Context, doc docModel.Document) error {
	f.calls++
	return fmt.Errorf("vector db down")
}

func newHtmlJob(url string) *jobModel.Job {
	return &jobModel.Job{
		Id:       "html-job",
		Url:      url,
		Type:     jobModel.JobTypeHtml,
		Status:   jobModel.JobStatusProcessing,
		Progress: []string{"job created"},
	}
}

// --- Tests ---

const samplePage = `<html><head><title>  Release Notes  </title></head>
<body>
<script>var tracking = true;</script>
<h1>Release Notes</h1>
<p>First paragraph with details.</p>
<p>Second   paragraph,
spread over lines.</p>
</body></html>`

func TestHtmlProcessor_Process(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	persister := &recordingPersister{}
	docStore := &mockDocStore{}
	p := NewHtmlProcessor(persister, docStore, fixedEmbedder{}, nil)
	p.httpClient = srv.Client()

	job := newHtmlJob(srv.URL)
	doc, err := p.Process(context.Background(), job)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if job.Status != jobModel.JobStatusDone {
		t.Errorf("job status = %s, want done", job.Status)
	}
	if doc.Title != "Release Notes" {
		t.Errorf("title = %q, want trimmed page title", doc.Title)
	}
	if doc.Type != jobModel.JobTypeHtml || doc.JobId != job.Id || doc.Url != srv.URL {
		t.Errorf("document identity fields wrong: %+v", doc)
	}
	if !strings.Contains(doc.Content, "<h1>") {
		t.Error("raw markup should be kept in Content")
	}
	if strings.Contains(doc.ExtractedText, "tracking") {
		t.Error("script bodies must not leak into extracted text")
	}
	if strings.Contains(doc.ExtractedText, "\n") || strings.Contains(doc.ExtractedText, "  ") {
		t.Errorf("extracted text not whitespace-collapsed: %q", doc.ExtractedText)
	}

	wantChunks := []string{"First paragraph with details.", "Second paragraph, spread over lines."}
	if len(doc.Chunks) != len(wantChunks) {
		t.Fatalf("chunks = %v, want one per paragraph", doc.Chunks)
	}
	for i, want := range wantChunks {
		if doc.Chunks[i] != want {
			t.Errorf("chunk %d = %q, want %q", i, doc.Chunks[i], want)
		}
	}
	if len(doc.ChunkObjects) != len(doc.Chunks) {
		t.Errorf("chunkObjects = %d, chunks = %d, counts must match", len(doc.ChunkObjects), len(doc.Chunks))
	}
	for i, obj := range doc.ChunkObjects {
		if obj.Text != doc.Chunks[i] {
			t.Errorf("chunkObject %d text mismatch: %q vs %q", i, obj.Text, doc.Chunks[i])
		}
	}

	if len(docStore.saved) != 1 {
		t.Fatalf("documents saved = %d, want exactly 1", len(docStore.saved))
	}

	wantMilestones := []string{
		"Fetching HTML document",
		"Parsing HTML document",
		"Creating text chunks",
		"Generating embeddings for chunks",
		"Saving document",
		"Processing complete",
	}
	if len(persister.entries) != len(wantMilestones) {
		t.Fatalf("milestones = %v", persister.entries)
	}
	for i, want := range wantMilestones {
		if persister.entries[i] != want {
			t.Errorf("milestone %d = %q, want %q", i, persister.entries[i], want)
		}
	}
}

func TestHtmlProcessor_NoParagraphsFallsBackToOneChunk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div>Just a block of text.</div></body></html>`)
	}))
	defer srv.Close()

	p := NewHtmlProcessor(&recordingPersister{}, &mockDocStore{}, fixedEmbedder{}, nil)
	p.httpClient = srv.Client()

	doc, err := p.Process(context.Background(), newHtmlJob(srv.URL))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(doc.Chunks) != 1 || doc.Chunks[0] != "Just a block of text." {
		t.Errorf("chunks = %v, want the whole body as one chunk", doc.Chunks)
	}
	if doc.Title != defaultTitle {
		t.Errorf("title = %q, want %q for a page without one", doc.Title, defaultTitle)
	}
}

func TestHtmlProcessor_FetchFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	job := newHtmlJob(srv.URL)
	p := NewHtmlProcessor(&recordingPersister{}, &mockDocStore{}, fixedEmbedder{}, nil)
	p.httpClient = srv.Client()

	if _, err := p.Process(context.Background(), job); err == nil {
		t.Fatal("expected a fetch error for a 404 page")
	}
	if job.Status == jobModel.JobStatusDone {
		t.Error("failed run must not mark the job done")
	}
}

func TestHtmlProcessor_IndexerFailureDoesNotFailJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	indexer := &failingIndexer{}
	job := newHtmlJob(srv.URL)
	p := NewHtmlProcessor(&recordingPersister{}, &mockDocStore{}, fixedEmbedder{}, indexer)
	p.httpClient = srv.Client()

	if _, err := p.Process(context.Background(), job); err != nil {
		t.Fatalf("indexing failure must not fail the job: %v", err)
	}
	if indexer.calls != 1 {
		t.Errorf("indexer calls = %d, want 1", indexer.calls)
	}
	if job.Status != jobModel.JobStatusDone {
		t.Errorf("job status = %s, want done", job.Status)
	}
}
