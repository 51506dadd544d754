package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
)

type InMemoryDocumentStore struct {
	docMutex *sync.RWMutex
	docMap   map[string]docModel.Document
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docMutex: new(sync.RWMutex),
		docMap:   make(map[string]docModel.Document),
	}
}

func (store *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	store.docMap[doc.Id] = doc
	return nil
}

func (store *InMemoryDocumentStore) GetDocument(ctx context.Context, docId string) (docModel.Document, bool) {
	store.docMutex.RLock()
	defer store.docMutex.RUnlock()
	result, found := store.docMap[docId]
	return result, found
}

func (store *InMemoryDocumentStore) DeleteDocument(ctx context.Context, docId string) error {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	delete(store.docMap, docId)
	return nil
}

func (store *InMemoryDocumentStore) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	return store.list(func(docModel.Document) bool { return true })
}

func (store *InMemoryDocumentStore) ListDocumentsByJobId(ctx context.Context, jobId string) ([]docModel.Document, error) {
	return store.list(func(d docModel.Document) bool { return d.JobId == jobId })
}

func (store *InMemoryDocumentStore) ListDocumentsByType(ctx context.Context, jobType jobModel.JobType) ([]docModel.Document, error) {
	return store.list(func(d docModel.Document) bool { return d.Type == jobType })
}

func (store *InMemoryDocumentStore) ListDocumentsByUrl(ctx context.Context, url string) ([]docModel.Document, error) {
	return store.list(func(d docModel.Document) bool { return d.Url == url })
}

func (store *InMemoryDocumentStore) SearchDocuments(ctx context.Context, query string) ([]docModel.Document, error) {
	needle := strings.ToLower(query)
	return store.list(func(d docModel.Document) bool {
		return strings.Contains(strings.ToLower(d.ExtractedText), needle)
	})
}

func (store *InMemoryDocumentStore) DeleteDocumentsByJobId(ctx context.Context, jobId string) error {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	for id, d := range store.docMap {
		if d.JobId == jobId {
			delete(store.docMap, id)
		}
	}
	return nil
}

func (store *InMemoryDocumentStore) list(keep func(docModel.Document) bool) ([]docModel.Document, error) {
	store.docMutex.RLock()
	defer store.docMutex.RUnlock()
	var docs []docModel.Document
	for _, d := range store.docMap {
		if keep(d) {
			docs = append(docs, d)
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}
