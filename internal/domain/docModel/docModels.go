package docModel

import (
	"context"
	"time"

	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
)

// ChunkObject pairs a chunk's text with its embedding. PageNumber is
// 1-based and only meaningful for pdf documents.
type ChunkObject struct {
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding"`
	PageNumber int       `json:"pageNumber"`
}

type Page struct {
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
	ImageUrl   string `json:"imageUrl"`
}

// Document is the persisted extraction result of one successful job.
// Created exactly once at the end of a processing run, never mutated after.
type Document struct {
	Id            string            `json:"id"`
	JobId         string            `json:"jobId"`
	Title         string            `json:"title"`
	Url           string            `json:"url"`
	Type          jobModel.JobType  `json:"type"`
	Content       string            `json:"content"`
	ExtractedText string            `json:"extractedText"`
	Chunks        []string          `json:"chunks"` //legacy format
	ChunkObjects  []ChunkObject     `json:"chunkObjects"`
	Pages         []Page            `json:"pages,omitempty"` //pdf only
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, docId string) (Document, bool)
	DeleteDocument(ctx context.Context, docId string) error
	ListDocuments(ctx context.Context) ([]Document, error)
	ListDocumentsByJobId(ctx context.Context, jobId string) ([]Document, error)
	ListDocumentsByType(ctx context.Context, jobType jobModel.JobType) ([]Document, error)
	ListDocumentsByUrl(ctx context.Context, url string) ([]Document, error)
	// SearchDocuments does a case-insensitive substring match on ExtractedText.
	SearchDocuments(ctx context.Context, query string) ([]Document, error)
	DeleteDocumentsByJobId(ctx context.Context, jobId string) error
}

// Snapshot is the full representation of a job plus its joined documents,
// as returned by api reads and pushed to subscribed observers.
type Snapshot struct {
	jobModel.Job
	Documents []Document `json:"documents"`
}
