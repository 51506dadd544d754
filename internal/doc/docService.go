package doc

import (
	"context"
	"fmt"

	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

// Service is the read side over persisted documents, plus the delete
// that removes a document together with its owning job.
type Service struct {
	DocumentStore docModel.DocumentStore
	JobStore      jobModel.JobStore
	logger        *logger_i.Logger
}

// DocumentWithJob pairs a document with the job that produced it.
type DocumentWithJob struct {
	Document docModel.Document `json:"document"`
	Job      *jobModel.Job     `json:"job,omitempty"`
}

func InitDocService(documentStore docModel.DocumentStore, jobStore jobModel.JobStore) *Service {
	return &Service{
		DocumentStore: documentStore,
		JobStore:      jobStore,
		logger:        logger_i.NewLogger("DocService"),
	}
}

func (s *Service) GetDocumentById(ctx context.Context, docId string) (docModel.Document, error) {
	document, found := s.DocumentStore.GetDocument(ctx, docId)
	if !found {
		return docModel.Document{}, fmt.Errorf("document %s: %w", docId, jobModel.ErrDocumentNotFound)
	}
	return document, nil
}

func (s *Service) GetAllDocuments(ctx context.Context) ([]docModel.Document, error) {
	return s.DocumentStore.ListDocuments(ctx)
}

func (s *Service) GetDocumentsByJobId(ctx context.Context, jobId string) ([]docModel.Document, error) {
	return s.DocumentStore.ListDocumentsByJobId(ctx, jobId)
}

func (s *Service) GetDocumentsByType(ctx context.Context, jobType jobModel.JobType) ([]docModel.Document, error) {
	return s.DocumentStore.ListDocumentsByType(ctx, jobType)
}

func (s *Service) GetDocumentsByUrl(ctx context.Context, url string) ([]docModel.Document, error) {
	return s.DocumentStore.ListDocumentsByUrl(ctx, url)
}

func (s *Service) GetDocumentChunks(ctx context.Context, docId string) ([]string, error) {
	document, err := s.GetDocumentById(ctx, docId)
	if err != nil {
		return nil, err
	}
	return document.Chunks, nil
}

// GetDocumentPages returns nil for html documents, which have no page
// concept.
func (s *Service) GetDocumentPages(ctx context.Context, docId string) ([]docModel.Page, error) {
	document, err := s.GetDocumentById(ctx, docId)
	if err != nil {
		return nil, err
	}
	if document.Type != jobModel.JobTypePdf {
		return nil, nil
	}
	return document.Pages, nil
}

func (s *Service) GetDocumentWithJob(ctx context.Context, docId string) (DocumentWithJob, error) {
	document, err := s.GetDocumentById(ctx, docId)
	if err != nil {
		return DocumentWithJob{}, err
	}

	result := DocumentWithJob{Document: document}
	if owner, found := s.JobStore.GetJob(ctx, document.JobId); found {
		result.Job = &owner
	}
	return result, nil
}

// SearchDocuments is a case-insensitive substring match over the
// flattened extracted text.
func (s *Service) SearchDocuments(ctx context.Context, query string) ([]docModel.Document, error) {
	return s.DocumentStore.SearchDocuments(ctx, query)
}

// DeleteDocument removes the document and its owning job. The bool
// reports whether the document existed.
func (s *Service) DeleteDocument(ctx context.Context, docId string) (bool, error) {
	document, found := s.DocumentStore.GetDocument(ctx, docId)
	if !found {
		return false, nil
	}
	if err := s.JobStore.DeleteJob(ctx, document.JobId); err != nil {
		return false, err
	}
	if err := s.DocumentStore.DeleteDocument(ctx, docId); err != nil {
		return false, err
	}
	s.logger.Info("document deleted", "doc Id", docId, "job Id", document.JobId)
	return true, nil
}
