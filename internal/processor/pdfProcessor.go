package processor

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ritvikra/PDFEmbedder/internal/customHttpClient"
	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

// OcrClient reads one page image. Failures here never fail the job, the
// processor substitutes simulated page text instead.
type OcrClient interface {
	Recognize(ctx context.Context, imageBytes []byte) (string, error)
}

type PdfProcessor struct {
	persister  JobPersister
	docStore   docModel.DocumentStore
	embedder   Embedder
	ocr        OcrClient
	renderer   PageRenderer
	indexer    VectorIndexer
	httpClient *http.Client
	logger     *logger_i.Logger
}

func NewPdfProcessor(persister JobPersister, docStore docModel.DocumentStore, embedder Embedder, ocrClient OcrClient, renderer PageRenderer, indexer VectorIndexer) *PdfProcessor {
	return &PdfProcessor{
		persister:  persister,
		docStore:   docStore,
		embedder:   embedder,
		ocr:        ocrClient,
		renderer:   renderer,
		indexer:    indexer,
		httpClient: customHttpClient.GetPooledClient(),
		logger:     logger_i.NewLogger("PdfProcessor"),
	}
}

func (p *PdfProcessor) Process(ctx context.Context, job *jobModel.Job) (docModel.Document, error) {
	log := p.logger.With("job Id", job.Id, "url", job.Url)

	if err := milestone(ctx, p.persister, job, "Fetching PDF document"); err != nil {
		return docModel.Document{}, err
	}

	pdfBytes, err := fetchURL(ctx, p.httpClient, job.Url)
	if err != nil {
		return docModel.Document{}, err
	}

	if err := milestone(ctx, p.persister, job, "Loading PDF document"); err != nil {
		return docModel.Document{}, err
	}

	tempDir, err := os.MkdirTemp("", "pdf-")
	if err != nil {
		return docModel.Document{}, err
	}
	// best-effort cleanup on every exit path, a leftover dir is logged,
	// never fatal
	defer func() {
		if rmErr := os.RemoveAll(tempDir); rmErr != nil {
			log.Error("Error cleaning up temporary files", "dir", tempDir, "error", rmErr)
		}
	}()

	pdfPath := filepath.Join(tempDir, "document.pdf")
	if err = os.WriteFile(pdfPath, pdfBytes, 0640); err != nil {
		return docModel.Document{}, err
	}

	numPages, err := p.renderer.PageCount(pdfPath)
	if err != nil {
		return docModel.Document{}, err
	}
	log.Debug("pdf loaded", "pages", numPages)

	if err := milestone(ctx, p.persister, job, "Converting PDF pages to images"); err != nil {
		return docModel.Document{}, err
	}

	images, err := p.renderer.RenderPages(pdfPath, filepath.Join(tempDir, "output"), numPages)
	if err != nil {
		return docModel.Document{}, err
	}

	// a zero-page pdf completes normally with an empty document
	pages := make([]docModel.Page, 0, numPages)
	chunks := make([]string, 0, numPages)
	pageNumbers := make([]int, 0, numPages)

	for i := 1; i <= numPages; i++ {
		if err := milestone(ctx, p.persister, job, fmt.Sprintf("Processing page %d of %d", i, numPages)); err != nil {
			return docModel.Document{}, err
		}

		pageText, note := p.recognizePage(ctx, job, images[i], i)
		if err := milestone(ctx, p.persister, job, note); err != nil {
			return docModel.Document{}, err
		}

		pages = append(pages, docModel.Page{
			PageNumber: i,
			Text:       pageText,
			ImageUrl:   imageDataURI(images[i]),
		})
		chunks = append(chunks, fmt.Sprintf("Page %d: %s", i, pageText))
		pageNumbers = append(pageNumbers, i)
	}

	if err := milestone(ctx, p.persister, job, "Generating embeddings for chunks"); err != nil {
		return docModel.Document{}, err
	}

	// results come back in chunk order, so stamping by index pairs each
	// embedding with the page its chunk came from
	chunkObjects := p.embedder.GetEmbeddings(ctx, chunks)
	for i := range chunkObjects {
		chunkObjects[i].PageNumber = pageNumbers[i]
	}

	if err := milestone(ctx, p.persister, job, "Saving document"); err != nil {
		return docModel.Document{}, err
	}

	now := time.Now()
	doc := docModel.Document{
		Id:            uuid.New().String(),
		JobId:         job.Id,
		Title:         fmt.Sprintf("PDF Document from %s", job.Url),
		Url:           job.Url,
		Type:          jobModel.JobTypePdf,
		Content:       base64.StdEncoding.EncodeToString(pdfBytes),
		ExtractedText: joinPageTexts(pages),
		Chunks:        chunks,
		ChunkObjects:  chunkObjects,
		Pages:         pages,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := p.docStore.SaveDocument(ctx, doc); err != nil {
		return docModel.Document{}, err
	}

	if p.indexer != nil {
		if err := p.indexer.IndexDocument(ctx, doc); err != nil {
			log.Warn("vector indexing failed, document is persisted without it", "error", err)
		}
	}

	job.Status = jobModel.JobStatusDone
	if err := milestone(ctx, p.persister, job, "Processing complete"); err != nil {
		return docModel.Document{}, err
	}
	log.Debug("pdf job complete", "pages", numPages)
	return doc, nil
}

// recognizePage runs ocr on one page image and returns the page text
// plus the progress note describing what happened. Missing images and
// ocr failures both degrade to deterministic simulated text.
func (p *PdfProcessor) recognizePage(ctx context.Context, job *jobModel.Job, image []byte, pageNumber int) (string, string) {
	if len(image) > 0 {
		text, err := p.ocr.Recognize(ctx, image)
		if err == nil {
			return text, fmt.Sprintf("OCR completed for page %d", pageNumber)
		}
		p.logger.Warn("ocr failed for page", "page", pageNumber, "error", err)
	}
	fallback := fmt.Sprintf("Simulated OCR text for page %d of the document at %s.", pageNumber, job.Url)
	return fallback, fmt.Sprintf("OCR failed for page %d, using simulated text", pageNumber)
}

func imageDataURI(image []byte) string {
	if len(image) == 0 {
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
}

func joinPageTexts(pages []docModel.Page) string {
	texts := make([]string, len(pages))
	for i, page := range pages {
		texts[i] = page.Text
	}
	return strings.Join(texts, "\n\n")
}
