package processor

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ritvikra/PDFEmbedder/internal/customHttpClient"
	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
	"golang.org/x/net/html"
)

const defaultTitle = "Untitled Document"

type HtmlProcessor struct {
	persister  JobPersister
	docStore   docModel.DocumentStore
	embedder   Embedder
	indexer    VectorIndexer
	httpClient *http.Client
	logger     *logger_i.Logger
}

func NewHtmlProcessor(persister JobPersister, docStore docModel.DocumentStore, embedder Embedder, indexer VectorIndexer) *HtmlProcessor {
	return &HtmlProcessor{
		persister:  persister,
		docStore:   docStore,
		embedder:   embedder,
		indexer:    indexer,
		httpClient: customHttpClient.GetPooledClient(),
		logger:     logger_i.NewLogger("HtmlProcessor"),
	}
}

func (p *HtmlProcessor) Process(ctx context.Context, job *jobModel.Job) (docModel.Document, error) {
	log := p.logger.With("job Id", job.Id, "url", job.Url)

	if err := milestone(ctx, p.persister, job, "Fetching HTML document"); err != nil {
		return docModel.Document{}, err
	}

	raw, err := fetchURL(ctx, p.httpClient, job.Url)
	if err != nil {
		return docModel.Document{}, err
	}

	if err := milestone(ctx, p.persister, job, "Parsing HTML document"); err != nil {
		return docModel.Document{}, err
	}

	root, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return docModel.Document{}, err
	}

	title := extractTitle(root)
	cleanedText := collapseWhitespace(extractBodyText(root))

	if err := milestone(ctx, p.persister, job, "Creating text chunks"); err != nil {
		return docModel.Document{}, err
	}

	// one chunk per paragraph; pages without paragraph markup fall back
	// to a single chunk holding the whole body text
	chunks := extractParagraphs(root)
	if len(chunks) == 0 {
		chunks = []string{cleanedText}
	}

	if err := milestone(ctx, p.persister, job, "Generating embeddings for chunks"); err != nil {
		return docModel.Document{}, err
	}

	chunkObjects := p.embedder.GetEmbeddings(ctx, chunks)

	if err := milestone(ctx, p.persister, job, "Saving document"); err != nil {
		return docModel.Document{}, err
	}

	now := time.Now()
	doc := docModel.Document{
		Id:            uuid.New().String(),
		JobId:         job.Id,
		Title:         title,
		Url:           job.Url,
		Type:          jobModel.JobTypeHtml,
		Content:       string(raw),
		ExtractedText: cleanedText,
		Chunks:        chunks,
		ChunkObjects:  chunkObjects,
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
	log.Debug("html job complete", "chunks", len(chunks))
	return doc, nil
}

func extractTitle(root *html.Node) string {
	node := findElement(root, "title")
	if node == nil {
		return defaultTitle
	}
	title := strings.TrimSpace(nodeText(node))
	if title == "" {
		return defaultTitle
	}
	return title
}

func extractBodyText(root *html.Node) string {
	body := findElement(root, "body")
	if body == nil {
		return ""
	}
	return nodeText(body)
}

func extractParagraphs(root *html.Node) []string {
	var paragraphs []string
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			paragraphs = append(paragraphs, strings.TrimSpace(collapseWhitespace(nodeText(n))))
		}
	})
	return paragraphs
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// nodeText flattens every text node under n, skipping script and style
// bodies which are code, not content.
func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(node *html.Node) {
		if node.Type == html.TextNode {
			parent := node.Parent
			if parent != nil && parent.Type == html.ElementNode && (parent.Data == "script" || parent.Data == "style") {
				return
			}
			b.WriteString(node.Data)
			b.WriteString(" ")
		}
	})
	return b.String()
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
