package vectorDB

import (
	"context"

	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
)

// Indexer mirrors what the processors need: push one document's chunk
// embeddings into a retrieval index after the document persists.
type Indexer interface {
	IndexDocument(ctx context.Context, doc docModel.Document) error
}
