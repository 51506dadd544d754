package embedding

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ritvikra/PDFEmbedder/internal/config"
	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/metrics"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

// Provider turns a single text into a vector. Implementations live in
// httpEmbedding (the local embed service) and googleEmbedding.
type Provider interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Service fans a batch of texts out to the provider and never fails:
// a text whose embedding call errors or times out gets a pseudo-random
// fallback vector instead, so chunk and embedding counts always line up.
// A dead embedding service degrades quality, it does not block ingestion.
type Service struct {
	provider  Provider
	dimension int
	timeout   time.Duration
	logger    *logger_i.Logger
}

func NewService(provider Provider) *Service {
	return &Service{
		provider:  provider,
		dimension: int(config.EmbeddingDimension),
		timeout:   config.EmbeddingCallTimeout,
		logger:    logger_i.NewLogger("Embedding"),
	}
}

// GetEmbeddings embeds each text independently and assembles the results
// by index, so the output order always matches the input order no matter
// how the individual calls complete.
func (s *Service) GetEmbeddings(ctx context.Context, texts []string) []docModel.ChunkObject {
	results := make([]docModel.ChunkObject, len(texts))

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(slot int, chunk string) {
			defer wg.Done()
			results[slot] = docModel.ChunkObject{
				Text:      chunk,
				Embedding: s.embedOne(ctx, chunk),
			}
		}(i, text)
	}
	wg.Wait()

	return results
}

func (s *Service) embedOne(ctx context.Context, text string) []float32 {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	vector, err := s.provider.GetEmbedding(callCtx, text)
	metrics.CaptureDependencyLatency("embedding", time.Since(start))

	if err != nil {
		s.logger.Warn("embedding call failed, substituting fallback vector", "error", err)
		metrics.IncrementEmbeddingFallbacks()
		return s.fallbackVector()
	}
	return vector
}

// fallbackVector is uniform noise in [-1, 1] at the configured length.
func (s *Service) fallbackVector() []float32 {
	vector := make([]float32, s.dimension)
	for i := range vector {
		vector[i] = rand.Float32()*2 - 1
	}
	return vector
}

// Dimension reports the vector length fallbacks are generated at.
func (s *Service) Dimension() int {
	return s.dimension
}
