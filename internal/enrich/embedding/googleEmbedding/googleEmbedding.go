package googleEmbedding

import (
	"context"
	"sync"
	"time"

	"github.com/ritvikra/PDFEmbedder/internal/config"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	logger          *logger_i.Logger
	once            sync.Once
	embeddingClient *client
	dimension       = config.EmbeddingDimension
)

// client is an alternative embedding provider for deployments that have
// API access instead of a local embed service. It satisfies the same
// Provider interface the http client does.
type client struct {
	genAi *genai.Client
	model string
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) *client {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return
	}
	embeddingClient = &client{
		genAi: c,
		model: modelName,
	}
	logger.Info("Google Embedding client created", "model", modelName)
	go closeClient(ctx, embeddingClient)
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	result, err := c.doCall(ctx, genai.Text(text))
	if err != nil {
		if doRetry(err) {
			logger.Debug("Rate limit hit, retrying in 5 seconds")
			time.Sleep(5 * time.Second)
			result, err = c.doCall(ctx, genai.Text(text))
		}
		if err != nil {
			logger.Error("Error getting Embedding from Google", "error", err.Error())
			return nil, err
		}
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
}

func doRetry(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}
