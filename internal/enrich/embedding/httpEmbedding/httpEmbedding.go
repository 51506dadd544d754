package httpEmbedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ritvikra/PDFEmbedder/internal/config"
	"github.com/ritvikra/PDFEmbedder/internal/customHttpClient"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

// Client talks to the local embedding service:
// POST {"text": ...} -> {"embedding": [...]}.
type Client struct {
	serviceURL string
	httpClient *http.Client
	logger     *logger_i.Logger
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func NewClient() *Client {
	return &Client{
		serviceURL: config.EmbeddingServiceURL,
		httpClient: customHttpClient.GetPooledClient(),
		logger:     logger_i.NewLogger("HttpEmbedding"),
	}
}

func NewTestClient(serviceURL string, httpClient *http.Client) *Client {
	return &Client{
		serviceURL: serviceURL,
		httpClient: httpClient,
		logger:     logger_i.NewLogger("test embedding"),
	}
}

func (c *Client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}

	var parsed embedResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("embedding service returned bad payload: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("embedding service returned empty vector")
	}
	return parsed.Embedding, nil
}
