package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ritvikra/PDFEmbedder/internal/config"
	"github.com/ritvikra/PDFEmbedder/internal/customHttpClient"
	"github.com/ritvikra/PDFEmbedder/internal/metrics"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

// The pdf processor treats these as enrichment failures: it substitutes
// simulated page text instead of failing the job.
var (
	ErrUnavailable = errors.New("ocr service unavailable")
	ErrTimeout     = errors.New("ocr call timed out")
)

// Client talks to the ocr service: POST raw jpeg bytes -> {"text": ...}.
type Client struct {
	serviceURL string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logger_i.Logger
}

type ocrResponse struct {
	Text string `json:"text"`
}

func NewClient() *Client {
	return &Client{
		serviceURL: config.OcrServiceURL,
		timeout:    config.OcrCallTimeout,
		httpClient: customHttpClient.GetPooledClient(),
		logger:     logger_i.NewLogger("OCR"),
	}
}

func NewTestClient(serviceURL string, timeout time.Duration, httpClient *http.Client) *Client {
	return &Client{
		serviceURL: serviceURL,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger_i.NewLogger("test ocr"),
	}
}

// Recognize extracts text from one page image. The timeout is bounded
// per call so a stuck service cannot stall a multi-page job forever.
func (c *Client) Recognize(ctx context.Context, imageBytes []byte) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.serviceURL, bytes.NewReader(imageBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.CaptureDependencyLatency("ocr", time.Since(start))

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed ocrResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: bad payload", ErrUnavailable)
	}
	return parsed.Text, nil
}
