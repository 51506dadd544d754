package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/ritvikra/PDFEmbedder/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// GetPooledClient returns the shared client used for document fetches and
// the embed/ocr service calls. Per-call deadlines come from the caller's
// context, not from the client.
func GetPooledClient() *http.Client {
	once.Do(func() {
		client = &http.Client{
			Transport: customTransport,
		}
	})
	return client
}
