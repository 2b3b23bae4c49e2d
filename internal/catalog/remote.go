package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDocumentBytes bounds the catalog body read from a remote source.
const maxDocumentBytes = 4 << 20

// ErrDocumentTooLarge reports a remote body over maxDocumentBytes.
var ErrDocumentTooLarge = errors.New("catalog document too large")

// HTTPProvider fetches the catalog document from a static URL.
type HTTPProvider struct {
	url        string
	httpClient *http.Client
	maxBytes   int64
}

var _ Provider = (*HTTPProvider)(nil)

func NewHTTPProvider(url string, httpClient *http.Client) *HTTPProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPProvider{
		url:        url,
		httpClient: httpClient,
		maxBytes:   maxDocumentBytes,
	}
}

func (p *HTTPProvider) Load(ctx context.Context) (Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Catalog{}, transportErr(p.url, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Catalog{}, transportErr(p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return Catalog{}, transportErr(p.url, fmt.Errorf("non-2xx status: %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		return Catalog{}, transportErr(p.url, err)
	}
	if int64(len(data)) > p.maxBytes {
		return Catalog{}, transportErr(p.url, fmt.Errorf("%w: over %d bytes", ErrDocumentTooLarge, p.maxBytes))
	}
	return Decode(p.url, data)
}
