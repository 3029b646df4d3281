package options

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxOptionsBody caps how much of an options response is read.
const maxOptionsBody = 1 << 20

// HTTPSupplier fetches a JSON array of options with a GET request. A "{name}"
// placeholder in URL is replaced by the collection name.
type HTTPSupplier struct {
	URL     string
	Client  *http.Client
	Headers map[string]string
}

// HTTP returns an HTTPSupplier using http.DefaultClient.
func HTTP(url string) *HTTPSupplier {
	return &HTTPSupplier{URL: url}
}

// Load implements Supplier.
func (h *HTTPSupplier) Load(ctx context.Context, collection string) ([]Option, error) {
	if h == nil || strings.TrimSpace(h.URL) == "" {
		return nil, errors.New("options: http url is required")
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	url := strings.ReplaceAll(h.URL, "{name}", collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("options: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("options: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("options: fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxOptionsBody))
	if err != nil {
		return nil, fmt.Errorf("options: read %s: %w", url, err)
	}
	return DecodeJSON(body)
}
