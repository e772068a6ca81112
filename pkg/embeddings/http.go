package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/papercomputeco/newsvec/pkg/utils"
)

// maxErrorBody caps how much of a failed response is kept in a StatusError.
const maxErrorBody = 4 << 10

// JSONClient posts JSON requests to an embedding API.
type JSONClient struct {
	provider string
	header   http.Header
	client   *http.Client
}

// NewJSONClient returns a client that sends header with every request.
func NewJSONClient(provider string, timeout time.Duration, header http.Header) *JSONClient {
	h := header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Content-Type", "application/json")
	h.Set("User-Agent", utils.UserAgent())

	return &JSONClient{
		provider: provider,
		header:   h,
		client:   &http.Client{Timeout: timeout},
	}
}

// Post sends in as JSON to url and decodes the reply into out. Every error
// wraps ErrEmbedding.
func (c *JSONClient) Post(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: marshaling request: %w", ErrEmbedding, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: creating request: %w", ErrEmbedding, err)
	}
	req.Header = c.header.Clone()

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending request to %s: %w", ErrEmbedding, c.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Provider: c.provider, Code: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", ErrEmbedding, c.provider, err)
	}
	return nil
}
