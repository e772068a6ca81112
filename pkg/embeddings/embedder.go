// Package embeddings defines the embedding provider used to turn article text
// and queries into vectors.
package embeddings

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmbedding wraps every failure to produce an embedding.
var ErrEmbedding = errors.New("embedding failed")

// Embedder turns text into a vector. Credentials and endpoint are fixed at
// construction.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// StatusError is a non-200 reply from an embedding API.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Code, e.Body)
}

// Unwrap makes errors.Is(err, ErrEmbedding) hold for status errors.
func (e *StatusError) Unwrap() error {
	return ErrEmbedding
}
