// Package ollama implements embeddings.Embedder over Ollama's /api/embed.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/papercomputeco/newsvec/pkg/embeddings"
)

const (
	// DefaultEmbeddingModel is the default model used for embeddings.
	DefaultEmbeddingModel = "nomic-embed-text"

	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultDimensions is the embedding size of DefaultEmbeddingModel.
	DefaultDimensions = 768

	// local models can take a while to load on first use
	requestTimeout = 120 * time.Second
)

// EmbedderConfig holds configuration for the Ollama embedder.
type EmbedderConfig struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Model defaults to DefaultEmbeddingModel.
	Model string

	// KeepAlive is how long Ollama keeps the model loaded, e.g. "10m".
	// Empty uses the server default.
	KeepAlive string
}

// Embedder embeds article text with a local Ollama model.
type Embedder struct {
	url       string
	model     string
	keepAlive string
	client    *embeddings.JSONClient
}

type embedRequest struct {
	Model     string `json:"model"`
	Input     string `json:"input"`
	KeepAlive string `json:"keep_alive,omitempty"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewEmbedder creates an Ollama embedder.
func NewEmbedder(cfg EmbedderConfig) (*Embedder, error) {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}

	return &Embedder{
		url:       baseURL + "/api/embed",
		model:     model,
		keepAlive: cfg.KeepAlive,
		client:    embeddings.NewJSONClient("ollama", requestTimeout, nil),
	}, nil
}

// Embed returns the embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embedResponse
	err := e.client.Post(ctx, e.url, embedRequest{
		Model:     e.model,
		Input:     text,
		KeepAlive: e.keepAlive,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("%w: ollama returned no embeddings for model %s", embeddings.ErrEmbedding, e.model)
	}
	return resp.Embeddings[0], nil
}

// Model returns the configured embedding model.
func (e *Embedder) Model() string {
	return e.model
}

func (e *Embedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
