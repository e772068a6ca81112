// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"github.com/papercomputeco/newsvec/pkg/embeddings"
	"github.com/papercomputeco/newsvec/pkg/embeddings/ollama"
	"github.com/papercomputeco/newsvec/pkg/embeddings/openai"
)

// Supported embedding providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case ProviderOpenAI:
		return openai.NewEmbedder(openai.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  o.APIKey,
		})
	case ProviderOllama:
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}

// DefaultModel returns the model a provider uses when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return openai.DefaultEmbeddingModel
	case ProviderOllama:
		return ollama.DefaultEmbeddingModel
	default:
		return ""
	}
}

// DefaultDimensions returns the embedding size of a provider's default model.
func DefaultDimensions(provider string) uint {
	switch provider {
	case ProviderOpenAI:
		return openai.DefaultDimensions
	case ProviderOllama:
		return ollama.DefaultDimensions
	default:
		return 0
	}
}
