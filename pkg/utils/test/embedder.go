package testutils

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/papercomputeco/newsvec/pkg/embeddings"
)

// MockEmbedder is a test embedder that returns predictable embeddings
type MockEmbedder struct {
	mu sync.Mutex

	Embeddings map[string][]float32

	// Vocabulary, when set, turns any text into a keyword count vector with
	// one dimension per vocabulary word.
	Vocabulary []string

	// FailOn causes Embed to return an error when the input text matches
	FailOn string

	// Calls counts Embed invocations.
	Calls int
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
	}
}

// NewKeywordEmbedder creates a mock embedder over the given vocabulary.
func NewKeywordEmbedder(vocabulary ...string) *MockEmbedder {
	m := NewMockEmbedder()
	m.Vocabulary = vocabulary
	return m
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.FailOn != "" && strings.Contains(text, m.FailOn) {
		return nil, fmt.Errorf("%w: mock embedding failure for: %s", embeddings.ErrEmbedding, text)
	}

	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}

	if len(m.Vocabulary) > 0 {
		lower := strings.ToLower(text)
		emb := make([]float32, len(m.Vocabulary))
		for i, word := range m.Vocabulary {
			emb[i] = float32(strings.Count(lower, strings.ToLower(word)))
		}
		return emb, nil
	}

	// Return a default embedding for any text
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}
