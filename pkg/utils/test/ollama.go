package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
)

// OllamaServer is a fake Ollama API. /api/embed is answered by Embedder and
// /api/chat replies with Summary or Topics depending on the prompt.
type OllamaServer struct {
	*httptest.Server

	Embedder *MockEmbedder
	Summary  string
	Topics   string
}

// NewOllamaServer starts a fake Ollama API over the given embedder.
func NewOllamaServer(embedder *MockEmbedder) *OllamaServer {
	s := &OllamaServer{
		Embedder: embedder,
		Summary:  "A short summary.",
		Topics:   "news, testing",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/embed", s.handleEmbed)
	mux.HandleFunc("/api/chat", s.handleChat)
	s.Server = httptest.NewServer(mux)
	return s
}

func (s *OllamaServer) handleEmbed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	emb, err := s.Embedder.Embed(r.Context(), req.Input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{emb}})
}

func (s *OllamaServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reply := s.Summary
	for _, m := range req.Messages {
		if strings.Contains(m.Content, "TOPICS:") {
			reply = s.Topics
		}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": map[string]string{"role": "assistant", "content": reply},
		"done":    true,
	})
}
