package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/newsvec/pkg/embeddings/openai"
	"github.com/papercomputeco/newsvec/pkg/embeddings"
)

var _ = Describe("Embedder", func() {
	Describe("NewEmbedder", func() {
		It("requires an API key", func() {
			_, err := openai.NewEmbedder(openai.EmbedderConfig{})
			Expect(err).To(MatchError(ContainSubstring("API key is required")))
		})

		It("defaults the model", func() {
			e, err := openai.NewEmbedder(openai.EmbedderConfig{APIKey: "sk-test"})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Model()).To(Equal(openai.DefaultEmbeddingModel))
		})
	})

	Describe("Embed", func() {
		var (
			server  *httptest.Server
			gotBody map[string]string
			gotAuth string
			gotPath string
			status  int
		)

		BeforeEach(func() {
			status = http.StatusOK
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotPath = r.URL.Path
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())

				if status != http.StatusOK {
					http.Error(w, `{"error":{"message":"invalid key"}}`, status)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}],"model":"text-embedding-ada-002"}`))
			}))
			DeferCleanup(server.Close)
		})

		It("sends the text with the configured model and key", func() {
			e, err := openai.NewEmbedder(openai.EmbedderConfig{BaseURL: server.URL + "/v1", APIKey: "sk-test", Model: "text-embedding-3-small"})
			Expect(err).NotTo(HaveOccurred())

			emb, err := e.Embed(context.Background(), "hello")
			Expect(err).NotTo(HaveOccurred())
			Expect(emb).To(Equal([]float32{0.1, 0.2, 0.3}))
			Expect(gotPath).To(Equal("/v1/embeddings"))
			Expect(gotAuth).To(Equal("Bearer sk-test"))
			Expect(gotBody).To(Equal(map[string]string{"model": "text-embedding-3-small", "input": "hello"}))
		})

		It("wraps API failures as embedding errors", func() {
			status = http.StatusUnauthorized
			e, err := openai.NewEmbedder(openai.EmbedderConfig{BaseURL: server.URL, APIKey: "bad"})
			Expect(err).NotTo(HaveOccurred())

			_, err = e.Embed(context.Background(), "hello")
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, embeddings.ErrEmbedding)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("status 401"))
		})
	})
})
