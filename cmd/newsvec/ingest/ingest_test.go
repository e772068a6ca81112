package ingestcmder_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/cmd/newsvec/stack"
	ingestcmder "github.com/papercomputeco/newsvec/cmd/newsvec/ingest"
	"github.com/papercomputeco/newsvec/pkg/config"
	"github.com/papercomputeco/newsvec/pkg/logger"
	testutils "github.com/papercomputeco/newsvec/pkg/utils/test"
)

func runIngest(dir string, args ...string) (string, error) {
	return runIngestContext(context.Background(), dir, args...)
}

func runIngestContext(ctx context.Context, dir string, args ...string) (string, error) {
	root := &cobra.Command{Use: "newsvec", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().Bool("debug", false, "")
	root.PersistentFlags().String("config-dir", dir, "")
	root.AddCommand(ingestcmder.NewIngestCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(append([]string{"ingest"}, args...))
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func writeFile(path, data string) {
	Expect(os.WriteFile(path, []byte(data), 0o600)).To(Succeed())
}

var _ = Describe("ingest command", func() {
	var (
		dir    string
		ollama *testutils.OllamaServer
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		ollama = testutils.NewOllamaServer(testutils.NewKeywordEmbedder("election", "football", "market"))
		DeferCleanup(ollama.Close)

		GinkgoT().Setenv("NEWSVEC_EMBEDDING_PROVIDER", "ollama")
		GinkgoT().Setenv("NEWSVEC_EMBEDDING_TARGET", ollama.URL)
		GinkgoT().Setenv("NEWSVEC_EMBEDDING_DIMENSIONS", "3")
		GinkgoT().Setenv("NEWSVEC_ENRICH_PROVIDER", "ollama")
		GinkgoT().Setenv("NEWSVEC_ENRICH_TARGET", ollama.URL)
	})

	records := func(collection string) []string {
		s := &stack.Settings{Config: config.NewDefaultConfig(), Dir: dir, SQLitePath: filepath.Join(dir, "vectors.sqlite")}
		s.Embedding.Provider = "ollama"
		s.Embedding.Target = ollama.URL
		s.Embedding.Dimensions = 3

		svc, err := stack.NewService(context.Background(), s, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		defer svc.Close()

		recs, err := svc.GetAll(context.Background(), collection)
		Expect(err).NotTo(HaveOccurred())
		urls := make([]string, 0, len(recs))
		for _, r := range recs {
			urls = append(urls, r.URL())
		}
		return urls
	}

	It("requires a path or --watch", func() {
		_, err := runIngest(dir)
		Expect(err).To(MatchError(ContainSubstring("at least one path")))
	})

	It("stores every article of a directory", func() {
		articles := filepath.Join(dir, "articles")
		Expect(os.MkdirAll(articles, 0o755)).To(Succeed())
		writeFile(filepath.Join(articles, "a.json"),
			`{"url":"https://example.com/a","title":"Election","text":"election night","summary":"election results"}`)
		writeFile(filepath.Join(articles, "b.json"),
			`[{"url":"https://example.com/b","title":"Cup","text":"football final","summary":"football"}]`)

		out, err := runIngest(dir, articles)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("stored"))

		Expect(records("news_articles")).To(ConsistOf("https://example.com/a", "https://example.com/b"))
	})

	It("stores into the collection named by --collection", func() {
		file := filepath.Join(dir, "a.json")
		writeFile(file, `{"url":"https://example.com/a","title":"Markets","text":"market rally","summary":"market"}`)

		_, err := runIngest(dir, file, "--collection", "business")
		Expect(err).NotTo(HaveOccurred())

		Expect(records("business")).To(ConsistOf("https://example.com/a"))
	})

	It("enriches articles without a summary", func() {
		ollama.Summary = "election summary"
		file := filepath.Join(dir, "a.json")
		writeFile(file, `{"url":"https://example.com/a","title":"Vote","text":"the election was held"}`)

		_, err := runIngest(dir, file, "--enrich")
		Expect(err).NotTo(HaveOccurred())

		Expect(records("news_articles")).To(ConsistOf("https://example.com/a"))
	})

	It("fails when an article cannot be stored", func() {
		file := filepath.Join(dir, "a.json")
		writeFile(file, `{"title":"No URL","text":"election"}`)

		_, err := runIngest(dir, file)
		Expect(err).To(MatchError(ContainSubstring("failed to store")))
	})

	It("stores nothing and reports cancellation when interrupted", func() {
		file := filepath.Join(dir, "a.json")
		writeFile(file, `[{"url":"https://example.com/a","summary":"election"},{"url":"https://example.com/b","summary":"football"}]`)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := runIngestContext(ctx, dir, file)
		Expect(err).To(MatchError(context.Canceled))
		Expect(records("news_articles")).To(BeEmpty())
	})

	It("fails when no article files are found", func() {
		empty := filepath.Join(dir, "empty")
		Expect(os.MkdirAll(empty, 0o755)).To(Succeed())

		_, err := runIngest(dir, empty)
		Expect(err).To(MatchError(stack.ErrNoArticles))
	})
})
