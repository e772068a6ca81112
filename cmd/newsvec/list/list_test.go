package listcmder_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/api"
	listcmder "github.com/papercomputeco/newsvec/cmd/newsvec/list"
	"github.com/papercomputeco/newsvec/cmd/newsvec/stack"
	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/config"
	"github.com/papercomputeco/newsvec/pkg/logger"
	testutils "github.com/papercomputeco/newsvec/pkg/utils/test"
)

func runList(dir string, args ...string) (string, error) {
	root := &cobra.Command{Use: "newsvec", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().Bool("debug", false, "")
	root.PersistentFlags().String("config-dir", dir, "")
	root.AddCommand(listcmder.NewListCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(append([]string{"list"}, args...))
	err := root.Execute()
	return out.String(), err
}

var _ = Describe("list command", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		ollama := testutils.NewOllamaServer(testutils.NewKeywordEmbedder("election", "football"))
		DeferCleanup(ollama.Close)

		GinkgoT().Setenv("NEWSVEC_EMBEDDING_PROVIDER", "ollama")
		GinkgoT().Setenv("NEWSVEC_EMBEDDING_TARGET", ollama.URL)
		GinkgoT().Setenv("NEWSVEC_EMBEDDING_DIMENSIONS", "2")

		s := &stack.Settings{Config: config.NewDefaultConfig(), Dir: dir, SQLitePath: filepath.Join(dir, "vectors.sqlite")}
		s.Embedding.Provider = "ollama"
		s.Embedding.Target = ollama.URL
		s.Embedding.Dimensions = 2

		svc, err := stack.NewService(context.Background(), s, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		defer svc.Close()

		_, err = svc.Store(context.Background(), article.Article{
			URL:     "https://example.com/vote",
			Title:   "Vote",
			Summary: "election day",
			Topics:  []string{"politics"},
		}, "")
		Expect(err).NotTo(HaveOccurred())
	})

	It("lists stored records as JSON", func() {
		out, err := runList(dir, "--json")
		Expect(err).NotTo(HaveOccurred())

		var resp api.ListResponse
		Expect(json.Unmarshal([]byte(out), &resp)).To(Succeed())
		Expect(resp.Collection).To(Equal("news_articles"))
		Expect(resp.Count).To(Equal(1))
		Expect(resp.Records[0].URL()).To(Equal("https://example.com/vote"))
		Expect(resp.Records[0].Topics()).To(Equal([]string{"politics"}))
	})

	It("renders records as markdown", func() {
		out, err := runList(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Vote"))
	})

	It("reports an empty collection", func() {
		out, err := runList(dir, "--collection", "sports")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("No articles in sports."))
	})

	It("rejects arguments", func() {
		_, err := runList(dir, "extra")
		Expect(err).To(HaveOccurred())
	})
})
