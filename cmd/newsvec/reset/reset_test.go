package resetcmder_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	resetcmder "github.com/papercomputeco/newsvec/cmd/newsvec/reset"
	"github.com/papercomputeco/newsvec/cmd/newsvec/stack"
	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/config"
	"github.com/papercomputeco/newsvec/pkg/index"
	"github.com/papercomputeco/newsvec/pkg/logger"
	testutils "github.com/papercomputeco/newsvec/pkg/utils/test"
)

var _ = Describe("reset command", func() {
	var (
		dir      string
		settings *stack.Settings
	)

	runReset := func(stdin string, args ...string) (string, error) {
		root := &cobra.Command{Use: "newsvec", SilenceUsage: true, SilenceErrors: true}
		root.PersistentFlags().Bool("debug", false, "")
		root.PersistentFlags().String("config-dir", dir, "")
		root.AddCommand(resetcmder.NewResetCmd())

		var out bytes.Buffer
		root.SetOut(&out)
		root.SetIn(strings.NewReader(stdin))
		root.SetArgs(append([]string{"reset"}, args...))
		err := root.Execute()
		return out.String(), err
	}

	openService := func() *index.Service {
		svc, err := stack.NewService(context.Background(), settings, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		return svc
	}

	count := func() int {
		svc := openService()
		defer svc.Close()
		recs, err := svc.GetAll(context.Background(), "")
		Expect(err).NotTo(HaveOccurred())
		return len(recs)
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		ollama := testutils.NewOllamaServer(testutils.NewKeywordEmbedder("election", "football"))
		DeferCleanup(ollama.Close)

		GinkgoT().Setenv("NEWSVEC_EMBEDDING_PROVIDER", "ollama")
		GinkgoT().Setenv("NEWSVEC_EMBEDDING_TARGET", ollama.URL)
		GinkgoT().Setenv("NEWSVEC_EMBEDDING_DIMENSIONS", "2")

		settings = &stack.Settings{Config: config.NewDefaultConfig(), Dir: dir, SQLitePath: filepath.Join(dir, "vectors.sqlite")}
		settings.Embedding.Provider = "ollama"
		settings.Embedding.Target = ollama.URL
		settings.Embedding.Dimensions = 2

		svc := openService()
		defer svc.Close()
		_, err := svc.Store(context.Background(), article.Article{URL: "https://example.com/a", Summary: "election"}, "")
		Expect(err).NotTo(HaveOccurred())
	})

	It("deletes the collection with --yes", func() {
		_, err := runReset("", "--yes")
		Expect(err).NotTo(HaveOccurred())
		Expect(count()).To(BeZero())
	})

	It("deletes after confirmation", func() {
		out, err := runReset("y\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Delete every article in news_articles?"))
		Expect(count()).To(BeZero())
	})

	It("keeps the collection when not confirmed", func() {
		out, err := runReset("n\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Aborted."))
		Expect(count()).To(Equal(1))
	})

	It("succeeds for a collection that does not exist", func() {
		_, err := runReset("", "--yes", "--collection", "missing")
		Expect(err).NotTo(HaveOccurred())
	})
})
