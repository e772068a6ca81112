package newsvecmder_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/newsvec/api"
	newsvecmder "github.com/papercomputeco/newsvec/cmd/newsvec"
	testutils "github.com/papercomputeco/newsvec/pkg/utils/test"
)

var _ = Describe("NewNewsvecCmd", func() {
	It("registers every subcommand", func() {
		cmd := newsvecmder.NewNewsvecCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements(
			"init", "auth", "config", "ingest", "search", "list", "reset", "serve", "version",
		))
	})

	It("has the global flags", func() {
		cmd := newsvecmder.NewNewsvecCmd()
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("color")).NotTo(BeNil())
	})

	It("rejects an unknown color mode", func() {
		cmd := newsvecmder.NewNewsvecCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"version", "--color", "sometimes"})
		Expect(cmd.Execute()).To(MatchError(ContainSubstring("invalid color mode")))
	})
})

var _ = Describe("ingest, search and reset", func() {
	var dir string

	run := func(args ...string) string {
		cmd := newsvecmder.NewNewsvecCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetIn(&bytes.Buffer{})
		cmd.SetArgs(append(args, "--config-dir", dir))
		Expect(cmd.Execute()).To(Succeed())
		return out.String()
	}

	search := func(query string) api.SearchResponse {
		var resp api.SearchResponse
		Expect(json.Unmarshal([]byte(run("search", query, "--json")), &resp)).To(Succeed())
		return resp
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		ollama := testutils.NewOllamaServer(testutils.NewKeywordEmbedder("election", "football", "market"))
		DeferCleanup(ollama.Close)

		run("config", "set", "embedding.provider", "ollama")
		run("config", "set", "embedding.target", ollama.URL)
		run("config", "set", "embedding.dimensions", "3")
	})

	It("finds ingested articles until the collection is reset", func() {
		file := filepath.Join(dir, "articles.json")
		Expect(os.WriteFile(file, []byte(`[
			{"url":"https://example.com/vote","title":"Vote","summary":"election results"},
			{"url":"https://example.com/cup","title":"Cup","summary":"football final"}
		]`), 0o600)).To(Succeed())

		run("ingest", file)

		resp := search("football")
		Expect(resp.Count).To(Equal(2))
		Expect(resp.Results[0].URL).To(Equal("https://example.com/cup"))

		run("reset", "--yes")
		Expect(search("football").Count).To(BeZero())
	})
})
