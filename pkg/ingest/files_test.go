package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/newsvec/pkg/ingest"
	"github.com/papercomputeco/newsvec/pkg/logger"
)

func writeFile(path, body string) {
	Expect(os.WriteFile(path, []byte(body), 0o600)).To(Succeed())
}

var _ = Describe("ExpandPaths", func() {
	It("expands directories to their json files", func() {
		dir := GinkgoT().TempDir()
		writeFile(filepath.Join(dir, "b.json"), "{}")
		writeFile(filepath.Join(dir, "a.JSON"), "{}")
		writeFile(filepath.Join(dir, "notes.txt"), "")
		Expect(os.Mkdir(filepath.Join(dir, "nested.json"), 0o755)).To(Succeed())

		single := filepath.Join(GinkgoT().TempDir(), "one.json")
		writeFile(single, "{}")

		files, err := ingest.ExpandPaths([]string{dir, single})
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(Equal([]string{
			filepath.Join(dir, "a.JSON"),
			filepath.Join(dir, "b.json"),
			single,
		}))
	})

	It("fails on missing paths", func() {
		_, err := ingest.ExpandPaths([]string{"/does/not/exist"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("LoadFile", func() {
	It("decodes an array of articles into jobs", func() {
		path := filepath.Join(GinkgoT().TempDir(), "batch.json")
		writeFile(path, `[{"url":"https://a","title":"A"},{"url":"https://b","title":"B"}]`)

		jobs, err := ingest.LoadFile(path, "news")
		Expect(err).NotTo(HaveOccurred())
		Expect(jobs).To(HaveLen(2))
		Expect(jobs[1].Article.Title).To(Equal("B"))
		Expect(jobs[1].Collection).To(Equal("news"))
		Expect(jobs[1].Source).To(Equal(path))
	})

	It("reports invalid json", func() {
		path := filepath.Join(GinkgoT().TempDir(), "bad.json")
		writeFile(path, `{"url":`)

		_, err := ingest.LoadFile(path, "")
		Expect(err).To(MatchError(ContainSubstring("decode")))
	})
})

var _ = Describe("Watch", func() {
	It("ingests json files written into the directory", func() {
		dir := GinkgoT().TempDir()
		storer := &fakeStorer{}
		pool, err := ingest.NewPool(&ingest.Config{Storer: storer, NumWorkers: 1, Logger: logger.Nop()})
		Expect(err).NotTo(HaveOccurred())
		results := collect(pool)

		ctx, cancel := context.WithCancel(context.Background())
		watchErr := make(chan error, 1)
		go func() { watchErr <- pool.Watch(ctx, dir, "") }()

		// Give the watcher time to register the directory.
		time.Sleep(100 * time.Millisecond)
		writeFile(filepath.Join(dir, "ignored.txt"), `{"url":"https://ignored"}`)
		writeFile(filepath.Join(dir, "new.json"), `{"url":"https://watched","title":"W"}`)

		Eventually(func() int {
			storer.mu.Lock()
			defer storer.mu.Unlock()
			return len(storer.stored)
		}).WithTimeout(5 * time.Second).Should(BeNumerically(">=", 1))

		cancel()
		Eventually(watchErr).Should(Receive(BeNil()))
		pool.Close()
		Eventually(results).Should(Receive())

		storer.mu.Lock()
		defer storer.mu.Unlock()
		for _, a := range storer.stored {
			Expect(a.URL).To(Equal("https://watched"))
		}
	})
})
