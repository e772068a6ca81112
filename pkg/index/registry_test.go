package index_test

import (
	"bytes"
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/newsvec/pkg/index"
	"github.com/papercomputeco/newsvec/pkg/logger"
	testutils "github.com/papercomputeco/newsvec/pkg/utils/test"
	"github.com/papercomputeco/newsvec/pkg/vector"
)

var _ = Describe("Registry", func() {
	var (
		ctx      context.Context
		driver   *testutils.MockVectorDriver
		registry *index.Registry
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = testutils.NewMockVectorDriver()
		registry = index.NewRegistry(driver, newEmbedder(), embedding, logger.Nop())
	})

	It("creates a missing collection with the embedding configuration", func() {
		coll, err := registry.Resolve(ctx, "world")
		Expect(err).NotTo(HaveOccurred())
		Expect(coll.Name()).To(Equal("world"))
		Expect(coll.Config()).To(Equal(embedding))
		Expect(driver.CreateCalls).To(Equal(1))
	})

	It("returns an existing collection without creating it again", func() {
		_, err := registry.Resolve(ctx, "world")
		Expect(err).NotTo(HaveOccurred())

		_, err = registry.Resolve(ctx, "world")
		Expect(err).NotTo(HaveOccurred())
		Expect(driver.CreateCalls).To(Equal(1))
		Expect(driver.GetCalls).To(Equal(2))
	})

	It("resolves an empty name to the default collection", func() {
		coll, err := registry.Resolve(ctx, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(coll.Name()).To(Equal(index.DefaultCollection))
		Expect(index.DefaultCollection).To(Equal("news_articles"))
	})

	It("binds the registry's embedder to the handle", func() {
		coll, err := registry.Resolve(ctx, "world")
		Expect(err).NotTo(HaveOccurred())

		emb, err := coll.Embed(ctx, "goal goal")
		Expect(err).NotTo(HaveOccurred())
		Expect(emb).To(Equal([]float32{0, 0, 0, 2, 0, 0}))
	})

	It("reports an unreachable store as unavailable", func() {
		driver.GetErr = testutils.ErrUnreachable

		_, err := registry.Resolve(ctx, "world")
		Expect(errors.Is(err, index.ErrUnavailable)).To(BeTrue())
		Expect(errors.Is(err, vector.ErrConnection)).To(BeTrue())
		Expect(driver.CreateCalls).To(BeZero())
	})

	It("reports a failed creation as unavailable", func() {
		driver.CreateErr = errors.New("disk full")

		_, err := registry.Resolve(ctx, "world")
		Expect(errors.Is(err, index.ErrUnavailable)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("disk full"))
	})

	It("warns when the stored embedding model differs", func() {
		_, err := driver.CreateCollection(ctx, "world", vector.CollectionConfig{
			Provider: "openai", Model: "text-embedding-ada-002", Dimensions: 6,
		})
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		registry = index.NewRegistry(driver, newEmbedder(), embedding, logger.New(logger.WithWriter(&buf)))

		_, err = registry.Resolve(ctx, "world")
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("embedding model differs"))
		Expect(buf.String()).To(ContainSubstring("text-embedding-ada-002"))
	})
})
