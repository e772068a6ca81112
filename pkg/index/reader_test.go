package index_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/newsvec/pkg/index"
	"github.com/papercomputeco/newsvec/pkg/logger"
	testutils "github.com/papercomputeco/newsvec/pkg/utils/test"
)

var _ = Describe("Reader", func() {
	var (
		ctx    context.Context
		driver *testutils.MockVectorDriver
		writer *index.Writer
		reader *index.Reader
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = testutils.NewMockVectorDriver()
		registry := index.NewRegistry(driver, newEmbedder(), embedding, logger.Nop())
		writer = index.NewWriter(registry, logger.Nop())
		reader = index.NewReader(registry, logger.Nop())
	})

	Describe("GetAll", func() {
		It("lazily creates an unknown collection and returns nothing", func() {
			records, err := reader.GetAll(ctx, "fresh")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).NotTo(BeNil())
			Expect(records).To(BeEmpty())
			Expect(driver.CreateCalls).To(Equal(1))
		})

		It("returns every stored article", func() {
			_, err := writer.Store(ctx, articleA, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = writer.Store(ctx, articleB, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = writer.Store(ctx, articleC, "")
			Expect(err).NotTo(HaveOccurred())

			records, err := reader.GetAll(ctx, "")
			Expect(err).NotTo(HaveOccurred())

			urls := []string{}
			for _, r := range records {
				urls = append(urls, r.URL())
			}
			Expect(urls).To(ConsistOf(articleA.URL, articleB.URL, articleC.URL))
		})

		It("reports an unreachable store as unavailable", func() {
			driver.GetErr = testutils.ErrUnreachable
			_, err := reader.GetAll(ctx, "")
			Expect(errors.Is(err, index.ErrUnavailable)).To(BeTrue())
		})
	})

	Describe("DeleteAll", func() {
		It("leaves a fresh empty collection behind", func() {
			_, err := writer.Store(ctx, articleA, "world")
			Expect(err).NotTo(HaveOccurred())

			Expect(reader.DeleteAll(ctx, "world")).To(Succeed())

			records, err := reader.GetAll(ctx, "world")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})

		It("treats a missing collection as already reset", func() {
			Expect(reader.DeleteAll(ctx, "never-created")).To(Succeed())
		})

		It("reports a store failure as unavailable", func() {
			driver.DeleteErr = testutils.ErrUnreachable
			err := reader.DeleteAll(ctx, "world")
			Expect(errors.Is(err, index.ErrUnavailable)).To(BeTrue())
		})
	})
})
