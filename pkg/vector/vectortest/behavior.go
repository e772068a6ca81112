// Package vectortest holds shared ginkgo specs that every vector.Driver
// implementation runs against itself.
package vectortest

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/newsvec/pkg/vector"
)

// Dimensions is the embedding size used by the shared specs.
const Dimensions = 4

// Config is the collection configuration used by the shared tests.
var Config = vector.CollectionConfig{
	Provider:   "test",
	Model:      "test-model",
	Dimensions: Dimensions,
}

// DriverBehaviors registers the shared driver tests. newDriver is called once
// per test; the returned driver is closed after it.
func DriverBehaviors(newDriver func() vector.Driver) {
	var (
		ctx    context.Context
		driver vector.Driver
		name   string
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = nil
		driver = newDriver()
		name = fmt.Sprintf("behavior_%d", GinkgoRandomSeed()+int64(GinkgoParallelProcess()))
	})

	AfterEach(func() {
		if driver == nil {
			return
		}
		_ = driver.DeleteCollection(ctx, name)
		Expect(driver.Close()).To(Succeed())
	})

	create := func() vector.Collection {
		c, err := driver.CreateCollection(ctx, name, Config)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("GetCollection", func() {
		It("reports a missing collection as not found", func() {
			_, err := driver.GetCollection(ctx, name)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, vector.ErrCollectionNotFound)).To(BeTrue())
		})

		It("returns a created collection with its config", func() {
			create()

			c, err := driver.GetCollection(ctx, name)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name()).To(Equal(name))
			Expect(c.Config().Dimensions).To(Equal(uint(Dimensions)))
		})
	})

	Describe("Upsert", func() {
		It("stores records", func() {
			c := create()
			Expect(c.Upsert(ctx, []vector.Record{
				{ID: "a", Document: "doc a", Metadata: map[string]string{"title": "A"}, Embedding: []float32{1, 0, 0, 0}},
				{ID: "b", Document: "doc b", Metadata: map[string]string{"title": "B"}, Embedding: []float32{0, 1, 0, 0}},
			})).To(Succeed())

			n, err := c.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(2))
		})

		It("overwrites a record with the same id", func() {
			c := create()
			Expect(c.Upsert(ctx, []vector.Record{
				{ID: "a", Document: "first", Metadata: map[string]string{"title": "first"}, Embedding: []float32{1, 0, 0, 0}},
			})).To(Succeed())
			Expect(c.Upsert(ctx, []vector.Record{
				{ID: "a", Document: "second", Metadata: map[string]string{"title": "second"}, Embedding: []float32{0, 1, 0, 0}},
			})).To(Succeed())

			records, err := c.GetAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Document).To(Equal("second"))
			Expect(records[0].Metadata).To(HaveKeyWithValue("title", "second"))

			hits, err := c.Query(ctx, []float32{0, 1, 0, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(1))
			Expect(hits[0].Distance).To(BeNumerically("~", 0, 1e-4))
		})
	})

	Describe("GetAll", func() {
		It("returns an empty slice for an empty collection", func() {
			c := create()
			records, err := c.GetAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})

		It("returns documents and metadata", func() {
			c := create()
			Expect(c.Upsert(ctx, []vector.Record{
				{ID: "a", Document: "doc a", Metadata: map[string]string{"title": "A", "topics": "x, y"}, Embedding: []float32{1, 0, 0, 0}},
			})).To(Succeed())

			records, err := c.GetAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].ID).To(Equal("a"))
			Expect(records[0].Document).To(Equal("doc a"))
			Expect(records[0].Metadata).To(HaveKeyWithValue("topics", "x, y"))
		})
	})

	Describe("Query", func() {
		It("returns nearest records by cosine distance", func() {
			c := create()
			Expect(c.Upsert(ctx, []vector.Record{
				{ID: "far", Document: "far", Embedding: []float32{0, 0, 0, 1}},
				{ID: "near", Document: "near", Embedding: []float32{1, 0.1, 0, 0}},
				{ID: "mid", Document: "mid", Embedding: []float32{1, 1, 0, 0}},
			})).To(Succeed())

			hits, err := c.Query(ctx, []float32{1, 0, 0, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(3))
			Expect(hits[0].ID).To(Equal("near"))
			Expect(hits[1].ID).To(Equal("mid"))
			Expect(hits[2].ID).To(Equal("far"))
			Expect(hits[2].Distance).To(BeNumerically("~", 1, 1e-4))
		})

		It("limits the number of hits", func() {
			c := create()
			Expect(c.Upsert(ctx, []vector.Record{
				{ID: "a", Embedding: []float32{1, 0, 0, 0}},
				{ID: "b", Embedding: []float32{0, 1, 0, 0}},
				{ID: "c", Embedding: []float32{0, 0, 1, 0}},
			})).To(Succeed())

			hits, err := c.Query(ctx, []float32{1, 0, 0, 0}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(2))
		})

		It("returns no hits from an empty collection", func() {
			c := create()
			hits, err := c.Query(ctx, []float32{1, 0, 0, 0}, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(BeEmpty())
		})
	})

	Describe("DeleteCollection", func() {
		It("removes every record", func() {
			c := create()
			Expect(c.Upsert(ctx, []vector.Record{
				{ID: "a", Embedding: []float32{1, 0, 0, 0}},
			})).To(Succeed())

			Expect(driver.DeleteCollection(ctx, name)).To(Succeed())

			_, err := driver.GetCollection(ctx, name)
			Expect(errors.Is(err, vector.ErrCollectionNotFound)).To(BeTrue())

			fresh := create()
			n, err := fresh.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(0))
		})

		It("reports a missing collection as not found", func() {
			err := driver.DeleteCollection(ctx, name)
			Expect(errors.Is(err, vector.ErrCollectionNotFound)).To(BeTrue())
		})
	})
}
