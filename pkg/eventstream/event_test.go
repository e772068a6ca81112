package eventstream_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/eventstream"
)

var _ = Describe("Event", func() {
	It("marshals an article indexed event with expected top-level keys", func() {
		rec := article.BuildRecord(article.Article{URL: "https://example.com/a", Title: "A"})
		event := eventstream.NewArticleIndexedEvent("news_articles", rec)

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKeyWithValue("event_type", "newsvec.article.indexed"))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKeyWithValue("collection", "news_articles"))
		Expect(got).To(HaveKey("article"))

		ref := got["article"].(map[string]any)
		Expect(ref).To(HaveKeyWithValue("id", rec.ID))
		Expect(ref).To(HaveKeyWithValue("url", "https://example.com/a"))
		Expect(event.Key()).To(Equal(rec.ID))
	})

	It("omits the article on a collection reset event", func() {
		event := eventstream.NewCollectionResetEvent("news_articles")

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(payload)).NotTo(ContainSubstring(`"article"`))
		Expect(event.Key()).To(Equal("news_articles"))
	})

	It("gives every event a distinct id", func() {
		Expect(eventstream.NewCollectionResetEvent("a").EventID).NotTo(Equal(eventstream.NewCollectionResetEvent("a").EventID))
	})

	It("defines stable event constants", func() {
		Expect(eventstream.SchemaVersionV1).To(BeNumerically(">", 0))
		Expect(eventstream.EventTypeArticleIndexed).To(Equal("newsvec.article.indexed"))
		Expect(eventstream.EventTypeCollectionReset).To(Equal("newsvec.collection.reset"))
	})

	It("provides ErrNilEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilEvent).To(MatchError("nil event"))
	})
})

var _ = Describe("Validate", func() {
	It("accepts events built by the constructors", func() {
		rec := article.Record{ID: "abc", Metadata: map[string]string{article.MetaURL: "https://example.com/a"}}
		Expect(eventstream.Validate(eventstream.NewArticleIndexedEvent("news_articles", rec))).To(Succeed())
		Expect(eventstream.Validate(eventstream.NewCollectionResetEvent("news_articles"))).To(Succeed())
	})

	It("rejects nil events", func() {
		Expect(eventstream.Validate(nil)).To(MatchError(eventstream.ErrNilEvent))
	})

	It("rejects events missing required fields", func() {
		Expect(eventstream.Validate(&eventstream.Event{Collection: "c"})).To(MatchError(ContainSubstring("missing event type")))
		Expect(eventstream.Validate(&eventstream.Event{EventType: eventstream.EventTypeCollectionReset})).To(MatchError(ContainSubstring("missing collection")))

		err := eventstream.Validate(&eventstream.Event{EventType: eventstream.EventTypeArticleIndexed, Collection: "c"})
		Expect(err).To(MatchError(eventstream.ErrInvalidEvent))
	})
})
