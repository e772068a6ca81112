package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/newsvec/pkg/article"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeArticleIndexed is emitted after an article record is upserted.
	EventTypeArticleIndexed = "newsvec.article.indexed"

	// EventTypeCollectionReset is emitted after a collection is dropped.
	EventTypeCollectionReset = "newsvec.collection.reset"
)

// Event is a transport-neutral event payload.
type Event struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Collection    string      `json:"collection"`
	Article       *ArticleRef `json:"article,omitempty"`
}

// ArticleRef identifies the stored record an event refers to.
type ArticleRef struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Key returns the partition key for the event: the record id when there is
// one, the collection otherwise.
func (e *Event) Key() string {
	if e.Article != nil {
		return e.Article.ID
	}
	return e.Collection
}

// NewArticleIndexedEvent builds the event for a stored record.
func NewArticleIndexedEvent(collection string, rec article.Record) *Event {
	return &Event{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeArticleIndexed,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Collection:    collection,
		Article: &ArticleRef{
			ID:    rec.ID,
			URL:   rec.URL(),
			Title: rec.Title(),
		},
	}
}

// NewCollectionResetEvent builds the event for a dropped collection.
func NewCollectionResetEvent(collection string) *Event {
	return &Event{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeCollectionReset,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Collection:    collection,
	}
}
