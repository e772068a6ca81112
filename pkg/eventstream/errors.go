package eventstream

import (
	"errors"
	"fmt"
)

var (
	// ErrNilEvent indicates a nil event payload was provided to a publisher.
	ErrNilEvent = errors.New("nil event")

	// ErrInvalidEvent indicates an event missing a required field.
	ErrInvalidEvent = errors.New("invalid event")
)

// Validate checks the fields every publisher relies on.
func Validate(e *Event) error {
	switch {
	case e == nil:
		return ErrNilEvent
	case e.EventType == "":
		return fmt.Errorf("%w: missing event type", ErrInvalidEvent)
	case e.Collection == "":
		return fmt.Errorf("%w: missing collection", ErrInvalidEvent)
	case e.EventType == EventTypeArticleIndexed && (e.Article == nil || e.Article.ID == ""):
		return fmt.Errorf("%w: %s without an article id", ErrInvalidEvent, e.EventType)
	}
	return nil
}
