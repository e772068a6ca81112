// Package nop provides the publisher used when no event stream is
// configured. Events are validated and counted, then dropped.
package nop

import (
	"context"
	"log/slog"
	"sync"

	"github.com/papercomputeco/newsvec/pkg/eventstream"
	"github.com/papercomputeco/newsvec/pkg/logger"
)

// Publisher drops events.
type Publisher struct {
	log *slog.Logger

	mu      sync.Mutex
	dropped map[string]int
}

// NewPublisher returns a publisher that logs each dropped event at debug
// level. A nil log discards.
func NewPublisher(log *slog.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{log: log, dropped: make(map[string]int)}
}

// Publish validates event and drops it.
func (p *Publisher) Publish(ctx context.Context, event *eventstream.Event) error {
	if err := eventstream.Validate(event); err != nil {
		return err
	}

	p.mu.Lock()
	p.dropped[event.EventType]++
	p.mu.Unlock()

	p.log.DebugContext(ctx, "event dropped", "type", event.EventType, "collection", event.Collection, "key", event.Key())
	return nil
}

// Dropped returns how many events of eventType were published.
func (p *Publisher) Dropped(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped[eventType]
}

func (p *Publisher) Close() error {
	return nil
}

var _ eventstream.Publisher = (*Publisher)(nil)
