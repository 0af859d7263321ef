// Package broadcast provides the fire-and-forget publish channel used
// to mirror theme changes across live shell instances.
package broadcast

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TopicThemeChanged announces a recomputed theme palette.
const TopicThemeChanged = "themeChanged"

// Event is a single published message.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Topic names the kind of change.
	Topic string `json:"topic"`

	// Timestamp is when the event was published.
	Timestamp time.Time `json:"timestamp"`

	// Payload contains topic-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Handler receives published events.
type Handler func(Event)

// PublishOption configures delivery of a single publish call.
type PublishOption func(*publishOptions)

type publishOptions struct {
	sticky bool
}

// WithSticky retains the event as the topic's latest and replays it to
// subscribers that attach later, so newly created instances receive
// the current state without re-reading the store.
func WithSticky() PublishOption {
	return func(o *publishOptions) {
		o.sticky = true
	}
}

// Publisher is the minimal interface the theme manager needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any, opts ...PublishOption) error
}

// Bus is an in-process pub/sub channel.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	retained map[string]Event
	now      func() time.Time
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		retained: make(map[string]Event),
		now:      time.Now,
	}
}

// Subscribe registers a handler for a topic. If a sticky event is
// retained for the topic, the handler receives it immediately.
func (b *Bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	retained, ok := b.retained[topic]
	b.mu.Unlock()

	if ok {
		handler(retained)
	}
}

// Publish delivers the payload to all current subscribers of the
// topic. The payload is JSON-encoded once and shared.
func (b *Bus) Publish(ctx context.Context, topic string, payload any, opts ...PublishOption) error {
	var options publishOptions
	for _, opt := range opts {
		opt(&options)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := Event{
		ID:        uuid.NewString(),
		Topic:     topic,
		Timestamp: b.now().UTC(),
		Payload:   data,
	}

	b.mu.Lock()
	if options.sticky {
		b.retained[topic] = event
	}
	handlers := make([]Handler, len(b.handlers[topic]))
	copy(handlers, b.handlers[topic])
	b.mu.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
	return nil
}
