package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Topic wraps a topic name so declarations stay in one place.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// Event is the payload envelope carried on every topic.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	EmittedAt time.Time       `json:"emitted_at"`
}

// EventBus abstracts event publication. Consumers live in other services;
// this application only produces.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// NewJSONEvent builds an Event with a JSON-encoded payload. An empty id gets
// a high-resolution timestamp fallback.
func NewJSONEvent(id, eventType string, payload any) (Event, error) {
	if id == "" {
		id = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("payload marshal failed: %w", err)
	}
	return Event{
		ID:        id,
		Type:      eventType,
		Payload:   b,
		EmittedAt: time.Now().UTC(),
	}, nil
}
