package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Domain event types published after a successful write
const (
	PropertyCreated       = "property.created"
	PropertyStatusChanged = "property.status_changed"
	InquiryCreated        = "inquiry.created"
	InquiryStatusChanged  = "inquiry.status_changed"
	InquiryResponded      = "inquiry.responded"
)

// Event is the envelope every publisher writes as JSON
type Event struct {
	Type       string          `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent marshals data into an event envelope keyed by the record id
func NewEvent(eventType, key string, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return Event{
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	}, nil
}

// EventPublisher fans lifecycle events out to other systems.
// Publishing is fire and forget for callers: a failed publish never undoes a write.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when EVENT_BROKER=none.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
