// Package pubsub is the in-process event bus: typed generic brokers
// grouped into a Hub, one broker per domain.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies what happened to the payload.
type EventType string

// Event types shared across all brokers.
const (
	EventCreated   EventType = "created"
	EventUpdated   EventType = "updated"
	EventDeleted   EventType = "deleted"
	EventStarted   EventType = "started"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
	EventProgress  EventType = "progress"
)

// Event is one published occurrence: a type tag, the typed payload,
// and the publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Publisher is the send half of a broker.
type Publisher[T any] interface {
	Publish(EventType, T)
	PublishAsync(EventType, T)
}

// Subscriber is the receive half of a broker.
type Subscriber[T any] interface {
	Subscribe(context.Context) <-chan Event[T]
}

// PubSub is both halves.
type PubSub[T any] interface {
	Publisher[T]
	Subscriber[T]
}
