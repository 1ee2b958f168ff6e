package pubsub

import (
	"context"
	"sync"
	"time"
)

// DefaultBufferSize is the subscriber channel buffer used when no
// option overrides it.
const DefaultBufferSize = 64

// BrokerOption configures a Broker at construction time.
type BrokerOption[T any] func(*Broker[T])

// WithBufferSize overrides the per-subscriber channel buffer.
func WithBufferSize[T any](size int) BrokerOption[T] {
	return func(b *Broker[T]) {
		b.bufferSize = size
	}
}

// WithDropPolicy controls what happens when a subscriber's buffer is
// full: drop the event (true) or block the publisher (false).
func WithDropPolicy[T any](drop bool) BrokerOption[T] {
	return func(b *Broker[T]) {
		b.dropOnFull = drop
	}
}

// BrokerMetrics is a snapshot of one broker's counters.
type BrokerMetrics struct {
	Name            string
	PublishCount    int64
	DropCount       int64
	SubscriberCount int
	SubscriberPeak  int
}

// Broker fans events of one payload type out to any number of
// subscribers. Subscriptions are tied to a context; publishing never
// blocks under the default drop policy. All methods are safe for
// concurrent use.
type Broker[T any] struct {
	name       string
	bufferSize int
	dropOnFull bool

	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event[T]
	closed bool
	done   chan struct{}

	// Counters, guarded by mu.
	published int64
	dropped   int64
	peak      int
}

// NewBroker creates a broker. The name shows up in registry metrics
// and debug output only.
func NewBroker[T any](name string, opts ...BrokerOption[T]) *Broker[T] {
	b := &Broker[T]{
		name:       name,
		bufferSize: DefaultBufferSize,
		dropOnFull: true,
		subs:       make(map[int]chan Event[T]),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the broker's name.
func (b *Broker[T]) Name() string {
	return b.name
}

// Subscribe registers a new subscriber. The returned channel delivers
// events until ctx is cancelled or the broker shuts down, then closes.
// Subscribing to a shut-down broker returns an already-closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	id := b.nextID
	b.nextID++
	ch := make(chan Event[T], b.bufferSize)
	b.subs[id] = ch
	if n := len(b.subs); n > b.peak {
		b.peak = n
	}
	b.mu.Unlock()

	go b.reap(ctx, id)

	return ch
}

// reap removes the subscription when its context ends or the broker
// shuts down, whichever happens first.
func (b *Broker[T]) reap(ctx context.Context, id int) {
	select {
	case <-ctx.Done():
	case <-b.done:
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Shutdown may have closed the channel already.
	ch, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(ch)
}

// Publish delivers an event to every current subscriber. Under the
// drop policy a full subscriber misses the event; otherwise the send
// blocks until the subscriber drains.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	targets := make([]chan Event[T], 0, len(b.subs))
	for _, ch := range b.subs {
		targets = append(targets, ch)
	}
	b.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	var dropped int64
	for _, ch := range targets {
		if !b.dropOnFull {
			ch <- event
			continue
		}
		select {
		case ch <- event:
		default:
			dropped++
		}
	}

	b.mu.Lock()
	b.published++
	b.dropped += dropped
	b.mu.Unlock()
}

// PublishAsync publishes from a new goroutine and returns immediately.
func (b *Broker[T]) PublishAsync(eventType EventType, payload T) {
	go b.Publish(eventType, payload)
}

// Shutdown closes every subscriber channel and rejects further
// publishes and subscriptions. Safe to call more than once.
func (b *Broker[T]) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.done)

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// IsShutdown reports whether Shutdown has run.
func (b *Broker[T]) IsShutdown() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Metrics returns a snapshot of the broker's counters.
func (b *Broker[T]) Metrics() BrokerMetrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return BrokerMetrics{
		Name:            b.name,
		PublishCount:    b.published,
		DropCount:       b.dropped,
		SubscriberCount: len(b.subs),
		SubscriberPeak:  b.peak,
	}
}
