package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"
)

func recvEvent[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event[T]{}
	}
}

func TestBroker_PublishReachesSubscriber(t *testing.T) {
	broker := NewBroker[string]("chat")
	defer broker.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := broker.Subscribe(ctx)

	broker.Publish(EventCreated, "hello")

	event := recvEvent(t, ch)
	if event.Type != EventCreated {
		t.Errorf("Type = %q, want %q", event.Type, EventCreated)
	}
	if event.Payload != "hello" {
		t.Errorf("Payload = %q, want %q", event.Payload, "hello")
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp is zero, want publish time")
	}
}

func TestBroker_FanOut(t *testing.T) {
	broker := NewBroker[int]("chat")
	defer broker.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := broker.Subscribe(ctx)
	second := broker.Subscribe(ctx)

	broker.Publish(EventUpdated, 42)

	if got := recvEvent(t, first).Payload; got != 42 {
		t.Errorf("first subscriber got %d, want 42", got)
	}
	if got := recvEvent(t, second).Payload; got != 42 {
		t.Errorf("second subscriber got %d, want 42", got)
	}
}

func TestBroker_ContextCancelUnsubscribes(t *testing.T) {
	broker := NewBroker[string]("chat")
	defer broker.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)

	if got := broker.SubscriberCount(); got != 1 {
		t.Fatalf("SubscriberCount() = %d, want 1", got)
	}

	cancel()

	// The reaper runs on its own goroutine; wait for the channel close.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if got := broker.SubscriberCount(); got != 0 {
					t.Errorf("SubscriberCount() = %d after cancel, want 0", got)
				}
				return
			}
		case <-deadline:
			t.Fatal("subscription channel never closed after cancel")
		}
	}
}

func TestBroker_Shutdown(t *testing.T) {
	broker := NewBroker[string]("chat")

	ctx := context.Background()
	first := broker.Subscribe(ctx)
	second := broker.Subscribe(ctx)

	broker.Shutdown()

	if _, ok := <-first; ok {
		t.Error("first channel open after Shutdown, want closed")
	}
	if _, ok := <-second; ok {
		t.Error("second channel open after Shutdown, want closed")
	}
	if !broker.IsShutdown() {
		t.Error("IsShutdown() = false after Shutdown")
	}

	// Publishing and re-shutting-down must both be no-ops.
	broker.Publish(EventCreated, "late")
	broker.Shutdown()

	// A late Subscribe yields an already-closed channel.
	if _, ok := <-broker.Subscribe(ctx); ok {
		t.Error("Subscribe after Shutdown returned an open channel")
	}
}

func TestBroker_DropOnFullBuffer(t *testing.T) {
	broker := NewBroker[int]("chat", WithBufferSize[int](2))
	defer broker.Shutdown()

	ctx := context.Background()
	ch := broker.Subscribe(ctx)

	// Nothing drains the channel, so the third publish must drop.
	broker.Publish(EventCreated, 1)
	broker.Publish(EventCreated, 2)
	broker.Publish(EventCreated, 3)

	if got := broker.Metrics().DropCount; got != 1 {
		t.Errorf("DropCount = %d, want 1", got)
	}

	if got := recvEvent(t, ch).Payload; got != 1 {
		t.Errorf("first buffered event = %d, want 1", got)
	}
	if got := recvEvent(t, ch).Payload; got != 2 {
		t.Errorf("second buffered event = %d, want 2", got)
	}
}

func TestBroker_BlockingPolicy(t *testing.T) {
	broker := NewBroker[int]("chat",
		WithBufferSize[int](1),
		WithDropPolicy[int](false),
	)
	defer broker.Shutdown()

	ctx := context.Background()
	ch := broker.Subscribe(ctx)

	broker.Publish(EventCreated, 1) // fills the buffer

	done := make(chan struct{})
	go func() {
		broker.Publish(EventCreated, 2)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("publish returned with a full subscriber under blocking policy")
	case <-time.After(50 * time.Millisecond):
	}

	<-ch // drain, unblocking the publisher

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish never completed after drain")
	}
}

func TestBroker_PublishAsync(t *testing.T) {
	broker := NewBroker[string]("chat")
	defer broker.Shutdown()

	ch := broker.Subscribe(context.Background())

	broker.PublishAsync(EventProgress, "delta")

	if got := recvEvent(t, ch).Payload; got != "delta" {
		t.Errorf("Payload = %q, want %q", got, "delta")
	}
}

func TestBroker_Metrics(t *testing.T) {
	broker := NewBroker[string]("agent")
	defer broker.Shutdown()

	ctx := context.Background()
	_ = broker.Subscribe(ctx)
	_ = broker.Subscribe(ctx)

	broker.Publish(EventCreated, "a")
	broker.Publish(EventCompleted, "b")

	m := broker.Metrics()
	if m.Name != "agent" {
		t.Errorf("Name = %q, want %q", m.Name, "agent")
	}
	if m.SubscriberCount != 2 {
		t.Errorf("SubscriberCount = %d, want 2", m.SubscriberCount)
	}
	if m.SubscriberPeak != 2 {
		t.Errorf("SubscriberPeak = %d, want 2", m.SubscriberPeak)
	}
	if m.PublishCount != 2 {
		t.Errorf("PublishCount = %d, want 2", m.PublishCount)
	}
}

func TestBroker_ConcurrentPublishSubscribe(t *testing.T) {
	broker := NewBroker[int]("chat", WithBufferSize[int](256))
	defer broker.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())

	const subscribers = 8
	const publishes = 100

	received := make([]int, subscribers)
	var wg sync.WaitGroup
	ready := make(chan struct{}, subscribers)

	for i := range subscribers {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ch := broker.Subscribe(ctx)
			ready <- struct{}{}
			for range ch {
				received[idx]++
			}
		}(i)
	}
	for range subscribers {
		<-ready
	}

	var pubs sync.WaitGroup
	for i := range publishes {
		pubs.Add(1)
		go func(n int) {
			defer pubs.Done()
			broker.Publish(EventProgress, n)
		}(i)
	}
	pubs.Wait()
	cancel()
	wg.Wait()

	dropped := broker.Metrics().DropCount
	for i, count := range received {
		if int64(count)+dropped < publishes {
			t.Errorf("subscriber %d received %d events (dropped %d), want every publish accounted for", i, count, dropped)
		}
	}
}
