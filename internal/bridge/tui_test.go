package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/yodaai/yoda/internal/events"
	"github.com/yodaai/yoda/internal/pubsub"
)

// mockSender captures messages the bridge forwards.
type mockSender struct {
	mu       sync.Mutex
	messages []tea.Msg
}

func (m *mockSender) Send(msg tea.Msg) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockSender) Messages() []tea.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]tea.Msg, len(m.messages))
	copy(out, m.messages)
	return out
}

// waitFor polls until pred sees a forwarded message or the deadline
// passes.
func (m *mockSender) waitFor(t *testing.T, what string, pred func(tea.Msg) bool) tea.Msg {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		for _, msg := range m.Messages() {
			if pred(msg) {
				return msg
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
	return nil
}

func startBridge(t *testing.T, opts ...TUIBridgeOption) (*pubsub.Hub, *mockSender, *TUIBridge) {
	t.Helper()

	hub := pubsub.NewHub()
	t.Cleanup(hub.Shutdown)

	sender := &mockSender{}
	b := NewTUIBridge(hub, sender, opts...)
	b.Start(context.Background())
	t.Cleanup(b.Stop)

	return hub, sender, b
}

func TestNewTUIBridge(t *testing.T) {
	hub := pubsub.NewHub()
	defer hub.Shutdown()

	sender := &mockSender{}
	b := NewTUIBridge(hub, sender, WithSessionFilter("session-123"))

	if b.hub != hub {
		t.Error("hub not stored")
	}
	if b.program != Sender(sender) {
		t.Error("sender not stored")
	}
	if b.sessionFilter != "session-123" {
		t.Errorf("sessionFilter = %q, want session-123", b.sessionFilter)
	}
}

func TestTUIBridge_StartStop(t *testing.T) {
	t.Run("full lifecycle", func(t *testing.T) {
		hub := pubsub.NewHub()
		defer hub.Shutdown()

		b := NewTUIBridge(hub, &mockSender{})
		b.Start(context.Background())
		time.Sleep(20 * time.Millisecond)

		b.Stop()
		b.Stop() // second Stop must not panic
	})

	t.Run("stop without start", func(t *testing.T) {
		hub := pubsub.NewHub()
		defer hub.Shutdown()

		NewTUIBridge(hub, &mockSender{}).Stop()
	})
}

func TestTUIBridge_SessionFilterUpdates(t *testing.T) {
	hub := pubsub.NewHub()
	defer hub.Shutdown()

	b := NewTUIBridge(hub, &mockSender{}, WithSessionFilter("initial"))

	b.SetSessionFilter("new-session")
	if b.sessionFilter != "new-session" {
		t.Errorf("sessionFilter = %q, want new-session", b.sessionFilter)
	}

	b.ClearSessionFilter()
	if b.sessionFilter != "" {
		t.Errorf("sessionFilter = %q, want empty", b.sessionFilter)
	}
}

func TestTUIBridge_ForwardsAgentEvents(t *testing.T) {
	hub, sender, _ := startBridge(t)

	hub.Agent.Publish(pubsub.EventProgress,
		events.NewTextDeltaEvent("session-1", "msg-1", "Hello"))

	msg := sender.waitFor(t, "agent message", func(m tea.Msg) bool {
		_, ok := m.(AgentEventMsg)
		return ok
	})
	if got := msg.(AgentEventMsg).Event.Payload.TextDelta; got != "Hello" {
		t.Errorf("TextDelta = %q, want Hello", got)
	}
}

func TestTUIBridge_ForwardsToolEvents(t *testing.T) {
	hub, sender, _ := startBridge(t)

	hub.Tool.Publish(pubsub.EventStarted,
		events.NewToolStartedEvent("session-1", "tc-1", "calc_add", "{}"))

	msg := sender.waitFor(t, "tool message", func(m tea.Msg) bool {
		_, ok := m.(ToolEventMsg)
		return ok
	})
	if got := msg.(ToolEventMsg).Event.Payload.ToolName; got != "calc_add" {
		t.Errorf("ToolName = %q, want calc_add", got)
	}
}

func TestTUIBridge_ForwardsSessionEvents(t *testing.T) {
	hub, sender, _ := startBridge(t)

	hub.Session.Publish(pubsub.EventCreated,
		events.NewSessionCreatedEvent("session-1", "Test Session"))

	msg := sender.waitFor(t, "session message", func(m tea.Msg) bool {
		_, ok := m.(SessionEventMsg)
		return ok
	})
	if got := msg.(SessionEventMsg).Event.Payload.Title; got != "Test Session" {
		t.Errorf("Title = %q, want Test Session", got)
	}
}

func TestTUIBridge_ForwardsMCPEvents(t *testing.T) {
	hub, sender, _ := startBridge(t)

	hub.MCP.Publish(pubsub.EventCompleted, events.NewMCPConnectedEvent("calc", 5))

	msg := sender.waitFor(t, "mcp message", func(m tea.Msg) bool {
		_, ok := m.(MCPEventMsg)
		return ok
	})
	payload := msg.(MCPEventMsg).Event.Payload
	if payload.Server != "calc" || payload.ToolCount != 5 {
		t.Errorf("got server=%q tools=%d, want calc/5", payload.Server, payload.ToolCount)
	}
}

func TestTUIBridge_ForwardsCaptureEvents(t *testing.T) {
	hub, sender, _ := startBridge(t)

	hub.Capture.Publish(pubsub.EventCreated,
		events.NewCaptureAddedEvent("session-1", "snippet.go", 64))

	msg := sender.waitFor(t, "capture message", func(m tea.Msg) bool {
		_, ok := m.(CaptureEventMsg)
		return ok
	})
	if got := msg.(CaptureEventMsg).Event.Payload.Name; got != "snippet.go" {
		t.Errorf("Name = %q, want snippet.go", got)
	}
}

func TestTUIBridge_SessionFilterDropsForeignEvents(t *testing.T) {
	hub, sender, _ := startBridge(t, WithSessionFilter("mine"))

	hub.Agent.Publish(pubsub.EventProgress,
		events.NewTextDeltaEvent("other", "m1", "dropped"))
	hub.Agent.Publish(pubsub.EventProgress,
		events.NewTextDeltaEvent("mine", "m2", "kept"))

	msg := sender.waitFor(t, "filtered agent message", func(m tea.Msg) bool {
		_, ok := m.(AgentEventMsg)
		return ok
	})
	if got := msg.(AgentEventMsg).Event.Payload.TextDelta; got != "kept" {
		t.Errorf("first forwarded TextDelta = %q, want the in-session one", got)
	}

	for _, m := range sender.Messages() {
		if am, ok := m.(AgentEventMsg); ok && am.Event.Payload.SessionID == "other" {
			t.Error("event for a foreign session was forwarded")
		}
	}
}

func TestTUIBridge_StopsOnContextCancel(t *testing.T) {
	hub := pubsub.NewHub()
	defer hub.Shutdown()

	b := NewTUIBridge(hub, &mockSender{})
	ctx, cancel := context.WithCancel(context.Background())
	b.Start(ctx)
	time.Sleep(20 * time.Millisecond)

	cancel()

	done := make(chan struct{})
	go func() {
		b.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Stop() hung after context cancellation")
	}
}

func TestTUIBridge_ConcurrentPublish(t *testing.T) {
	hub, _, _ := startBridge(t)

	const perBroker = 10
	var wg sync.WaitGroup
	wg.Add(6)

	go func() {
		defer wg.Done()
		for i := 0; i < perBroker; i++ {
			hub.Agent.Publish(pubsub.EventProgress, events.NewTextDeltaEvent("s", "m", "text"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perBroker; i++ {
			hub.Tool.Publish(pubsub.EventStarted, events.NewToolStartedEvent("s", "tc", "tool", "{}"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perBroker; i++ {
			hub.Session.Publish(pubsub.EventCreated, events.NewSessionCreatedEvent("s", "title"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perBroker; i++ {
			hub.Message.Publish(pubsub.EventCreated, events.NewMessageCreatedEvent("s", "m", "user"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perBroker; i++ {
			hub.MCP.Publish(pubsub.EventCompleted, events.NewMCPConnectedEvent("srv", 1))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perBroker; i++ {
			hub.Capture.Publish(pubsub.EventCreated, events.NewCaptureAddedEvent("s", "clip", 8))
		}
	}()

	wg.Wait()
	// Passing means no panic or deadlock under concurrent load.
}
