package bridge

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/yodaai/yoda/internal/debug"
	"github.com/yodaai/yoda/internal/events"
	"github.com/yodaai/yoda/internal/pubsub"
)

// Sender receives Bubble Tea messages. *tea.Program satisfies it.
type Sender interface {
	Send(tea.Msg)
}

// TUIBridge subscribes to all Hub brokers and forwards their events
// to the TUI as Bubble Tea messages. An optional session filter drops
// session-scoped events that belong to other sessions.
type TUIBridge struct { //nolint:govet // fieldalignment: preserving logical field order
	hub     *pubsub.Hub
	program Sender

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	sessionFilter string
}

// TUIBridgeOption configures the TUIBridge.
type TUIBridgeOption func(*TUIBridge)

// WithSessionFilter only forwards events for the specified session.
func WithSessionFilter(sessionID string) TUIBridgeOption {
	return func(b *TUIBridge) {
		b.sessionFilter = sessionID
	}
}

// NewTUIBridge creates a new TUI bridge.
func NewTUIBridge(hub *pubsub.Hub, program Sender, opts ...TUIBridgeOption) *TUIBridge {
	b := &TUIBridge{
		hub:     hub,
		program: program,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start begins forwarding events to the TUI.
// Call Stop() to gracefully shut down.
func (b *TUIBridge) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.wg.Add(6)
	go forward(b, b.hub.Agent.Subscribe(b.ctx),
		func(e pubsub.Event[events.AgentEvent]) tea.Msg { return AgentEventMsg{Event: e} },
		func(p events.AgentEvent) string { return p.SessionID })
	go forward(b, b.hub.Tool.Subscribe(b.ctx),
		func(e pubsub.Event[events.ToolEvent]) tea.Msg { return ToolEventMsg{Event: e} },
		func(p events.ToolEvent) string { return p.SessionID })
	go forward(b, b.hub.Session.Subscribe(b.ctx),
		func(e pubsub.Event[events.SessionEvent]) tea.Msg { return SessionEventMsg{Event: e} },
		nil) // session events always reach the UI, e.g. for the session list
	go forward(b, b.hub.Message.Subscribe(b.ctx),
		func(e pubsub.Event[events.MessageEvent]) tea.Msg { return MessageEventMsg{Event: e} },
		func(p events.MessageEvent) string { return p.SessionID })
	go forward(b, b.hub.MCP.Subscribe(b.ctx),
		func(e pubsub.Event[events.MCPEvent]) tea.Msg { return MCPEventMsg{Event: e} },
		nil) // MCP events are server-scoped, never session-scoped
	go forward(b, b.hub.Capture.Subscribe(b.ctx),
		func(e pubsub.Event[events.CaptureEvent]) tea.Msg { return CaptureEventMsg{Event: e} },
		func(p events.CaptureEvent) string { return p.SessionID })

	debug.Event("bridge", "start", "TUI bridge started")
}

// Stop gracefully shuts down the bridge.
func (b *TUIBridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	debug.Event("bridge", "stop", "TUI bridge stopped")
}

// forward pumps one broker's events into the program until the bridge
// context ends. sessionOf extracts the payload's session for
// filtering; nil means the event kind is never filtered.
func forward[T any](b *TUIBridge, ch <-chan pubsub.Event[T], wrap func(pubsub.Event[T]) tea.Msg, sessionOf func(T) string) {
	defer b.wg.Done()

	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if sessionOf != nil && b.sessionFilter != "" && sessionOf(event.Payload) != b.sessionFilter {
				continue
			}
			b.program.Send(wrap(event))
		}
	}
}

// SetSessionFilter updates the session filter at runtime.
func (b *TUIBridge) SetSessionFilter(sessionID string) {
	b.sessionFilter = sessionID
}

// ClearSessionFilter removes the session filter.
func (b *TUIBridge) ClearSessionFilter() {
	b.sessionFilter = ""
}
