package pubsub

import (
	"sync"

	"github.com/yodaai/yoda/internal/events"
)

// domainBroker is the lifecycle surface every typed broker exposes to
// the hub.
type domainBroker interface {
	BrokerInfo
	Shutdown()
}

// Hub owns one broker per event domain and manages their shared
// lifecycle. Consumers publish and subscribe through the typed
// fields; the hub itself only starts and stops them.
type Hub struct {
	Agent   *Broker[events.AgentEvent]
	Tool    *Broker[events.ToolEvent]
	Session *Broker[events.SessionEvent]
	Message *Broker[events.MessageEvent]
	MCP     *Broker[events.MCPEvent]
	Capture *Broker[events.CaptureEvent]

	registry *Registry
	done     chan struct{}
}

// NewHub creates a new Hub with all domain brokers initialized.
func NewHub() *Hub {
	h := &Hub{
		Agent:    NewBroker[events.AgentEvent]("agent"),
		Tool:     NewBroker[events.ToolEvent]("tool"),
		Session:  NewBroker[events.SessionEvent]("session"),
		Message:  NewBroker[events.MessageEvent]("message"),
		MCP:      NewBroker[events.MCPEvent]("mcp"),
		Capture:  NewBroker[events.CaptureEvent]("capture"),
		registry: NewRegistry(),
		done:     make(chan struct{}),
	}

	for _, b := range h.brokers() {
		h.registry.Register(b.Name(), b)
	}
	return h
}

// brokers lists every domain broker in a fixed order.
func (h *Hub) brokers() []domainBroker {
	return []domainBroker{h.Agent, h.Tool, h.Session, h.Message, h.MCP, h.Capture}
}

// Shutdown gracefully shuts down all brokers. Safe to call more than
// once.
func (h *Hub) Shutdown() {
	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}

	var wg sync.WaitGroup
	for _, b := range h.brokers() {
		wg.Add(1)
		go func(b domainBroker) {
			defer wg.Done()
			b.Shutdown()
		}(b)
	}
	wg.Wait()
}

// IsShutdown returns true if the hub has been shut down.
func (h *Hub) IsShutdown() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that's closed when the hub is shut down.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Registry returns the debug registry for introspection.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// AllMetrics returns metrics for all brokers.
func (h *Hub) AllMetrics() []BrokerMetrics {
	brokers := h.brokers()
	out := make([]BrokerMetrics, 0, len(brokers))
	for _, b := range brokers {
		out = append(out, b.Metrics())
	}
	return out
}

// DebugString returns a formatted debug string for all brokers.
func (h *Hub) DebugString() string {
	return h.registry.DebugString()
}
