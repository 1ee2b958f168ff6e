package pubsub

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// BrokerInfo is the read-only view the registry keeps of a broker.
// Broker[T] satisfies it for every T.
type BrokerInfo interface {
	Name() string
	SubscriberCount() int
	IsShutdown() bool
	Metrics() BrokerMetrics
}

// Registry indexes brokers by name so debug surfaces can enumerate
// them without knowing their payload types.
type Registry struct {
	mu      sync.RWMutex
	brokers map[string]BrokerInfo
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{brokers: make(map[string]BrokerInfo)}
}

// Register adds or replaces a broker under the given name.
func (r *Registry) Register(name string, broker BrokerInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.brokers[name] = broker
}

// Unregister removes the named broker. Unknown names are a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.brokers, name)
}

// Get looks up a broker by name.
func (r *Registry) Get(name string) (BrokerInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	broker, ok := r.brokers[name]
	return broker, ok
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.brokers))
	for name := range r.brokers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllMetrics snapshots every registered broker's counters.
func (r *Registry) AllMetrics() map[string]BrokerMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]BrokerMetrics, len(r.brokers))
	for name, broker := range r.brokers {
		out[name] = broker.Metrics()
	}
	return out
}

// DebugString renders one line per broker for the debug log.
func (r *Registry) DebugString() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.brokers))
	for name := range r.brokers {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "brokers (%d):\n", len(names))
	for _, name := range names {
		broker := r.brokers[name]
		m := broker.Metrics()
		fmt.Fprintf(&sb, "  %s: subs=%d peak=%d published=%d dropped=%d shutdown=%v\n",
			name, m.SubscriberCount, m.SubscriberPeak,
			m.PublishCount, m.DropCount, broker.IsShutdown())
	}
	return sb.String()
}
