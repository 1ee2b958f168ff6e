package mcp

import (
	"context"
	"errors"
	"sync"

	"charm.land/fantasy"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/events"
	"github.com/yodaai/yoda/internal/lru"
	"github.com/yodaai/yoda/internal/pubsub"
)

// toolCacheSize bounds how many per-server tool listings stay cached.
const toolCacheSize = 16

// ServerStatus describes one configured server's connection state.
type ServerStatus struct {
	ID        string
	Name      string
	Transport string
	Connected bool
	ToolCount int
	Err       error
}

// Manager owns the clients for all enabled MCP servers and tracks
// their connection state.
type Manager struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	statuses  map[string]ServerStatus
	order     []string
	toolCache *lru.Cache[string, []*mcpsdk.Tool]
	broker    *pubsub.Broker[events.MCPEvent]
}

// NewManager creates a manager for the given server registrations.
// Disabled servers are skipped. The broker may be nil when nothing
// listens for connection events.
func NewManager(servers []config.MCPServerConfig, broker *pubsub.Broker[events.MCPEvent]) *Manager {
	m := &Manager{
		clients:   make(map[string]*Client),
		statuses:  make(map[string]ServerStatus),
		toolCache: lru.New[string, []*mcpsdk.Tool](toolCacheSize),
		broker:    broker,
	}
	for _, server := range servers {
		if server.Disabled {
			continue
		}
		m.clients[server.ID] = NewClient(server)
		m.statuses[server.ID] = ServerStatus{
			ID:        server.ID,
			Name:      server.Name,
			Transport: server.Transport,
		}
		m.order = append(m.order, server.ID)
	}
	return m
}

// Connect dials every server and records per-server status. A server
// that fails to connect does not stop the others.
func (m *Manager) Connect(ctx context.Context) {
	for _, id := range m.serverIDs() {
		m.connectServer(ctx, id)
	}
}

func (m *Manager) connectServer(ctx context.Context, id string) {
	m.mu.RLock()
	client := m.clients[id]
	m.mu.RUnlock()
	if client == nil {
		return
	}

	m.publish(events.NewMCPConnectingEvent(client.Name()))

	toolList, err := client.Tools(ctx)

	m.mu.Lock()
	status := m.statuses[id]
	if err != nil {
		status.Connected = false
		status.Err = err
	} else {
		status.Connected = true
		status.ToolCount = len(toolList)
		status.Err = nil
		m.toolCache.Put(id, toolList)
	}
	m.statuses[id] = status
	m.mu.Unlock()

	if err != nil {
		m.publish(events.NewMCPFailedEvent(client.Name(), err))
		return
	}
	m.publish(events.NewMCPConnectedEvent(client.Name(), len(toolList)))
}

// Tools returns fantasy adapters for every tool on every reachable
// server. Listings fetched by Connect are served from the cache;
// servers that cannot be reached contribute nothing.
func (m *Manager) Tools(ctx context.Context) []fantasy.AgentTool {
	var result []fantasy.AgentTool
	for _, id := range m.serverIDs() {
		m.mu.RLock()
		client := m.clients[id]
		cached, ok := m.toolCache.Get(id)
		m.mu.RUnlock()
		if client == nil {
			continue
		}

		toolList := cached
		if !ok {
			listed, err := client.Tools(ctx)
			if err != nil {
				continue
			}
			m.mu.Lock()
			m.toolCache.Put(id, listed)
			m.mu.Unlock()
			toolList = listed
		}

		for _, tool := range toolList {
			result = append(result, AgentTool(client, tool))
		}
	}
	return result
}

// Status reports all servers in registration order.
func (m *Manager) Status() []ServerStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ServerStatus, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.statuses[id])
	}
	return result
}

// Client returns the client for a server name, or nil when no enabled
// server has it.
func (m *Manager) Client(name string) *Client {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, client := range m.clients {
		if client.Name() == name {
			return client
		}
	}
	return nil
}

// Close shuts down all sessions. Errors are joined so one bad session
// does not hide the rest.
func (m *Manager) Close() error {
	var errs []error
	for _, id := range m.serverIDs() {
		m.mu.Lock()
		client := m.clients[id]
		status := m.statuses[id]
		wasConnected := status.Connected
		status.Connected = false
		status.ToolCount = 0
		m.statuses[id] = status
		m.mu.Unlock()

		if client == nil {
			continue
		}
		if err := client.Close(); err != nil {
			errs = append(errs, err)
		}
		if wasConnected {
			m.publish(events.NewMCPDisconnectedEvent(client.Name()))
		}
	}
	return errors.Join(errs...)
}

// serverIDs snapshots the registration order under the read lock.
func (m *Manager) serverIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

func (m *Manager) publish(event events.MCPEvent) {
	if m.broker == nil {
		return
	}
	m.broker.Publish(eventTypeFor(event.Type), event)
}

// eventTypeFor maps MCP lifecycle phases onto broker event types.
func eventTypeFor(t events.MCPEventType) pubsub.EventType {
	switch t {
	case events.MCPEventConnecting:
		return pubsub.EventStarted
	case events.MCPEventConnected:
		return pubsub.EventCompleted
	case events.MCPEventFailed:
		return pubsub.EventFailed
	case events.MCPEventDisconnected:
		return pubsub.EventDeleted
	default:
		return pubsub.EventUpdated
	}
}
