package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MCP transport constants.
const (
	MCPTransportStdio = "stdio"
	MCPTransportSSE   = "sse"
	MCPTransportHTTP  = "http"
)

// MCPServerConfig represents a named MCP server registration.
// Users can register multiple servers of the same transport
// (e.g., "fetch" and "filesystem" both over stdio).
type MCPServerConfig struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Transport string            `json:"transport"`
	Command   string            `json:"command,omitempty"`
	Args      []string          `json:"args,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	URL       string            `json:"url,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Disabled  bool              `json:"disabled,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsConfigured returns true if the server has enough settings to connect.
func (s *MCPServerConfig) IsConfigured() bool {
	switch s.Transport {
	case MCPTransportStdio:
		return s.Command != ""
	case MCPTransportSSE, MCPTransportHTTP:
		return s.URL != ""
	default:
		return false
	}
}

// IsRemote returns true if the server is reached over the network.
func (s *MCPServerConfig) IsRemote() bool {
	return s.Transport == MCPTransportSSE || s.Transport == MCPTransportHTTP
}

// MCPServerManager provides CRUD operations for MCP server registrations.
type MCPServerManager struct {
	cfg *Config
}

// NewMCPServerManager creates a new MCPServerManager.
func NewMCPServerManager(cfg *Config) *MCPServerManager {
	return &MCPServerManager{cfg: cfg}
}

// List returns all registered MCP servers.
func (m *MCPServerManager) List() []MCPServerConfig {
	if m.cfg.MCPServers == nil {
		return []MCPServerConfig{}
	}
	return m.cfg.MCPServers
}

// Enabled returns all registered servers that are not disabled.
func (m *MCPServerManager) Enabled() []MCPServerConfig {
	var result []MCPServerConfig
	for i := range m.cfg.MCPServers {
		if !m.cfg.MCPServers[i].Disabled {
			result = append(result, m.cfg.MCPServers[i])
		}
	}
	return result
}

// Get returns a server by ID.
func (m *MCPServerManager) Get(id string) *MCPServerConfig {
	for i := range m.cfg.MCPServers {
		if m.cfg.MCPServers[i].ID == id {
			return &m.cfg.MCPServers[i]
		}
	}
	return nil
}

// GetByName returns a server by name.
func (m *MCPServerManager) GetByName(name string) *MCPServerConfig {
	for i := range m.cfg.MCPServers {
		if m.cfg.MCPServers[i].Name == name {
			return &m.cfg.MCPServers[i]
		}
	}
	return nil
}

// Add registers a new MCP server and saves to config.
func (m *MCPServerManager) Add(server MCPServerConfig) error {
	// Generate ID if not provided.
	if server.ID == "" {
		server.ID = uuid.New().String()
	}

	// Validate required fields.
	if server.Name == "" {
		return fmt.Errorf("server name is required")
	}
	if !server.IsConfigured() {
		return fmt.Errorf("server %q is missing transport configuration", server.Name)
	}

	// Check for duplicate name.
	if existing := m.GetByName(server.Name); existing != nil {
		return fmt.Errorf("server with name %q already exists", server.Name)
	}

	// Set timestamps.
	now := time.Now()
	server.CreatedAt = now
	server.UpdatedAt = now

	// Add to config.
	m.cfg.MCPServers = append(m.cfg.MCPServers, server)

	// Persist to disk.
	return Save(m.cfg)
}

// Update modifies an existing server registration.
func (m *MCPServerManager) Update(server MCPServerConfig) error {
	for i := range m.cfg.MCPServers {
		if m.cfg.MCPServers[i].ID != server.ID {
			continue
		}
		// Preserve original CreatedAt.
		server.CreatedAt = m.cfg.MCPServers[i].CreatedAt
		server.UpdatedAt = time.Now()

		// Check for duplicate name (excluding self).
		if existing := m.GetByName(server.Name); existing != nil && existing.ID != server.ID {
			return fmt.Errorf("server with name %q already exists", server.Name)
		}

		m.cfg.MCPServers[i] = server
		return Save(m.cfg)
	}
	return fmt.Errorf("server %q not found", server.ID)
}

// Delete removes a server registration by ID.
func (m *MCPServerManager) Delete(id string) error {
	for i := range m.cfg.MCPServers {
		if m.cfg.MCPServers[i].ID == id {
			// Remove from slice.
			m.cfg.MCPServers = append(m.cfg.MCPServers[:i], m.cfg.MCPServers[i+1:]...)
			return Save(m.cfg)
		}
	}
	return fmt.Errorf("server %q not found", id)
}

// SetDisabled toggles whether a server is used.
func (m *MCPServerManager) SetDisabled(id string, disabled bool) error {
	server := m.Get(id)
	if server == nil {
		return fmt.Errorf("server %q not found", id)
	}

	server.Disabled = disabled
	server.UpdatedAt = time.Now()
	return Save(m.cfg)
}
