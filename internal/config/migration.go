package config

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LegacyMCPServer is a claude-desktop style server block from the old
// "mcpServers" config map.
type LegacyMCPServer struct {
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// MigrateMCPServers migrates the legacy "mcpServers" map to the
// MCPServers list. This provides backward compatibility for users
// upgrading from older versions.
//
// The migration:
// 1. Checks if registrations already exist (skip if so)
// 2. Creates a registration for each legacy entry, inferring the transport
// 3. Persists the changes to disk
func MigrateMCPServers(cfg *Config) error {
	// Skip if already migrated (registrations exist).
	if len(cfg.MCPServers) > 0 {
		cfg.LegacyMCPServers = nil
		return nil
	}

	// Skip if no legacy entries.
	if len(cfg.LegacyMCPServers) == 0 {
		return nil
	}

	for name, legacy := range cfg.LegacyMCPServers {
		server := MCPServerConfig{
			ID:        uuid.New().String(),
			Name:      name,
			Transport: inferTransport(legacy),
			Command:   legacy.Command,
			Args:      legacy.Args,
			Env:       legacy.Env,
			URL:       legacy.URL,
			Headers:   legacy.Headers,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if !server.IsConfigured() {
			continue
		}
		cfg.MCPServers = append(cfg.MCPServers, server)
	}

	cfg.LegacyMCPServers = nil

	if len(cfg.MCPServers) == 0 {
		return nil
	}

	// Persist the migration.
	return Save(cfg)
}

// inferTransport guesses the transport for a legacy entry: a URL ending
// in /sse is SSE, any other URL is streamable HTTP, otherwise stdio.
func inferTransport(legacy LegacyMCPServer) string {
	if legacy.URL != "" {
		if strings.HasSuffix(strings.TrimSuffix(legacy.URL, "/"), "/sse") {
			return MCPTransportSSE
		}
		return MCPTransportHTTP
	}
	return MCPTransportStdio
}
