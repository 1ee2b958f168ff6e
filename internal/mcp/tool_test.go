package mcp

import (
	"context"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yodaai/yoda/internal/config"
)

func TestQualifiedToolName(t *testing.T) {
	tests := []struct {
		name       string
		serverName string
		toolName   string
		want       string
	}{
		{name: "simple", serverName: "github", toolName: "search", want: "github_search"},
		{name: "empty server", serverName: "", toolName: "search", want: "search"},
		{name: "spaces sanitized", serverName: "my server", toolName: "run", want: "my-server_run"},
		{name: "dots sanitized", serverName: "api.v2", toolName: "get", want: "api-v2_get"},
		{name: "allowed characters kept", serverName: "files_local-1", toolName: "ls", want: "files_local-1_ls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QualifiedToolName(tt.serverName, tt.toolName); got != tt.want {
				t.Errorf("QualifiedToolName(%q, %q) = %q, want %q", tt.serverName, tt.toolName, got, tt.want)
			}
		})
	}
}

func TestToolDescription(t *testing.T) {
	tool := &mcpsdk.Tool{
		Name:        "echo",
		Description: "Echo input",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
		},
	}

	description := toolDescription(tool)
	if !strings.HasPrefix(description, "Echo input") {
		t.Errorf("description = %q, want server description first", description)
	}
	if !strings.Contains(description, "Input schema:") {
		t.Errorf("description = %q, want embedded schema", description)
	}
	if !strings.Contains(description, `"text"`) {
		t.Errorf("description = %q, want schema properties included", description)
	}
}

func TestToolDescription_NoSchema(t *testing.T) {
	tool := &mcpsdk.Tool{Name: "ping", Description: "Health check"}
	if got := toolDescription(tool); got != "Health check" {
		t.Errorf("toolDescription() = %q, want %q", got, "Health check")
	}
}

func TestAgentTool(t *testing.T) {
	client := NewClient(config.MCPServerConfig{Name: "github"})
	tool := &mcpsdk.Tool{Name: "search", Description: "Search code"}

	if adapter := AgentTool(client, tool); adapter == nil {
		t.Fatal("AgentTool() returned nil")
	}
}

func TestSessionIDContext(t *testing.T) {
	ctx := context.Background()
	if got := SessionIDFromContext(ctx); got != "" {
		t.Errorf("SessionIDFromContext() on empty context = %q, want empty", got)
	}

	ctx = WithSessionID(ctx, "session-123")
	if got := SessionIDFromContext(ctx); got != "session-123" {
		t.Errorf("SessionIDFromContext() = %q, want %q", got, "session-123")
	}
}

func TestMessageIDContext(t *testing.T) {
	ctx := context.Background()
	if got := MessageIDFromContext(ctx); got != "" {
		t.Errorf("MessageIDFromContext() on empty context = %q, want empty", got)
	}

	ctx = WithMessageID(ctx, "message-456")
	if got := MessageIDFromContext(ctx); got != "message-456" {
		t.Errorf("MessageIDFromContext() = %q, want %q", got, "message-456")
	}
}

func TestWorkingDirContext(t *testing.T) {
	ctx := context.Background()
	if got := WorkingDirFromContext(ctx); got != "" {
		t.Errorf("WorkingDirFromContext() on empty context = %q, want empty", got)
	}

	ctx = WithWorkingDir(ctx, "/tmp/project")
	if got := WorkingDirFromContext(ctx); got != "/tmp/project" {
		t.Errorf("WorkingDirFromContext() = %q, want %q", got, "/tmp/project")
	}
}
