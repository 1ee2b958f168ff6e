package mcp

import (
	"context"
	"encoding/json"

	"charm.land/fantasy"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Context key types for type safety.
type (
	sessionIDContextKey  string
	messageIDContextKey  string
	workingDirContextKey string
)

// Context keys for tool invocations.
const (
	SessionIDContextKey  sessionIDContextKey  = "session_id"
	MessageIDContextKey  messageIDContextKey  = "message_id"
	WorkingDirContextKey workingDirContextKey = "working_dir"
)

// WithSessionID adds a session ID to the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDContextKey, sessionID)
}

// SessionIDFromContext retrieves the session ID from the context.
func SessionIDFromContext(ctx context.Context) string {
	sessionID := ctx.Value(SessionIDContextKey)
	if sessionID == nil {
		return ""
	}
	s, ok := sessionID.(string)
	if !ok {
		return ""
	}
	return s
}

// WithMessageID adds a message ID to the context.
func WithMessageID(ctx context.Context, messageID string) context.Context {
	return context.WithValue(ctx, MessageIDContextKey, messageID)
}

// MessageIDFromContext retrieves the message ID from the context.
func MessageIDFromContext(ctx context.Context) string {
	messageID := ctx.Value(MessageIDContextKey)
	if messageID == nil {
		return ""
	}
	s, ok := messageID.(string)
	if !ok {
		return ""
	}
	return s
}

// WithWorkingDir adds a working directory to the context.
func WithWorkingDir(ctx context.Context, workingDir string) context.Context {
	return context.WithValue(ctx, WorkingDirContextKey, workingDir)
}

// WorkingDirFromContext retrieves the working directory from the context.
func WorkingDirFromContext(ctx context.Context) string {
	workingDir := ctx.Value(WorkingDirContextKey)
	if workingDir == nil {
		return ""
	}
	s, ok := workingDir.(string)
	if !ok {
		return ""
	}
	return s
}

// AgentTool adapts one server tool into a fantasy tool the agent can
// call. Parameters arrive as loose JSON and are forwarded unchanged;
// the server validates them against its own schema.
func AgentTool(client *Client, tool *mcpsdk.Tool) fantasy.AgentTool {
	name := QualifiedToolName(client.Name(), tool.Name)
	description := toolDescription(tool)

	return fantasy.NewAgentTool(name, description,
		func(ctx context.Context, params map[string]any, call fantasy.ToolCall) (fantasy.ToolResponse, error) {
			text, isError, err := client.CallTool(ctx, tool.Name, params)
			if err != nil {
				return fantasy.NewTextErrorResponse(err.Error()), nil
			}
			if isError {
				return fantasy.NewTextErrorResponse(text), nil
			}
			return fantasy.NewTextResponse(text), nil
		})
}

// QualifiedToolName namespaces a tool with its server name so two
// servers can both export, say, "search".
func QualifiedToolName(serverName, toolName string) string {
	serverName = sanitizeToolName(serverName)
	if serverName == "" {
		return toolName
	}
	return serverName + "_" + toolName
}

// sanitizeToolName replaces characters providers reject in tool names.
func sanitizeToolName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}

// toolDescription appends the input schema to the server's description
// so the model sees the expected argument shape.
func toolDescription(tool *mcpsdk.Tool) string {
	description := tool.Description
	schema := schemaJSON(tool.InputSchema)
	if schema == "" {
		return description
	}
	if description != "" {
		description += "\n\n"
	}
	return description + "Input schema:\n" + schema
}

// schemaJSON renders a tool input schema as indented JSON.
func schemaJSON(schema any) string {
	if schema == nil {
		return ""
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
