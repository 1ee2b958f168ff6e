// Package message provides message management with persistence.
package message

import (
	"encoding/json"
	"strings"
	"time"
)

// Role identifies who produced a message.
type Role string

// Recognized roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message is one conversation entry. Its content lives in Parts so a
// single assistant turn can mix text, reasoning and tool activity.
type Message struct {
	ID        string
	SessionID string
	Role      Role
	Parts     []Part
	Model     string
	Provider  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PartType discriminates the content kinds a Part can hold.
type PartType string

// Part kinds.
const (
	PartTypeText       PartType = "text"
	PartTypeReasoning  PartType = "reasoning"
	PartTypeToolCall   PartType = "tool_call"
	PartTypeToolResult PartType = "tool_result"
)

// Part is one content block of a message. Exactly one payload field is
// set, matching Type.
type Part struct {
	Type       PartType    `json:"type"`
	Text       string      `json:"text,omitempty"`
	Reasoning  string      `json:"reasoning,omitempty"`
	ToolCall   *ToolCall   `json:"tool_call,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// ToolCall records a tool invocation requested by the model.
type ToolCall struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Input string `json:"input"`
}

// ToolResult records the outcome of a tool invocation.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error"`
}

// firstPart returns the first part of the given kind, or nil.
func (m *Message) firstPart(kind PartType) *Part {
	for i := range m.Parts {
		if m.Parts[i].Type == kind {
			return &m.Parts[i]
		}
	}
	return nil
}

// TextContent returns the message's text content.
func (m *Message) TextContent() string {
	if p := m.firstPart(PartTypeText); p != nil {
		return p.Text
	}
	return ""
}

// ReasoningContent returns the message's reasoning content.
func (m *Message) ReasoningContent() string {
	if p := m.firstPart(PartTypeReasoning); p != nil {
		return p.Reasoning
	}
	return ""
}

// ToolCalls returns every tool call in the message.
func (m *Message) ToolCalls() []*ToolCall {
	var calls []*ToolCall
	for _, p := range m.Parts {
		if p.Type == PartTypeToolCall && p.ToolCall != nil {
			calls = append(calls, p.ToolCall)
		}
	}
	return calls
}

// ToolResults returns every tool result in the message.
func (m *Message) ToolResults() []*ToolResult {
	var results []*ToolResult
	for _, p := range m.Parts {
		if p.Type == PartTypeToolResult && p.ToolResult != nil {
			results = append(results, p.ToolResult)
		}
	}
	return results
}

type toolCallPayload struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// MarkupContent renders the message parts as markup text for transcript
// rendering. Text parts pass through unchanged, tool calls become
// <tool_call> regions carrying a JSON payload, and tool results become
// <tool_result name="..."> regions. Reasoning parts are omitted.
func (m *Message) MarkupContent() string {
	var b strings.Builder
	for _, p := range m.Parts {
		switch p.Type {
		case PartTypeText:
			b.WriteString(p.Text)
		case PartTypeToolCall:
			writeToolCallMarkup(&b, p.ToolCall)
		case PartTypeToolResult:
			writeToolResultMarkup(&b, p.ToolResult)
		}
	}
	return b.String()
}

func writeToolCallMarkup(b *strings.Builder, tc *ToolCall) {
	if tc == nil {
		return
	}
	payload := toolCallPayload{Name: tc.Name}
	if json.Valid([]byte(tc.Input)) {
		payload.Arguments = json.RawMessage(tc.Input)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	b.WriteString("\n<tool_call>")
	b.Write(data)
	b.WriteString("</tool_call>\n")
}

func writeToolResultMarkup(b *strings.Builder, tr *ToolResult) {
	if tr == nil {
		return
	}
	b.WriteString("\n<tool_result name=\"")
	b.WriteString(tr.Name)
	b.WriteString("\">")
	b.WriteString(tr.Content)
	b.WriteString("</tool_result>\n")
}

// NewTextPart creates a text part.
func NewTextPart(text string) Part {
	return Part{Type: PartTypeText, Text: text}
}

// NewReasoningPart creates a reasoning part.
func NewReasoningPart(reasoning string) Part {
	return Part{Type: PartTypeReasoning, Reasoning: reasoning}
}

// NewToolCallPart creates a tool call part.
func NewToolCallPart(id, name, input string) Part {
	return Part{
		Type:     PartTypeToolCall,
		ToolCall: &ToolCall{ID: id, Name: name, Input: input},
	}
}

// NewToolResultPart creates a tool result part.
func NewToolResultPart(toolCallID, name, content string, isError bool) Part {
	return Part{
		Type: PartTypeToolResult,
		ToolResult: &ToolResult{
			ToolCallID: toolCallID,
			Name:       name,
			Content:    content,
			IsError:    isError,
		},
	}
}
