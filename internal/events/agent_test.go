package events

import (
	"errors"
	"testing"
	"time"
)

func TestAgentEventConstructors(t *testing.T) {
	streamErr := errors.New("stream interrupted")

	tests := []struct {
		name     string
		event    AgentEvent
		wantType AgentEventType
		check    func(t *testing.T, e AgentEvent)
	}{
		{
			name:     "text delta",
			event:    NewTextDeltaEvent("sess-1", "msg-1", "Hello"),
			wantType: AgentEventTextDelta,
			check: func(t *testing.T, e AgentEvent) {
				if e.TextDelta != "Hello" {
					t.Errorf("TextDelta = %q, want %q", e.TextDelta, "Hello")
				}
				if e.ToolCall != nil || e.ToolResult != nil || e.Error != nil {
					t.Error("only TextDelta should be populated")
				}
			},
		},
		{
			name: "tool call",
			event: NewToolCallEvent("sess-1", "msg-1", ToolCallInfo{
				ID:    "tc-1",
				Name:  "fetch",
				Input: `{"url":"https://example.com"}`,
			}),
			wantType: AgentEventToolCall,
			check: func(t *testing.T, e AgentEvent) {
				if e.ToolCall == nil {
					t.Fatal("ToolCall should be populated")
				}
				if e.ToolCall.Name != "fetch" {
					t.Errorf("ToolCall.Name = %q, want %q", e.ToolCall.Name, "fetch")
				}
			},
		},
		{
			name: "tool result",
			event: NewToolResultEvent("sess-1", "msg-1", ToolResultInfo{
				ToolCallID: "tc-1",
				Name:       "fetch",
				Content:    "<html>...</html>",
				Duration:   120 * time.Millisecond,
			}),
			wantType: AgentEventToolResult,
			check: func(t *testing.T, e AgentEvent) {
				if e.ToolResult == nil {
					t.Fatal("ToolResult should be populated")
				}
				if e.ToolResult.Duration != 120*time.Millisecond {
					t.Errorf("Duration = %v, want 120ms", e.ToolResult.Duration)
				}
				if e.ToolResult.IsError {
					t.Error("IsError should be false")
				}
			},
		},
		{
			name:     "complete",
			event:    NewCompleteEvent("sess-1", "msg-1"),
			wantType: AgentEventComplete,
			check: func(t *testing.T, e AgentEvent) {
				if e.TextDelta != "" || e.Error != nil {
					t.Error("complete event should carry no payload")
				}
			},
		},
		{
			name:     "error",
			event:    NewErrorEvent("sess-1", "msg-1", streamErr),
			wantType: AgentEventError,
			check: func(t *testing.T, e AgentEvent) {
				if !errors.Is(e.Error, streamErr) {
					t.Errorf("Error = %v, want %v", e.Error, streamErr)
				}
			},
		},
		{
			name:     "cancelled",
			event:    NewCancelledEvent("sess-1", "msg-1"),
			wantType: AgentEventCancelled,
			check: func(t *testing.T, e AgentEvent) {
				if e.Error != nil {
					t.Error("cancelled is not an error event")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", tt.event.Type, tt.wantType)
			}
			if tt.event.SessionID != "sess-1" {
				t.Errorf("SessionID = %q, want %q", tt.event.SessionID, "sess-1")
			}
			if tt.event.MessageID != "msg-1" {
				t.Errorf("MessageID = %q, want %q", tt.event.MessageID, "msg-1")
			}
			if tt.event.Timestamp.IsZero() {
				t.Error("Timestamp should be set")
			}
			tt.check(t, tt.event)
		})
	}
}

func TestAgentEventTypesDistinct(t *testing.T) {
	types := []AgentEventType{
		AgentEventTextDelta,
		AgentEventToolCall,
		AgentEventToolResult,
		AgentEventComplete,
		AgentEventError,
		AgentEventCancelled,
	}

	seen := make(map[AgentEventType]bool)
	for _, typ := range types {
		if seen[typ] {
			t.Errorf("duplicate event type: %s", typ)
		}
		seen[typ] = true
	}
}

func TestToolCallInfoCopiedIntoEvent(t *testing.T) {
	// Constructors take the info by value; mutating the caller's copy
	// after publishing must not affect the event.
	info := ToolCallInfo{ID: "tc-1", Name: "fetch", Input: "{}"}
	event := NewToolCallEvent("sess-1", "msg-1", info)

	info.Name = "changed"

	if event.ToolCall.Name != "fetch" {
		t.Errorf("ToolCall.Name = %q, want %q", event.ToolCall.Name, "fetch")
	}
}
