package session

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yodaai/yoda/internal/message"
)

func TestExportMarkdown(t *testing.T) {
	sess := &Session{
		ID:        "abc123def456",
		Title:     "Planning the rollout",
		CreatedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}

	msgs := []*message.Message{
		{
			Role:  message.RoleSystem,
			Parts: []message.Part{{Type: message.PartTypeText, Text: "secret system prompt"}},
		},
		{
			Role:  message.RoleUser,
			Parts: []message.Part{{Type: message.PartTypeText, Text: "What is the plan?"}},
		},
		{
			Role: message.RoleAssistant,
			Parts: []message.Part{
				{Type: message.PartTypeText, Text: "Let me check the notes."},
				{Type: message.PartTypeToolCall, ToolCall: &message.ToolCall{
					ID:    "tc1",
					Name:  "read_file",
					Input: `{"path": "notes.md"}`,
				}},
			},
		},
		{
			Role: message.RoleTool,
			Parts: []message.Part{
				{Type: message.PartTypeToolResult, ToolResult: &message.ToolResult{
					ToolCallID: "tc1",
					Name:       "read_file",
					Content:    "rollout starts Monday",
				}},
			},
		},
		{
			Role: message.RoleTool,
			Parts: []message.Part{
				{Type: message.PartTypeToolResult, ToolResult: &message.ToolResult{
					ToolCallID: "tc2",
					Name:       "write_file",
					Content:    "permission denied",
					IsError:    true,
				}},
			},
		},
	}

	var buf bytes.Buffer
	if err := ExportMarkdown(&buf, sess, msgs); err != nil {
		t.Fatalf("ExportMarkdown() error = %v", err)
	}

	out := buf.String()

	checks := []string{
		"# Planning the rollout",
		"5 messages",
		"## You",
		"What is the plan?",
		"## Assistant",
		"Let me check the notes.",
		"**Tool call: read_file**",
		`"path": "notes.md"`,
		"**Tool result: read_file**",
		"rollout starts Monday",
		"**Tool error: write_file**",
		"permission denied",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("export should contain %q", want)
		}
	}

	if strings.Contains(out, "secret system prompt") {
		t.Error("export should not contain system messages")
	}
}

func TestExportMarkdown_UntitledSession(t *testing.T) {
	sess := &Session{ID: "abc123", Title: "  "}

	var buf bytes.Buffer
	if err := ExportMarkdown(&buf, sess, nil); err != nil {
		t.Fatalf("ExportMarkdown() error = %v", err)
	}

	if !strings.Contains(buf.String(), "# Untitled session") {
		t.Error("expected fallback title for untitled session")
	}
}

func TestExportJSON(t *testing.T) {
	sess := &Session{
		ID:           "abc123def456",
		Title:        "Planning the rollout",
		MessageCount: 2,
		CreatedAt:    time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}

	msgs := []*message.Message{
		{
			ID:    "m1",
			Role:  message.RoleUser,
			Parts: []message.Part{{Type: message.PartTypeText, Text: "What is the plan?"}},
		},
		{
			ID:       "m2",
			Role:     message.RoleAssistant,
			Model:    "gpt-4o",
			Provider: "openai",
			Parts: []message.Part{
				{Type: message.PartTypeText, Text: "Ship on Monday."},
				{Type: message.PartTypeToolCall, ToolCall: &message.ToolCall{
					ID:    "tc1",
					Name:  "read_file",
					Input: `{"path": "notes.md"}`,
				}},
			},
		},
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, sess, msgs); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	var doc exportDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if doc.Session.ID != "abc123def456" || doc.Session.Title != "Planning the rollout" {
		t.Errorf("session header = %+v", doc.Session)
	}
	if len(doc.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(doc.Messages))
	}
	if doc.Messages[0].Role != message.RoleUser {
		t.Errorf("first message role = %q, want user", doc.Messages[0].Role)
	}
	if doc.Messages[1].Model != "gpt-4o" || doc.Messages[1].Provider != "openai" {
		t.Errorf("assistant model metadata not preserved: %+v", doc.Messages[1])
	}

	var gotCall *message.ToolCall
	for _, p := range doc.Messages[1].Parts {
		if p.Type == message.PartTypeToolCall {
			gotCall = p.ToolCall
		}
	}
	if gotCall == nil || gotCall.Name != "read_file" {
		t.Errorf("tool call part not preserved: %+v", gotCall)
	}
}

func TestExportFilename(t *testing.T) {
	created := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sess *Session
		want string
	}{
		{
			name: "title slugified",
			sess: &Session{ID: "abc123def456", Title: "Planning the Rollout", CreatedAt: created},
			want: "yoda-planning-the-rollout-2026-01-15.md",
		},
		{
			name: "punctuation collapsed",
			sess: &Session{ID: "abc123def456", Title: "Fix: DB / cache bug!!", CreatedAt: created},
			want: "yoda-fix-db-cache-bug-2026-01-15.md",
		},
		{
			name: "empty title falls back to id",
			sess: &Session{ID: "abc123def456", Title: "", CreatedAt: created},
			want: "yoda-abc123de-2026-01-15.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportFilename(tt.sess); got != tt.want {
				t.Errorf("ExportFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  spaced  out  ", "spaced-out"},
		{"MixedCASE123", "mixedcase123"},
		{"trailing punctuation...", "trailing-punctuation"},
		{"", ""},
		{"日本語", ""},
	}

	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := slugify(strings.Repeat("long title ", 20))
	if len(long) > maxSlugLen {
		t.Errorf("expected slug capped at %d chars, got %d", maxSlugLen, len(long))
	}
}
