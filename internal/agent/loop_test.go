package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"charm.land/fantasy"

	"github.com/yodaai/yoda/internal/attachment"
)

// fakeModel is a no-op fantasy.LanguageModel for tests that never reach
// a real provider.
type fakeModel struct{}

func (fakeModel) Generate(context.Context, fantasy.Call) (*fantasy.Response, error) {
	return &fantasy.Response{}, nil
}

func (fakeModel) Stream(context.Context, fantasy.Call) (fantasy.StreamResponse, error) {
	return func(yield func(fantasy.StreamPart) bool) {}, nil
}

func (fakeModel) GenerateObject(context.Context, fantasy.ObjectCall) (*fantasy.ObjectResponse, error) {
	return &fantasy.ObjectResponse{}, nil
}

func (fakeModel) StreamObject(context.Context, fantasy.ObjectCall) (fantasy.ObjectStreamResponse, error) {
	return func(yield func(fantasy.ObjectStreamPart) bool) {}, nil
}

func (fakeModel) Provider() string { return "fake" }
func (fakeModel) Model() string    { return "fake-model" }

var _ fantasy.LanguageModel = fakeModel{}

func newTestAgent(cfg Config) *DefaultAgent {
	if cfg.Model == nil {
		cfg.Model = fakeModel{}
	}
	return New(cfg)
}

// markBusy simulates an in-flight request without going through Send.
func markBusy(a *DefaultAgent, sessionID string) context.CancelFunc {
	_, cancel := context.WithCancel(context.Background())
	a.beginRequest(sessionID, cancel)
	return cancel
}

func TestNew(t *testing.T) {
	a := newTestAgent(Config{
		SystemPrompt: "You are terse.",
		WorkingDir:   "/tmp",
	})

	if a.systemPrompt != "You are terse." {
		t.Errorf("systemPrompt = %q, want %q", a.systemPrompt, "You are terse.")
	}
	if a.workingDir != "/tmp" {
		t.Errorf("workingDir = %q, want %q", a.workingDir, "/tmp")
	}
	if a.sessions == nil {
		t.Error("expected a default session store when Config.Sessions is nil")
	}
}

func TestSend_EmptyPrompt(t *testing.T) {
	a := newTestAgent(Config{})

	err := a.Send(context.Background(), "", SendOptions{}, StreamCallbacks{})
	if !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("Send(\"\") = %v, want ErrEmptyPrompt", err)
	}
}

func TestSend_BusySession(t *testing.T) {
	a := newTestAgent(Config{})
	cancel := markBusy(a, "s1")
	defer cancel()

	err := a.Send(context.Background(), "hi", SendOptions{SessionID: "s1"}, StreamCallbacks{})
	if !errors.Is(err, ErrSessionBusy) {
		t.Errorf("Send on busy session = %v, want ErrSessionBusy", err)
	}
}

func TestBusyTracking(t *testing.T) {
	a := newTestAgent(Config{})

	if a.IsBusy("s1") {
		t.Error("fresh agent should not be busy")
	}

	cancel := markBusy(a, "s1")
	if !a.IsBusy("s1") {
		t.Error("expected busy after beginRequest")
	}
	if a.IsBusy("s2") {
		t.Error("busy state must be per session")
	}

	a.endRequest("s1")
	cancel()
	if a.IsBusy("s1") {
		t.Error("expected idle after endRequest")
	}
}

func TestCancel(t *testing.T) {
	t.Run("clears active request", func(t *testing.T) {
		a := newTestAgent(Config{})
		markBusy(a, "s1")

		a.Cancel("s1")
		if a.IsBusy("s1") {
			t.Error("expected idle after Cancel")
		}
	})

	t.Run("unknown session is a no-op", func(t *testing.T) {
		a := newTestAgent(Config{})
		a.Cancel("never-started")
	})
}

func TestSetters(t *testing.T) {
	a := newTestAgent(Config{SystemPrompt: "before"})

	a.SetSystemPrompt("after")
	a.mu.RLock()
	prompt := a.systemPrompt
	a.mu.RUnlock()
	if prompt != "after" {
		t.Errorf("systemPrompt = %q, want %q", prompt, "after")
	}

	a.SetTools([]fantasy.AgentTool{})
	a.mu.RLock()
	toolList := a.tools
	a.mu.RUnlock()
	if toolList == nil {
		t.Error("expected tools to be replaced")
	}
}

func TestModelSwap(t *testing.T) {
	first := fakeModel{}
	a := newTestAgent(Config{Model: first})

	if _, ok := a.Model().(fakeModel); !ok {
		t.Fatal("Model() should return the configured model")
	}

	session := a.Sessions().Create("Test")
	a.Sessions().AddMessage(session.ID, Message{Role: RoleUser, Content: "hello"})

	a.SetModel(fakeModel{})
	if _, ok := a.Model().(fakeModel); !ok {
		t.Error("Model() should return the replacement model")
	}
	if len(a.History(session.ID)) != 1 {
		t.Error("history must survive a model swap")
	}
}

func TestHistoryAndClear(t *testing.T) {
	a := newTestAgent(Config{})

	session := a.Sessions().Create("Test")
	a.Sessions().AddMessage(session.ID, Message{Role: RoleUser, Content: "hello"})

	if got := len(a.History(session.ID)); got != 1 {
		t.Errorf("History() returned %d messages, want 1", got)
	}
	if a.History("missing") != nil {
		t.Error("History() for an unknown session should be nil")
	}

	a.Clear(session.ID)
	if got := len(a.History(session.ID)); got != 0 {
		t.Errorf("History() after Clear returned %d messages, want 0", got)
	}
}

func TestSessionsAccessor(t *testing.T) {
	a := newTestAgent(Config{})

	store := a.Sessions()
	if store == nil {
		t.Fatal("Sessions() returned nil")
	}

	session := store.Create("Test")
	if _, ok := a.Sessions().Get(session.ID); !ok {
		t.Error("Sessions() should always return the same store")
	}
}

func TestConcurrentAccess(t *testing.T) {
	a := newTestAgent(Config{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.SetSystemPrompt("prompt")
			a.SetTools(nil)
			a.IsBusy("session")
			a.Cancel("session")
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Error("concurrent access timed out")
	}
}

func TestTurnCollectsStream(t *testing.T) {
	tn := newTurn("s1", nil, StreamCallbacks{})

	if tn.messageID() != "" {
		t.Error("messageID should be empty before any content arrives")
	}

	if err := tn.onTextDelta("", "Hello, "); err != nil {
		t.Fatalf("onTextDelta: %v", err)
	}
	if err := tn.onTextDelta("", "world"); err != nil {
		t.Fatalf("onTextDelta: %v", err)
	}

	if tn.assistant == nil {
		t.Fatal("expected an assistant message after text deltas")
	}
	if tn.assistant.Content != "Hello, world" {
		t.Errorf("assistant content = %q, want %q", tn.assistant.Content, "Hello, world")
	}
	if tn.messageID() != tn.assistant.ID {
		t.Error("messageID should match the assistant message ID")
	}

	if err := tn.onToolCall(fantasy.ToolCallContent{
		ToolCallID: "tc1",
		ToolName:   "read",
		Input:      `{"file_path":"a.go"}`,
	}); err != nil {
		t.Fatalf("onToolCall: %v", err)
	}
	if len(tn.assistant.ToolCalls) != 1 || tn.assistant.ToolCalls[0].Name != "read" {
		t.Errorf("tool calls = %+v, want one read call", tn.assistant.ToolCalls)
	}
	if _, ok := tn.starts["tc1"]; !ok {
		t.Error("expected a start time recorded for tc1")
	}
}

func TestTurnSaveOrder(t *testing.T) {
	a := newTestAgent(Config{})
	session := a.Sessions().Create("Test")

	tn := newTurn(session.ID, nil, StreamCallbacks{})
	if err := tn.onTextDelta("", "answer"); err != nil {
		t.Fatalf("onTextDelta: %v", err)
	}
	tn.toolResults = append(tn.toolResults, Message{
		ID:          "tool-msg",
		Role:        RoleTool,
		ToolResults: []ToolResult{{ToolCallID: "tc1", Name: "read", Content: "ok"}},
	})

	tn.save(a.sessions)

	msgs := a.History(session.ID)
	if len(msgs) != 2 {
		t.Fatalf("saved %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != RoleAssistant || msgs[1].Role != RoleTool {
		t.Errorf("save order = [%s, %s], want assistant before tool", msgs[0].Role, msgs[1].Role)
	}
}

func TestTurnSaveSkipsEmptyAssistant(t *testing.T) {
	a := newTestAgent(Config{})
	session := a.Sessions().Create("Test")

	tn := newTurn(session.ID, nil, StreamCallbacks{})
	tn.save(a.sessions)

	if got := len(a.History(session.ID)); got != 0 {
		t.Errorf("saved %d messages for an empty turn, want 0", got)
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{name: "short prompt", prompt: "Summarize this article", want: "Summarize this article"},
		{name: "first line only", prompt: "Fix the bug\nIt crashes on startup", want: "Fix the bug"},
		{name: "surrounding whitespace trimmed", prompt: "  hello  ", want: "hello"},
		{name: "blank prompt falls back", prompt: "   \n  ", want: "New Session"},
		{
			name:   "long prompt truncated",
			prompt: strings.Repeat("a", 80),
			want:   strings.Repeat("a", 50) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveTitle(tt.prompt); got != tt.want {
				t.Errorf("deriveTitle(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestComposeUserContent(t *testing.T) {
	t.Run("no attachments leaves prompt unchanged", func(t *testing.T) {
		if got := composeUserContent("hello", nil); got != "hello" {
			t.Errorf("composeUserContent() = %q, want %q", got, "hello")
		}
	})

	t.Run("attachments appended as tagged blocks", func(t *testing.T) {
		pending := []attachment.Attachment{
			{Name: "notes", Source: attachment.SourceClipboard, Content: "captured text"},
		}

		got := composeUserContent("summarize this", pending)
		if !strings.HasPrefix(got, "summarize this\n\n") {
			t.Errorf("composeUserContent() = %q, want prompt first", got)
		}
		if !strings.Contains(got, `<attachment name="notes"`) {
			t.Errorf("composeUserContent() = %q, want attachment block", got)
		}
		if !strings.Contains(got, "captured text") {
			t.Errorf("composeUserContent() = %q, want attachment content", got)
		}
	})
}

func TestBuildHistory(t *testing.T) {
	// seed stores the messages then appends a "current" user message,
	// which buildHistory must exclude.
	seed := func(a *DefaultAgent, prior ...Message) string {
		session := a.Sessions().Create("Test")
		for _, msg := range prior {
			a.Sessions().AddMessage(session.ID, msg)
		}
		a.Sessions().AddMessage(session.ID, Message{Role: RoleUser, Content: "current"})
		return session.ID
	}

	t.Run("empty session yields nil", func(t *testing.T) {
		a := newTestAgent(Config{})
		session := a.Sessions().Create("Test")
		if got := a.buildHistory(session.ID); got != nil {
			t.Errorf("buildHistory() = %v, want nil", got)
		}
	})

	t.Run("excludes current user input", func(t *testing.T) {
		a := newTestAgent(Config{})
		id := seed(a,
			Message{Role: RoleUser, Content: "first"},
			Message{Role: RoleAssistant, Content: "reply"},
		)

		if got := len(a.buildHistory(id)); got != 2 {
			t.Errorf("buildHistory() returned %d messages, want 2", got)
		}
	})

	t.Run("assistant tool calls survive", func(t *testing.T) {
		a := newTestAgent(Config{})
		id := seed(a, Message{
			Role:      RoleAssistant,
			Content:   "let me check",
			ToolCalls: []ToolCall{{ID: "tc1", Name: "read", Input: "{}"}},
		})

		history := a.buildHistory(id)
		if len(history) != 1 {
			t.Fatalf("buildHistory() returned %d messages, want 1", len(history))
		}
		if len(history[0].Content) != 2 {
			t.Errorf("assistant message has %d parts, want text + tool call", len(history[0].Content))
		}
	})

	t.Run("tool results map to tool messages", func(t *testing.T) {
		a := newTestAgent(Config{})
		id := seed(a, Message{
			Role:        RoleTool,
			ToolResults: []ToolResult{{ToolCallID: "tc1", Name: "read", Content: "file content"}},
		})

		history := a.buildHistory(id)
		if len(history) != 1 {
			t.Fatalf("buildHistory() returned %d messages, want 1", len(history))
		}
		if history[0].Role != fantasy.MessageRoleTool {
			t.Errorf("role = %v, want tool", history[0].Role)
		}
	})

	t.Run("tool errors map to error output", func(t *testing.T) {
		a := newTestAgent(Config{})
		id := seed(a, Message{
			Role:        RoleTool,
			ToolResults: []ToolResult{{ToolCallID: "tc1", Name: "read", Content: "not found", IsError: true}},
		})

		if got := len(a.buildHistory(id)); got != 1 {
			t.Errorf("buildHistory() returned %d messages, want 1", got)
		}
	})

	t.Run("empty assistant message dropped", func(t *testing.T) {
		a := newTestAgent(Config{})
		id := seed(a, Message{Role: RoleAssistant, Content: ""})

		if got := len(a.buildHistory(id)); got != 0 {
			t.Errorf("buildHistory() returned %d messages, want 0", got)
		}
	})
}
