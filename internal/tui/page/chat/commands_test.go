package chat

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestCommandRegistry_Parse(t *testing.T) {
	r := NewCommandRegistry()

	tests := []struct {
		name    string
		input   string
		wantMsg tea.Msg
		wantOK  bool
	}{
		{
			name:    "plain text is not a command",
			input:   "hello world",
			wantMsg: nil,
			wantOK:  false,
		},
		{
			name:    "bare slash is not a command",
			input:   "/",
			wantMsg: nil,
			wantOK:  false,
		},
		{
			name:    "model command",
			input:   "/model",
			wantMsg: OpenModelsModalMsg{},
			wantOK:  true,
		},
		{
			name:    "models alias",
			input:   "/models",
			wantMsg: OpenModelsModalMsg{},
			wantOK:  true,
		},
		{
			name:    "case insensitive",
			input:   "/MODEL",
			wantMsg: OpenModelsModalMsg{},
			wantOK:  true,
		},
		{
			name:    "surrounding whitespace trimmed",
			input:   "  /clear  ",
			wantMsg: ClearConversationMsg{},
			wantOK:  true,
		},
		{
			name:    "sessions command",
			input:   "/sessions",
			wantMsg: OpenSessionsModalMsg{},
			wantOK:  true,
		},
		{
			name:    "new command",
			input:   "/new",
			wantMsg: NewSessionMsg{},
			wantOK:  true,
		},
		{
			name:    "capture command",
			input:   "/capture",
			wantMsg: CaptureClipboardMsg{},
			wantOK:  true,
		},
		{
			name:    "grab alias",
			input:   "/grab",
			wantMsg: CaptureClipboardMsg{},
			wantOK:  true,
		},
		{
			name:    "insert command",
			input:   "/insert",
			wantMsg: InsertReplyMsg{},
			wantOK:  true,
		},
		{
			name:    "mcp command",
			input:   "/mcp",
			wantMsg: ShowMCPStatusMsg{},
			wantOK:  true,
		},
		{
			name:    "help command",
			input:   "/help",
			wantMsg: ShowHelpMsg{},
			wantOK:  true,
		},
		{
			name:    "quit command",
			input:   "/quit",
			wantMsg: QuitMsg{},
			wantOK:  true,
		},
		{
			name:    "exit alias",
			input:   "/exit",
			wantMsg: QuitMsg{},
			wantOK:  true,
		},
		{
			name:    "extra arguments are accepted",
			input:   "/quit now please",
			wantMsg: QuitMsg{},
			wantOK:  true,
		},
		{
			name:    "unknown command",
			input:   "/bogus",
			wantMsg: UnknownCommandMsg{Command: "bogus"},
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := r.Parse(tt.input)
			if ok != tt.wantOK {
				t.Errorf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if msg != tt.wantMsg {
				t.Errorf("Parse(%q) msg = %#v, want %#v", tt.input, msg, tt.wantMsg)
			}
		})
	}
}

func TestCommandRegistry_GetCommands(t *testing.T) {
	r := NewCommandRegistry()
	cmds := r.GetCommands()

	// Aliases must not produce duplicate entries.
	if len(cmds) != 9 {
		t.Fatalf("expected 9 commands, got %d", len(cmds))
	}

	// Registration order is stable.
	if cmds[0].Name != "model" {
		t.Errorf("expected first command 'model', got %q", cmds[0].Name)
	}
	if cmds[len(cmds)-1].Name != "quit" {
		t.Errorf("expected last command 'quit', got %q", cmds[len(cmds)-1].Name)
	}

	for _, cmd := range cmds {
		if cmd.Description == "" {
			t.Errorf("command %q has no description", cmd.Name)
		}
		if cmd.Handler == nil {
			t.Errorf("command %q has no handler", cmd.Name)
		}
	}
}

func TestCommandRegistry_RegisterKeepsOrder(t *testing.T) {
	r := NewCommandRegistry()
	before := len(r.GetCommands())

	// Re-registering an existing name replaces it without duplicating
	// the ordering entry.
	r.Register(Command{
		Name:        "help",
		Description: "updated",
		Handler:     func([]string) tea.Msg { return ShowHelpMsg{} },
	})

	cmds := r.GetCommands()
	if len(cmds) != before {
		t.Fatalf("expected %d commands after re-register, got %d", before, len(cmds))
	}

	found := false
	for _, cmd := range cmds {
		if cmd.Name == "help" && cmd.Description == "updated" {
			found = true
		}
	}
	if !found {
		t.Error("expected re-registered command to replace the original")
	}
}
