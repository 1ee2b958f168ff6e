package chat

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/yodaai/yoda/internal/tui/util"
)

// Command message types.
type (
	// OpenModelsModalMsg requests opening the models modal.
	OpenModelsModalMsg struct{}

	// OpenSessionsModalMsg requests opening the sessions modal.
	OpenSessionsModalMsg struct{}

	// NewSessionMsg requests a fresh session.
	NewSessionMsg struct{}

	// ClearConversationMsg requests clearing the current conversation.
	ClearConversationMsg struct{}

	// CaptureClipboardMsg requests capturing the clipboard into
	// pending context.
	CaptureClipboardMsg struct{}

	// InsertReplyMsg requests copying the last assistant reply to the
	// clipboard.
	InsertReplyMsg struct{}

	// ShowMCPStatusMsg requests a summary of MCP server status.
	ShowMCPStatusMsg struct{}

	// ShowHelpMsg requests the command and keybinding help.
	ShowHelpMsg struct{}

	// QuitMsg requests exiting the program.
	QuitMsg struct{}

	// UnknownCommandMsg indicates an unknown slash command was entered.
	UnknownCommandMsg struct {
		Command string
	}
)

// Command represents a slash command.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Handler     func(args []string) tea.Msg
}

// CommandRegistry holds registered slash commands.
type CommandRegistry struct {
	commands map[string]Command
	order    []string
}

// NewCommandRegistry creates a new command registry with default commands.
func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{
		commands: make(map[string]Command),
	}

	// Register default commands.
	r.Register(Command{
		Name:        "model",
		Aliases:     []string{"models"},
		Description: "Switch provider or model",
		Handler:     func([]string) tea.Msg { return OpenModelsModalMsg{} },
	})
	r.Register(Command{
		Name:        "sessions",
		Description: "Browse and manage sessions",
		Handler:     func([]string) tea.Msg { return OpenSessionsModalMsg{} },
	})
	r.Register(Command{
		Name:        "new",
		Description: "Start a new session",
		Handler:     func([]string) tea.Msg { return NewSessionMsg{} },
	})
	r.Register(Command{
		Name:        "clear",
		Description: "Clear the current conversation",
		Handler:     func([]string) tea.Msg { return ClearConversationMsg{} },
	})
	r.Register(Command{
		Name:        "capture",
		Aliases:     []string{"grab"},
		Description: "Capture clipboard into pending context",
		Handler:     func([]string) tea.Msg { return CaptureClipboardMsg{} },
	})
	r.Register(Command{
		Name:        "insert",
		Description: "Copy the last reply to the clipboard",
		Handler:     func([]string) tea.Msg { return InsertReplyMsg{} },
	})
	r.Register(Command{
		Name:        "mcp",
		Description: "Show MCP server status",
		Handler:     func([]string) tea.Msg { return ShowMCPStatusMsg{} },
	})
	r.Register(Command{
		Name:        "help",
		Description: "Show commands and keybindings",
		Handler:     func([]string) tea.Msg { return ShowHelpMsg{} },
	})
	r.Register(Command{
		Name:        "quit",
		Aliases:     []string{"exit"},
		Description: "Exit yoda",
		Handler:     func([]string) tea.Msg { return QuitMsg{} },
	})

	return r
}

// Register adds a command to the registry under its name and aliases.
func (r *CommandRegistry) Register(cmd Command) {
	if _, exists := r.commands[cmd.Name]; !exists {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.commands[alias] = cmd
	}
}

// Parse attempts to parse input as a slash command.
// Returns the command message and true if it's a command, nil and false otherwise.
func (r *CommandRegistry) Parse(input string) (tea.Msg, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return nil, false
	}

	// Split command and args.
	parts := strings.Fields(input[1:]) // Remove leading "/"
	if len(parts) == 0 {
		return nil, false
	}

	cmdName := strings.ToLower(parts[0])
	args := parts[1:]

	// Look up command.
	cmd, ok := r.commands[cmdName]
	if !ok {
		return UnknownCommandMsg{Command: cmdName}, true
	}

	return cmd.Handler(args), true
}

// GetCommands returns all registered commands in registration order.
func (r *CommandRegistry) GetCommands() []Command {
	cmds := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, r.commands[name])
	}
	return cmds
}

// parseCommand is a helper method for the chat Model.
// Returns a tea.Cmd if the input is a command, nil otherwise.
func (m *Model) parseCommand(input string) tea.Cmd {
	if m.commandRegistry == nil {
		m.commandRegistry = NewCommandRegistry()
	}

	msg, isCmd := m.commandRegistry.Parse(input)
	if !isCmd {
		return nil
	}

	return util.CmdHandler(msg)
}
