package chat

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"github.com/yodaai/yoda/internal/tui/styles"
)

// Spinner animation frames (braille pattern).
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the time between spinner frame updates.
const spinnerInterval = 100 * time.Millisecond

// maxVisibleTools caps how many recent tool operations the panel keeps.
const maxVisibleTools = 5

// ToolStatus represents the status of a tool operation.
type ToolStatus int

// Tool status constants.
const (
	ToolStatusPending ToolStatus = iota
	ToolStatusRunning
	ToolStatusDone
	ToolStatusError
)

// ToolActivity represents a single tool operation.
type ToolActivity struct {
	Name    string
	Summary string
	Status  ToolStatus
}

// SpinnerTickMsg is sent to advance the spinner animation.
type SpinnerTickMsg struct{}

// ActivityPanel shows real-time activity during AI interactions: a
// spinner while the model is thinking, and a short tail of recent
// tool operations with their status.
type ActivityPanel struct {
	width    int
	frame    int
	busy     bool
	ops      []ToolActivity
	maxTools int
}

// NewActivityPanel creates a new activity panel.
func NewActivityPanel() *ActivityPanel {
	return &ActivityPanel{maxTools: maxVisibleTools}
}

// SetThinking sets the thinking state and starts/stops the spinner.
func (a *ActivityPanel) SetThinking(thinking bool) tea.Cmd {
	a.busy = thinking
	if !thinking {
		return nil
	}
	return a.tickSpinner()
}

// AddTool adds a tool operation to the activity list.
func (a *ActivityPanel) AddTool(name, input string) {
	a.ops = append(a.ops, ToolActivity{
		Name:    name,
		Summary: toolSummary(name, input),
		Status:  ToolStatusRunning,
	})
	if n := len(a.ops); n > a.maxTools {
		a.ops = a.ops[n-a.maxTools:]
	}
}

// MarkToolDone marks a tool as completed.
func (a *ActivityPanel) MarkToolDone(name string) {
	a.finishTool(name, ToolStatusDone)
}

// MarkToolError marks a tool as failed.
func (a *ActivityPanel) MarkToolError(name string) {
	a.finishTool(name, ToolStatusError)
}

// finishTool moves the most recent running tool with the given name
// into a terminal status.
func (a *ActivityPanel) finishTool(name string, status ToolStatus) {
	for i := len(a.ops) - 1; i >= 0; i-- {
		if a.ops[i].Name == name && a.ops[i].Status == ToolStatusRunning {
			a.ops[i].Status = status
			return
		}
	}
}

// Clear resets the activity panel.
func (a *ActivityPanel) Clear() {
	a.busy = false
	a.ops = nil
	a.frame = 0
}

// SetWidth sets the panel width.
func (a *ActivityPanel) SetWidth(width int) {
	a.width = width
}

// Height returns the current height of the panel (0 when hidden).
func (a *ActivityPanel) Height() int {
	h := len(a.ops)
	if a.busy {
		h++
	}
	return h
}

// IsActive returns true if the panel has content to show.
func (a *ActivityPanel) IsActive() bool {
	return a.busy || len(a.ops) > 0
}

// Update handles messages for the activity panel.
func (a *ActivityPanel) Update(msg tea.Msg) (*ActivityPanel, tea.Cmd) {
	switch msg.(type) {
	case SpinnerTickMsg:
		if !a.busy {
			return a, nil
		}
		a.frame = (a.frame + 1) % len(spinnerFrames)
		return a, a.tickSpinner()
	default:
		return a, nil
	}
}

// tickSpinner returns a command that sends a SpinnerTickMsg after the interval.
func (a *ActivityPanel) tickSpinner() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

// View renders the activity panel.
func (a *ActivityPanel) View() string {
	if !a.IsActive() {
		return ""
	}

	t := styles.CurrentTheme()
	lines := make([]string, 0, a.Height())

	if a.busy {
		lines = append(lines, t.S().Info.Render(spinnerFrames[a.frame]+" Thinking..."))
	}
	for i, op := range a.ops {
		lines = append(lines, a.renderTool(t, op, i == len(a.ops)-1))
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Width(a.width).
		Render(strings.Join(lines, "\n"))
}

// renderTool renders one tool line as a tree branch under the
// thinking indicator.
func (a *ActivityPanel) renderTool(t *styles.Theme, op ToolActivity, last bool) string {
	prefix := "   ├─ "
	if last {
		prefix = "   └─ "
	}
	return t.S().Muted.Render(prefix) +
		toolStatusStyle(t, op.Status).Render(op.Name) +
		t.S().Muted.Render(": ") +
		t.S().Text.Render(a.truncateSummary(op.Summary))
}

// toolStatusStyle returns the style for a tool status.
func toolStatusStyle(t *styles.Theme, status ToolStatus) lipgloss.Style {
	//nolint:exhaustive // ToolStatusPending uses default case
	switch status {
	case ToolStatusRunning:
		return t.S().Warning
	case ToolStatusDone:
		return t.S().Success
	case ToolStatusError:
		return t.S().Error
	default:
		return t.S().Muted
	}
}

// truncateSummary truncates a summary to fit the available width.
// Summaries can carry escape sequences and wide runes from tool
// output, so truncation is done in terminal cells, not bytes.
func (a *ActivityPanel) truncateSummary(summary string) string {
	// Reserve space for prefix, tool name, and some padding.
	maxLen := max(a.width-30, 10)
	return ansi.Truncate(summary, maxLen, "...")
}

// toolSummary extracts a human-readable summary from tool input JSON.
func toolSummary(name, input string) string {
	var params map[string]any
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		// Not JSON; show the raw input, shortened.
		return truncate(input, 50)
	}

	switch normalizeToolName(name) {
	case "read", "write", "edit", "create":
		return summarizeFileTool(params)
	case "grep", "search", "find":
		return summarizeSearchTool(params)
	case "glob", "list":
		return summarizeListTool(params)
	case "bash", "shell", "exec", "run":
		return summarizeCommandTool(params)
	default:
		return summarizeFallback(params)
	}
}

// normalizeToolName maps MCP server tool names like "read_file" or
// "search_files" onto their base operation.
func normalizeToolName(name string) string {
	name = strings.ToLower(name)
	for _, suffix := range []string{"_files", "_file", "_directory", "_dir", "_command"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}

func summarizeFileTool(params map[string]any) string {
	for _, key := range []string{"file_path", "path"} {
		if path, ok := params[key].(string); ok {
			return extractFilename(path)
		}
	}
	return summarizeFallback(params)
}

func summarizeSearchTool(params map[string]any) string {
	var parts []string
	if pattern, ok := params["pattern"].(string); ok {
		parts = append(parts, fmt.Sprintf("%q", truncate(pattern, 20)))
	} else if query, ok := params["query"].(string); ok {
		parts = append(parts, fmt.Sprintf("%q", truncate(query, 20)))
	}
	if include, ok := params["include"].(string); ok {
		parts = append(parts, "in "+include)
	} else if path, ok := params["path"].(string); ok && path != "" && path != "." {
		parts = append(parts, "in "+extractFilename(path))
	}
	if len(parts) == 0 {
		return summarizeFallback(params)
	}
	return strings.Join(parts, " ")
}

func summarizeListTool(params map[string]any) string {
	var parts []string
	if pattern, ok := params["pattern"].(string); ok {
		parts = append(parts, pattern)
	}
	if path, ok := params["path"].(string); ok && path != "" && path != "." {
		parts = append(parts, "in "+extractFilename(path))
	}
	if len(parts) == 0 {
		return summarizeFallback(params)
	}
	return strings.Join(parts, " ")
}

func summarizeCommandTool(params map[string]any) string {
	if cmd, ok := params["command"].(string); ok {
		return truncate(cmd, 50)
	}
	return summarizeFallback(params)
}

// summarizeFallback shows the first non-empty string parameter.
func summarizeFallback(params map[string]any) string {
	for _, v := range params {
		if s, ok := v.(string); ok && s != "" {
			return truncate(s, 50)
		}
	}
	return ""
}

// extractFilename extracts just the filename from a path. Handles
// both forward and backslash separators.
func extractFilename(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// truncate truncates a string to maxLen cells, adding ellipsis if
// needed. Cuts on grapheme boundaries so wide runes stay intact.
func truncate(s string, maxLen int) string {
	if uniseg.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return cutWidth(s, maxLen)
	}
	return cutWidth(s, maxLen-3) + "..."
}

// cutWidth returns the longest prefix of s that fits in width cells.
func cutWidth(s string, width int) string {
	var b strings.Builder
	w := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cw := gr.Width()
		if w+cw > width {
			break
		}
		b.WriteString(string(gr.Runes()))
		w += cw
	}
	return b.String()
}
