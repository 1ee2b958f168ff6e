package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/fantasy"

	"github.com/yodaai/yoda/internal/agent"
	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/debug"
	"github.com/yodaai/yoda/internal/provider"
	"github.com/yodaai/yoda/internal/session"
	"github.com/yodaai/yoda/internal/tui/components/sessions"
	"github.com/yodaai/yoda/internal/tui/util"
)

// actionTimeout bounds background work started from the TUI, like
// rebuilding models or generating a session title.
const actionTimeout = 30 * time.Second

// titleTranscriptLimit caps how much conversation text is sent to the
// small model when generating a title.
const titleTranscriptLimit = 2000

// modelsRebuiltMsg carries freshly built models after a switch.
type modelsRebuiltMsg struct {
	large provider.Model
	small provider.Model
}

// startNewSession creates a session and switches chat to it.
func (m *Model) startNewSession() tea.Cmd {
	if m.svcs == nil || m.svcs.Agent == nil || m.chatPage == nil {
		return nil
	}
	sess := m.svcs.Agent.Sessions().Create("New session")
	return tea.Batch(
		m.chatPage.SwitchSession(sess.ID),
		util.ReportSuccess("Started a new session"),
	)
}

// handleModelSwitch reloads config and rebuilds the models after the
// models modal saved a new selection.
func (m *Model) handleModelSwitch() tea.Cmd {
	newCfg, err := config.Load()
	if err != nil {
		debug.Error("tui", err, "reloading config after model switch")
		return util.ReportError(fmt.Errorf("reloading config: %w", err))
	}
	m.cfg = newCfg
	m.providers = newCfg.KnownProviders()

	cfg := m.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		large, small, err := provider.NewBuilder(cfg).BuildModels(ctx)
		if err != nil {
			return util.InfoMsg{
				Type: util.InfoTypeError,
				Msg:  "Model switch failed: " + err.Error(),
			}
		}
		return modelsRebuiltMsg{large: large, small: small}
	}
}

// applyRebuiltModels swaps the new models into the running agent.
func (m *Model) applyRebuiltModels(msg modelsRebuiltMsg) tea.Cmd {
	if m.svcs == nil || m.svcs.Agent == nil {
		return nil
	}
	m.svcs.Agent.SetModel(msg.large.Model)
	m.svcs.SmallModel = msg.small.Model

	name := msg.large.CatwalkCfg.Name
	if name == "" {
		name = msg.large.ModelCfg.Model
	}
	m.modelName = name
	if m.chatPage != nil {
		m.chatPage.SetModelName(name)
	}
	return util.ReportSuccess("Switched to " + name)
}

// generateTitle asks the small model for a session title and persists it.
func (m *Model) generateTitle(sessionID string) tea.Cmd {
	if m.svcs == nil || m.svcs.Agent == nil || m.svcs.SmallModel == nil {
		return util.ReportWarn("Title generation needs a configured model")
	}
	if m.svcs.Sessions == nil {
		return util.ReportWarn("Title generation needs the database")
	}

	small := m.svcs.SmallModel
	sessionSvc := m.svcs.Sessions
	msgs := m.svcs.Agent.Sessions().GetMessages(sessionID)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		title, err := generateSessionTitle(ctx, small, msgs)
		if err != nil {
			debug.Error("tui", err, "generating session title")
			return util.InfoMsg{
				Type: util.InfoTypeError,
				Msg:  "Title generation failed: " + err.Error(),
			}
		}
		if err := sessionSvc.UpdateTitle(ctx, sessionID, title); err != nil {
			return util.InfoMsg{
				Type: util.InfoTypeError,
				Msg:  "Saving title failed: " + err.Error(),
			}
		}
		return sessions.TitleGeneratedMsg{SessionID: sessionID, Title: title}
	}
}

// generateSessionTitle runs a one-shot completion over the conversation
// so far and returns a short title.
func generateSessionTitle(ctx context.Context, model fantasy.LanguageModel, msgs []agent.Message) (string, error) {
	transcript := titleTranscript(msgs)
	if transcript == "" {
		return "", fmt.Errorf("session has no content to summarize")
	}

	prompt := "Write a title of at most six words for this conversation. Reply with the title only.\n\n" + transcript

	var b strings.Builder
	maxTokens := int64(60)
	titleAgent := fantasy.NewAgent(model)
	_, err := titleAgent.Stream(ctx, fantasy.AgentStreamCall{
		Prompt:          prompt,
		MaxOutputTokens: &maxTokens,
		OnTextDelta: func(_ string, text string) error {
			b.WriteString(text)
			return nil
		},
	})
	if err != nil {
		return "", fmt.Errorf("title completion: %w", err)
	}

	title := sanitizeTitle(b.String())
	if title == "" {
		return "", fmt.Errorf("model returned an empty title")
	}
	return title, nil
}

// sanitizeTitle reduces model output to a single clean line.
func sanitizeTitle(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, `"' `)
	runes := []rune(s)
	if len(runes) > 60 {
		s = string(runes[:60])
	}
	return strings.TrimSpace(s)
}

// titleTranscript flattens the conversation into prompt material for
// the title model, capped to keep the request small.
func titleTranscript(msgs []agent.Message) string {
	var b strings.Builder
	for _, msg := range msgs {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		switch msg.Role {
		case agent.RoleUser:
			b.WriteString("User: ")
		case agent.RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
		if b.Len() >= titleTranscriptLimit {
			break
		}
	}
	out := b.String()
	if len(out) > titleTranscriptLimit {
		out = out[:titleTranscriptLimit]
	}
	return strings.TrimSpace(out)
}

// exportSession writes a session transcript as Markdown into the
// current directory.
func (m *Model) exportSession(sessionID string) tea.Cmd {
	if m.svcs == nil || m.svcs.Sessions == nil || m.svcs.Messages == nil {
		return util.ReportWarn("Export needs the session database")
	}

	sessionSvc := m.svcs.Sessions
	messageSvc := m.svcs.Messages

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		sess, err := sessionSvc.Get(ctx, sessionID)
		if err != nil {
			return util.InfoMsg{
				Type: util.InfoTypeError,
				Msg:  "Export failed: " + err.Error(),
			}
		}
		msgs, err := messageSvc.GetBySession(ctx, sessionID)
		if err != nil {
			return util.InfoMsg{
				Type: util.InfoTypeError,
				Msg:  "Export failed: " + err.Error(),
			}
		}

		name := session.ExportFilename(sess)
		f, err := os.Create(name)
		if err != nil {
			return util.InfoMsg{
				Type: util.InfoTypeError,
				Msg:  "Export failed: " + err.Error(),
			}
		}
		defer f.Close()

		if err := session.ExportMarkdown(f, sess, msgs); err != nil {
			return util.InfoMsg{
				Type: util.InfoTypeError,
				Msg:  "Export failed: " + err.Error(),
			}
		}
		return util.InfoMsg{
			Type: util.InfoTypeSuccess,
			Msg:  "Exported to " + name,
		}
	}
}
