// Package tui provides the terminal user interface for yoda.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/fantasy"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/catwalk/pkg/catwalk"
	"golang.org/x/term"

	"github.com/yodaai/yoda/internal/agent"
	"github.com/yodaai/yoda/internal/bridge"
	"github.com/yodaai/yoda/internal/capture"
	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/debug"
	"github.com/yodaai/yoda/internal/mcp"
	"github.com/yodaai/yoda/internal/message"
	"github.com/yodaai/yoda/internal/pubsub"
	"github.com/yodaai/yoda/internal/session"
	"github.com/yodaai/yoda/internal/tui/components/models"
	"github.com/yodaai/yoda/internal/tui/components/sessions"
	"github.com/yodaai/yoda/internal/tui/components/welcome"
	"github.com/yodaai/yoda/internal/tui/components/wizard"
	"github.com/yodaai/yoda/internal/tui/page"
	"github.com/yodaai/yoda/internal/tui/page/chat"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// Services bundles the backend stack the TUI drives.
type Services struct {
	Agent      *agent.DefaultAgent
	Sessions   *session.Service
	Messages   *message.Service
	Capture    *capture.Service
	MCP        *mcp.Manager
	SmallModel fantasy.LanguageModel
}

// ServicesFactory builds the service stack from the saved config. It is
// called after the wizard completes so chat can start without a restart.
type ServicesFactory func() (*Services, error)

// Model is the main TUI model.
type Model struct {
	welcome       *welcome.Welcome
	wizard        *wizard.Wizard
	chatPage      *chat.Model
	modelsModal   *models.Modal
	sessionsModal *sessions.Modal
	svcs          *Services
	factory       ServicesFactory
	cfg           *config.Config
	currentPage   page.ID
	statusMsg     string
	modelName     string
	keyMap        KeyMap
	providers     []catwalk.Provider
	width         int
	height        int
	isFirstRun    bool
	ready         bool
}

// New creates a new TUI model.
func New(cfg *config.Config, providers []catwalk.Provider, isFirstRun bool, svcs *Services, factory ServicesFactory, modelName string) *Model {
	m := &Model{
		keyMap:      DefaultKeyMap(),
		cfg:         cfg,
		providers:   providers,
		isFirstRun:  isFirstRun,
		currentPage: page.Welcome,
		welcome:     welcome.New(),
		svcs:        svcs,
		factory:     factory,
		modelName:   modelName,
	}

	// With a working service stack and a completed setup, go directly
	// to chat.
	if svcs != nil && svcs.Agent != nil && !isFirstRun {
		m.mountChat()
		m.currentPage = page.Chat
	}

	return m
}

// mountChat builds the chat page from the current service stack.
func (m *Model) mountChat() {
	m.chatPage = chat.New(m.svcs.Agent, m.svcs.Capture, m.svcs.MCP)
	if m.modelName != "" {
		m.chatPage.SetModelName(m.modelName)
	}
}

// Init initializes the TUI.
func (m *Model) Init() tea.Cmd {
	if m.currentPage == page.Chat && m.chatPage != nil {
		return m.chatPage.Init()
	}
	return m.welcome.Init()
}

// Update handles messages.
//
//nolint:gocyclo // TUI update handler requires handling many message types
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Log all incoming messages for debugging
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		debug.Event("tui", "WindowSize", fmt.Sprintf("width=%d height=%d", msg.Width, msg.Height))
		m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		debug.Event("tui", "KeyMsg", fmt.Sprintf("key=%q", msg.String()))
		if m.modalOpen() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, m.updateModal(msg)
		}
		if cmd := m.handleGlobalKeys(msg); cmd != nil {
			return m, cmd
		}

	case tea.MouseWheelMsg:
		debug.Event("tui", "MouseWheel", fmt.Sprintf("button=%v x=%d y=%d", msg.Button, msg.X, msg.Y))

	case tea.MouseClickMsg:
		debug.Event("tui", "MouseClick", fmt.Sprintf("button=%v x=%d y=%d", msg.Button, msg.X, msg.Y))

	case tea.MouseMotionMsg:
		// Don't log motion events - too noisy

	case welcome.StartWizardMsg:
		debug.Event("tui", "StartWizard", "wizard starting")
		return m.handleStartWizard()

	case wizard.CompleteMsg:
		debug.Event("tui", "WizardComplete", "wizard finished")
		return m.handleWizardComplete(msg)

	// Modal control from the chat page.
	case chat.OpenModelsModalMsg:
		return m.openModelsModal()

	case chat.OpenSessionsModalMsg:
		return m.openSessionsModal()

	case chat.NewSessionMsg:
		return m, m.startNewSession()

	// Modal outcomes.
	case models.ModalClosedMsg:
		m.modelsModal = nil
		return m, nil

	case models.ModelSwitchedMsg:
		debug.Event("tui", "ModelSwitch", fmt.Sprintf("tier=%s model=%s", msg.Tier, msg.ModelID))
		return m, m.handleModelSwitch()

	case modelsRebuiltMsg:
		return m, m.applyRebuiltModels(msg)

	case sessions.ModalClosedMsg:
		m.sessionsModal = nil
		return m, nil

	case sessions.SwitchSessionMsg:
		debug.Event("tui", "SwitchSession", msg.SessionID)
		if m.chatPage != nil {
			return m, m.chatPage.SwitchSession(msg.SessionID)
		}
		return m, nil

	case sessions.NewSessionMsg:
		return m, m.startNewSession()

	case sessions.RequestTitleGenerationMsg:
		debug.Event("tui", "GenerateTitle", msg.SessionID)
		return m, m.generateTitle(msg.SessionID)

	case sessions.TitleGeneratedMsg:
		// Already persisted; the open modal refreshes its list.
		return m, m.updateModal(msg)

	case sessions.ExportMarkdownMsg:
		debug.Event("tui", "ExportSession", msg.SessionID)
		return m, m.exportSession(msg.SessionID)

	case util.InfoMsg:
		// The chat page shows notices in its status bar; other pages
		// use the plain status line.
		if m.currentPage == page.Chat && m.chatPage != nil {
			return m, m.updateChat(msg)
		}
		m.statusMsg = msg.Msg
		return m, nil

	case page.ChangeMsg:
		debug.Event("tui", "PageChange", fmt.Sprintf("page=%s", msg.Page))
		m.currentPage = msg.Page
		return m, nil

	default:
		debug.Event("tui", "UnhandledMsg", fmt.Sprintf("type=%T", msg))
	}

	// Streaming and event traffic keeps flowing to the chat page even
	// while a modal is open.
	if m.modalOpen() {
		if isEventTraffic(msg) {
			return m, m.updateChat(msg)
		}
		return m, m.updateModal(msg)
	}

	return m, m.routeToPage(msg)
}

// isEventTraffic reports whether msg is background event flow that must
// reach the chat page regardless of what is on screen.
func isEventTraffic(msg tea.Msg) bool {
	switch msg.(type) {
	case bridge.AgentEventMsg, bridge.ToolEventMsg, bridge.MessageEventMsg,
		bridge.MCPEventMsg, bridge.CaptureEventMsg, chat.SpinnerTickMsg,
		chat.StreamErrorMsg:
		return true
	}
	return false
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateComponentSizes()
}

func (m *Model) handleGlobalKeys(msg tea.KeyMsg) tea.Cmd {
	// The chat page owns ctrl+c so it can cancel streaming first.
	if msg.String() == "ctrl+c" && m.currentPage != page.Chat {
		return tea.Quit
	}
	if msg.String() == "q" && m.canQuit() {
		return tea.Quit
	}
	return nil
}

func (m *Model) canQuit() bool {
	if m.currentPage == page.Welcome {
		return true
	}
	return m.currentPage == page.Wizard && m.wizard != nil && m.wizard.IsComplete()
}

func (m *Model) handleStartWizard() (*Model, tea.Cmd) {
	m.wizard = wizard.NewWizard(m.providers)
	m.currentPage = page.Wizard
	m.updateComponentSizes()
	return m, m.wizard.Init()
}

func (m *Model) handleWizardComplete(msg wizard.CompleteMsg) (*Model, tea.Cmd) {
	// Reload config after the wizard saved it.
	newCfg, err := config.Load()
	if err != nil {
		debug.Error("tui", err, "reloading config after wizard")
	} else {
		m.cfg = newCfg
		m.providers = newCfg.KnownProviders()
	}

	// Build the service stack now that a usable config exists.
	if (m.svcs == nil || m.svcs.Agent == nil) && m.factory != nil {
		svcs, err := m.factory()
		if err != nil {
			debug.Error("tui", err, "building services after wizard")
			m.statusMsg = fmt.Sprintf("Failed to start chat: %v", err)
			return m, nil
		}
		m.svcs = svcs
	}

	modelName := msg.LargeModelID
	if m.wizard != nil && m.wizard.SelectedLargeModel() != nil {
		modelName = m.wizard.SelectedLargeModel().Name
	}
	m.modelName = modelName

	if m.svcs != nil && m.svcs.Agent != nil {
		m.mountChat()
		m.chatPage.SetSize(m.width, m.height)
		m.currentPage = page.Chat
		return m, m.chatPage.Init()
	}

	m.statusMsg = "Configuration saved successfully!"
	return m, nil
}

// Modal handling.

func (m *Model) modalOpen() bool {
	return m.modelsModal != nil || m.sessionsModal != nil
}

func (m *Model) openModelsModal() (*Model, tea.Cmd) {
	m.modelsModal = models.New(m.cfg, m.providers)
	m.modelsModal.SetSize(m.width, m.height)
	m.modelsModal.Show()
	return m, m.modelsModal.Init()
}

func (m *Model) openSessionsModal() (*Model, tea.Cmd) {
	if m.svcs == nil || m.svcs.Sessions == nil {
		return m, util.ReportWarn("Session browsing needs the database")
	}
	m.sessionsModal = sessions.New(m.svcs.Sessions)
	m.sessionsModal.SetSize(m.width, m.height)
	m.sessionsModal.Show()
	return m, m.sessionsModal.Init()
}

func (m *Model) updateModal(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.modelsModal != nil:
		m.modelsModal, cmd = m.modelsModal.Update(msg)
	case m.sessionsModal != nil:
		m.sessionsModal, cmd = m.sessionsModal.Update(msg)
	}
	return cmd
}

// Page routing.

func (m *Model) routeToPage(msg tea.Msg) tea.Cmd {
	switch m.currentPage {
	case page.Welcome:
		_, cmd := m.welcome.Update(msg)
		return cmd
	case page.Wizard:
		return m.updateWizard(msg)
	case page.Chat:
		return m.updateChat(msg)
	case page.Main:
		return nil
	}
	return nil
}

func (m *Model) updateChat(msg tea.Msg) tea.Cmd {
	if m.chatPage == nil {
		return nil
	}
	_, cmd := m.chatPage.Update(msg)
	return cmd
}

func (m *Model) updateWizard(msg tea.Msg) tea.Cmd {
	if m.wizard == nil {
		return nil
	}
	if m.wizard.IsComplete() {
		if _, ok := msg.(tea.KeyMsg); ok {
			return tea.Quit
		}
	}
	_, cmd := m.wizard.Update(msg)
	return cmd
}

// View renders the TUI.
func (m *Model) View() tea.View {
	t := styles.CurrentTheme()

	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion
	// Don't force a background color so the terminal keeps its native
	// background on exit.

	if !m.ready {
		view.Content = "Loading..."
		return view
	}

	// An open modal takes over the screen.
	if m.modelsModal != nil && m.modelsModal.IsVisible() {
		view.Content = m.modelsModal.View()
		view.Cursor = m.modelsModal.Cursor()
		return view
	}
	if m.sessionsModal != nil && m.sessionsModal.IsVisible() {
		view.Content = m.sessionsModal.View()
		view.Cursor = m.sessionsModal.Cursor()
		return view
	}

	var content string
	switch m.currentPage {
	case page.Welcome:
		content = m.welcome.View()
	case page.Wizard:
		if m.wizard != nil {
			content = m.wizard.View()
		}
	case page.Chat:
		if m.chatPage != nil {
			content = m.chatPage.View()
			debug.Event("tui", "View", fmt.Sprintf("chat content lines=%d", strings.Count(content, "\n")+1))
		}
	case page.Main:
		content = m.renderMain()
	default:
		content = "Unknown page"
	}

	// Status line for pages without their own status bar.
	if m.statusMsg != "" && m.currentPage != page.Chat {
		status := t.S().Info.Render(m.statusMsg)
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", status)
	}

	view.Content = content

	switch m.currentPage {
	case page.Wizard:
		if m.wizard != nil {
			view.Cursor = m.wizard.Cursor()
		}
	case page.Chat:
		if m.chatPage != nil {
			view.Cursor = m.chatPage.Cursor()
		}
	case page.Welcome, page.Main:
		// No cursor for these pages.
	}

	return view
}

func (m *Model) renderMain() string {
	t := styles.CurrentTheme()
	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		t.S().Title.Render("yoda - Ready"),
	)
}

func (m *Model) updateComponentSizes() {
	if m.welcome != nil {
		m.welcome.SetSize(m.width, m.height)
	}
	if m.wizard != nil {
		m.wizard.SetSize(m.width, m.height)
	}
	if m.chatPage != nil {
		m.chatPage.SetSize(m.width, m.height)
	}
	if m.modelsModal != nil {
		m.modelsModal.SetSize(m.width, m.height)
	}
	if m.sessionsModal != nil {
		m.sessionsModal.SetSize(m.width, m.height)
	}
}

// Run starts the TUI program.
func Run(cfg *config.Config, providers []catwalk.Provider, isFirstRun bool, svcs *Services, factory ServicesFactory, hub *pubsub.Hub, modelName string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("yoda requires an interactive terminal: stdin/stdout must be connected to a TTY")
	}

	// Initialize theme.
	styles.NewManager()

	model := New(cfg, providers, isFirstRun, svcs, factory, modelName)
	p := tea.NewProgram(model)

	// Forward pub/sub events to Bubble Tea messages.
	if hub != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tuiBridge := bridge.NewTUIBridge(hub, p)
		tuiBridge.Start(ctx)
		defer tuiBridge.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
