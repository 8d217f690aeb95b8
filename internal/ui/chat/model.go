// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragchat/internal/client"
	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/session"
	"github.com/jeranaias/ragchat/internal/telemetry"
	"github.com/jeranaias/ragchat/internal/ui/components"
	"github.com/jeranaias/ragchat/internal/ui/styles"
)

// Backend is what the TUI needs beyond the session transport.
type Backend interface {
	session.Transport
	ListConversations(ctx context.Context) ([]model.ConversationSummary, error)
	RefreshConversations(ctx context.Context) ([]model.ConversationSummary, error)
	UploadDocument(ctx context.Context, path string, opts client.UploadOptions) (*client.UploadResult, error)
	BaseURL() string
}

var _ Backend = (*client.Client)(nil)

// focus is the pane that receives keys.
type focus int

const (
	focusInput focus = iota
	focusSidebar
)

// Layout heights of the fixed rows.
const (
	headerHeight    = 1
	inputAreaHeight = 2
	statusBarHeight = 1
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctx     context.Context
	backend Backend
	session *session.Manager
	cfg     *config.Config
	logger  *zap.Logger
	tracker *telemetry.Tracker

	// Styling
	theme    *styles.Theme
	markdown *components.Markdown
	keys     KeyMap

	// Dimensions
	width  int
	height int

	// Widgets
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	sidebar  *components.Sidebar
	toasts   *components.ToastManager

	focus        focus
	sidebarOpen  bool
	showThinking bool
	showSources  bool
	toastTicking bool

	// retryLoad is the conversation whose load failed last.
	retryLoad *int64
	// confirmDelete is the conversation awaiting a second delete press.
	confirmDelete *int64

	statusMsg string
	quitting  bool
}

// Options configures New.
type Options struct {
	Context context.Context
	Backend Backend
	Session *session.Manager
	Config  *config.Config
	Logger  *zap.Logger
	Tracker *telemetry.Tracker
}

// New creates the chat model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sess := opts.Session
	if sess == nil {
		sess = session.NewManager(opts.Backend, session.WithLogger(logger))
	}

	theme := styles.NewTheme(cfg.UI.Theme, cfg.UI.Plain)

	input := textinput.New()
	input.Placeholder = "Ask a question, or /help"
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 8000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = styles.LineSpinner.Bubble()
	sp.Style = theme.Spinner

	m := Model{
		ctx:          ctx,
		backend:      opts.Backend,
		session:      sess,
		cfg:          cfg,
		logger:       logger.Named("tui"),
		tracker:      opts.Tracker,
		theme:        theme,
		markdown:     components.NewMarkdown(theme, !cfg.UI.Plain),
		keys:         DefaultKeyMap(),
		viewport:     viewport.New(80, 20),
		input:        input,
		spinner:      sp,
		sidebar:      components.NewSidebar(cfg.UI.SidebarWidth),
		toasts:       components.NewToastManager(),
		showThinking: cfg.UI.ShowThinking,
		showSources:  cfg.UI.ShowSources,
	}
	return m
}

// Init starts the cursor blink and fetches the conversation list.
func (m Model) Init() tea.Cmd {
	m.sidebar.Loading = true
	return tea.Batch(textinput.Blink, m.listCmd(false))
}

// Session returns the session manager behind the view.
func (m Model) Session() *session.Manager {
	return m.session
}

// =============================================================================
// COMMAND BUILDERS
// =============================================================================

func (m Model) listCmd(refresh bool) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		var items []model.ConversationSummary
		var err error
		if refresh {
			items, err = backend.RefreshConversations(ctx)
		} else {
			items, err = backend.ListConversations(ctx)
		}
		return conversationsMsg{items: items, err: err}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	opts := client.UploadOptions{
		AllowedExtensions: m.cfg.Upload.AllowedExtensions,
		MaxBytes:          m.cfg.Upload.MaxBytes(),
	}
	return func() tea.Msg {
		res, err := backend.UploadDocument(ctx, path, opts)
		return uploadDoneMsg{path: path, result: res, err: err}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// userMessage converts err into text for a toast.
func userMessage(err error) string {
	var te *client.TransportError
	if errors.As(err, &te) {
		return te.UserMessage()
	}
	return err.Error()
}

// contentWidth is the width of the message pane.
func (m Model) contentWidth() int {
	w := m.width
	if m.sidebarOpen {
		w -= m.sidebar.Width + 1
	}
	if w < 20 {
		w = 20
	}
	return w
}

// markdownWidth is the wrap width for answers.
func (m Model) markdownWidth() int {
	w := m.contentWidth()
	if m.cfg.UI.WordWrap > 0 && m.cfg.UI.WordWrap < w {
		w = m.cfg.UI.WordWrap
	}
	return w
}

// layout sizes the widgets for the current window.
func (m *Model) layout() {
	h := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.contentWidth()
	m.viewport.Height = h
	m.sidebar.Height = h
	m.input.Width = m.width - 4
	m.theme.SetSize(m.width, m.height)
	m.refreshViewport()
}

// refreshViewport re-renders the transcript, keeping the view pinned to the
// bottom when it already was.
func (m *Model) refreshViewport() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// applyConfig swaps in a reloaded config.
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.theme = styles.NewTheme(cfg.UI.Theme, cfg.UI.Plain)
	m.markdown = components.NewMarkdown(m.theme, !cfg.UI.Plain)
	m.showThinking = cfg.UI.ShowThinking
	m.showSources = cfg.UI.ShowSources
	m.sidebar.Width = cfg.UI.SidebarWidth
	m.input.PromptStyle = m.theme.InputPrompt
	m.input.PlaceholderStyle = m.theme.InputPlaceholder
	m.spinner.Style = m.theme.Spinner
	m.layout()
}

// lastAnswer returns the newest successful assistant message.
func lastAnswer(msgs []*model.Message) *model.Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleAssistant && !msgs[i].Failed {
			return msgs[i]
		}
	}
	return nil
}
