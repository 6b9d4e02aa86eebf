// Package dashboard provides the interactive TUI for kushl. The dashboard
// is split across multiple files:
//   - model.go: Model type, construction, Init
//   - msgs.go: tea messages for async completions
//   - commands.go: tea.Cmd factories wrapping the API client
//   - update.go: the event loop
//   - view.go: rendering
//   - helpers.go: formatting utilities
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"kushl/cmd/kushl/ui"
	"kushl/internal/api"
	"kushl/internal/config"
	"kushl/internal/conversation"
	"kushl/internal/coordinator"
	"kushl/internal/notify"
	"kushl/internal/session"
	"kushl/internal/store"
	"kushl/internal/voice"
)

// Greeting is the canned bot welcome shown in a brand new chat.
const Greeting = "Hi there! I'm KushlBot, your AI assistant. How can I help you today? 🤖"

// EmptyGreeting is shown when an existing session has no messages yet.
const EmptyGreeting = "Hello! This is the beginning of our conversation. What would you like to talk about?"

const (
	composerPlaceholder  = "Type your message... (Enter to send, Alt+Enter for newline)"
	listeningPlaceholder = "Listening..."
)

// apiClient is the slice of the HTTP client the dashboard needs. Tests
// substitute a scripted fake.
type apiClient interface {
	ListSessions(ctx context.Context) ([]api.Session, error)
	CreateSession(ctx context.Context) (string, error)
	LoadMessages(ctx context.Context, id string) ([]api.Message, error)
	SendMessage(ctx context.Context, id, text string) (string, error)
	DeleteSession(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
}

// focusArea tracks which pane receives key input.
type focusArea int

const (
	focusComposer focusArea = iota
	focusSidebar
)

// confirmKind tracks which destructive action is awaiting confirmation.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmClear
)

// sessionItem adapts an api.Session to the bubbles list.
type sessionItem struct {
	sess api.Session
	now  time.Time
}

func (i sessionItem) Title() string { return i.sess.Title }
func (i sessionItem) Description() string {
	return fmt.Sprintf("%s · %d messages", relTime(i.sess.UpdatedAt, i.now), i.sess.MessageCount)
}
func (i sessionItem) FilterValue() string { return i.sess.Title }

// Model is the bubbletea model for the dashboard. All state lives here and
// is mutated only inside Update; network and subprocess work happens in
// tea.Cmd goroutines that report back via the messages in msgs.go.
type Model struct {
	// UI components
	textarea    textarea.Model
	viewport    viewport.Model
	spinner     spinner.Model
	sessionList list.Model
	styles      ui.Styles
	renderer    *glamour.TermRenderer

	// Domain state
	client apiClient
	store  *session.Store
	convo  *conversation.View
	coord  *coordinator.Coordinator
	voice  *voice.Controller
	toasts *notify.Queue
	local  *store.Local // nil when the local db could not open
	cfg    *config.Config

	// Layout
	width, height int
	ready         bool
	showSidebar   bool
	focus         focusArea
	confirm       confirmKind

	// deleteTarget is the session the open delete confirmation is about.
	deleteTarget string

	// resumeID is the session remembered from the previous run; consumed
	// by the first list refresh.
	resumeID string

	// Scroll tracking: re-render and jump to bottom when the transcript
	// revision moves.
	lastRevision uint64

	// Composer input recall
	inputHistory []string
	historyIndex int

	// Voice auto-send generation counter; a newer transcript invalidates
	// the pending auto-send of an older one.
	voiceAttempt int

	ctx context.Context
}

// Option customizes a Model at construction.
type Option func(*Model)

// WithLocalStore attaches the on-disk input history store.
func WithLocalStore(l *store.Local) Option {
	return func(m *Model) { m.local = l }
}

// WithVoice attaches a dictation recognizer.
func WithVoice(rec voice.Recognizer) Option {
	return func(m *Model) { m.voice = voice.NewController(rec) }
}

// NewModel builds the dashboard model.
func NewModel(ctx context.Context, cfg *config.Config, client apiClient, opts ...Option) Model {
	styles := ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))

	ta := textarea.New()
	ta.Placeholder = composerPlaceholder
	ta.Prompt = "┃ "
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	delegate := list.NewDefaultDelegate()
	sl := list.New(nil, delegate, 0, 0)
	sl.Title = "Chats"
	sl.SetShowStatusBar(false)
	sl.SetFilteringEnabled(false)
	sl.SetShowHelp(false)

	st := session.NewStore()
	cv := conversation.NewView()

	m := Model{
		textarea:    ta,
		spinner:     sp,
		sessionList: sl,
		styles:      styles,
		client:      client,
		store:       st,
		convo:       cv,
		coord:       coordinator.New(st, cv),
		voice:       voice.NewController(nil),
		toasts:      notify.NewQueue(),
		cfg:         cfg,
		showSidebar: true,
		ctx:         ctx,
	}
	for _, opt := range opts {
		opt(&m)
	}

	if m.local != nil {
		if hist, err := m.local.InputHistory(100); err == nil {
			// Stored newest first; recall walks oldest to newest.
			for i := len(hist) - 1; i >= 0; i-- {
				m.inputHistory = append(m.inputHistory, hist[i])
			}
		}
		if id, err := m.local.LastSession(); err == nil {
			m.resumeID = id
		}
	}
	m.historyIndex = len(m.inputHistory)
	return m
}

// Init fetches the session list and provisions a fresh session, mirroring
// what the web dashboard does on page load. When a previous run left a
// session remembered, the first list refresh reopens it instead.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		m.refreshSessionsCmd(),
	}
	if m.resumeID == "" {
		cmds = append(cmds, m.createSessionCmd(true))
	}
	if m.voice.Available() {
		cmds = append(cmds, m.listenVoiceCmd())
	}
	return tea.Batch(cmds...)
}
