package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"kushl/cmd/kushl/ui"
	"kushl/internal/api"
	"kushl/internal/logging"
	"kushl/internal/notify"
	"kushl/internal/voice"
)

const sidebarWidth = 32

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m = m.resize(msg.Width, msg.Height)

	case sessionsMsg:
		if msg.err != nil {
			// Keep the previous cached list on screen.
			logging.Session("list refresh failed: %v", msg.err)
			cmds = append(cmds, m.pushToast("Failed to refresh chat list", notify.Error))
			break
		}
		m.store.Replace(msg.sessions)
		m.rebuildSessionList()
		if m.resumeID != "" {
			id := m.resumeID
			m.resumeID = ""
			if sess, ok := m.store.Get(id); ok {
				logging.Session("resuming session %s", id)
				m.store.SetActive(id)
				cmds = append(cmds, m.loadMessagesCmd(id, sess.Title))
			} else {
				// The remembered session is gone; fall back to a fresh one.
				cmds = append(cmds, m.createSessionCmd(true))
			}
		}

	case sessionCreatedMsg:
		if msg.err != nil {
			logging.Session("create failed: %v", msg.err)
			cmds = append(cmds, m.pushToast("Failed to create new chat", notify.Error))
			break
		}
		m.openFreshSession(msg.id, msg.greet)
		cmds = append(cmds, m.refreshSessionsCmd())

	case messagesLoadedMsg:
		if msg.sessionID != m.store.ActiveID() {
			// User already moved on; this history belongs to another chat.
			logging.SessionDebug("dropping history for %s, active is %s", msg.sessionID, m.store.ActiveID())
			break
		}
		if msg.err != nil {
			logging.Session("history load failed: %v", msg.err)
			cmds = append(cmds, m.pushToast("Failed to load chat", notify.Error))
			break
		}
		m.convo.Reset()
		m.convo.SetTitle(msg.title)
		if len(msg.messages) == 0 {
			m.convo.AppendBot(EmptyGreeting, time.Time{})
			break
		}
		for _, message := range msg.messages {
			if message.Role == api.RoleUser {
				m.convo.AppendUser(message.Content, message.Timestamp)
			} else {
				m.convo.AppendBot(message.Content, message.Timestamp)
			}
		}

	case sendDoneMsg:
		out := m.coord.Complete(msg.ticket, msg.response, msg.err)
		if out.Failed && !out.Stale {
			cmds = append(cmds, m.pushToast("Failed to send message", notify.Error))
		}
		if out.RefreshList {
			cmds = append(cmds, m.refreshSessionsCmd())
		}

	case sessionDeletedMsg:
		if msg.err != nil {
			logging.Session("delete failed: %v", msg.err)
			cmds = append(cmds, m.pushToast("Failed to delete chat", notify.Error))
			break
		}
		// The server-side delete went through even if the replacement did
		// not; the cache and the active pointer must reflect that.
		m.store.Forget(msg.id)
		m.rebuildSessionList()
		if msg.wasActive {
			if msg.replaceErr != nil {
				logging.Session("replacement after delete failed: %v", msg.replaceErr)
				m.convo.Reset()
				m.convo.SetTitle("")
				cmds = append(cmds, m.pushToast("Failed to create new chat", notify.Error))
			} else {
				m.openFreshSession(msg.replacementID, true)
			}
		}
		cmds = append(cmds,
			m.pushToast("Chat deleted successfully", notify.Success),
			m.refreshSessionsCmd(),
		)

	case clearedMsg:
		if msg.err != nil {
			logging.Session("clear-all failed: %v", msg.err)
			cmds = append(cmds, m.pushToast("Failed to clear chats", notify.Error))
			break
		}
		m.store.Clear()
		m.rebuildSessionList()
		if msg.replaceErr != nil {
			logging.Session("replacement after clear failed: %v", msg.replaceErr)
			m.convo.Reset()
			m.convo.SetTitle("")
			cmds = append(cmds, m.pushToast("Failed to create new chat", notify.Error))
		} else {
			m.openFreshSession(msg.replacementID, true)
		}
		cmds = append(cmds,
			m.pushToast("All chats cleared successfully", notify.Success),
			m.refreshSessionsCmd(),
		)

	case voiceEventMsg:
		cmds = append(cmds, m.listenVoiceCmd())
		transcript, surface := m.voice.HandleEvent(voice.Event(msg))
		if transcript != "" {
			m.textarea.SetValue(transcript)
			m.textarea.CursorEnd()
			m.voiceAttempt++
			cmds = append(cmds, voiceAutoSendCmd(m.voiceAttempt))
		}
		if surface {
			cmds = append(cmds, m.pushToast("Voice input error. Please try again.", notify.Error))
		}
		if m.voice.State() != voice.Listening {
			m.textarea.Placeholder = composerPlaceholder
		}

	case voiceAutoSendMsg:
		// Only the newest transcript auto-sends; an older pending timer is
		// ignored once a fresh dictation lands.
		if msg.attempt != m.voiceAttempt {
			break
		}
		return m.handleSubmit()

	case toastTickMsg:
		m.toasts.Expire(time.Time(msg))
		if m.toasts.Len() > 0 {
			cmds = append(cmds, toastTickCmd())
		}

	case ConfigReloadedMsg:
		m.cfg = msg.Config
		m.styles = ui.NewStyles(ui.ThemeByName(m.cfg.UI.Theme))
		logging.UI("config reloaded, theme %q", m.cfg.UI.Theme)
		if m.ready {
			m.viewport.SetContent(m.renderConversation())
		}

	case spinner.TickMsg:
		if m.convo.TypingVisible() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m = m.syncViewport()
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Confirmation modal swallows everything except its own answers.
	if m.confirm != confirmNone {
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.focus == focusSidebar {
			m.focus = focusComposer
			m.textarea.Focus()
			return m, nil
		}
		return m, tea.Quit

	case "tab":
		if m.showSidebar {
			if m.focus == focusComposer {
				m.focus = focusSidebar
				m.textarea.Blur()
			} else {
				m.focus = focusComposer
				m.textarea.Focus()
			}
		}
		return m, nil

	case "ctrl+n":
		return m, m.createSessionCmd(true)

	case "ctrl+b":
		m.showSidebar = !m.showSidebar
		if !m.showSidebar && m.focus == focusSidebar {
			m.focus = focusComposer
			m.textarea.Focus()
		}
		return m.resize(m.width, m.height), nil

	case "ctrl+d":
		// With the sidebar focused the highlighted chat is the target,
		// which need not be the open one.
		target := m.store.ActiveID()
		if m.focus == focusSidebar {
			if item, ok := m.sessionList.SelectedItem().(sessionItem); ok {
				target = item.sess.ID
			}
		}
		if target != "" {
			m.confirm = confirmDelete
			m.deleteTarget = target
		}
		return m, nil

	case "ctrl+k":
		m.confirm = confirmClear
		return m, nil

	case "ctrl+r":
		return m.toggleVoice()

	case "alt+enter":
		if m.focus == focusComposer {
			m.textarea.InsertString("\n")
		}
		return m, nil

	case "enter":
		if m.focus == focusSidebar {
			return m.selectHighlighted()
		}
		return m.handleSubmit()

	case "up":
		if m.focus == focusComposer && m.textarea.Line() == 0 {
			m.recallPrev()
			return m, nil
		}

	case "down":
		if m.focus == focusComposer && m.textarea.Line() == m.textarea.LineCount()-1 {
			m.recallNext()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == focusSidebar {
		m.sessionList, cmd = m.sessionList.Update(msg)
	} else {
		m.textarea, cmd = m.textarea.Update(msg)
	}
	return m.syncViewport(), cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		kind := m.confirm
		m.confirm = confirmNone
		switch kind {
		case confirmDelete:
			id := m.deleteTarget
			m.deleteTarget = ""
			if id == "" {
				return m, nil
			}
			logging.Session("deleting session %s", id)
			return m, m.deleteSessionCmd(id, id == m.store.ActiveID())
		case confirmClear:
			logging.Session("clearing all sessions")
			return m, m.clearAllCmd()
		}
	case "n", "N", "esc":
		m.confirm = confirmNone
		m.deleteTarget = ""
	}
	return m, nil
}

// handleSubmit pushes the composer text through the send pipeline. The
// coordinator refuses empty input, missing sessions and overlapping sends.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	ticket, ok := m.coord.Begin(m.textarea.Value())
	if !ok {
		return m, nil
	}
	m.recordInput(ticket.Text)
	m.textarea.Reset()
	m = m.syncViewport()
	return m, tea.Batch(m.spinner.Tick, m.sendCmd(ticket))
}

// selectHighlighted opens the session under the sidebar cursor.
func (m Model) selectHighlighted() (tea.Model, tea.Cmd) {
	item, ok := m.sessionList.SelectedItem().(sessionItem)
	if !ok {
		return m, nil
	}
	if !m.store.Select(item.sess.ID) {
		return m, nil // already open
	}
	// The transcript keeps its last-good content until the history for the
	// newly selected session actually arrives.
	logging.Session("selected session %s", item.sess.ID)
	m.rememberLastSession(item.sess.ID)
	m.focus = focusComposer
	m.textarea.Focus()
	return m, m.loadMessagesCmd(item.sess.ID, item.sess.Title)
}

func (m *Model) toggleVoice() (tea.Model, tea.Cmd) {
	if !m.voice.Available() {
		return *m, nil
	}
	if m.voice.State() == voice.Listening {
		m.voice.Stop()
		m.textarea.Placeholder = composerPlaceholder
		return *m, nil
	}
	m.voice.Start(m.ctx)
	if m.voice.State() == voice.Listening {
		m.textarea.Reset()
		m.textarea.Placeholder = listeningPlaceholder
		return *m, nil
	}
	return *m, m.pushToast("Voice input error. Please try again.", notify.Error)
}

// openFreshSession points the dashboard at a newly provisioned session.
func (m *Model) openFreshSession(id string, greet bool) {
	m.store.SetActive(id)
	m.convo.Reset()
	m.convo.SetTitle("New Chat")
	if greet {
		m.convo.AppendBot(Greeting, time.Time{})
	}
	m.rememberLastSession(id)
}

func (m *Model) rememberLastSession(id string) {
	if m.local == nil {
		return
	}
	if err := m.local.SetLastSession(id); err != nil {
		logging.Session("persist last session: %v", err)
	}
}

func (m *Model) recordInput(text string) {
	if len(m.inputHistory) == 0 || m.inputHistory[len(m.inputHistory)-1] != text {
		m.inputHistory = append(m.inputHistory, text)
	}
	m.historyIndex = len(m.inputHistory)
	if m.local != nil {
		if err := m.local.AppendInput(text); err != nil {
			logging.Session("persist input: %v", err)
		}
	}
}

func (m *Model) recallPrev() {
	if m.historyIndex > 0 {
		m.historyIndex--
		m.textarea.SetValue(m.inputHistory[m.historyIndex])
		m.textarea.CursorEnd()
	}
}

func (m *Model) recallNext() {
	if m.historyIndex >= len(m.inputHistory) {
		return
	}
	m.historyIndex++
	if m.historyIndex == len(m.inputHistory) {
		m.textarea.Reset()
		return
	}
	m.textarea.SetValue(m.inputHistory[m.historyIndex])
	m.textarea.CursorEnd()
}

func (m *Model) pushToast(message string, sev notify.Severity) tea.Cmd {
	m.toasts.Push(message, sev)
	return toastTickCmd()
}

func (m *Model) rebuildSessionList() {
	now := time.Now()
	sessions := m.store.Sessions()
	items := make([]list.Item, 0, len(sessions))
	for _, sess := range sessions {
		items = append(items, sessionItem{sess: sess, now: now})
	}
	m.sessionList.SetItems(items)
}

func (m Model) resize(width, height int) Model {
	m.width, m.height = width, height

	headerHeight := 2
	footerHeight := 2
	inputHeight := 5

	contentWidth := width - 2
	if m.showSidebar {
		contentWidth -= sidebarWidth
	}
	if contentWidth < 1 {
		contentWidth = 1
	}
	contentHeight := height - headerHeight - footerHeight - inputHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = contentHeight
	}
	m.sessionList.SetSize(sidebarWidth-2, contentHeight)
	m.textarea.SetWidth(contentWidth - 4)

	wrap := contentWidth - 4
	if wrap < 10 {
		wrap = 10
	}
	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
	m.lastRevision = m.convo.Revision()
	return m
}

// syncViewport re-renders the transcript when its revision moved and pins
// the scroll position to the bottom.
func (m Model) syncViewport() Model {
	if !m.ready || m.convo.Revision() == m.lastRevision {
		return m
	}
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
	m.lastRevision = m.convo.Revision()
	return m
}
