package dashboard

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"kushl/internal/coordinator"
	"kushl/internal/voice"
)

// The commands below run in their own goroutines and never touch the model;
// results come back as the typed messages in msgs.go.

func (m Model) refreshSessionsCmd() tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		sessions, err := client.ListSessions(ctx)
		return sessionsMsg{sessions: sessions, err: err}
	}
}

func (m Model) createSessionCmd(greet bool) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		id, err := client.CreateSession(ctx)
		return sessionCreatedMsg{id: id, greet: greet, err: err}
	}
}

func (m Model) loadMessagesCmd(id, title string) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		messages, err := client.LoadMessages(ctx, id)
		return messagesLoadedMsg{sessionID: id, title: title, messages: messages, err: err}
	}
}

func (m Model) sendCmd(t coordinator.Ticket) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		response, err := client.SendMessage(ctx, t.SessionID, t.Text)
		return sendDoneMsg{ticket: t, response: response, err: err}
	}
}

// deleteSessionCmd removes a session. Deleting the active session also
// provisions its replacement in the same command, so the dashboard is never
// left without a session to type into.
func (m Model) deleteSessionCmd(id string, wasActive bool) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if err := client.DeleteSession(ctx, id); err != nil {
			return sessionDeletedMsg{id: id, wasActive: wasActive, err: err}
		}
		out := sessionDeletedMsg{id: id, wasActive: wasActive}
		if wasActive {
			out.replacementID, out.replaceErr = client.CreateSession(ctx)
		}
		return out
	}
}

// clearAllCmd wipes every session and provisions a fresh one.
func (m Model) clearAllCmd() tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if err := client.ClearAll(ctx); err != nil {
			return clearedMsg{err: err}
		}
		id, err := client.CreateSession(ctx)
		return clearedMsg{replacementID: id, replaceErr: err}
	}
}

// listenVoiceCmd blocks on the recognizer channel for the next event. It is
// re-armed after every delivery.
func (m Model) listenVoiceCmd() tea.Cmd {
	events := m.voice.Events()
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return voiceEventMsg(ev)
	}
}

func voiceAutoSendCmd(attempt int) tea.Cmd {
	return tea.Tick(voice.AutoSendDelay, func(time.Time) tea.Msg {
		return voiceAutoSendMsg{attempt: attempt}
	})
}

func toastTickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}
