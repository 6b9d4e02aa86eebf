package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kushl/internal/api"
	"kushl/internal/notify"
	"kushl/internal/voice"
)

func (m Model) View() string {
	if !m.ready {
		return "Connecting..."
	}

	header := m.renderHeader()
	content := m.styles.Content.Render(m.viewport.View())
	if m.showSidebar {
		sidebar := m.styles.Sidebar.Render(m.sessionList.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	}

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)
	if m.voice.State() == voice.Listening {
		inputStyle = inputStyle.BorderForeground(m.styles.Listening.GetForeground())
	}
	inputArea := inputStyle.Render(m.textarea.View())

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		inputArea,
		m.renderFooter(),
	)

	if m.confirm != confirmNone {
		return m.renderConfirmModal()
	}
	return body
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render("KushlBot")

	subtitle := m.convo.Title()
	if subtitle == "" {
		subtitle = "No chat open"
	}

	var status string
	switch {
	case m.convo.TypingVisible():
		status = lipgloss.JoinHorizontal(lipgloss.Center,
			m.spinner.View(), " ", m.styles.Typing.Render("KushlBot is typing..."))
	case m.voice.State() == voice.Listening:
		status = m.styles.Listening.Render("● Listening")
	default:
		status = m.styles.Muted.Render("Ready")
	}

	line := lipgloss.JoinHorizontal(
		lipgloss.Center,
		title,
		" ",
		m.styles.Subtitle.Render(subtitle),
		"  ",
		status,
	)

	if toasts := m.renderToasts(); toasts != "" {
		line = lipgloss.JoinHorizontal(lipgloss.Center, line, "  ", toasts)
	}

	return lipgloss.JoinVertical(lipgloss.Left, line, m.styles.RenderDivider(m.width))
}

func (m Model) renderToasts() string {
	active := m.toasts.Active()
	if len(active) == 0 {
		return ""
	}
	parts := make([]string, 0, len(active))
	for _, t := range active {
		var style lipgloss.Style
		switch t.Severity {
		case notify.Success:
			style = m.styles.ToastSuccess
		case notify.Error:
			style = m.styles.ToastError
		default:
			style = m.styles.ToastInfo
		}
		parts = append(parts, style.Render(t.Message))
	}
	return strings.Join(parts, " ")
}

// renderConversation builds the transcript shown in the viewport. Bot
// messages go through the markdown renderer, user messages stay plain.
func (m Model) renderConversation() string {
	var sb strings.Builder

	for _, entry := range m.convo.Entries() {
		ts := m.styles.Timestamp.Render(entry.Timestamp.Format("15:04"))
		if entry.Role == api.RoleUser {
			sb.WriteString(m.styles.UserLabel.Render("You") + " " + ts + "\n")
			sb.WriteString(m.styles.UserBubble.Render(entry.Content))
			sb.WriteString("\n\n")
			continue
		}
		sb.WriteString(m.styles.BotLabel.Render("KushlBot") + " " + ts + "\n")
		sb.WriteString(m.styles.BotBubble.Render(m.safeRenderMarkdown(entry.Content)))
		sb.WriteString("\n")
	}

	if m.convo.TypingVisible() {
		sb.WriteString(m.styles.Typing.Render("KushlBot is typing..."))
		sb.WriteString("\n")
	}

	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery; glamour can
// choke on pathological input and the transcript must survive that.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return strings.TrimRight(rendered, "\n") + "\n"
		}
	}
	return content
}

func (m Model) renderFooter() string {
	hints := []string{
		"Enter: send",
		"Ctrl+N: new chat",
		"Ctrl+B: sidebar",
		"Ctrl+D: delete",
		"Ctrl+K: clear all",
	}
	if m.voice.Available() {
		hints = append(hints, "Ctrl+R: voice")
	}
	if m.showSidebar {
		hints = append(hints, "Tab: focus")
	}
	hints = append(hints, "Ctrl+C: quit")
	return m.styles.Footer.Render(strings.Join(hints, " | "))
}

func (m Model) renderConfirmModal() string {
	var question, detail string
	switch m.confirm {
	case confirmDelete:
		question = "Delete this chat?"
		if sess, ok := m.store.Get(m.deleteTarget); ok {
			detail = sess.Title
		}
	case confirmClear:
		question = "Delete ALL chats?"
		detail = fmt.Sprintf("%d chats will be removed", m.store.Len())
	}

	body := lipgloss.JoinVertical(
		lipgloss.Center,
		m.styles.Title.Render(question),
		m.styles.Muted.Render(detail),
		"",
		m.styles.Body.Render("y: confirm    n: cancel"),
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.styles.Modal.Render(body),
	)
}
