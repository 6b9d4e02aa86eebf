package dashboard

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"kushl/internal/api"
	"kushl/internal/config"
	"kushl/internal/voice"
)

// fakeAPI is a scripted in-memory stand-in for the HTTP client.
type fakeAPI struct {
	sessions  []api.Session
	createIDs []string
	messages  map[string][]api.Message
	sendReply string

	listErr   error
	createErr error
	loadErr   error
	sendErr   error
	deleteErr error
	clearErr  error

	sent    []string
	deleted []string
	created int
	cleared int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		createIDs: []string{"new-1", "new-2", "new-3"},
		messages:  make(map[string][]api.Message),
		sendReply: "canned reply",
	}
}

func (f *fakeAPI) ListSessions(context.Context) ([]api.Session, error) {
	return f.sessions, f.listErr
}

func (f *fakeAPI) CreateSession(context.Context) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	id := f.createIDs[f.created%len(f.createIDs)]
	f.created++
	return id, nil
}

func (f *fakeAPI) LoadMessages(_ context.Context, id string) ([]api.Message, error) {
	return f.messages[id], f.loadErr
}

func (f *fakeAPI) SendMessage(_ context.Context, id, text string) (string, error) {
	f.sent = append(f.sent, id+":"+text)
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.sendReply, nil
}

func (f *fakeAPI) DeleteSession(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) ClearAll(context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared++
	return nil
}

// scriptedRecognizer lets tests inject dictation events.
type scriptedRecognizer struct {
	events   chan voice.Event
	startErr error
}

func newScriptedRecognizer() *scriptedRecognizer {
	return &scriptedRecognizer{events: make(chan voice.Event, 4)}
}

func (r *scriptedRecognizer) Start(context.Context) error { return r.startErr }
func (r *scriptedRecognizer) Stop()                        {}
func (r *scriptedRecognizer) Events() <-chan voice.Event   { return r.events }

func newTestModel(t *testing.T, fake *fakeAPI, opts ...Option) Model {
	t.Helper()
	m := NewModel(context.Background(), config.DefaultConfig(), fake, opts...)
	return m.resize(100, 40)
}

// update runs one Update step and re-asserts the concrete model type.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	um, cmd := m.Update(msg)
	got, ok := um.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want dashboard.Model", um)
	}
	return got, cmd
}

// runCmd executes a command tree synchronously and collects the messages it
// produces. Only safe for commands that complete immediately.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// findSendDone pulls the send completion out of a command's output.
func findSendDone(msgs []tea.Msg) (sendDoneMsg, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(sendDoneMsg); ok {
			return m, true
		}
	}
	return sendDoneMsg{}, false
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
