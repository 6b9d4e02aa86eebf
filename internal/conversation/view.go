// Package conversation models the message transcript of the open session:
// an ordered list of entries plus the typing indicator. It is pure state
// mutated from the dashboard event loop; rendering lives elsewhere.
package conversation

import (
	"strings"
	"time"

	"kushl/internal/api"
)

// Entry is one rendered line of the transcript.
type Entry struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// View is the transcript of the currently open session.
type View struct {
	title    string
	entries  []Entry
	typing   bool
	revision uint64

	now func() time.Time
}

// NewView returns an empty transcript.
func NewView() *View {
	return &View{now: time.Now}
}

// NewViewAt is NewView with an injectable clock, for tests.
func NewViewAt(now func() time.Time) *View {
	return &View{now: now}
}

// Reset clears the transcript and hides the typing indicator, keeping the
// view ready for a different session's history.
func (v *View) Reset() {
	v.entries = nil
	v.typing = false
	v.bump()
}

// SetTitle records the display title of the open session.
func (v *View) SetTitle(title string) {
	if title == v.title {
		return
	}
	v.title = title
	v.bump()
}

// Title returns the display title of the open session.
func (v *View) Title() string {
	return v.title
}

// AppendUser adds a user entry. A zero timestamp means now.
func (v *View) AppendUser(content string, at time.Time) {
	v.append(api.RoleUser, content, at)
}

// AppendBot adds a bot entry. A zero timestamp means now.
func (v *View) AppendBot(content string, at time.Time) {
	v.append(api.RoleBot, content, at)
}

func (v *View) append(role, content string, at time.Time) {
	if at.IsZero() {
		at = v.now()
	}
	v.entries = append(v.entries, Entry{
		Role:      role,
		Content:   sanitize(content),
		Timestamp: at,
	})
	v.bump()
}

// ShowTyping displays the typing indicator. Idempotent.
func (v *View) ShowTyping() {
	if v.typing {
		return
	}
	v.typing = true
	v.bump()
}

// HideTyping removes the typing indicator. No-op when it is not shown.
func (v *View) HideTyping() {
	if !v.typing {
		return
	}
	v.typing = false
	v.bump()
}

// TypingVisible reports whether the typing indicator is shown.
func (v *View) TypingVisible() bool {
	return v.typing
}

// Entries returns the transcript in order.
func (v *View) Entries() []Entry {
	return v.entries
}

// Len returns the number of entries.
func (v *View) Len() int {
	return len(v.entries)
}

// Revision increments on every visible change. The dashboard compares it
// against the last rendered revision to decide when to re-render and
// scroll to the bottom.
func (v *View) Revision() uint64 {
	return v.revision
}

func (v *View) bump() {
	v.revision++
}

// sanitize strips ANSI escape sequences and control characters from
// server-supplied text before it can reach the terminal. Newlines and tabs
// survive; everything else below 0x20 is dropped.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inEscape := false
	for _, r := range s {
		if inEscape {
			// CSI sequences end on a byte in @ through ~.
			if r >= '@' && r <= '~' {
				inEscape = false
			}
			continue
		}
		switch {
		case r == 0x1b:
			inEscape = true
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			// drop
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
