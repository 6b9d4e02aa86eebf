// Package coordinator serializes message sends. At most one send is in
// flight at a time; each send carries a ticket naming the session it was
// started from, so a reply landing after the user switched sessions is
// recognized and kept off the screen.
package coordinator

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"kushl/internal/conversation"
	"kushl/internal/logging"
	"kushl/internal/session"
)

// State of the send pipeline.
type State int

const (
	// Ready means no send is in flight; input is accepted.
	Ready State = iota
	// Sending means a request is in flight; further submits are ignored.
	Sending
)

// Apology replaces the bot reply when a send fails. The conversation keeps
// flowing instead of surfacing a raw error in the transcript.
const Apology = "I apologize, but I'm having trouble responding right now. Please try again in a moment."

// Ticket identifies one in-flight send and pins the session it belongs to.
type Ticket struct {
	ID        uuid.UUID
	SessionID string
	Text      string
}

// Outcome describes what Complete decided.
type Outcome struct {
	// Stale means the user switched away before the reply arrived. The
	// transcript was left untouched.
	Stale bool
	// BotMessage is the text appended to the transcript, empty when Stale.
	BotMessage string
	// Failed reports a transport or protocol failure.
	Failed bool
	// RefreshList asks the caller to re-fetch the session list, since the
	// server-side ordering or titles may have changed.
	RefreshList bool
}

// Coordinator guards the send pipeline. Like the rest of the dashboard
// state it is only touched from the event loop.
type Coordinator struct {
	store *session.Store
	view  *conversation.View
	state State
}

// New wires a coordinator over the session store and transcript.
func New(store *session.Store, view *conversation.View) *Coordinator {
	return &Coordinator{store: store, view: view}
}

// State returns the pipeline state.
func (c *Coordinator) State() State {
	return c.state
}

// Begin starts a send. It trims the text, refuses silently when the text is
// empty, no session is active, or a send is already in flight, and otherwise
// appends the user message optimistically, shows the typing indicator and
// returns a ticket for the network call.
func (c *Coordinator) Begin(text string) (Ticket, bool) {
	text = strings.TrimSpace(text)
	if text == "" || c.state == Sending {
		return Ticket{}, false
	}
	active := c.store.ActiveID()
	if active == "" {
		return Ticket{}, false
	}

	c.state = Sending
	c.view.AppendUser(text, time.Time{})
	c.view.ShowTyping()

	t := Ticket{ID: uuid.New(), SessionID: active, Text: text}
	logging.SessionDebug("send %s started for session %s", t.ID, t.SessionID)
	return t, true
}

// Complete finishes the send named by the ticket. The pipeline returns to
// Ready unconditionally. If the active session changed while the request
// was in flight the reply is dropped and only a list refresh is requested;
// otherwise the reply, or the apology on failure, lands in the transcript.
func (c *Coordinator) Complete(t Ticket, response string, err error) Outcome {
	c.state = Ready
	// The in-flight send is the sole owner of the typing indicator, so it
	// clears it even when the reply is stale. The transcript on screen may
	// be a different session's whose history load kept it from resetting.
	c.view.HideTyping()

	if c.store.ActiveID() != t.SessionID {
		logging.SessionDebug("send %s stale: active is %q, ticket was %q", t.ID, c.store.ActiveID(), t.SessionID)
		return Outcome{Stale: true, Failed: err != nil, RefreshList: true}
	}

	if err != nil {
		logging.Session("send %s failed: %v", t.ID, err)
		c.view.AppendBot(Apology, time.Time{})
		return Outcome{BotMessage: Apology, Failed: true}
	}
	c.view.AppendBot(response, time.Time{})
	return Outcome{BotMessage: response, RefreshList: true}
}
