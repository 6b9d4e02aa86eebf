// Package voice drives dictation input. A Recognizer runs in the
// background and reports events on a channel; the Controller is the state
// machine the dashboard consults, mutated only from the event loop.
package voice

import (
	"context"
	"time"

	"kushl/internal/logging"
)

// AutoSendDelay is how long a recognized transcript sits in the composer
// before being submitted automatically, giving the user a beat to cancel.
const AutoSendDelay = 500 * time.Millisecond

// State of the dictation machine.
type State int

const (
	// Idle means no dictation is running.
	Idle State = iota
	// Listening means the recognizer is capturing audio.
	Listening
	// Error means the last attempt failed; the next Start clears it.
	Error
)

// EventKind discriminates recognizer events.
type EventKind int

const (
	// EventStarted signals capture actually began.
	EventStarted EventKind = iota
	// EventResult carries a final transcript.
	EventResult
	// EventError carries a recognition failure.
	EventError
	// EventEnded signals the recognizer stopped without a result.
	EventEnded
)

// Event is one recognizer notification.
type Event struct {
	Kind       EventKind
	Transcript string
	Err        error
}

// Recognizer captures audio and produces transcripts. Implementations run
// their own goroutine between Start and the terminal event.
type Recognizer interface {
	// Start begins one capture. It returns an error when capture cannot
	// begin at all; later failures arrive as EventError on Events.
	Start(ctx context.Context) error
	// Stop cancels an in-progress capture. Safe to call when idle.
	Stop()
	// Events delivers recognizer notifications. The channel stays open for
	// the recognizer's lifetime.
	Events() <-chan Event
}

// Controller tracks dictation state for the dashboard. A nil recognizer
// means dictation is unavailable and the mic affordance is hidden.
type Controller struct {
	rec   Recognizer
	state State
}

// NewController wires a controller over a recognizer, which may be nil.
func NewController(rec Recognizer) *Controller {
	return &Controller{rec: rec}
}

// Available reports whether dictation can be offered at all.
func (c *Controller) Available() bool {
	return c.rec != nil
}

// State returns the dictation state.
func (c *Controller) State() State {
	return c.state
}

// Events exposes the recognizer channel, nil when unavailable.
func (c *Controller) Events() <-chan Event {
	if c.rec == nil {
		return nil
	}
	return c.rec.Events()
}

// Start begins capture. No-op when unavailable or already listening. A
// refused start moves the machine to Error.
func (c *Controller) Start(ctx context.Context) {
	if c.rec == nil || c.state == Listening {
		return
	}
	if err := c.rec.Start(ctx); err != nil {
		logging.Voice("start failed: %v", err)
		c.state = Error
		return
	}
	c.state = Listening
	logging.Voice("listening")
}

// Stop cancels capture. Only valid from Listening.
func (c *Controller) Stop() {
	if c.rec == nil || c.state != Listening {
		return
	}
	c.rec.Stop()
	c.state = Idle
	logging.Voice("stopped")
}

// HandleEvent folds a recognizer event into the state machine. It returns
// the transcript to place in the composer (empty when none) and whether
// the failure should surface to the user as a toast.
func (c *Controller) HandleEvent(ev Event) (transcript string, surfaceErr bool) {
	switch ev.Kind {
	case EventStarted:
		c.state = Listening
	case EventResult:
		c.state = Idle
		logging.Voice("transcript: %q", ev.Transcript)
		return ev.Transcript, false
	case EventError:
		logging.Voice("error: %v", ev.Err)
		// Only a failure during active listening is worth a toast; a
		// straggler after Stop is not.
		surface := c.state == Listening
		c.state = Error
		return "", surface
	case EventEnded:
		if c.state == Listening {
			c.state = Idle
		}
	}
	return "", false
}
