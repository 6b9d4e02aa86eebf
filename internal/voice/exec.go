package voice

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// CommandRecognizer runs an external dictation program for each capture.
// The program's stdout is the transcript; a non-zero exit is an error.
// This keeps kushl decoupled from any particular speech engine.
type CommandRecognizer struct {
	command string
	events  chan Event

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCommandRecognizer wires a recognizer around a shell command.
func NewCommandRecognizer(command string) *CommandRecognizer {
	return &CommandRecognizer{
		command: command,
		events:  make(chan Event, 8),
	}
}

// Events implements Recognizer.
func (r *CommandRecognizer) Events() <-chan Event {
	return r.events
}

// Start launches the command. Only one capture runs at a time.
func (r *CommandRecognizer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return fmt.Errorf("capture already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, "sh", "-c", r.command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start %q: %w", r.command, err)
	}
	r.cancel = cancel
	r.events <- Event{Kind: EventStarted}

	go func() {
		err := cmd.Wait()

		r.mu.Lock()
		cancelled := ctx.Err() != nil
		r.cancel = nil
		r.mu.Unlock()
		cancel()

		switch {
		case cancelled:
			r.events <- Event{Kind: EventEnded}
		case err != nil:
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = err.Error()
			}
			r.events <- Event{Kind: EventError, Err: fmt.Errorf("recognizer: %s", msg)}
		default:
			text := strings.TrimSpace(stdout.String())
			if text == "" {
				r.events <- Event{Kind: EventEnded}
			} else {
				r.events <- Event{Kind: EventResult, Transcript: text}
			}
		}
	}()
	return nil
}

// Stop cancels the running capture, if any.
func (r *CommandRecognizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}
