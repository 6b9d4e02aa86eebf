package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRecognizer scripts Start results and lets tests inject events.
type fakeRecognizer struct {
	startErr error
	started  int
	stopped  int
	events   chan Event
}

func newFakeRecognizer() *fakeRecognizer {
	return &fakeRecognizer{events: make(chan Event, 4)}
}

func (f *fakeRecognizer) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started++
	return nil
}

func (f *fakeRecognizer) Stop()                { f.stopped++ }
func (f *fakeRecognizer) Events() <-chan Event { return f.events }

func TestUnavailableController(t *testing.T) {
	c := NewController(nil)
	assert.False(t, c.Available())
	assert.Nil(t, c.Events())

	// Everything is a silent no-op without a recognizer.
	c.Start(context.Background())
	c.Stop()
	assert.Equal(t, Idle, c.State())
}

func TestStartStopCycle(t *testing.T) {
	rec := newFakeRecognizer()
	c := NewController(rec)

	c.Start(context.Background())
	assert.Equal(t, Listening, c.State())
	assert.Equal(t, 1, rec.started)

	// Second Start while listening is ignored.
	c.Start(context.Background())
	assert.Equal(t, 1, rec.started)

	c.Stop()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 1, rec.stopped)

	// Stop from Idle does nothing.
	c.Stop()
	assert.Equal(t, 1, rec.stopped)
}

func TestStartFailureEntersError(t *testing.T) {
	rec := newFakeRecognizer()
	rec.startErr = errors.New("no microphone")
	c := NewController(rec)

	c.Start(context.Background())
	assert.Equal(t, Error, c.State())

	// A later successful Start clears the error.
	rec.startErr = nil
	c.Start(context.Background())
	assert.Equal(t, Listening, c.State())
}

func TestHandleEventResult(t *testing.T) {
	c := NewController(newFakeRecognizer())
	c.Start(context.Background())

	transcript, surface := c.HandleEvent(Event{Kind: EventResult, Transcript: "hello world"})
	assert.Equal(t, "hello world", transcript)
	assert.False(t, surface)
	assert.Equal(t, Idle, c.State())
}

func TestHandleEventError(t *testing.T) {
	c := NewController(newFakeRecognizer())
	c.Start(context.Background())

	_, surface := c.HandleEvent(Event{Kind: EventError, Err: errors.New("engine crashed")})
	assert.True(t, surface, "error during listening surfaces to the user")
	assert.Equal(t, Error, c.State())

	// A straggler error after the machine already left Listening stays quiet.
	_, surface = c.HandleEvent(Event{Kind: EventError, Err: errors.New("late")})
	assert.False(t, surface)
}

func TestHandleEventEnded(t *testing.T) {
	c := NewController(newFakeRecognizer())
	c.Start(context.Background())

	_, surface := c.HandleEvent(Event{Kind: EventEnded})
	assert.False(t, surface)
	assert.Equal(t, Idle, c.State())
}

func TestCommandRecognizerResult(t *testing.T) {
	rec := NewCommandRecognizer("printf 'hello from dictation\\n'")
	c := NewController(rec)

	c.Start(context.Background())
	require.Equal(t, Listening, c.State())

	var got []Event
	deadline := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case ev := <-rec.Events():
			got = append(got, ev)
		case <-deadline:
			t.Fatalf("timed out waiting for events, have %v", got)
		}
	}
	assert.Equal(t, EventStarted, got[0].Kind)
	require.Equal(t, EventResult, got[1].Kind)
	assert.Equal(t, "hello from dictation", got[1].Transcript)
}

func TestCommandRecognizerFailure(t *testing.T) {
	rec := NewCommandRecognizer("sh -c 'echo nope >&2; exit 1'")
	require.NoError(t, rec.Start(context.Background()))

	var got []Event
	deadline := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case ev := <-rec.Events():
			got = append(got, ev)
		case <-deadline:
			t.Fatalf("timed out waiting for events, have %v", got)
		}
	}
	require.Equal(t, EventError, got[1].Kind)
	assert.Contains(t, got[1].Err.Error(), "nope")
}

func TestCommandRecognizerStop(t *testing.T) {
	rec := NewCommandRecognizer("sleep 30")
	require.NoError(t, rec.Start(context.Background()))

	<-rec.Events() // EventStarted
	rec.Stop()

	select {
	case ev := <-rec.Events():
		assert.Equal(t, EventEnded, ev.Kind, "cancelled capture ends without error")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for EventEnded")
	}
}
