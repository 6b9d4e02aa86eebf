// Package notify keeps the queue of transient toast notifications shown in
// the dashboard's corner. Toasts expire on a fixed TTL; the dashboard polls
// Expire from a tick and re-renders when anything fell off.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// TTL is how long a toast stays on screen.
const TTL = 3 * time.Second

// Severity picks the toast's visual treatment.
type Severity int

const (
	Info Severity = iota
	Success
	Error
)

// Toast is one transient notification.
type Toast struct {
	ID        uuid.UUID
	Message   string
	Severity  Severity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Queue holds the live toasts, oldest first.
type Queue struct {
	toasts []Toast
	now    func() time.Time
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// NewQueueAt is NewQueue with an injectable clock, for tests.
func NewQueueAt(now func() time.Time) *Queue {
	return &Queue{now: now}
}

// Push adds a toast and returns it.
func (q *Queue) Push(message string, sev Severity) Toast {
	t := Toast{
		ID:        uuid.New(),
		Message:   message,
		Severity:  sev,
		CreatedAt: q.now(),
	}
	t.ExpiresAt = t.CreatedAt.Add(TTL)
	q.toasts = append(q.toasts, t)
	return t
}

// Active returns the toasts still on screen, oldest first.
func (q *Queue) Active() []Toast {
	return q.toasts
}

// Len returns the number of live toasts.
func (q *Queue) Len() int {
	return len(q.toasts)
}

// Expire drops every toast past its deadline at the given instant and
// returns how many were removed.
func (q *Queue) Expire(now time.Time) int {
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	removed := len(q.toasts) - len(kept)
	q.toasts = kept
	return removed
}
