package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushAndActiveOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	q := NewQueueAt(func() time.Time { return now })

	first := q.Push("Chat deleted successfully", Success)
	second := q.Push("Failed to send message", Error)

	require.Equal(t, 2, q.Len())
	assert.Equal(t, first.ID, q.Active()[0].ID, "oldest first")
	assert.Equal(t, second.ID, q.Active()[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, now.Add(TTL), first.ExpiresAt)
}

func TestExpire(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	q := NewQueueAt(func() time.Time { return now })

	q.Push("old", Info)
	now = now.Add(2 * time.Second)
	q.Push("newer", Info)

	removed := q.Expire(now.Add(1*time.Second + time.Millisecond))
	assert.Equal(t, 1, removed, "only the first toast is past its TTL")
	require.Equal(t, 1, q.Len())
	assert.Equal(t, "newer", q.Active()[0].Message)

	removed = q.Expire(now.Add(TTL))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, q.Len())

	assert.Equal(t, 0, q.Expire(now.Add(time.Hour)), "expiring an empty queue is fine")
}
