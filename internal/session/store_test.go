package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kushl/internal/api"
)

func sessions(ids ...string) []api.Session {
	out := make([]api.Session, 0, len(ids))
	for _, id := range ids {
		out = append(out, api.Session{ID: id, Title: "Chat " + id})
	}
	return out
}

func TestEmptyStore(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.ActiveID())
	_, ok := s.Active()
	assert.False(t, ok)
}

func TestReplaceKeepsActivePointer(t *testing.T) {
	s := NewStore()
	s.Replace(sessions("a", "b"))
	s.SetActive("b")

	// A refresh that no longer carries the active session must not clear
	// the pointer; the active conversation stays on screen.
	s.Replace(sessions("a", "c"))
	assert.Equal(t, "b", s.ActiveID())
	_, ok := s.Active()
	assert.False(t, ok, "active record should be absent from cache")
	assert.False(t, s.Contains("b"))
}

func TestActiveReturnsCachedRecord(t *testing.T) {
	s := NewStore()
	s.Replace(sessions("a", "b"))
	s.SetActive("a")

	got, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, "Chat a", got.Title)
}

func TestGet(t *testing.T) {
	s := NewStore()
	s.Replace(sessions("a", "b"))

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, "Chat b", got.Title)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestSelectSameSessionIsNoop(t *testing.T) {
	s := NewStore()
	s.Replace(sessions("a"))

	assert.True(t, s.Select("a"))
	assert.False(t, s.Select("a"), "re-selecting active session must report no change")
	assert.Equal(t, "a", s.ActiveID())
}

func TestForget(t *testing.T) {
	s := NewStore()
	s.Replace(sessions("a", "b", "c"))
	s.SetActive("b")

	s.Forget("b")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "", s.ActiveID(), "forgetting the active session clears the pointer")

	s.SetActive("a")
	s.Forget("c")
	assert.Equal(t, "a", s.ActiveID(), "forgetting another session keeps the pointer")
	assert.False(t, s.Contains("c"))
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Replace(sessions("a", "b"))
	s.SetActive("a")

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.ActiveID())
}
