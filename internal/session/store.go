// Package session tracks the known chat sessions and which one is active.
// The store is plain state with no I/O; the dashboard mutates it from its
// event loop only, so no locking is needed.
package session

import "kushl/internal/api"

// Store holds the cached session list and the active-session pointer.
// The active id may briefly point at a session absent from the cache,
// for example right after the server provisions a fresh session and
// before the next list refresh lands.
type Store struct {
	sessions []api.Session
	activeID string
}

// NewStore returns an empty store with no active session.
func NewStore() *Store {
	return &Store{}
}

// Sessions returns the cached list in server order, most recent first.
func (s *Store) Sessions() []api.Session {
	return s.sessions
}

// Len returns the number of cached sessions.
func (s *Store) Len() int {
	return len(s.sessions)
}

// ActiveID returns the active session id, or "" when none is active.
func (s *Store) ActiveID() string {
	return s.activeID
}

// Active returns the active session's cached record. ok is false when no
// session is active or the active id is not in the cache yet.
func (s *Store) Active() (api.Session, bool) {
	if s.activeID == "" {
		return api.Session{}, false
	}
	for _, sess := range s.sessions {
		if sess.ID == s.activeID {
			return sess, true
		}
	}
	return api.Session{}, false
}

// Get returns the cached session with the given id.
func (s *Store) Get(id string) (api.Session, bool) {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return api.Session{}, false
}

// Contains reports whether the cache holds a session with the given id.
func (s *Store) Contains(id string) bool {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return true
		}
	}
	return false
}

// Replace swaps in a freshly fetched session list. The active pointer is
// kept as-is even if it no longer appears in the list.
func (s *Store) Replace(list []api.Session) {
	s.sessions = list
}

// SetActive makes id the active session unconditionally.
func (s *Store) SetActive(id string) {
	s.activeID = id
}

// Select makes id the active session and reports whether anything changed.
// Re-selecting the current session is a no-op and returns false, so callers
// can skip the reload round-trip.
func (s *Store) Select(id string) bool {
	if id == s.activeID {
		return false
	}
	s.activeID = id
	return true
}

// Forget drops a session from the cache. If it was active the active
// pointer is cleared.
func (s *Store) Forget(id string) {
	for i, sess := range s.sessions {
		if sess.ID == id {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			break
		}
	}
	if s.activeID == id {
		s.activeID = ""
	}
}

// Clear empties the cache and the active pointer.
func (s *Store) Clear() {
	s.sessions = nil
	s.activeID = ""
}
