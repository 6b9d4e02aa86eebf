package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestListSessions(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/chat/history", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"chats": []map[string]any{
				{"id": "a", "title": "First chat", "message_count": 4},
				{"id": "b", "title": "Second chat", "message_count": 1},
			},
		})
	})

	sessions, err := c.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "a", sessions[0].ID)
	assert.Equal(t, "First chat", sessions[0].Title)
	assert.Equal(t, 4, sessions[0].MessageCount)
}

func TestListSessionsCollapsesConcurrentCalls(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		json.NewEncoder(w).Encode(map[string]any{"chats": []any{}})
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ListSessions(context.Background())
			assert.NoError(t, err)
		}()
	}
	// Let the goroutines pile up on the in-flight request.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load(), "overlapping refreshes should share one request")
}

func TestCreateSession(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat/new", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "chat_id": "fresh"})
	})

	id, err := c.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", id)
}

func TestCreateSessionProtocolError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	})

	_, err := c.CreateSession(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtocol))
}

func TestSendMessage(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat/s1", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req["message"])
		json.NewEncoder(w).Encode(map[string]any{"response": "hi back"})
	})

	reply, err := c.SendMessage(context.Background(), "s1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi back", reply)
}

func TestSendMessageErrorBodyWith200(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		// A 200 whose body carries an error field and no response must be
		// treated as a failure.
		json.NewEncoder(w).Encode(map[string]any{"error": "model overloaded"})
	})

	_, err := c.SendMessage(context.Background(), "s1", "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtocol))
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestSendMessageHTTPError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.SendMessage(context.Background(), "s1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestDeleteAndClear(t *testing.T) {
	var gotDelete, gotClear bool
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/api/chat/s1":
			gotDelete = true
		case r.Method == http.MethodPost && r.URL.Path == "/api/chat/clear-all":
			gotClear = true
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	require.NoError(t, c.DeleteSession(context.Background(), "s1"))
	require.NoError(t, c.ClearAll(context.Background()))
	assert.True(t, gotDelete)
	assert.True(t, gotClear)
}

func TestLoadMessages(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat/s1/messages", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"messages": []map[string]any{
				{"role": "user", "content": "q"},
				{"role": "bot", "content": "a"},
			},
		})
	})

	messages, err := c.LoadMessages(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, RoleUser, messages[0].Role)
	assert.Equal(t, RoleBot, messages[1].Role)
}

func TestContextCancellation(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.ListSessions(ctx)
	require.Error(t, err)
}
