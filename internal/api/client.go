// Package api implements the HTTP JSON client for the KushlBot chat server.
// All calls block and are meant to run inside tea.Cmd goroutines; results are
// delivered back into the UI event loop as typed messages.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"kushl/internal/logging"
)

// ErrProtocol marks a success-shaped response whose body is missing the
// fields the client needs. It is handled exactly like a transport failure:
// a 200 with an error body must not be trusted.
var ErrProtocol = errors.New("malformed server response")

const defaultTimeout = 30 * time.Second

// Client talks to the chat server. It is safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client

	// Collapses overlapping session-list refreshes (send completion, delete
	// and clear-all all trigger one) into a single request.
	flight singleflight.Group
}

// NewClient creates a client for the server at baseURL. A zero timeout
// selects the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// ListSessions fetches the full session list, most recently updated first.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	v, err, _ := c.flight.Do("history", func() (any, error) {
		var out historyResponse
		if err := c.get(ctx, "/api/chat/history", &out); err != nil {
			return nil, err
		}
		return out.Chats, nil
	})
	if err != nil {
		return nil, err
	}
	sessions, _ := v.([]Session)
	return sessions, nil
}

// CreateSession asks the server for a fresh session and returns its id.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var out newChatResponse
	if err := c.post(ctx, "/api/chat/new", nil, &out); err != nil {
		return "", err
	}
	if !out.Success || out.ChatID == "" {
		return "", fmt.Errorf("create session: %w", ErrProtocol)
	}
	return out.ChatID, nil
}

// LoadMessages fetches the ordered message history of one session.
func (c *Client) LoadMessages(ctx context.Context, id string) ([]Message, error) {
	var out messagesResponse
	if err := c.get(ctx, "/api/chat/"+id+"/messages", &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// SendMessage posts one user message to a session and returns the bot's
// reply. An empty or absent response field is reported as ErrProtocol even
// when the HTTP status is 200.
func (c *Client) SendMessage(ctx context.Context, id, text string) (string, error) {
	var out sendResponse
	if err := c.post(ctx, "/api/chat/"+id, sendRequest{Message: text}, &out); err != nil {
		return "", err
	}
	if out.Response == "" {
		if out.Error != "" {
			return "", fmt.Errorf("send: server error %q: %w", out.Error, ErrProtocol)
		}
		return "", fmt.Errorf("send: empty response: %w", ErrProtocol)
	}
	return out.Response, nil
}

// DeleteSession removes one session server-side.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/"+id, nil, nil)
}

// ClearAll deletes every session server-side.
func (c *Client) ClearAll(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/chat/clear-all", nil, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		logging.API("%s %s failed: %v", method, path, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	logging.APIDebug("%s %s -> %d in %v", method, path, resp.StatusCode, time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, ErrProtocol)
	}
	return nil
}
